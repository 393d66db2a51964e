package app

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/config"
	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/infrastructure/repository/memory"
	"github.com/soccerates/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/soccerates/prediction-league/internal/interfaces/httpapi"
	"github.com/soccerates/prediction-league/internal/platform/cache"
	"github.com/soccerates/prediction-league/internal/platform/logging"
	"github.com/soccerates/prediction-league/internal/usecase"
)

type repositories struct {
	tournaments tournament.Repository
	teams       team.Repository
	fixtures    fixture.Repository
	answers     answer.Repository
	users       user.Repository
}

// Services bundles the constructed use cases so cmd/api can reach the ones
// it drives outside the HTTP surface, such as the periodic audit.
type Services struct {
	Audit *usecase.AuditService
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, *Services, error) {
	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := cache.NewDisabled()
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	statsService := usecase.NewTeamStatsService(repos.teams, logger)
	ledgerService := usecase.NewLedgerService(repos.answers, repos.users, logger)
	resultService := usecase.NewResultService(repos.fixtures, repos.answers, statsService, ledgerService, store, logger)
	predictionService := usecase.NewPredictionService(repos.answers, repos.fixtures, cfg.PredictionCutoff, logger)
	standingsService := usecase.NewStandingsService(repos.teams, repos.tournaments, store, logger)
	userService := usecase.NewUserService(repos.users, repos.answers, logger)
	auditService := usecase.NewAuditService(repos.fixtures, repos.answers, repos.teams, repos.users, cfg.AuditMaxWorkers, logger)

	handler := httpapi.NewHandler(
		resultService,
		predictionService,
		standingsService,
		userService,
		auditService,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, errors.New("http server addr cannot be empty")
	}

	return server, &Services{Audit: auditService}, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		tournamentRepo := memory.NewTournamentRepository()
		teamRepo := memory.NewTeamRepository()
		fixtureRepo := memory.NewFixtureRepository()

		if cfg.SeedEnabled {
			if err := memory.Seed(ctx, tournamentRepo, teamRepo, fixtureRepo); err != nil {
				return repositories{}, errors.Wrap(err, "seed in-memory repositories")
			}
			logger.InfoContext(ctx, "seeded in-memory repositories")
		}

		return repositories{
			tournaments: tournamentRepo,
			teams:       teamRepo,
			fixtures:    fixtureRepo,
			answers:     memory.NewAnswerRepository(),
			users:       memory.NewUserRepository(),
		}, nil
	}

	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return repositories{}, err
	}

	return repositories{
		tournaments: postgres.NewTournamentRepository(db),
		teams:       postgres.NewTeamRepository(db),
		fixtures:    postgres.NewFixtureRepository(db),
		answers:     postgres.NewAnswerRepository(db),
		users:       postgres.NewUserRepository(db),
	}, nil
}
