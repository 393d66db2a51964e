package memory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
)

const seedTournamentID = "wc2018"

var seedGroups = map[string][][2]string{
	"A": {{"rus", "Russia"}, {"sau", "Saudi Arabia"}, {"egy", "Egypt"}, {"uru", "Uruguay"}},
	"B": {{"por", "Portugal"}, {"esp", "Spain"}, {"mar", "Morocco"}, {"irn", "Iran"}},
	"C": {{"fra", "France"}, {"aus", "Australia"}, {"per", "Peru"}, {"den", "Denmark"}},
	"D": {{"arg", "Argentina"}, {"isl", "Iceland"}, {"cro", "Croatia"}, {"nga", "Nigeria"}},
	"E": {{"bra", "Brazil"}, {"sui", "Switzerland"}, {"crc", "Costa Rica"}, {"srb", "Serbia"}},
	"F": {{"ger", "Germany"}, {"mex", "Mexico"}, {"swe", "Sweden"}, {"kor", "South Korea"}},
	"G": {{"bel", "Belgium"}, {"pan", "Panama"}, {"tun", "Tunisia"}, {"eng", "England"}},
	"H": {{"pol", "Poland"}, {"sen", "Senegal"}, {"col", "Colombia"}, {"jpn", "Japan"}},
}

// Seed loads the 2018 World Cup reference data: the tournament, all 32
// teams with zeroed counters, and a full group-stage fixture list.
func Seed(
	ctx context.Context,
	tournaments *TournamentRepository,
	teams *TeamRepository,
	fixtures *FixtureRepository,
) error {
	start := time.Date(2018, 6, 14, 0, 0, 0, 0, time.UTC)

	err := tournaments.Put(ctx, tournament.Tournament{
		ID:            seedTournamentID,
		Name:          "World Cup 2018",
		StartDate:     start,
		HasGroupStage: true,
	})
	if err != nil {
		return errors.Wrap(err, "seed tournament")
	}

	for group, members := range seedGroups {
		for _, member := range members {
			err := teams.Put(ctx, team.Team{
				ID:           member[0],
				TournamentID: seedTournamentID,
				Name:         member[1],
				CountryCode:  member[0],
				Group:        group,
			})
			if err != nil {
				return errors.Wrapf(err, "seed team %s", member[0])
			}
		}
	}

	// Each group plays a round-robin: every pair meets once.
	kickoff := start.Add(15 * time.Hour)
	for _, group := range team.GroupNames {
		members := seedGroups[group]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				fx := fixture.Fixture{
					ID:           "wc2018-" + members[i][0] + "-" + members[j][0],
					TournamentID: seedTournamentID,
					Team1ID:      members[i][0],
					Team2ID:      members[j][0],
					Group:        group,
					Stage:        fixture.StageGroup,
					MatchDate:    kickoff,
				}
				if err := fixtures.Save(ctx, fx); err != nil {
					return errors.Wrapf(err, "seed fixture %s", fx.ID)
				}
				kickoff = kickoff.Add(24 * time.Hour)
			}
		}
	}

	return nil
}
