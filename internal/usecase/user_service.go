package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/user"
	"github.com/soccerates/prediction-league/internal/platform/logging"
)

// RankedUser is one leaderboard line. Users on the same total share a rank,
// and the next distinct total takes the following rank number.
type RankedUser struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// UserAverages summarizes a user's scoring record.
type UserAverages struct {
	TotalPoints   int     `json:"totalPoints"`
	AnswersScored int     `json:"answersScored"`
	AveragePoints float64 `json:"averagePoints"`
}

type UserService struct {
	users   user.Repository
	answers answer.Repository
	logger  *logging.Logger
}

func NewUserService(users user.Repository, answers answer.Repository, logger *logging.Logger) *UserService {
	return &UserService{users: users, answers: answers, logger: logger}
}

// Register creates a user's profile. Registration and profile creation are
// one operation, so a user without a profile cannot exist.
func (s *UserService) Register(ctx context.Context, userID, username string) (user.Profile, error) {
	profile := user.Profile{UserID: strings.TrimSpace(userID), Username: strings.TrimSpace(username)}
	if err := profile.Validate(); err != nil {
		return user.Profile{}, errors.Wrap(ErrInvalidInput, err.Error())
	}

	if _, found, err := s.users.GetProfile(ctx, profile.UserID); err != nil {
		return user.Profile{}, errors.Wrap(err, "check existing profile")
	} else if found {
		return user.Profile{}, errors.Wrapf(ErrInvalidInput, "user %s already registered", profile.UserID)
	}

	if err := s.users.CreateProfile(ctx, profile); err != nil {
		return user.Profile{}, errors.Wrap(err, "create profile")
	}

	s.logger.InfoContext(ctx, "user registered", "userID", profile.UserID)
	return profile, nil
}

// Leaderboard returns every profile ranked by total points. Equal totals
// share a rank.
func (s *UserService) Leaderboard(ctx context.Context) ([]RankedUser, error) {
	profiles, err := s.users.ListProfiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list profiles")
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Points != profiles[j].Points {
			return profiles[i].Points > profiles[j].Points
		}
		return profiles[i].Username < profiles[j].Username
	})

	ranked := make([]RankedUser, 0, len(profiles))
	rank := 0
	for i, p := range profiles {
		if i == 0 || p.Points != profiles[i-1].Points {
			rank++
		}
		ranked = append(ranked, RankedUser{
			Rank:     rank,
			UserID:   p.UserID,
			Username: p.Username,
			Points:   p.Points,
		})
	}

	return ranked, nil
}

// Averages reports a user's total alongside the mean points per scored
// answer. Unscored answers do not count toward the mean.
func (s *UserService) Averages(ctx context.Context, userID string) (UserAverages, error) {
	profile, found, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return UserAverages{}, errors.Wrap(err, "load profile")
	}
	if !found {
		return UserAverages{}, errors.Wrapf(ErrNotFound, "user %s", userID)
	}

	answers, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return UserAverages{}, errors.Wrap(err, "list answers")
	}

	scored := 0
	for _, ans := range answers {
		if ans.PointsAdded {
			scored++
		}
	}

	out := UserAverages{TotalPoints: profile.Points, AnswersScored: scored}
	if scored > 0 {
		out.AveragePoints = float64(profile.Points) / float64(scored)
	}
	return out, nil
}

// TournamentBreakdown returns the user's per-tournament subtotals.
func (s *UserService) TournamentBreakdown(ctx context.Context, userID string) ([]user.TournamentPoints, error) {
	if _, found, err := s.users.GetProfile(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "load profile")
	} else if !found {
		return nil, errors.Wrapf(ErrNotFound, "user %s", userID)
	}

	subtotals, err := s.users.ListTournamentPointsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list tournament points")
	}
	return subtotals, nil
}
