package postgres

import (
	"database/sql"
	"time"

	"github.com/soccerates/prediction-league/internal/domain/answer"
	"github.com/soccerates/prediction-league/internal/domain/fixture"
	"github.com/soccerates/prediction-league/internal/domain/team"
	"github.com/soccerates/prediction-league/internal/domain/tournament"
	"github.com/soccerates/prediction-league/internal/domain/user"
)

type tournamentRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	StartDate     time.Time `db:"start_date"`
	HasGroupStage bool      `db:"has_group_stage"`
}

func (r tournamentRow) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:            r.ID,
		Name:          r.Name,
		StartDate:     r.StartDate,
		HasGroupStage: r.HasGroupStage,
	}
}

type teamRow struct {
	ID           string `db:"id"`
	TournamentID string `db:"tournament_id"`
	Name         string `db:"name"`
	CountryCode  string `db:"country_code"`
	GroupName    string `db:"group_name"`

	Played       int `db:"played"`
	Won          int `db:"won"`
	Drawn        int `db:"drawn"`
	Lost         int `db:"lost"`
	GoalsFor     int `db:"goals_for"`
	GoalsAgainst int `db:"goals_against"`

	GroupPlayed       int `db:"group_played"`
	GroupWon          int `db:"group_won"`
	GroupDrawn        int `db:"group_drawn"`
	GroupLost         int `db:"group_lost"`
	GroupGoalsFor     int `db:"group_goals_for"`
	GroupGoalsAgainst int `db:"group_goals_against"`
}

func (r teamRow) toDomain() team.Team {
	return team.Team{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		Name:         r.Name,
		CountryCode:  r.CountryCode,
		Group:        r.GroupName,
		Stats: team.Stats{
			Played:       r.Played,
			Won:          r.Won,
			Drawn:        r.Drawn,
			Lost:         r.Lost,
			GoalsFor:     r.GoalsFor,
			GoalsAgainst: r.GoalsAgainst,
		},
		GroupStats: team.Stats{
			Played:       r.GroupPlayed,
			Won:          r.GroupWon,
			Drawn:        r.GroupDrawn,
			Lost:         r.GroupLost,
			GoalsFor:     r.GroupGoalsFor,
			GoalsAgainst: r.GroupGoalsAgainst,
		},
	}
}

type fixtureRow struct {
	ID           string        `db:"id"`
	TournamentID string        `db:"tournament_id"`
	Team1ID      string        `db:"team1_id"`
	Team2ID      string        `db:"team2_id"`
	GroupName    string        `db:"group_name"`
	Stage        string        `db:"stage"`
	MatchDate    time.Time     `db:"match_date"`
	Team1Goals   sql.NullInt64 `db:"team1_goals"`
	Team2Goals   sql.NullInt64 `db:"team2_goals"`
	ExtraTime    bool          `db:"extra_time"`
	Penalties    bool          `db:"penalties"`
}

func (r fixtureRow) toDomain() fixture.Fixture {
	fx := fixture.Fixture{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		Group:        r.GroupName,
		Stage:        r.Stage,
		MatchDate:    r.MatchDate,
		ExtraTime:    r.ExtraTime,
		Penalties:    r.Penalties,
	}
	if r.Team1Goals.Valid {
		g := int(r.Team1Goals.Int64)
		fx.Team1Goals = &g
	}
	if r.Team2Goals.Valid {
		g := int(r.Team2Goals.Int64)
		fx.Team2Goals = &g
	}
	return fx
}

func nullGoals(goals *int) sql.NullInt64 {
	if goals == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*goals), Valid: true}
}

type answerRow struct {
	UserID      string        `db:"user_id"`
	FixtureID   string        `db:"fixture_id"`
	Team1Goals  int           `db:"team1_goals"`
	Team2Goals  int           `db:"team2_goals"`
	ExtraTime   bool          `db:"extra_time"`
	Penalties   bool          `db:"penalties"`
	Points      sql.NullInt64 `db:"points"`
	PointsAdded bool          `db:"points_added"`
}

func (r answerRow) toDomain() answer.Answer {
	ans := answer.Answer{
		UserID:      r.UserID,
		FixtureID:   r.FixtureID,
		Team1Goals:  r.Team1Goals,
		Team2Goals:  r.Team2Goals,
		ExtraTime:   r.ExtraTime,
		Penalties:   r.Penalties,
		PointsAdded: r.PointsAdded,
	}
	if r.Points.Valid {
		p := int(r.Points.Int64)
		ans.Points = &p
	}
	return ans
}

type profileRow struct {
	UserID   string `db:"user_id"`
	Username string `db:"username"`
	Points   int    `db:"points"`
}

func (r profileRow) toDomain() user.Profile {
	return user.Profile{UserID: r.UserID, Username: r.Username, Points: r.Points}
}

type tournamentPointsRow struct {
	UserID       string `db:"user_id"`
	TournamentID string `db:"tournament_id"`
	Points       int    `db:"points"`
}

func (r tournamentPointsRow) toDomain() user.TournamentPoints {
	return user.TournamentPoints{
		UserID:       r.UserID,
		TournamentID: r.TournamentID,
		Points:       r.Points,
	}
}
