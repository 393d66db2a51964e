package scoring

// Point values for the prediction accuracy rules.
const (
	PointsExactScore     = 5
	PointsCorrectOutcome = 2
	PointsGoalMetric     = 1
	PointsFlagRight      = 2
	PointsFlagWrong      = -1
)

// Prediction is a user's answer projected into scoring inputs. ExtraTime and
// Penalties are the user's calls on how a knockout match will finish.
type Prediction struct {
	Team1Goals int
	Team2Goals int
	ExtraTime  bool
	Penalties  bool
}

// Result is a fixture's recorded outcome projected into scoring inputs.
// Knockout enables the extra-time/penalty adjustment; group-stage fixtures
// never apply it.
type Result struct {
	Team1Goals int
	Team2Goals int
	ExtraTime  bool
	Penalties  bool
	Knockout   bool
}

type outcome int

const (
	outcomeDraw outcome = iota
	outcomeTeam1Win
	outcomeTeam2Win
)

func outcomeOf(goals1, goals2 int) outcome {
	switch {
	case goals1 > goals2:
		return outcomeTeam1Win
	case goals1 < goals2:
		return outcomeTeam2Win
	default:
		return outcomeDraw
	}
}

// Score computes the points a prediction earns against a result.
//
// An exact scoreline match is worth 5 and terminal: no other rule applies,
// including the knockout adjustment. Otherwise the prediction accumulates 2
// for the correct outcome and 1 if either the total-goals sum or the goal
// difference matches (never both, or the scoreline would have been exact),
// then the extra-time and penalty calls adjust knockout fixtures by +2 when
// right and -1 when wrong. Only that adjustment can take the total negative.
func Score(pred Prediction, res Result) int {
	if pred.Team1Goals == res.Team1Goals && pred.Team2Goals == res.Team2Goals {
		return PointsExactScore
	}

	points := 0
	if outcomeOf(pred.Team1Goals, pred.Team2Goals) == outcomeOf(res.Team1Goals, res.Team2Goals) {
		points += PointsCorrectOutcome
	}

	totalMatch := pred.Team1Goals+pred.Team2Goals == res.Team1Goals+res.Team2Goals
	diffMatch := pred.Team1Goals-pred.Team2Goals == res.Team1Goals-res.Team2Goals
	if totalMatch || diffMatch {
		points += PointsGoalMetric
	}

	if res.Knockout {
		points += flagPoints(pred.ExtraTime, res.ExtraTime)
		points += flagPoints(pred.Penalties, res.Penalties)
	}

	return points
}

func flagPoints(predicted, actual bool) int {
	if !predicted {
		return 0
	}
	if actual {
		return PointsFlagRight
	}
	return PointsFlagWrong
}
