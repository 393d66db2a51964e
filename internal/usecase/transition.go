package usecase

import "github.com/soccerates/prediction-league/internal/domain/fixture"

// Transition classifies what changed between the stored fixture and an
// incoming save.
type Transition int

const (
	// TransitionNoOp means neither version carries a result, or both carry
	// the same result with the same extra time and penalty flags.
	TransitionNoOp Transition = iota

	// TransitionResultAdded means the stored fixture had no result and the
	// incoming one does.
	TransitionResultAdded

	// TransitionResultRemoved means the stored fixture had a result and the
	// incoming one clears it.
	TransitionResultRemoved

	// TransitionResultUpdated means both versions carry a result but they
	// differ in goals or flags.
	TransitionResultUpdated
)

func (t Transition) String() string {
	switch t {
	case TransitionNoOp:
		return "no_op"
	case TransitionResultAdded:
		return "result_added"
	case TransitionResultRemoved:
		return "result_removed"
	case TransitionResultUpdated:
		return "result_updated"
	default:
		return "unknown"
	}
}

// DetectTransition compares the previously stored fixture against the
// incoming one. prev may be nil for fixtures being created.
func DetectTransition(prev, next *fixture.Fixture) Transition {
	prevHas := prev != nil && prev.ResultAvailable()
	nextHas := next.ResultAvailable()

	switch {
	case !prevHas && !nextHas:
		return TransitionNoOp
	case !prevHas && nextHas:
		return TransitionResultAdded
	case prevHas && !nextHas:
		return TransitionResultRemoved
	case prev.SameResult(*next):
		return TransitionNoOp
	default:
		return TransitionResultUpdated
	}
}
