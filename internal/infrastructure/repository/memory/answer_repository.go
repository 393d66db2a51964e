package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/soccerates/prediction-league/internal/domain/answer"
)

type answerKey struct {
	userID    string
	fixtureID string
}

type AnswerRepository struct {
	mu      sync.RWMutex
	answers map[answerKey]answer.Answer
}

func NewAnswerRepository() *AnswerRepository {
	return &AnswerRepository{answers: make(map[answerKey]answer.Answer)}
}

func (r *AnswerRepository) GetByUserAndFixture(_ context.Context, userID, fixtureID string) (answer.Answer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ans, ok := r.answers[answerKey{userID, fixtureID}]
	return cloneAnswer(ans), ok, nil
}

func (r *AnswerRepository) ListByFixture(_ context.Context, fixtureID string) ([]answer.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []answer.Answer
	for _, ans := range r.answers {
		if ans.FixtureID == fixtureID {
			out = append(out, cloneAnswer(ans))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *AnswerRepository) ListByUser(_ context.Context, userID string) ([]answer.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []answer.Answer
	for _, ans := range r.answers {
		if ans.UserID == userID {
			out = append(out, cloneAnswer(ans))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FixtureID < out[j].FixtureID })
	return out, nil
}

// UpsertPrediction writes the prediction fields only. Scoring state stored
// on an existing row always survives the edit.
func (r *AnswerRepository) UpsertPrediction(_ context.Context, ans answer.Answer) error {
	if err := ans.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := answerKey{ans.UserID, ans.FixtureID}
	if prev, ok := r.answers[key]; ok {
		ans.Points = prev.Points
		ans.PointsAdded = prev.PointsAdded
	} else {
		ans.Points = nil
		ans.PointsAdded = false
	}
	r.answers[key] = ans
	return nil
}

func (r *AnswerRepository) SetPoints(_ context.Context, userID, fixtureID string, points *int, added bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := answerKey{userID, fixtureID}
	ans, ok := r.answers[key]
	if !ok {
		return errors.Newf("answer (%s, %s) not found", userID, fixtureID)
	}

	if points != nil {
		p := *points
		points = &p
	}
	ans.Points = points
	ans.PointsAdded = added
	r.answers[key] = ans
	return nil
}

func cloneAnswer(ans answer.Answer) answer.Answer {
	if ans.Points != nil {
		p := *ans.Points
		ans.Points = &p
	}
	return ans
}
