package scoreservice

import (
	"context"
	"encoding/json"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
)

// ------------------------
// Fake Score Client
// ------------------------

// FakeScoreClient provides a programmable stub for ScoreClient.
type FakeScoreClient struct {
	SubmitScoreFunc func(ctx context.Context, submission scoredomain.ScoreSubmission) (json.RawMessage, error)
	Submitted       []scoredomain.ScoreSubmission
}

func (f *FakeScoreClient) SubmitScore(ctx context.Context, submission scoredomain.ScoreSubmission) (json.RawMessage, error) {
	f.Submitted = append(f.Submitted, submission)
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, submission)
	}
	return json.RawMessage(`{}`), nil
}

// ------------------------
// Fake Event Bus
// ------------------------

// FakeEventBus records published payloads.
type FakeEventBus struct {
	Topics   []string
	Payloads []any
}

func (f *FakeEventBus) Publish(_ context.Context, topic string, payload any) error {
	f.Topics = append(f.Topics, topic)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakeEventBus) Subscribe(context.Context, string, eventbus.Handler) error { return nil }

func (f *FakeEventBus) Close() error { return nil }

var (
	_ ScoreClient       = (*FakeScoreClient)(nil)
	_ eventbus.EventBus = (*FakeEventBus)(nil)
)
