package leaderboardservice

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
)

// ------------------------
// Fake Leaderboard Client
// ------------------------

// FakeLeaderboardClient provides a programmable stub for LeaderboardClient.
type FakeLeaderboardClient struct {
	FetchLeaderboardFunc func(ctx context.Context) ([]byte, error)
	calls                int
}

func (f *FakeLeaderboardClient) FetchLeaderboard(ctx context.Context) ([]byte, error) {
	f.calls++
	if f.FetchLeaderboardFunc != nil {
		return f.FetchLeaderboardFunc(ctx)
	}
	return []byte("[]"), nil
}

// ------------------------
// Fake Event Bus
// ------------------------

type publishedEvent struct {
	Topic   string
	Payload any
}

// FakeEventBus records published payloads instead of delivering them.
type FakeEventBus struct {
	mu          sync.Mutex
	Published   []publishedEvent
	PublishFunc func(ctx context.Context, topic string, payload any) error
}

func (f *FakeEventBus) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	f.Published = append(f.Published, publishedEvent{Topic: topic, Payload: payload})
	f.mu.Unlock()
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, topic, payload)
	}
	return nil
}

func (f *FakeEventBus) Subscribe(context.Context, string, eventbus.Handler) error { return nil }

func (f *FakeEventBus) Close() error { return nil }

// Ensure the fakes satisfy the interfaces
var (
	_ LeaderboardClient = (*FakeLeaderboardClient)(nil)
	_ eventbus.EventBus = (*FakeEventBus)(nil)
)
