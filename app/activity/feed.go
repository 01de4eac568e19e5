// Package activity keeps a short in-memory history of what this process has
// submitted and fetched.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboardevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain/events"
	scoreevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain/events"
)

// DefaultCapacity is the number of events kept when none is configured.
const DefaultCapacity = 20

// Event is one line of the activity feed.
type Event struct {
	Topic   string
	Summary string
	At      time.Time
}

// Feed is a bounded, newest-first list of events.
type Feed struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	logger   *slog.Logger
}

// NewFeed creates an empty feed holding at most capacity events.
func NewFeed(capacity int, logger *slog.Logger) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, logger: logger}
}

// Subscribe attaches the feed to the submission and leaderboard topics.
func (f *Feed) Subscribe(ctx context.Context, bus eventbus.EventBus) error {
	if err := bus.Subscribe(ctx, scoreevents.ScoreSubmittedTopic, f.handleScoreSubmitted); err != nil {
		return err
	}
	return bus.Subscribe(ctx, leaderboardevents.LeaderboardFetchedTopic, f.handleLeaderboardFetched)
}

// Recent returns a copy of the feed, newest first.
func (f *Feed) Recent() []Event {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *Feed) add(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append([]Event{e}, f.events...)
	if len(f.events) > f.capacity {
		f.events = f.events[:f.capacity]
	}
}

func (f *Feed) handleScoreSubmitted(ctx context.Context, msg *message.Message) error {
	payload, err := eventbus.Decode[scoreevents.ScoreSubmittedPayload](msg)
	if err != nil {
		return err
	}

	f.add(Event{
		Topic:   scoreevents.ScoreSubmittedTopic,
		Summary: fmt.Sprintf("%s submitted %g on %s", payload.Name, payload.Time, payload.Level),
		At:      payload.SubmittedAt,
	})
	f.logger.DebugContext(ctx, "Activity recorded", slog.String("topic", scoreevents.ScoreSubmittedTopic))
	return nil
}

func (f *Feed) handleLeaderboardFetched(ctx context.Context, msg *message.Message) error {
	payload, err := eventbus.Decode[leaderboardevents.LeaderboardFetchedPayload](msg)
	if err != nil {
		return err
	}

	f.add(Event{
		Topic:   leaderboardevents.LeaderboardFetchedTopic,
		Summary: fmt.Sprintf("Leaderboard fetched with %d players", payload.Entries),
		At:      payload.FetchedAt,
	})
	f.logger.DebugContext(ctx, "Activity recorded", slog.String("topic", leaderboardevents.LeaderboardFetchedTopic))
	return nil
}
