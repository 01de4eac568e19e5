package activity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboardevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain/events"
	scoreevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain/events"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFeed_RecordsPublishedEvents(t *testing.T) {
	logger := discardLogger()
	bus := eventbus.NewEventBus(logger, 16)
	t.Cleanup(func() { _ = bus.Close() })

	feed := NewFeed(10, logger)
	require.NoError(t, feed.Subscribe(context.Background(), bus))

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(context.Background(), scoreevents.ScoreSubmittedTopic, scoreevents.ScoreSubmittedPayload{
		Name: "Alice", Time: 95, Level: "easy", SubmittedAt: at,
	}))

	assert.Eventually(t, func() bool { return len(feed.Recent()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), leaderboardevents.LeaderboardFetchedTopic, leaderboardevents.LeaderboardFetchedPayload{
		Entries: 3, FetchedAt: at.Add(time.Minute),
	}))

	assert.Eventually(t, func() bool { return len(feed.Recent()) == 2 }, time.Second, 5*time.Millisecond)

	recent := feed.Recent()
	assert.Equal(t, leaderboardevents.LeaderboardFetchedTopic, recent[0].Topic)
	assert.Equal(t, "Leaderboard fetched with 3 players", recent[0].Summary)
	assert.Equal(t, "Alice submitted 95 on easy", recent[1].Summary)
	assert.Equal(t, at, recent[1].At)
}

func TestFeed_Capacity(t *testing.T) {
	feed := NewFeed(2, discardLogger())
	for i := 0; i < 5; i++ {
		feed.add(Event{Topic: "t", Summary: string(rune('a' + i))})
	}

	recent := feed.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "e", recent[0].Summary)
	assert.Equal(t, "d", recent[1].Summary)
}

func TestNewFeed_DefaultCapacity(t *testing.T) {
	feed := NewFeed(0, discardLogger())
	assert.Equal(t, DefaultCapacity, feed.capacity)
}
