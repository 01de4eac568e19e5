package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/session"
	"github.com/Black-And-White-Club/sudoku-leaderboard/config"
	"github.com/Black-And-White-Club/sudoku-leaderboard/integration_tests/testutils"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Scoring.BaseURL = baseURL
	cfg.HTTP.Address = "127.0.0.1:0"
	cfg.Observability.LogLevel = "error"
	return cfg
}

func TestNewApp_RejectsUnknownDefaultSort(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Leaderboard.DefaultSort = "fastest"

	_, err := NewApp(context.Background(), cfg, io.Discard)
	assert.ErrorIs(t, err, leaderboarddomain.ErrUnknownStatKey)
}

func TestNewApp_SessionUsesConfiguredSort(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	cfg := testConfig(fake.URL)
	cfg.Leaderboard.DefaultSort = "hard_avg"

	application, err := NewApp(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	assert.NotNil(t, application.Observability.Registry)

	sess := application.NewSession(session.NotifierFunc(func(context.Context, string) {}))
	assert.Equal(t, leaderboarddomain.HardAvg, sess.Snapshot().SortBy)

	sess.EditName("ann")
	sess.EditTime("40")
	require.True(t, sess.Submit(context.Background()))

	assert.Eventually(t, func() bool { return len(application.Feed.Recent()) == 2 }, time.Second, 5*time.Millisecond)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	application, err := NewApp(context.Background(), testConfig(fake.URL), io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestStart_ReportsListenError(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	cfg := testConfig(fake.URL)
	cfg.HTTP.Address = "256.0.0.1:99999"

	application, err := NewApp(context.Background(), cfg, io.Discard)
	require.NoError(t, err)

	err = application.Start(context.Background())
	assert.ErrorContains(t, err, "ListenAndServe()")
}
