package leaderboardintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboardservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/application"
	leaderboardevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
	"github.com/Black-And-White-Club/sudoku-leaderboard/integration_tests/testutils"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

type TestDeps struct {
	Ctx     context.Context
	Scoring *testutils.FakeScoringService
	Client  *scoringapi.Client
	Capture *testutils.MessageCapture
	Service leaderboardservice.Service
}

func SetupTestLeaderboardService(t *testing.T) TestDeps {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scoring := testutils.NewFakeScoringService(t)
	client := scoringapi.NewClient(scoringapi.Config{BaseURL: scoring.URL}, testLogger, observability.NoOpMetrics{})

	bus := eventbus.NewEventBus(testLogger, 16)
	capture := testutils.NewMessageCapture()
	if err := capture.Subscribe(ctx, bus, leaderboardevents.LeaderboardFetchedTopic); err != nil {
		t.Fatalf("Failed to subscribe capture: %v", err)
	}

	service := leaderboardservice.NewLeaderboardService(
		client,
		bus,
		testLogger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test_leaderboard_service"),
	)

	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	return TestDeps{
		Ctx:     ctx,
		Scoring: scoring,
		Client:  client,
		Capture: capture,
		Service: service,
	}
}
