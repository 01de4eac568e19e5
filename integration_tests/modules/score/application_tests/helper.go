package scoreintegrationtests

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	scoreservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/application"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
	"github.com/Black-And-White-Club/sudoku-leaderboard/integration_tests/testutils"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

type TestDeps struct {
	Ctx      context.Context
	Scoring  *testutils.FakeScoringService
	EventBus eventbus.EventBus
	Capture  *testutils.MessageCapture
	Service  scoreservice.Service
}

func SetupTestScoreService(t *testing.T, topics ...string) TestDeps {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	scoring := testutils.NewFakeScoringService(t)
	client := scoringapi.NewClient(scoringapi.Config{BaseURL: scoring.URL}, testLogger, observability.NoOpMetrics{})

	bus := eventbus.NewEventBus(testLogger, 16)
	capture := testutils.NewMessageCapture()
	if err := capture.Subscribe(ctx, bus, topics...); err != nil {
		t.Fatalf("Failed to subscribe capture: %v", err)
	}

	service := scoreservice.NewScoreService(
		client,
		bus,
		testLogger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test_score_service"),
	)

	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})

	return TestDeps{
		Ctx:      ctx,
		Scoring:  scoring,
		EventBus: bus,
		Capture:  capture,
		Service:  service,
	}
}
