package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/shared/results"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

// LeaderboardService fetches and normalizes the remote leaderboard.
type LeaderboardService struct {
	client   LeaderboardClient
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewLeaderboardService creates a new LeaderboardService. eventBus may be nil.
func NewLeaderboardService(
	client LeaderboardClient,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *LeaderboardService {
	return &LeaderboardService{
		client:   client,
		eventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		now:      time.Now,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered", slog.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", slog.Any("error", err))
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			slog.String("operation", operationName),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// FetchLeaderboard retrieves the leaderboard and normalizes it into entries in
// payload order. A non-2xx status or a non-JSON body is a failure result; an
// unreachable service is an error.
func (s *LeaderboardService) FetchLeaderboard(ctx context.Context) (results.OperationResult[Board, FetchFailure], error) {
	return withTelemetry(s, ctx, "FetchLeaderboard", func(ctx context.Context) (results.OperationResult[Board, FetchFailure], error) {
		raw, err := s.client.FetchLeaderboard(ctx)
		if err != nil {
			var httpErr *scoringapi.HTTPError
			switch {
			case errors.As(err, &httpErr):
				return results.FailureResult[Board](FetchFailure{
					StatusCode: httpErr.StatusCode,
					Reason:     httpErr.Error(),
				}), nil
			case errors.Is(err, scoringapi.ErrMalformedBody):
				return results.FailureResult[Board](FetchFailure{Reason: err.Error()}), nil
			default:
				return results.OperationResult[Board, FetchFailure]{}, err
			}
		}

		payload := leaderboarddomain.DetectShape(raw)
		board := Board{
			Shape:     payload.Shape,
			Entries:   payload.Entries(),
			FetchedAt: s.now(),
		}

		s.logger.DebugContext(ctx, "Leaderboard normalized",
			slog.String("shape", board.Shape.String()),
			slog.Int("entries", len(board.Entries)),
		)

		s.publishFetched(ctx, board)
		return results.SuccessResult[Board, FetchFailure](board), nil
	})
}

// publishFetched announces a fetched board. Publishing is best effort.
func (s *LeaderboardService) publishFetched(ctx context.Context, board Board) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(ctx, leaderboardevents.LeaderboardFetchedTopic, leaderboardevents.LeaderboardFetchedPayload{
		Shape:     board.Shape.String(),
		Entries:   len(board.Entries),
		FetchedAt: board.FetchedAt,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish leaderboard event", slog.Any("error", err))
	}
}
