package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	scoreevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain/events"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/shared/results"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

// ScoreService implements the Service interface.
type ScoreService struct {
	client   ScoreClient
	eventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  observability.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewScoreService creates a new ScoreService. eventBus may be nil.
func NewScoreService(
	client ScoreClient,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
) *ScoreService {
	return &ScoreService{
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
	s *ScoreService,
	ctx context.Context,
	operationName string,
	level scoredomain.Level,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("level", string(level)),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		slog.String("operation", operationName),
		slog.String("level", string(level)),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("level", string(level)),
				slog.Any("error", err),
			)
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
			slog.String("level", string(level)),
			slog.Any("error", wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("level", string(level)),
			slog.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			slog.String("operation", operationName),
			slog.String("level", string(level)),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// SubmitScore validates input, sends it, and announces accepted submissions.
func (s *ScoreService) SubmitScore(ctx context.Context, input scoredomain.FormInput) (results.OperationResult[Accepted, Rejected], error) {
	return withTelemetry(s, ctx, "SubmitScore", input.Level, func(ctx context.Context) (results.OperationResult[Accepted, Rejected], error) {
		submission, err := scoredomain.BuildSubmission(input)
		if err != nil {
			var vErr *scoredomain.ValidationError
			if errors.As(err, &vErr) {
				return results.FailureResult[Accepted](Rejected{
					Reason:  RejectedByValidation,
					Message: vErr.Message,
				}), nil
			}
			return results.OperationResult[Accepted, Rejected]{}, err
		}

		s.logger.DebugContext(ctx, "Submitting score",
			slog.String("name", submission.Name),
			slog.Float64("time", submission.Time),
			slog.String("adjusted_time", submission.AdjustedTime.String()),
		)

		record, err := s.client.SubmitScore(ctx, submission.ScoreSubmission)
		if err != nil {
			var httpErr *scoringapi.HTTPError
			if errors.As(err, &httpErr) {
				return results.FailureResult[Accepted](Rejected{
					Reason:     RejectedByService,
					Message:    httpErr.ServiceMessage(SubmitErrorMessage),
					StatusCode: httpErr.StatusCode,
				}), nil
			}
			if errors.Is(err, scoringapi.ErrMalformedBody) {
				return results.FailureResult[Accepted](Rejected{
					Reason:  RejectedByService,
					Message: SubmitErrorMessage,
				}), nil
			}
			return results.OperationResult[Accepted, Rejected]{}, err
		}

		s.publishSubmitted(ctx, submission)
		return results.SuccessResult[Accepted, Rejected](Accepted{
			Submission: submission,
			Record:     record,
		}), nil
	})
}

// publishSubmitted announces an accepted submission. Publishing is best effort.
func (s *ScoreService) publishSubmitted(ctx context.Context, submission scoredomain.Submission) {
	if s.eventBus == nil {
		return
	}
	err := s.eventBus.Publish(ctx, scoreevents.ScoreSubmittedTopic, scoreevents.ScoreSubmittedPayload{
		Name:         submission.Name,
		Time:         submission.Time,
		Level:        string(submission.Level),
		AdjustedTime: submission.AdjustedTime.String(),
		SubmittedAt:  s.now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish score event", slog.Any("error", err))
	}
}
