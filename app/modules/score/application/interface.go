package scoreservice

import (
	"context"
	"encoding/json"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/shared/results"
)

// ScoreClient is the part of the scoring client submissions need.
type ScoreClient interface {
	SubmitScore(ctx context.Context, submission scoredomain.ScoreSubmission) (json.RawMessage, error)
}

// Service defines the interface for the ScoreService.
type Service interface {
	// SubmitScore validates form input and sends it. Validation problems and
	// service rejections are failure results; an unreachable service is an error.
	SubmitScore(ctx context.Context, input scoredomain.FormInput) (results.OperationResult[Accepted, Rejected], error)
}
