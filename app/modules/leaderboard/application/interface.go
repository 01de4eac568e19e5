package leaderboardservice

import (
	"context"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/shared/results"
)

// LeaderboardClient is the part of the scoring client the leaderboard needs.
type LeaderboardClient interface {
	FetchLeaderboard(ctx context.Context) ([]byte, error)
}

// Service defines the interface for leaderboard operations.
type Service interface {
	FetchLeaderboard(ctx context.Context) (results.OperationResult[Board, FetchFailure], error)
}
