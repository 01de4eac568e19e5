package leaderboardservice

import (
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
)

// Board is a normalized leaderboard as fetched, before any sorting.
type Board struct {
	Shape     leaderboarddomain.Shape
	Entries   []leaderboarddomain.PlayerEntry
	FetchedAt time.Time
}

// Ranked returns the board's entries ordered by key.
func (b Board) Ranked(key leaderboarddomain.StatKey) []leaderboarddomain.PlayerEntry {
	return leaderboarddomain.Rank(b.Entries, key)
}

// FetchFailure describes a leaderboard response that could not be used.
type FetchFailure struct {
	// StatusCode is zero when the status was 2xx but the body was unusable.
	StatusCode int
	Reason     string
}
