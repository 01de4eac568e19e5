package leaderboardevents

import "time"

// LeaderboardFetchedTopic is published after a leaderboard has been fetched and normalized.
const LeaderboardFetchedTopic = "leaderboard.fetched"

// LeaderboardFetchedPayload summarizes a fetched leaderboard.
type LeaderboardFetchedPayload struct {
	Shape     string    `json:"shape"`
	Entries   int       `json:"entries"`
	FetchedAt time.Time `json:"fetched_at"`
}
