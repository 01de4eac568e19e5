package scoreevents

import "time"

// ScoreSubmittedTopic is published after the scoring service accepts a submission.
const ScoreSubmittedTopic = "score.submitted"

// ScoreSubmittedPayload describes an accepted submission.
type ScoreSubmittedPayload struct {
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
	Level string  `json:"level"`
	// AdjustedTime is the level-scaled time, kept as a decimal string.
	AdjustedTime string    `json:"adjusted_time"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
