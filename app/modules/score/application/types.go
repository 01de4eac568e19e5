package scoreservice

import (
	"encoding/json"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
)

// Accepted is a submission the scoring service stored.
type Accepted struct {
	Submission scoredomain.Submission
	// Record is the service's JSON reply.
	Record json.RawMessage
}

// RejectReason says where a rejection came from.
type RejectReason string

const (
	RejectedByValidation RejectReason = "validation"
	RejectedByService    RejectReason = "service"
)

// Rejected is a submission that was not stored. Message is user-facing.
type Rejected struct {
	Reason     RejectReason
	Message    string
	StatusCode int
}
