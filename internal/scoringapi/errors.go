package scoringapi

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	// ErrTransport wraps failures to reach the service or read its reply.
	ErrTransport = errors.New("scoring: transport failure")

	// ErrMalformedBody is returned when a 2xx body is not JSON.
	ErrMalformedBody = errors.New("scoring: malformed response body")
)

// HTTPError represents a non-2xx response from the scoring service.
type HTTPError struct {
	StatusCode int
	Body       string
	// Message is the "error" string of a JSON error payload, if any.
	Message string
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: string(body)}
	if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String {
		e.Message = msg.Str
	}
	return e
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("scoring: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("scoring: HTTP %d", e.StatusCode)
}

// ServiceMessage returns the message reported by the service, or fallback
// when the payload carried none.
func (e *HTTPError) ServiceMessage(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
