package scoringapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	endpoint string
	status   string
}

type fakeMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (f *fakeMetrics) RecordRequest(_ context.Context, endpoint, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{endpoint: endpoint, status: status})
}
func (f *fakeMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (f *fakeMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (f *fakeMetrics) RecordOperationFailure(context.Context, string)                 {}
func (f *fakeMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeMetrics) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	metrics := &fakeMetrics{}
	return NewClient(Config{BaseURL: server.URL + "/"}, nil, metrics), metrics
}

func TestFetchLeaderboard(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantBody   string
		wantStatus int
		wantErr    error
	}{
		{
			name:     "returns raw payload",
			status:   http.StatusOK,
			body:     `{"Alice":{"overall_avg":12.5}}`,
			wantBody: `{"Alice":{"overall_avg":12.5}}`,
		},
		{
			name:     "null is valid json",
			status:   http.StatusOK,
			body:     `null`,
			wantBody: `null`,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `<html>oops</html>`,
			wantErr: ErrMalformedBody,
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			body:       `{"error":"upstream down"}`,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, SubmitPath, r.URL.Path)
				assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			got, err := client.FetchLeaderboard(context.Background())

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantStatus != 0:
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantBody, string(got))
			}
			require.Len(t, metrics.requests, 1)
			assert.Equal(t, "leaderboard", metrics.requests[0].endpoint)
		})
	}
}

func TestSubmitScore(t *testing.T) {
	submission := scoredomain.ScoreSubmission{Name: "Bob", Time: 120, Level: scoredomain.Easy}

	tests := []struct {
		name        string
		status      int
		body        string
		wantRecord  string
		wantMessage string
		wantErr     error
	}{
		{
			name:       "created",
			status:     http.StatusCreated,
			body:       `{"name":"Bob","time":120,"level":"easy"}`,
			wantRecord: `{"name":"Bob","time":120,"level":"easy"}`,
		},
		{
			name:    "2xx without json body",
			status:  http.StatusOK,
			body:    `ok`,
			wantErr: ErrMalformedBody,
		},
		{
			name:    "2xx with empty body",
			status:  http.StatusCreated,
			wantErr: ErrMalformedBody,
		},
		{
			name:        "service reports error",
			status:      http.StatusBadRequest,
			body:        `{"error":"duplicate name"}`,
			wantMessage: "duplicate name",
		},
		{
			name:        "error payload without message",
			status:      http.StatusInternalServerError,
			body:        `internal`,
			wantMessage: "fallback",
		},
		{
			name:        "error field is not a string",
			status:      http.StatusBadRequest,
			body:        `{"error":{"code":1}}`,
			wantMessage: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var sent map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
				assert.Equal(t, map[string]any{"name": "Bob", "time": 120.0, "level": "easy"}, sent)

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			record, err := client.SubmitScore(context.Background(), submission)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, record)
			case tt.wantMessage != "":
				var httpErr *HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.status, httpErr.StatusCode)
				assert.Equal(t, tt.wantMessage, httpErr.ServiceMessage("fallback"))
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantRecord, string(record))
			}
			require.Len(t, metrics.requests, 1)
			assert.Equal(t, "submit", metrics.requests[0].endpoint)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	metrics := &fakeMetrics{}
	client := NewClient(Config{BaseURL: url}, nil, metrics)

	_, err := client.FetchLeaderboard(context.Background())
	assert.ErrorIs(t, err, ErrTransport)

	_, err = client.SubmitScore(context.Background(), scoredomain.ScoreSubmission{Name: "A", Time: 1, Level: scoredomain.Hard})
	assert.ErrorIs(t, err, ErrTransport)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
	require.Len(t, metrics.requests, 2)
	assert.Equal(t, "transport_error", metrics.requests[0].status)
}

func TestCancelledContext(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchLeaderboard(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
