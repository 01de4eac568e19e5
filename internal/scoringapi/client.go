// Package scoringapi is a client for the remote Sudoku scoring service.
//
// The service exposes a single resource, /api/submit: GET returns the
// aggregated leaderboard and POST records a completion time. Every call is a
// single attempt; there is no retry or backoff.
//
// # Usage
//
//	client := scoringapi.NewClient(scoringapi.Config{
//	    BaseURL: "https://nytsudoku.onrender.com",
//	}, logger, metrics)
//
//	raw, err := client.FetchLeaderboard(ctx)
package scoringapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/app/observability"
)

// SubmitPath serves both the leaderboard (GET) and score submission (POST).
const SubmitPath = "/api/submit"

// RequestIDHeader carries a per-request identifier for correlating logs.
const RequestIDHeader = "X-Request-ID"

// Config holds configuration for the scoring client.
type Config struct {
	// BaseURL is the scheme and host of the scoring service.
	BaseURL string

	// Timeout bounds each request. Zero means no timeout: a hung request
	// blocks until ctx is cancelled.
	Timeout time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// Client talks to the scoring service.
type Client struct {
	config  Config
	http    *http.Client
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewClient creates a scoring client. A nil logger or metrics falls back to no-ops.
func NewClient(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = observability.NewNoop().Logger
	}
	if metrics == nil {
		metrics = observability.NoOpMetrics{}
	}

	return &Client{
		config:  cfg,
		http:    httpClient,
		logger:  logger,
		metrics: metrics,
	}
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// FetchLeaderboard returns the raw leaderboard payload. The body is only
// checked to be JSON; its shape is interpreted by the leaderboard normalizer.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, "leaderboard", http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.statusCode) {
		return nil, newHTTPError(resp.statusCode, resp.body)
	}
	if !gjson.ValidBytes(resp.body) {
		return nil, fmt.Errorf("%w: leaderboard is not valid JSON", ErrMalformedBody)
	}
	return resp.body, nil
}

// SubmitScore posts a submission. On a 2xx status it returns the stored
// record as sent back by the service. A 2xx reply that is not JSON, including
// an empty one, is ErrMalformedBody. Any other status is returned as an
// *HTTPError carrying the service message.
func (c *Client) SubmitScore(ctx context.Context, submission scoredomain.ScoreSubmission) (json.RawMessage, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("scoring: marshal submission: %w", err)
	}

	resp, err := c.do(ctx, "submit", http.MethodPost, body)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.statusCode) {
		return nil, newHTTPError(resp.statusCode, resp.body)
	}

	if !json.Valid(resp.body) {
		c.logger.WarnContext(ctx, "Scoring service answered a submission with a non-JSON body",
			slog.String("request_id", resp.requestID),
			slog.Int("status", resp.statusCode),
		)
		return nil, fmt.Errorf("%w: submission reply is not valid JSON", ErrMalformedBody)
	}
	return json.RawMessage(resp.body), nil
}

type rawResponse struct {
	statusCode int
	body       []byte
	requestID  string
}

// do sends a single request and reads the whole response body.
func (c *Client) do(ctx context.Context, endpoint, method string, body []byte) (*rawResponse, error) {
	url := c.config.BaseURL + SubmitPath
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("scoring: create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.DebugContext(ctx, "Sending scoring request",
		slog.String("method", method),
		slog.String("url", url),
		slog.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(ctx, endpoint, "transport_error", time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.RecordRequest(ctx, endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	c.logger.DebugContext(ctx, "Scoring response received",
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(respBody)),
	)

	return &rawResponse{statusCode: resp.StatusCode, body: respBody, requestID: requestID}, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
