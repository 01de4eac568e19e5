// Package session holds the state of one user's client session and the named
// transitions that change it.
package session

import (
	"context"
	"log/slog"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	scoreservice "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
)

// Page is the view currently shown.
type Page string

const (
	PageForm        Page = "form"
	PageLeaderboard Page = "leaderboard"
)

// Notifier shows a blocking alert to the user.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Alert(ctx context.Context, message string) { f(ctx, message) }

// State is a snapshot of the session.
type State struct {
	Page  Page
	Name  string
	Time  string
	Level scoredomain.Level
	// SortBy survives navigation; Entries do not.
	SortBy  leaderboarddomain.StatKey
	Entries []leaderboarddomain.PlayerEntry
}

// Rows returns the entries ranked by the selected metric.
func (s State) Rows() []leaderboarddomain.PlayerEntry {
	return leaderboarddomain.Rank(s.Entries, s.SortBy)
}

// Session serializes transitions over a State. The zero value is not usable;
// use New.
type Session struct {
	mu          sync.Mutex
	state       State
	scores      scoreservice.Service
	leaderboard leaderboardservice.Service
	notifier    Notifier
	logger      *slog.Logger
}

// New starts a session on the form page with the default level and the given sort.
func New(
	scores scoreservice.Service,
	leaderboard leaderboardservice.Service,
	notifier Notifier,
	logger *slog.Logger,
	defaultSort leaderboarddomain.StatKey,
) *Session {
	if defaultSort == "" {
		defaultSort = leaderboarddomain.DefaultSort
	}
	return &Session{
		state: State{
			Page:   PageForm,
			Level:  scoredomain.DefaultLevel,
			SortBy: defaultSort,
		},
		scores:      scores,
		leaderboard: leaderboard,
		notifier:    notifier,
		logger:      logger,
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Entries = append([]leaderboarddomain.PlayerEntry(nil), s.state.Entries...)
	return st
}

func (s *Session) EditName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Name = name
}

func (s *Session) EditTime(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Time = value
}

// SelectLevel changes the difficulty. Unknown levels are rejected.
func (s *Session) SelectLevel(level string) error {
	l, err := scoredomain.ParseLevel(level)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Level = l
	return nil
}

// SelectSort changes the ranking metric. Entries are re-ranked, not refetched.
func (s *Session) SelectSort(key string) error {
	k, err := leaderboarddomain.ParseStatKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SortBy = k
	return nil
}

// ShowForm navigates to the form and drops the leaderboard data.
func (s *Session) ShowForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Page = PageForm
	s.state.Entries = nil
}

// ShowLeaderboard navigates to the leaderboard and fetches it. A failed fetch
// is logged and leaves the current entries in place.
func (s *Session) ShowLeaderboard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showLeaderboard(ctx)
}

// EnsureLeaderboard shows the leaderboard, fetching it only when arriving
// from another page. The check and the fetch happen under one lock.
func (s *Session) EnsureLeaderboard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Page == PageLeaderboard {
		return
	}
	s.showLeaderboard(ctx)
}

func (s *Session) showLeaderboard(ctx context.Context) {
	s.state.Page = PageLeaderboard

	res, err := s.leaderboard.FetchLeaderboard(ctx)
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "Error fetching leaderboard", slog.Any("error", err))
	case res.IsFailure():
		s.logger.ErrorContext(ctx, "Error fetching leaderboard",
			slog.Int("status", res.Failure.StatusCode),
			slog.String("reason", res.Failure.Reason),
		)
	case res.IsSuccess():
		s.state.Entries = res.Success.Entries
	}
}

// Submit sends the form. On acceptance the name and time are cleared, the
// level is kept, and the leaderboard is shown. Otherwise the user is alerted
// and the form keeps its input. It reports whether the service accepted the score.
func (s *Session) Submit(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.scores.SubmitScore(ctx, scoredomain.FormInput{
		Name:  s.state.Name,
		Time:  s.state.Time,
		Level: s.state.Level,
	})
	switch {
	case err != nil:
		s.logger.ErrorContext(ctx, "Error submitting score", slog.Any("error", err))
		s.notifier.Alert(ctx, scoreservice.SubmitErrorMessage)
		return false
	case res.IsFailure():
		s.notifier.Alert(ctx, res.Failure.Message)
		return false
	}

	s.logger.InfoContext(ctx, "Score submitted", slog.String("record", string(res.Success.Record)))

	s.state.Name = ""
	s.state.Time = ""
	s.showLeaderboard(ctx)
	return true
}
