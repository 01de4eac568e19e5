package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/internal/scoringapi"
)

// FakeScoringService is an in-process stand-in for the remote scoring service.
// By default it stores every submission and serves per-player averages as an
// object map. OnLeaderboard and OnSubmit script other behavior.
type FakeScoringService struct {
	URL string

	mu              sync.Mutex
	leaderboardFunc http.HandlerFunc
	submitFunc      http.HandlerFunc
	submissions     []scoredomain.ScoreSubmission
	gets            int
	posts           int
}

// NewFakeScoringService starts the fake and stops it when the test ends.
func NewFakeScoringService(t testing.TB) *FakeScoringService {
	t.Helper()

	f := &FakeScoringService{}
	r := chi.NewRouter()
	r.Get(scoringapi.SubmitPath, f.handleLeaderboard)
	r.Post(scoringapi.SubmitPath, f.handleSubmit)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	f.URL = srv.URL
	return f
}

// OnLeaderboard replaces the GET handler. Nil restores the default.
func (f *FakeScoringService) OnLeaderboard(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leaderboardFunc = h
}

// OnSubmit replaces the POST handler. Nil restores the default.
func (f *FakeScoringService) OnSubmit(h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitFunc = h
}

// Submissions returns the submissions received so far.
func (f *FakeScoringService) Submissions() []scoredomain.ScoreSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]scoredomain.ScoreSubmission(nil), f.submissions...)
}

// Requests returns how many leaderboard and submit requests were received.
func (f *FakeScoringService) Requests() (gets, posts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.posts
}

// RespondWith returns a handler that writes status and body verbatim.
func RespondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (f *FakeScoringService) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.gets++
	custom := f.leaderboardFunc
	f.mu.Unlock()

	if custom != nil {
		custom(w, r)
		return
	}

	f.mu.Lock()
	payload := aggregate(f.submissions)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func (f *FakeScoringService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.posts++
	custom := f.submitFunc
	f.mu.Unlock()

	if custom != nil {
		custom(w, r)
		return
	}

	var sub scoredomain.ScoreSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		RespondWith(http.StatusBadRequest, `{"error":"invalid body"}`)(w, r)
		return
	}

	f.mu.Lock()
	f.submissions = append(f.submissions, sub)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sub)
}

type tally struct {
	sum   float64
	count int
}

// aggregate builds an object-map leaderboard with plain averages of raw times,
// keyed by name in first-submission order.
func aggregate(subs []scoredomain.ScoreSubmission) []byte {
	var order []string
	overall := map[string]*tally{}
	perLevel := map[string]map[scoredomain.Level]*tally{}

	for _, s := range subs {
		if _, ok := overall[s.Name]; !ok {
			order = append(order, s.Name)
			overall[s.Name] = &tally{}
			perLevel[s.Name] = map[scoredomain.Level]*tally{}
		}
		overall[s.Name].sum += s.Time
		overall[s.Name].count++
		lt, ok := perLevel[s.Name][s.Level]
		if !ok {
			lt = &tally{}
			perLevel[s.Name][s.Level] = lt
		}
		lt.sum += s.Time
		lt.count++
	}

	players := make([]PlayerStats, 0, len(order))
	for _, name := range order {
		p := PlayerStats{
			Name:         name,
			OverallAvg:   overall[name].sum / float64(overall[name].count),
			OverallGames: overall[name].count,
		}
		for level, lt := range perLevel[name] {
			avg := lt.sum / float64(lt.count)
			switch level {
			case scoredomain.Easy:
				p.EasyAvg, p.EasyGames = avg, lt.count
			case scoredomain.Medium:
				p.MediumAvg, p.MediumGames = avg, lt.count
			case scoredomain.Hard:
				p.HardAvg, p.HardGames = avg, lt.count
			}
		}
		players = append(players, p)
	}
	return ObjectMapPayload(players)
}
