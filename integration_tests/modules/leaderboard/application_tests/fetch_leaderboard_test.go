package leaderboardintegrationtests

import (
	"net/http"
	"testing"
	"time"

	"github.com/Black-And-White-Club/sudoku-leaderboard/app/eventbus"
	leaderboarddomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/leaderboard/domain/events"
	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/integration_tests/testutils"
)

// TestFetchLeaderboard_AfterSubmissions seeds the fake scoring service through
// the client and reads the aggregate back.
func TestFetchLeaderboard_AfterSubmissions(t *testing.T) {
	deps := SetupTestLeaderboardService(t)

	seed := []scoredomain.ScoreSubmission{
		{Name: "Alice", Time: 300, Level: scoredomain.Hard},
		{Name: "Bob", Time: 90, Level: scoredomain.Easy},
		{Name: "Alice", Time: 100, Level: scoredomain.Easy},
	}
	for _, sub := range seed {
		if _, err := deps.Client.SubmitScore(deps.Ctx, sub); err != nil {
			t.Fatalf("Failed to seed submission: %v", err)
		}
	}

	result, err := deps.Service.FetchLeaderboard(deps.Ctx)
	if err != nil {
		t.Fatalf("FetchLeaderboard returned unexpected error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("Expected success result, got failure: %+v", result.Failure)
	}

	board := *result.Success
	if board.Shape != leaderboarddomain.ShapeObjectMap {
		t.Errorf("Expected object map shape, got %s", board.Shape)
	}

	ranked := board.Ranked(leaderboarddomain.OverallAvg)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(ranked))
	}
	if ranked[0].Name != "Bob" || ranked[1].Name != "Alice" {
		t.Errorf("Unexpected order: %s, %s", ranked[0].Name, ranked[1].Name)
	}
	if got := ranked[1].Cell(leaderboarddomain.OverallAvg); got != "200.00" {
		t.Errorf("Expected Alice overall average 200.00, got %s", got)
	}

	if !deps.Capture.WaitForMessages(leaderboardevents.LeaderboardFetchedTopic, 1, 2*time.Second) {
		t.Fatal("Timed out waiting for leaderboard event")
	}
	payload, err := eventbus.Decode[leaderboardevents.LeaderboardFetchedPayload](deps.Capture.GetMessages(leaderboardevents.LeaderboardFetchedTopic)[0])
	if err != nil {
		t.Fatalf("Failed to decode leaderboard event: %v", err)
	}
	if payload.Entries != 2 || payload.Shape != "object_map" {
		t.Errorf("Unexpected event payload: %+v", payload)
	}
}

func TestFetchLeaderboard_PayloadShapes(t *testing.T) {
	players := testutils.NewTestDataGenerator(3).GeneratePlayerStats(5)

	testCases := []struct {
		name      string
		respond   http.HandlerFunc
		wantShape leaderboarddomain.Shape
		wantCount int
		wantFail  bool
	}{
		{
			name:      "Object array",
			respond:   testutils.RespondWith(http.StatusOK, string(testutils.ObjectArrayPayload(players))),
			wantShape: leaderboarddomain.ShapeObjectArray,
			wantCount: len(players),
		},
		{
			name:      "Pair array",
			respond:   testutils.RespondWith(http.StatusOK, string(testutils.PairArrayPayload(players))),
			wantShape: leaderboarddomain.ShapePairArray,
			wantCount: len(players),
		},
		{
			name:      "Null body",
			respond:   testutils.RespondWith(http.StatusOK, `null`),
			wantShape: leaderboarddomain.ShapeEmpty,
		},
		{
			name:     "Server error",
			respond:  testutils.RespondWith(http.StatusServiceUnavailable, `{"error":"down"}`),
			wantFail: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			deps := SetupTestLeaderboardService(t)
			deps.Scoring.OnLeaderboard(tc.respond)

			result, err := deps.Service.FetchLeaderboard(deps.Ctx)
			if err != nil {
				t.Fatalf("FetchLeaderboard returned unexpected error: %v", err)
			}

			if tc.wantFail {
				if !result.IsFailure() {
					t.Fatal("Expected failure result, got success")
				}
				if result.Failure.StatusCode != http.StatusServiceUnavailable {
					t.Errorf("Expected status 503, got %d", result.Failure.StatusCode)
				}
				return
			}

			if !result.IsSuccess() {
				t.Fatalf("Expected success result, got failure: %+v", result.Failure)
			}
			if result.Success.Shape != tc.wantShape {
				t.Errorf("Expected shape %s, got %s", tc.wantShape, result.Success.Shape)
			}
			if len(result.Success.Entries) != tc.wantCount {
				t.Errorf("Expected %d entries, got %d", tc.wantCount, len(result.Success.Entries))
			}
		})
	}
}
