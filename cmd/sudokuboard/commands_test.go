package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
	"github.com/Black-And-White-Club/sudoku-leaderboard/integration_tests/testutils"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")
	argv := append([]string{"sudokuboard", "--config", cfgPath}, args...)
	err = newCLIApp(&out, &errOut).RunContext(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func TestSubmitCommand(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)

	stdout, _, err := runCLI(t, "--base-url", fake.URL, "submit", "--name", "zoe", "--time", "200", "--level", "medium")
	require.NoError(t, err)

	assert.Equal(t, []scoredomain.ScoreSubmission{{Name: "Zoe", Time: 200, Level: scoredomain.Medium}}, fake.Submissions())
	assert.Contains(t, stdout, "Overall Average")
	assert.Contains(t, stdout, "Zoe")
	assert.Contains(t, stdout, "200.00")
}

func TestSubmitCommand_Rejected(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	fake.OnSubmit(testutils.RespondWith(http.StatusBadRequest, `{"error":"duplicate name"}`))

	stdout, stderr, err := runCLI(t, "--base-url", fake.URL, "submit", "--name", "zoe", "--time", "200")
	assert.ErrorIs(t, err, errNotSubmitted)
	assert.Contains(t, stderr, "duplicate name")
	assert.Empty(t, stdout)
}

func TestSubmitCommand_MissingInput(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)

	_, stderr, err := runCLI(t, "--base-url", fake.URL, "submit", "--name", "zoe")
	assert.ErrorIs(t, err, errNotSubmitted)
	assert.Contains(t, stderr, "Enter name and score")

	_, posts := fake.Requests()
	assert.Zero(t, posts)
}

func TestSubmitCommand_UnknownLevel(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	_, _, err := runCLI(t, "--base-url", fake.URL, "submit", "--name", "zoe", "--time", "1", "--level", "expert")
	assert.ErrorIs(t, err, scoredomain.ErrUnknownLevel)
}

func TestLeaderboardCommand_Sorted(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	fake.OnLeaderboard(testutils.RespondWith(http.StatusOK, `[["Bob",30],["Cara",45]]`))

	stdout, _, err := runCLI(t, "--base-url", fake.URL, "leaderboard", "--sort", "hard_avg")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Bob"))
	assert.True(t, strings.HasPrefix(lines[2], "Cara"))
}

func TestLeaderboardCommand_UnknownSort(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	_, _, err := runCLI(t, "--base-url", fake.URL, "leaderboard", "--sort", "time")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	fake := testutils.NewFakeScoringService(t)
	gen := testutils.NewTestDataGenerator(42)
	fake.OnLeaderboard(testutils.RespondWith(http.StatusOK, string(testutils.ObjectArrayPayload(gen.GeneratePlayerStats(5)))))

	for _, format := range []string{"xlsx", "png"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "board."+format)
			stdout, _, err := runCLI(t, "--base-url", fake.URL, "export", "--format", format, "--out", out)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Wrote 5 players")

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestExportCommand_BadFormat(t *testing.T) {
	_, _, err := runCLI(t, "export", "--format", "csv", "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorContains(t, err, `unsupported export format "csv"`)
}
