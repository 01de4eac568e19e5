package testutils

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	scoredomain "github.com/Black-And-White-Club/sudoku-leaderboard/app/modules/score/domain"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	faker := gofakeit.New(uint64(s))

	return &TestDataGenerator{
		faker: faker,
		seed:  s,
	}
}

// Seed returns the seed the generator was created with, for reproducing failures.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// PlayerStats is one player's aggregate as the scoring service reports it.
type PlayerStats struct {
	Name         string  `json:"name"`
	OverallAvg   float64 `json:"overall_avg"`
	OverallGames int     `json:"overall_games"`
	EasyAvg      float64 `json:"easy_avg"`
	EasyGames    int     `json:"easy_games"`
	MediumAvg    float64 `json:"medium_avg"`
	MediumGames  int     `json:"medium_games"`
	HardAvg      float64 `json:"hard_avg"`
	HardGames    int     `json:"hard_games"`
}

// GenerateSubmission creates a plausible, already-normalized submission.
func (g *TestDataGenerator) GenerateSubmission() scoredomain.ScoreSubmission {
	return scoredomain.ScoreSubmission{
		Name:  scoredomain.NormalizeName(g.faker.FirstName()),
		Time:  float64(g.faker.Number(30, 1800)),
		Level: scoredomain.Levels[g.faker.Number(0, len(scoredomain.Levels)-1)],
	}
}

// GeneratePlayerStats creates count players with distinct names.
func (g *TestDataGenerator) GeneratePlayerStats(count int) []PlayerStats {
	players := make([]PlayerStats, count)
	for i := 0; i < count; i++ {
		easy, medium, hard := g.faker.Number(0, 20), g.faker.Number(0, 20), g.faker.Number(0, 20)
		players[i] = PlayerStats{
			Name:         fmt.Sprintf("%s%d", g.faker.FirstName(), i),
			OverallAvg:   g.faker.Float64Range(60, 1200),
			OverallGames: easy + medium + hard,
			EasyAvg:      g.faker.Float64Range(60, 600),
			EasyGames:    easy,
			MediumAvg:    g.faker.Float64Range(120, 900),
			MediumGames:  medium,
			HardAvg:      g.faker.Float64Range(300, 1800),
			HardGames:    hard,
		}
	}
	return players
}

// ObjectArrayPayload encodes players as an array of stat objects.
func ObjectArrayPayload(players []PlayerStats) []byte {
	data, err := json.Marshal(players)
	if err != nil {
		panic(err)
	}
	return data
}

// ObjectMapPayload encodes players as an object keyed by name, in slice order.
func ObjectMapPayload(players []PlayerStats) []byte {
	buf := []byte{'{'}
	for i, p := range players {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, _ := json.Marshal(p.Name)
		stats, _ := json.Marshal(p)
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, stats...)
	}
	return append(buf, '}')
}

// PairArrayPayload encodes players as [name, overall_avg] pairs.
func PairArrayPayload(players []PlayerStats) []byte {
	pairs := make([][]any, len(players))
	for i, p := range players {
		pairs[i] = []any{p.Name, p.OverallAvg}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		panic(err)
	}
	return data
}
