package scoredomain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Level is a Sudoku difficulty tier.
type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"

	// DefaultLevel is preselected on a fresh form.
	DefaultLevel = Easy
)

// Levels lists the tiers in the order the form offers them.
var Levels = []Level{Easy, Medium, Hard}

var (
	// ErrValidation marks input that blocks a submission before any request is made.
	ErrValidation = errors.New("invalid score submission")

	// ErrUnknownLevel is returned for a difficulty outside Levels.
	ErrUnknownLevel = errors.New("unknown level")
)

// MissingInputMessage is shown when the name or time field is left empty.
const MissingInputMessage = "Enter name and score"

var (
	easyFactor   = decimal.RequireFromString("1.5")
	mediumFactor = decimal.NewFromInt(1)
	hardFactor   = decimal.RequireFromString("0.5")
)

// ParseLevel validates a difficulty name.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Label is the form caption for the level.
func (l Level) Label() string {
	return capitalize(string(l))
}

// Factor is the multiplier applied to a raw time for this level. Unknown levels use 1.
func (l Level) Factor() decimal.Decimal {
	switch l {
	case Easy:
		return easyFactor
	case Medium:
		return mediumFactor
	case Hard:
		return hardFactor
	default:
		return mediumFactor
	}
}

// ScoreSubmission is the body sent to the scoring service.
type ScoreSubmission struct {
	Name  string  `json:"name"`
	Time  float64 `json:"time"`
	Level Level   `json:"level"`
}

// FormInput is the raw, unvalidated content of the submission form.
type FormInput struct {
	Name  string
	Time  string
	Level Level
}

// Submission is a validated submission plus the locally computed adjusted time.
// AdjustedTime is informational only and is not part of the request body.
type Submission struct {
	ScoreSubmission
	AdjustedTime decimal.Decimal
}

// ValidationError describes why form input was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BuildSubmission validates form input and produces the request to send.
func BuildSubmission(in FormInput) (Submission, error) {
	if in.Name == "" || in.Time == "" {
		return Submission{}, &ValidationError{Message: MissingInputMessage}
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(in.Time), 64)
	if err != nil || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return Submission{}, &ValidationError{Message: fmt.Sprintf("Score %q is not a number", in.Time)}
	}

	return Submission{
		ScoreSubmission: ScoreSubmission{
			Name:  NormalizeName(in.Name),
			Time:  seconds,
			Level: in.Level,
		},
		AdjustedTime: AdjustedTime(seconds, in.Level),
	}, nil
}

// NormalizeName trims surrounding whitespace, upper-cases the first character
// and lower-cases the rest: "  bOB  " becomes "Bob".
func NormalizeName(raw string) string {
	return capitalize(strings.TrimSpace(raw))
}

// AdjustedTime scales a raw time by the level factor.
func AdjustedTime(seconds float64, level Level) decimal.Decimal {
	return decimal.NewFromFloat(seconds).Mul(level.Factor())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:size]) + strings.ToLower(s[size:])
}
