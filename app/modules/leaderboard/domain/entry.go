package leaderboarddomain

import (
	"errors"
	"fmt"
	"strconv"
)

// StatKey names a per-player statistic reported by the scoring service.
type StatKey string

const (
	OverallAvg   StatKey = "overall_avg"
	OverallGames StatKey = "overall_games"
	EasyAvg      StatKey = "easy_avg"
	EasyGames    StatKey = "easy_games"
	MediumAvg    StatKey = "medium_avg"
	MediumGames  StatKey = "medium_games"
	HardAvg      StatKey = "hard_avg"
	HardGames    StatKey = "hard_games"

	// DefaultSort is the metric the leaderboard is ordered by until the user picks another.
	DefaultSort = OverallAvg

	// Placeholder is shown for a statistic the player has no value for.
	Placeholder = "-"
)

// ErrUnknownStatKey is returned when a sort key is not one of the leaderboard statistics.
var ErrUnknownStatKey = errors.New("unknown leaderboard statistic")

// Column is a leaderboard table column after the player name.
type Column struct {
	Key   StatKey
	Label string
}

// Columns lists the table columns in display order.
var Columns = []Column{
	{Key: OverallAvg, Label: "Overall Average"},
	{Key: OverallGames, Label: "Overall Games"},
	{Key: EasyAvg, Label: "Easy Average"},
	{Key: EasyGames, Label: "Easy Games"},
	{Key: MediumAvg, Label: "Medium Average"},
	{Key: MediumGames, Label: "Medium Games"},
	{Key: HardAvg, Label: "Hard Average"},
	{Key: HardGames, Label: "Hard Games"},
}

// SortOptions are the metrics offered in the sort selector.
var SortOptions = []Column{
	{Key: EasyAvg, Label: "Easy Score"},
	{Key: MediumAvg, Label: "Medium Score"},
	{Key: HardAvg, Label: "Hard Score"},
	{Key: OverallAvg, Label: "Overall Score"},
}

// ParseStatKey validates s against the known statistics.
func ParseStatKey(s string) (StatKey, error) {
	for _, c := range Columns {
		if string(c.Key) == s {
			return c.Key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatKey, s)
}

// Label returns the column label for k, or the raw key when it is not a known column.
func (k StatKey) Label() string {
	for _, c := range Columns {
		if c.Key == k {
			return c.Label
		}
	}
	return string(k)
}

// ValueKind distinguishes how a payload field is kept.
type ValueKind int

const (
	KindNumber ValueKind = iota + 1
	KindString
	KindBool
	KindNull
	KindRaw // nested object or array, kept as JSON text
)

// Value is a present field of a player entry. Absent fields are not stored at all.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
}

func NumberValue(f float64) Value { return Value{Kind: KindNumber, Number: f} }

func StringValue(s string) Value { return Value{Kind: KindString, Text: s} }

func BoolValue(b bool) Value { return Value{Kind: KindBool, Text: strconv.FormatBool(b)} }

func NullValue() Value { return Value{Kind: KindNull} }

func RawValue(raw string) Value { return Value{Kind: KindRaw, Text: raw} }

// Float returns the numeric value and whether the field is a number.
// Non-numbers are never coerced.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindNumber {
		return v.Number, true
	}
	return 0, false
}

// Display renders the value for a table cell: numbers with two decimals,
// strings and nested JSON verbatim, null and booleans as an empty cell.
// Negative zero renders as "0.00".
func (v Value) Display() string {
	switch v.Kind {
	case KindNumber:
		n := v.Number
		if n == 0 {
			n = 0
		}
		return strconv.FormatFloat(n, 'f', 2, 64)
	case KindNull, KindBool:
		return ""
	default:
		return v.Text
	}
}

// PlayerEntry is one normalized leaderboard row. Entries have no identity beyond
// Name, and two entries may share a name.
type PlayerEntry struct {
	Name   string
	Fields map[string]Value
}

// Get returns the field stored under key.
func (e PlayerEntry) Get(key string) (Value, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

// Metric returns the numeric value of a statistic, if the entry has one.
func (e PlayerEntry) Metric(key StatKey) (float64, bool) {
	v, ok := e.Fields[string(key)]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Cell renders the field under key for display, using Placeholder when absent.
func (e PlayerEntry) Cell(key StatKey) string {
	v, ok := e.Fields[string(key)]
	if !ok {
		return Placeholder
	}
	return v.Display()
}

func (e *PlayerEntry) set(key string, v Value) {
	if e.Fields == nil {
		e.Fields = make(map[string]Value)
	}
	e.Fields[key] = v
}

// Cells renders the entry's statistics in Columns order.
func (e PlayerEntry) Cells() []string {
	cells := make([]string, len(Columns))
	for i, c := range Columns {
		cells[i] = e.Cell(c.Key)
	}
	return cells
}
