package leaderboarddomain

import (
	"cmp"
	"math"
	"slices"
)

// Rank returns a new slice ordered ascending by the numeric value of key, so
// the fastest average comes first. Entries without a number for key sort last
// and equal values keep their input order.
func Rank(entries []PlayerEntry, key StatKey) []PlayerEntry {
	ranked := slices.Clone(entries)
	slices.SortStableFunc(ranked, func(a, b PlayerEntry) int {
		return cmp.Compare(sortValue(a, key), sortValue(b, key))
	})
	return ranked
}

func sortValue(e PlayerEntry, key StatKey) float64 {
	if v, ok := e.Metric(key); ok {
		return v
	}
	return math.Inf(1)
}
