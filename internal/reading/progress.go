package reading

import (
	"cmp"
	"math"
	"slices"

	"bookyear/internal/core"
)

// GoalProgress returns total as a rounded percentage of goal. A goal of zero
// or less yields 0.
func GoalProgress(total, goal int) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(goal) * 100))
}

// BusiestMonth returns the highest monthly count, never less than 1, so it
// can be used as a divisor when scaling per-month bars.
func BusiestMonth(perMonth [core.MonthsInYear]int) int {
	return max(slices.Max(perMonth[:]), 1)
}

// RankGenres orders genre counts by count descending, then label ascending.
func RankGenres(counts map[string]int) []core.GenreCount {
	out := make([]core.GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, core.GenreCount{Genre: g, Count: n})
	}
	slices.SortFunc(out, func(a, b core.GenreCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	return out
}
