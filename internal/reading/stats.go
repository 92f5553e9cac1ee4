package reading

import "bookyear/internal/core"

// ComputeStats folds a collection into a core.Stats. Any sub-collection
// (a whole year, a single month) yields statistics for that scope.
//
// Pages count only where present. The average covers rated books only and
// is invalid when none are rated. Blank genres are skipped. A malformed
// date keeps the book in every total but out of BooksPerMonth, and is
// counted in Undated.
func ComputeStats(books []core.Book) core.Stats {
	stats := core.Stats{
		TotalBooks:  len(books),
		GenreCounts: map[string]int{},
	}

	ratingSum, rated := 0, 0
	for _, b := range books {
		stats.TotalPages += b.PageCount()

		if b.Rating != nil {
			ratingSum += *b.Rating
			rated++
		}

		if b.Genre != "" {
			stats.GenreCounts[b.Genre]++
		}

		d, err := core.ParseFinishedDate(b.DateFinished)
		if err != nil {
			stats.Undated++
			continue
		}
		stats.BooksPerMonth[d.MonthIndex()]++
	}

	if rated > 0 {
		stats.AvgRating = core.Average{Value: float64(ratingSum) / float64(rated), Valid: true}
	}
	return stats
}
