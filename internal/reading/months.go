package reading

import "bookyear/internal/core"

// MonthBuckets maps month index (0 = January) to the books finished that month.
type MonthBuckets [core.MonthsInYear][]core.Book

// GroupByMonth partitions books into twelve buckets by the month written in
// DateFinished. Every bucket is non-nil; order within a bucket follows the
// input. Books whose date does not parse are left out, matching
// Stats.BooksPerMonth.
func GroupByMonth(books []core.Book) MonthBuckets {
	var buckets MonthBuckets
	for i := range buckets {
		buckets[i] = []core.Book{}
	}
	for _, b := range books {
		d, err := core.ParseFinishedDate(b.DateFinished)
		if err != nil {
			continue
		}
		m := d.MonthIndex()
		buckets[m] = append(buckets[m], b)
	}
	return buckets
}

// Count returns the total number of bucketed books.
func (mb MonthBuckets) Count() int {
	n := 0
	for _, b := range mb {
		n += len(b)
	}
	return n
}

// Month returns the books for a 1-12 month number, or nil when out of range.
func (mb MonthBuckets) Month(month int) []core.Book {
	if month < 1 || month > core.MonthsInYear {
		return nil
	}
	return mb[month-1]
}
