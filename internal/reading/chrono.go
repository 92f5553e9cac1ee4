// Package reading is the aggregation engine: pure functions that turn an
// unordered book collection into sorted lists, month buckets, summary
// statistics and a featured subset.
//
// Nothing here mutates its input or keeps state, so every function is safe
// to call from any number of goroutines at once.
package reading

import (
	"slices"
	"strings"

	"bookyear/internal/core"
)

// SortByFinished returns a new slice ordered by DateFinished ascending.
// Books finished on the same day keep their relative order.
func SortByFinished(books []core.Book) []core.Book {
	out := slices.Clone(books)
	if out == nil {
		out = []core.Book{}
	}
	slices.SortStableFunc(out, func(a, b core.Book) int {
		return strings.Compare(a.DateFinished, b.DateFinished)
	})
	return out
}

// FindByID returns the book with the given id. The bool is false when no
// book matches.
func FindByID(books []core.Book, id string) (core.Book, bool) {
	i := indexOf(books, id)
	if i < 0 {
		return core.Book{}, false
	}
	return books[i], true
}

// Neighbors returns the books before and after id in chronological order.
// prev is nil for the first book and next is nil for the last one; ok is
// false when id is unknown.
func Neighbors(books []core.Book, id string) (prev, next *core.Book, ok bool) {
	sorted := SortByFinished(books)
	i := indexOf(sorted, id)
	if i < 0 {
		return nil, nil, false
	}
	if i > 0 {
		prev = &sorted[i-1]
	}
	if i < len(sorted)-1 {
		next = &sorted[i+1]
	}
	return prev, next, true
}

func indexOf(books []core.Book, id string) int {
	return slices.IndexFunc(books, func(b core.Book) bool { return b.ID == id })
}
