package core

// MonthsInYear is the fixed number of month buckets.
const MonthsInYear = 12

// Average is a mean that may have no data. Valid is false when nothing was
// averaged, which is distinct from an average of exactly 0.
type Average struct {
	Value float64
	Valid bool
}

// GenreCount is a genre label with its occurrence count.
type GenreCount struct {
	Genre string
	Count int
}

// Stats is the summary of a book collection.
type Stats struct {
	TotalBooks    int
	TotalPages    int
	AvgRating     Average
	GenreCounts   map[string]int
	BooksPerMonth [MonthsInYear]int // index 0 = January
	Undated       int               // books left out of BooksPerMonth because of a malformed date
}
