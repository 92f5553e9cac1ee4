package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

type (
	// Book is one entry in the reading collection.
	Book struct {
		ID            string `json:"id" yaml:"id"` // slug, e.g. "the-goldfinch"
		Title         string `json:"title" yaml:"title"`
		Author        string `json:"author" yaml:"author"`
		CoverImageURL string `json:"coverImageUrl" yaml:"coverImageUrl"`
		DateFinished  string `json:"dateFinished" yaml:"dateFinished"` // YYYY-MM-DD
		Rating        *int   `json:"rating,omitempty" yaml:"rating,omitempty"`
		Pages         *int   `json:"pages,omitempty" yaml:"pages,omitempty"`
		Genre         string `json:"genre,omitempty" yaml:"genre,omitempty"`
		GoodreadsURL  string `json:"goodreadsUrl,omitempty" yaml:"goodreadsUrl,omitempty"`
		PersonalNote  string `json:"personalNote" yaml:"personalNote"`
		Featured      bool   `json:"featured,omitempty" yaml:"featured,omitempty"`
	}

	// Letter is the personal note shown on the letter page.
	Letter struct {
		To         string   `json:"to,omitempty" yaml:"to,omitempty"`
		SignedBy   string   `json:"signedBy,omitempty" yaml:"signedBy,omitempty"`
		Paragraphs []string `json:"paragraphs,omitempty" yaml:"paragraphs,omitempty"`
	}

	// ReadingYear is the immutable input of one aggregation pass.
	ReadingYear struct {
		Year       int     `json:"year" yaml:"year"`
		ReaderName string  `json:"readerName" yaml:"readerName"`
		Goal       int     `json:"goal" yaml:"goal"`
		Books      []Book  `json:"books" yaml:"books"`
		Letter     *Letter `json:"letter,omitempty" yaml:"letter,omitempty"`
	}

	// FinishedDate holds the literal calendar components of Book.DateFinished.
	FinishedDate struct {
		Year  int
		Month int // 1-12
		Day   int
	}
)

var (
	ErrMalformedDate    = errors.New("malformed date")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyAuthor      = errors.New("empty author")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrNegativePages    = errors.New("negative pages")
	ErrInvalidYear      = errors.New("invalid year")
	ErrYearNotFound     = errors.New("reading year not found")
)

// ParseFinishedDate splits a YYYY-MM-DD string into its calendar components.
// No time.Time is involved, so the month never shifts with the local timezone.
// Every failure wraps ErrMalformedDate.
func ParseFinishedDate(s string) (FinishedDate, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return FinishedDate{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return FinishedDate{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
		}
		nums[i] = n
	}
	d := FinishedDate{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 {
		return FinishedDate{}, fmt.Errorf("%w: %w", ErrMalformedDate, ErrInvalidMonth)
	}
	if d.Day < 1 || d.Day > 31 {
		return FinishedDate{}, fmt.Errorf("%w: %w", ErrMalformedDate, ErrInvalidDay)
	}
	return d, nil
}

// MonthIndex returns the 0-based month (0 = January).
func (d FinishedDate) MonthIndex() int {
	return d.Month - 1
}

func (d FinishedDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// HasRating reports whether the book carries a rating.
func (b Book) HasRating() bool {
	return b.Rating != nil
}

// RatingValue returns the rating or 0 when unrated.
func (b Book) RatingValue() int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// PageCount returns the page count or 0 when unknown.
func (b Book) PageCount() int {
	if b.Pages == nil {
		return 0
	}
	return *b.Pages
}

func (b Book) HasGenre() bool {
	return strings.TrimSpace(b.Genre) != ""
}

// Validate reports data-quality problems. The aggregation functions never
// call it; it backs imports and the check command.
func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(b.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(b.Author) == "" {
		return ErrEmptyAuthor
	}
	if _, err := ParseFinishedDate(b.DateFinished); err != nil {
		return err
	}
	if b.Rating != nil && (*b.Rating < MinRating || *b.Rating > MaxRating) {
		return fmt.Errorf("%w: %d", ErrRatingOutOfRange, *b.Rating)
	}
	if b.Pages != nil && *b.Pages < 0 {
		return ErrNegativePages
	}
	return nil
}

// Validate checks the year metadata and every book, returning all problems joined.
func (y ReadingYear) Validate() error {
	var errs []error
	if y.Year < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidYear, y.Year))
	}
	if y.Goal < 0 {
		errs = append(errs, fmt.Errorf("invalid goal %d: must not be negative", y.Goal))
	}
	seen := make(map[string]struct{}, len(y.Books))
	for i, b := range y.Books {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("book %d (%s): %w", i, b.ID, err))
		}
		if b.ID == "" {
			continue
		}
		if _, ok := seen[b.ID]; ok {
			errs = append(errs, fmt.Errorf("book %d: %w: %s", i, ErrDuplicateID, b.ID))
		}
		seen[b.ID] = struct{}{}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy so callers can derive a new snapshot without
// touching the source collection.
func (y ReadingYear) Clone() ReadingYear {
	out := y
	out.Books = make([]Book, len(y.Books))
	for i, b := range y.Books {
		out.Books[i] = b.Clone()
	}
	if y.Letter != nil {
		l := *y.Letter
		l.Paragraphs = append([]string(nil), y.Letter.Paragraphs...)
		out.Letter = &l
	}
	return out
}

// Clone copies the book including its optional fields.
func (b Book) Clone() Book {
	out := b
	if b.Rating != nil {
		out.Rating = IntPtr(*b.Rating)
	}
	if b.Pages != nil {
		out.Pages = IntPtr(*b.Pages)
	}
	return out
}

// IntPtr is a helper for optional numeric fields.
func IntPtr(v int) *int {
	return &v
}
