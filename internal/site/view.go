package site

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"bookyear/internal/core"
	"bookyear/internal/reading"

	"golang.org/x/text/message"
)

// page carries what the shared layout needs.
type page struct {
	Title string
	Base  string // relative path back to the site root, e.g. "../"
	Nav   string
	Year  int
}

type homeView struct {
	page
	ReaderName    string
	Goal          int
	Progress      int
	Stats         core.Stats
	Featured      []core.Book
	FeaturedTitle string
}

type booksView struct {
	page
	Books []core.Book
}

type bookView struct {
	page
	Book core.Book
	Prev *core.Book
	Next *core.Book
}

type monthView struct {
	Name  string
	Books []core.Book
}

type timelineView struct {
	page
	Months  []monthView
	Undated int
}

type barView struct {
	Name  string
	Count int
	Width int // percent of the busiest month
}

type statsView struct {
	page
	Stats  core.Stats
	Bars   []barView
	Genres []core.GenreCount
}

type letterView struct {
	page
	Letter core.Letter
}

type cardView struct {
	Base string
	Book core.Book
}

type statCard struct {
	Label       string
	Value       string
	Description string
}

func funcMap(p *message.Printer) template.FuncMap {
	return template.FuncMap{
		"number": func(n int) string { return p.Sprintf("%d", n) },
		"stars":  Stars,
		"date":   FormatDate,
		"average": func(a core.Average, decimals int) string {
			return FormatAverage(a, decimals)
		},
		"card": func(label, value, description string) statCard {
			return statCard{Label: label, Value: value, Description: description}
		},
		"cardOf": func(base string, b core.Book) cardView {
			return cardView{Base: base, Book: b}
		},
	}
}

// Stars renders a 1-5 rating as filled and empty stars.
func Stars(rating int) string {
	rating = min(max(rating, 0), core.MaxRating)
	return strings.Repeat("★", rating) + strings.Repeat("☆", core.MaxRating-rating)
}

// FormatDate renders a finish date as "January 2, 2006". Malformed or
// impossible dates are returned unchanged.
func FormatDate(s string) string {
	d, err := core.ParseFinishedDate(s)
	if err != nil {
		return s
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != d.Day {
		return s
	}
	return t.Format("January 2, 2006")
}

// FormatAverage renders an average with the given number of decimals, or
// an em-dash placeholder when there is no data.
func FormatAverage(a core.Average, decimals int) string {
	if !a.Valid {
		return "—"
	}
	return fmt.Sprintf("%.*f", decimals, a.Value)
}

func monthName(index int) string {
	return time.Month(index + 1).String()
}

func bars(perMonth [core.MonthsInYear]int) []barView {
	busiest := reading.BusiestMonth(perMonth)
	out := make([]barView, core.MonthsInYear)
	for i, n := range perMonth {
		out[i] = barView{
			Name:  monthName(i),
			Count: n,
			Width: n * 100 / busiest,
		}
	}
	return out
}

func defaultLetter(y core.ReadingYear, total int) core.Letter {
	return core.Letter{
		To: y.ReaderName,
		Paragraphs: []string{
			fmt.Sprintf("This year, you've read %d books. Each one a journey, a lesson, or an escape.", total),
			"Here's to another year of great books and stories that stay with you long after the final page.",
		},
	}
}
