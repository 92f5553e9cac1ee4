package site

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookyear/internal/core"
	"bookyear/internal/log"
	"bookyear/internal/reading"
	"bookyear/internal/records/memory"
)

func renderSample(t *testing.T, policy reading.FeaturedPolicy) (string, Result) {
	t.Helper()
	y, err := memory.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	r, err := New(Options{Policy: policy, Logger: log.Discard().Logger})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out := t.TempDir()
	res, err := r.Render(context.Background(), y, out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out, res
}

func readPage(t *testing.T, dir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestRender_WritesEveryPage(t *testing.T) {
	out, res := renderSample(t, reading.PolicyCurated)

	// home, books index, 8 detail pages, timeline, stats, letter
	if res.Pages != 13 {
		t.Fatalf("pages = %d, want 13", res.Pages)
	}
	if res.Assets != 1 {
		t.Fatalf("assets = %d, want 1", res.Assets)
	}
	for _, rel := range []string{
		"index.html",
		"books/index.html",
		"books/circe/index.html",
		"timeline/index.html",
		"stats/index.html",
		"letter/index.html",
		"static/style.css",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

func TestRender_HomePage(t *testing.T) {
	out, _ := renderSample(t, reading.PolicyCurated)
	home := readPage(t, out, "index.html")

	for _, want := range []string{
		"8 Books in 2025!",
		"67% of 12 goal",
		"2,155",
		"4.3",
		"Project Hail Mary",
		"Circe",
		`href="static/style.css"`,
	} {
		if !strings.Contains(home, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(home, "The Night Circus") {
		t.Errorf("curated policy should only feature flagged books")
	}
}

func TestRender_FiveStarPolicy(t *testing.T) {
	out, _ := renderSample(t, reading.PolicyFiveStar)
	home := readPage(t, out, "index.html")
	if !strings.Contains(home, "Five Star Favorites") || !strings.Contains(home, "The Night Circus") {
		t.Errorf("five-star policy should feature every 5-star book")
	}
}

func TestRender_DetailNavigation(t *testing.T) {
	out, _ := renderSample(t, reading.PolicyCurated)

	first := readPage(t, out, "books/the-night-circus/index.html")
	if strings.Contains(first, "← Previous") {
		t.Errorf("first book should have no previous link")
	}
	if !strings.Contains(first, `href="../../books/educated/index.html"`) {
		t.Errorf("first book should link to the next one")
	}
	if !strings.Contains(first, "January 14, 2025") || !strings.Contains(first, "★★★★★") {
		t.Errorf("detail page missing date or stars")
	}

	last := readPage(t, out, "books/a-christmas-carol/index.html")
	if strings.Contains(last, "Next →") {
		t.Errorf("last book should have no next link")
	}

	unrated := readPage(t, out, "books/the-year-of-magical-thinking/index.html")
	if strings.Contains(unrated, "Rating:") {
		t.Errorf("unrated book should not show a rating")
	}
}

func TestRender_TimelineAndStats(t *testing.T) {
	out, _ := renderSample(t, reading.PolicyCurated)

	timeline := readPage(t, out, "timeline/index.html")
	if got := strings.Count(timeline, `class="month-group"`); got != 12 {
		t.Errorf("timeline month groups = %d, want 12", got)
	}
	if !strings.Contains(timeline, "No books finished this month.") {
		t.Errorf("empty months should say so")
	}

	stats := readPage(t, out, "stats/index.html")
	if !strings.Contains(stats, "4.29") {
		t.Errorf("stats page should show the average with two decimals")
	}
	if !strings.Contains(stats, "width: 100%") || !strings.Contains(stats, "width: 50%") {
		t.Errorf("bars should scale to the busiest month")
	}
	fantasy := strings.Index(stats, "Fantasy")
	fiction := strings.Index(stats, "<span>Fiction</span>")
	if fantasy < 0 || fiction < 0 || fantasy > fiction {
		t.Errorf("genres should be ranked by count")
	}
}

func TestRender_EmptyYear(t *testing.T) {
	r, err := New(Options{Logger: log.Discard().Logger})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out := t.TempDir()
	if _, err := r.Render(context.Background(), core.ReadingYear{Year: 2025, ReaderName: "Sam"}, out); err != nil {
		t.Fatalf("render: %v", err)
	}

	home := readPage(t, out, "index.html")
	if !strings.Contains(home, "0 Books in 2025!") || !strings.Contains(home, "—") {
		t.Errorf("empty year should render zero counts and the no-data placeholder")
	}
	stats := readPage(t, out, "stats/index.html")
	if !strings.Contains(stats, "No genre information available") {
		t.Errorf("empty genre placeholder missing")
	}
	letter := readPage(t, out, "letter/index.html")
	if !strings.Contains(letter, "Dear Sam,") {
		t.Errorf("default letter should address the reader")
	}
}

func TestRender_RejectsUnsafeIDs(t *testing.T) {
	r, err := New(Options{Logger: log.Discard().Logger})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	y := core.ReadingYear{Year: 2025, Books: []core.Book{{ID: "../escape", Title: "x", Author: "y", DateFinished: "2025-01-01"}}}
	if _, err := r.Render(context.Background(), y, t.TempDir()); !errors.Is(err, ErrUnsafeID) {
		t.Fatalf("expected ErrUnsafeID, got %v", err)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	r, err := New(Options{Logger: log.Discard().Logger})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, core.ReadingYear{Year: 2025}, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNew_UnknownPolicy(t *testing.T) {
	if _, err := New(Options{Policy: "random"}); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestFormatters(t *testing.T) {
	if got := Stars(3); got != "★★★☆☆" {
		t.Errorf("Stars(3) = %q", got)
	}
	if got := Stars(9); got != "★★★★★" {
		t.Errorf("Stars(9) = %q", got)
	}
	if got := FormatDate("2025-02-03"); got != "February 3, 2025" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("2025-02-31"); got != "2025-02-31" {
		t.Errorf("impossible dates should be returned as is, got %q", got)
	}
	if got := FormatDate("soon"); got != "soon" {
		t.Errorf("malformed dates should be returned as is, got %q", got)
	}
	if got := FormatAverage(core.Average{}, 1); got != "—" {
		t.Errorf("no-data average = %q", got)
	}
	if got := FormatAverage(core.Average{Value: 4.25, Valid: true}, 1); got != "4.2" && got != "4.3" {
		t.Errorf("average = %q", got)
	}
}
