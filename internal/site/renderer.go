// Package site renders a reading year as a static website. Every page is
// built from aggregation results only; the renderer never recomputes
// anything itself.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bookyear/internal/core"
	"bookyear/internal/reading"
	"bookyear/web"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrUnsafeID is returned for book ids that cannot be used as a directory name.
var ErrUnsafeID = errors.New("book id is not a safe path segment")

// Options configures a Renderer.
type Options struct {
	Policy reading.FeaturedPolicy
	// Language controls number formatting; defaults to English.
	Language language.Tag
	Logger   *slog.Logger
}

// Renderer writes the site pages into a directory.
type Renderer struct {
	tmpl    *template.Template
	static  fs.FS
	policy  reading.FeaturedPolicy
	printer *message.Printer
	logger  *slog.Logger
}

// Result reports what a render wrote.
type Result struct {
	Pages  int
	Assets int
}

func New(opts Options) (*Renderer, error) {
	policy := opts.Policy
	if policy == "" {
		policy = reading.PolicyCurated
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown featured policy %q", policy)
	}
	lang := opts.Language
	if lang == language.Und {
		lang = language.English
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	printer := message.NewPrinter(lang)
	tmpl, err := template.New("site").Funcs(funcMap(printer)).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	return &Renderer{
		tmpl:    tmpl,
		static:  static,
		policy:  policy,
		printer: printer,
		logger:  logger,
	}, nil
}

// Render writes every page of y under outDir, creating it if needed.
// Existing files with the same names are overwritten.
func (r *Renderer) Render(ctx context.Context, y core.ReadingYear, outDir string) (Result, error) {
	for _, b := range y.Books {
		if !safeSegment(b.ID) {
			return Result{}, fmt.Errorf("%w: %q", ErrUnsafeID, b.ID)
		}
	}

	sorted := reading.SortByFinished(y.Books)
	stats := reading.ComputeStats(sorted)
	months := reading.GroupByMonth(sorted)

	var res Result
	write := func(rel, name string, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.writePage(filepath.Join(outDir, filepath.FromSlash(rel)), name, data); err != nil {
			return err
		}
		res.Pages++
		return nil
	}

	home := homeView{
		page:          page{Title: "Home", Base: "", Nav: "home", Year: y.Year},
		ReaderName:    y.ReaderName,
		Goal:          y.Goal,
		Progress:      reading.GoalProgress(stats.TotalBooks, y.Goal),
		Stats:         stats,
		Featured:      reading.Featured(sorted, r.policy),
		FeaturedTitle: r.featuredTitle(),
	}
	if err := write("index.html", "index.html", home); err != nil {
		return res, err
	}

	if err := write("books/index.html", "books.html", booksView{
		page:  page{Title: "All Books", Base: "../", Nav: "books", Year: y.Year},
		Books: sorted,
	}); err != nil {
		return res, err
	}

	for _, b := range sorted {
		prev, next, _ := reading.Neighbors(sorted, b.ID)
		if err := write(path.Join("books", b.ID, "index.html"), "book.html", bookView{
			page: page{Title: b.Title, Base: "../../", Nav: "books", Year: y.Year},
			Book: b,
			Prev: prev,
			Next: next,
		}); err != nil {
			return res, err
		}
	}

	tv := timelineView{
		page:    page{Title: "Timeline", Base: "../", Nav: "timeline", Year: y.Year},
		Months:  make([]monthView, core.MonthsInYear),
		Undated: stats.Undated,
	}
	for i := range core.MonthsInYear {
		tv.Months[i] = monthView{Name: monthName(i), Books: months.Month(i + 1)}
	}
	if err := write("timeline/index.html", "timeline.html", tv); err != nil {
		return res, err
	}

	if err := write("stats/index.html", "stats.html", statsView{
		page:   page{Title: "Stats", Base: "../", Nav: "stats", Year: y.Year},
		Stats:  stats,
		Bars:   bars(stats.BooksPerMonth),
		Genres: reading.RankGenres(stats.GenreCounts),
	}); err != nil {
		return res, err
	}

	letter := defaultLetter(y, stats.TotalBooks)
	if y.Letter != nil {
		letter = *y.Letter
		if letter.To == "" {
			letter.To = y.ReaderName
		}
	}
	if err := write("letter/index.html", "letter.html", letterView{
		page:   page{Title: "Letter", Base: "../", Nav: "letter", Year: y.Year},
		Letter: letter,
	}); err != nil {
		return res, err
	}

	assets, err := r.copyStatic(filepath.Join(outDir, "static"))
	if err != nil {
		return res, err
	}
	res.Assets = assets

	r.logger.InfoContext(ctx, "Site rendered",
		"year", y.Year,
		"output_dir", outDir,
		"pages", res.Pages,
		"assets", res.Assets,
		"undated", stats.Undated)

	return res, nil
}

func (r *Renderer) featuredTitle() string {
	if r.policy == reading.PolicyFiveStar {
		return "Five Star Favorites"
	}
	return "Favorites of the Year"
}

func (r *Renderer) writePage(dest, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

func (r *Renderer) copyStatic(dest string) (int, error) {
	n := 0
	err := fs.WalkDir(r.static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(r.static, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("copy static assets: %w", err)
	}
	return n, nil
}

func safeSegment(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
