// Package enrich fills missing page counts and genres in a reading year from
// an external catalogue. It runs offline, one lookup at a time, and never
// touches the snapshot it was given.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bookyear/internal/books"
	"bookyear/internal/core"
	"bookyear/internal/log"

	"golang.org/x/time/rate"
)

// Fields selects which book fields a run may fill.
type Fields uint8

const (
	FieldPages Fields = 1 << iota
	FieldGenres

	AllFields = FieldPages | FieldGenres
)

// Has reports whether every field in f2 is selected.
func (f Fields) Has(f2 Fields) bool {
	return f&f2 == f2
}

func (f Fields) String() string {
	var parts []string
	if f.Has(FieldPages) {
		parts = append(parts, "pages")
	}
	if f.Has(FieldGenres) {
		parts = append(parts, "genres")
	}
	return strings.Join(parts, ",")
}

// ParseFields parses a comma separated list such as "pages,genres".
func ParseFields(s string) (Fields, error) {
	var f Fields
	for part := range strings.SplitSeq(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "pages":
			f |= FieldPages
		case "genre", "genres":
			f |= FieldGenres
		default:
			return 0, fmt.Errorf("unknown enrich field %q: must be pages or genres", part)
		}
	}
	if f == 0 {
		return 0, errors.New("no enrich fields selected")
	}
	return f, nil
}

// Config holds configuration for the pipeline
type Config struct {
	// Fields to fill (default: pages and genres)
	Fields Fields

	// Delay is the minimum spacing between two lookups (default: 500ms)
	Delay time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Fields: AllFields,
		Delay:  500 * time.Millisecond,
	}
}

// Report summarises a run.
type Report struct {
	Looked        int // books that needed a lookup
	Failed        int // lookups that returned an error or no match
	FilledPages   int
	FilledGenres  int
	MissingGenres int // books still without a genre after the run
	TotalPages    int // pages across the year after the run
}

// Pipeline walks a reading year and fills missing fields through a VolumeFinder.
type Pipeline struct {
	finder  books.VolumeFinder
	limiter *rate.Limiter
	fields  Fields
	logger  *slog.Logger
}

// New creates a pipeline. A zero Fields selects every field.
func New(finder books.VolumeFinder, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Fields == 0 {
		cfg.Fields = AllFields
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Pipeline{
		finder:  finder,
		limiter: rate.NewLimiter(limit, 1),
		fields:  cfg.Fields,
		logger:  logger,
	}
}

// Run returns an enriched copy of y. Fields that are already set (pages > 0,
// non-blank genre) are kept. A failed lookup is logged and leaves the field
// unset; only context cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, y core.ReadingYear) (core.ReadingYear, Report, error) {
	if p.finder == nil {
		return core.ReadingYear{}, Report{}, errors.New("enrich: no volume finder configured")
	}

	out := y.Clone()
	var report Report

	for i := range out.Books {
		b := &out.Books[i]
		needPages := p.fields.Has(FieldPages) && b.PageCount() <= 0
		needGenre := p.fields.Has(FieldGenres) && !b.HasGenre()
		if !needPages && !needGenre {
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return core.ReadingYear{}, report, fmt.Errorf("enrich interrupted at %s: %w", b.ID, err)
		}

		report.Looked++
		p.logger.InfoContext(ctx, "Looking up book metadata",
			log.FieldBookID, b.ID,
			log.FieldTitle, b.Title,
			log.FieldAuthor, b.Author,
			"fields", p.needed(needPages, needGenre))

		vol, err := p.finder.FindVolume(ctx, b.Title, b.Author)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return core.ReadingYear{}, report, fmt.Errorf("enrich interrupted at %s: %w", b.ID, ctxErr)
			}
			report.Failed++
			fields := log.NewFields().
				WithOperation(log.OpLookup).
				WithBook(b.ID, b.Title, b.Author).
				WithError(err)
			if errors.Is(err, books.ErrNoVolume) {
				fields.WithErrorType(log.ErrorTypeNotFound)
			} else {
				fields.WithErrorType(log.ErrorTypeNetwork)
			}
			p.logger.WarnContext(ctx, "Book lookup failed", fields.ToSlice()...)
			if needPages {
				b.Pages = nil
			}
			if needGenre {
				b.Genre = ""
			}
			continue
		}

		if needPages {
			if vol.PageCount > 0 {
				b.Pages = core.IntPtr(vol.PageCount)
				report.FilledPages++
			} else {
				b.Pages = nil
				p.logger.WarnContext(ctx, "No page count for book", log.FieldBookID, b.ID, log.FieldTitle, b.Title)
			}
		}
		if needGenre {
			b.Genre = books.GenreFromCategories(vol.Categories)
			if b.Genre != "" {
				report.FilledGenres++
			} else {
				p.logger.WarnContext(ctx, "No usable genre mapped for book",
					log.FieldBookID, b.ID,
					log.FieldTitle, b.Title,
					log.FieldCategories, vol.Categories)
			}
		}
	}

	for _, b := range out.Books {
		report.TotalPages += b.PageCount()
		if !b.HasGenre() {
			report.MissingGenres++
		}
	}

	p.logger.InfoContext(ctx, "Enrichment finished",
		log.FieldYear, out.Year,
		"looked_up", report.Looked,
		"failed", report.Failed,
		"filled_pages", report.FilledPages,
		"filled_genres", report.FilledGenres,
		"missing_genres", report.MissingGenres,
		"total_pages", report.TotalPages)

	return out, report, nil
}

func (p *Pipeline) needed(pages, genre bool) string {
	var f Fields
	if pages {
		f |= FieldPages
	}
	if genre {
		f |= FieldGenres
	}
	return f.String()
}

// Fields returns the fields this pipeline fills.
func (p *Pipeline) Fields() Fields {
	return p.fields
}
