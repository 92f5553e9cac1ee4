package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bookyear/internal/core"
	"bookyear/internal/records"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadYear implements records.YearReader
func (r *SQLiteRepository) ReadYear(ctx context.Context, year int) (core.ReadingYear, error) {
	row, err := r.queries.GetReadingYear(ctx, int64(year))
	if errors.Is(err, sql.ErrNoRows) {
		return core.ReadingYear{}, fmt.Errorf("%w: %d", core.ErrYearNotFound, year)
	}
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("get reading year: %w", err)
	}

	bookRows, err := r.queries.ListBooksForYear(ctx, int64(year))
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("list books: %w", err)
	}

	y := core.ReadingYear{
		Year:       int(row.Year),
		ReaderName: row.ReaderName,
		Goal:       int(row.Goal),
		Books:      make([]core.Book, len(bookRows)),
	}
	if row.LetterJSON.Valid && row.LetterJSON.String != "" {
		var l core.Letter
		if err := json.Unmarshal([]byte(row.LetterJSON.String), &l); err != nil {
			return core.ReadingYear{}, fmt.Errorf("decode letter: %w", err)
		}
		y.Letter = &l
	}
	for i, b := range bookRows {
		y.Books[i] = bookFromRow(b)
	}

	return y, nil
}

// SaveYear implements records.YearWriter. The stored snapshot is replaced
// atomically; book order is kept through the position column.
func (r *SQLiteRepository) SaveYear(ctx context.Context, y core.ReadingYear) error {
	if err := y.Validate(); err != nil {
		return fmt.Errorf("validate reading year: %w", err)
	}

	var letter sql.NullString
	if y.Letter != nil {
		data, err := json.Marshal(y.Letter)
		if err != nil {
			return fmt.Errorf("encode letter: %w", err)
		}
		letter = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.UpsertReadingYear(ctx, ReadingYearRow{
		Year:       int64(y.Year),
		ReaderName: y.ReaderName,
		Goal:       int64(y.Goal),
		LetterJSON: letter,
	}); err != nil {
		return fmt.Errorf("upsert reading year: %w", err)
	}
	if err := q.DeleteBooksForYear(ctx, int64(y.Year)); err != nil {
		return fmt.Errorf("clear books: %w", err)
	}
	for i, b := range y.Books {
		if err := q.InsertBook(ctx, rowFromBook(y.Year, i, b)); err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Reading year saved to SQLite",
		"year", y.Year,
		"books", len(y.Books))

	return nil
}

// Years returns every stored year in ascending order.
func (r *SQLiteRepository) Years(ctx context.Context) ([]int, error) {
	ys, err := r.queries.ListReadingYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reading years: %w", err)
	}
	out := make([]int, len(ys))
	for i, y := range ys {
		out[i] = int(y)
	}
	return out, nil
}

func bookFromRow(b BookRow) core.Book {
	book := core.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		CoverImageURL: b.CoverImageURL,
		DateFinished:  b.DateFinished,
		Genre:         b.Genre,
		GoodreadsURL:  b.GoodreadsURL,
		PersonalNote:  b.PersonalNote,
		Featured:      b.Featured,
	}
	if b.Rating.Valid {
		book.Rating = core.IntPtr(int(b.Rating.Int64))
	}
	if b.Pages.Valid {
		book.Pages = core.IntPtr(int(b.Pages.Int64))
	}
	return book
}

func rowFromBook(year, position int, b core.Book) BookRow {
	row := BookRow{
		Year:          int64(year),
		ID:            b.ID,
		Position:      int64(position),
		Title:         b.Title,
		Author:        b.Author,
		CoverImageURL: b.CoverImageURL,
		DateFinished:  b.DateFinished,
		Genre:         b.Genre,
		GoodreadsURL:  b.GoodreadsURL,
		PersonalNote:  b.PersonalNote,
		Featured:      b.Featured,
	}
	if b.Rating != nil {
		row.Rating = sql.NullInt64{Int64: int64(*b.Rating), Valid: true}
	}
	if b.Pages != nil {
		row.Pages = sql.NullInt64{Int64: int64(*b.Pages), Valid: true}
	}
	return row
}
