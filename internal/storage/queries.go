package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the hand-written statements of the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx runs the same statements inside tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type ReadingYearRow struct {
	Year       int64
	ReaderName string
	Goal       int64
	LetterJSON sql.NullString
}

type BookRow struct {
	Year          int64
	ID            string
	Position      int64
	Title         string
	Author        string
	CoverImageURL string
	DateFinished  string
	Rating        sql.NullInt64
	Pages         sql.NullInt64
	Genre         string
	GoodreadsURL  string
	PersonalNote  string
	Featured      bool
}

const getReadingYear = `
SELECT year, reader_name, goal, letter_json
FROM reading_years
WHERE year = ?`

func (q *Queries) GetReadingYear(ctx context.Context, year int64) (ReadingYearRow, error) {
	var r ReadingYearRow
	err := q.db.QueryRowContext(ctx, getReadingYear, year).Scan(&r.Year, &r.ReaderName, &r.Goal, &r.LetterJSON)
	return r, err
}

const listReadingYears = `SELECT year FROM reading_years ORDER BY year`

func (q *Queries) ListReadingYears(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listReadingYears)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var years []int64
	for rows.Next() {
		var y int64
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

const upsertReadingYear = `
INSERT INTO reading_years (year, reader_name, goal, letter_json, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(year) DO UPDATE SET
    reader_name = excluded.reader_name,
    goal        = excluded.goal,
    letter_json = excluded.letter_json,
    updated_at  = CURRENT_TIMESTAMP`

func (q *Queries) UpsertReadingYear(ctx context.Context, r ReadingYearRow) error {
	_, err := q.db.ExecContext(ctx, upsertReadingYear, r.Year, r.ReaderName, r.Goal, r.LetterJSON)
	return err
}

const deleteBooksForYear = `DELETE FROM books WHERE year = ?`

func (q *Queries) DeleteBooksForYear(ctx context.Context, year int64) error {
	_, err := q.db.ExecContext(ctx, deleteBooksForYear, year)
	return err
}

const insertBook = `
INSERT INTO books (
    year, id, position, title, author, cover_image_url, date_finished,
    rating, pages, genre, goodreads_url, personal_note, featured
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertBook(ctx context.Context, b BookRow) error {
	_, err := q.db.ExecContext(ctx, insertBook,
		b.Year, b.ID, b.Position, b.Title, b.Author, b.CoverImageURL, b.DateFinished,
		b.Rating, b.Pages, b.Genre, b.GoodreadsURL, b.PersonalNote, b.Featured)
	return err
}

const listBooksForYear = `
SELECT year, id, position, title, author, cover_image_url, date_finished,
       rating, pages, genre, goodreads_url, personal_note, featured
FROM books
WHERE year = ?
ORDER BY position`

func (q *Queries) ListBooksForYear(ctx context.Context, year int64) ([]BookRow, error) {
	rows, err := q.db.QueryContext(ctx, listBooksForYear, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookRow
	for rows.Next() {
		var b BookRow
		if err := rows.Scan(
			&b.Year, &b.ID, &b.Position, &b.Title, &b.Author, &b.CoverImageURL, &b.DateFinished,
			&b.Rating, &b.Pages, &b.Genre, &b.GoodreadsURL, &b.PersonalNote, &b.Featured,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
