package memory

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"sync"

	"bookyear/internal/core"
	"bookyear/internal/records"
)

//go:embed sample/year.json
var sampleFS embed.FS

// Store keeps reading years in memory. It is the default record store: the
// collection is loaded once from a data file (or the embedded sample) and
// served as copies.
type Store struct {
	mu    sync.Mutex
	years map[int]core.ReadingYear
}

var _ records.Store = (*Store)(nil)

func New(years ...core.ReadingYear) *Store {
	s := &Store{years: make(map[int]core.ReadingYear, len(years))}
	for _, y := range years {
		s.years[y.Year] = y.Clone()
	}
	return s
}

// NewFromFile loads a single reading year from a JSON or YAML file. An empty
// path loads the embedded sample year.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		y, err := Sample()
		if err != nil {
			return nil, err
		}
		return New(y), nil
	}

	format, err := records.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	y, err := records.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return New(y), nil
}

// Sample returns the embedded example year.
func Sample() (core.ReadingYear, error) {
	data, err := sampleFS.ReadFile("sample/year.json")
	if err != nil {
		return core.ReadingYear{}, fmt.Errorf("read sample: %w", err)
	}
	return records.Decode(bytes.NewReader(data), records.FormatJSON)
}

// ReadYear implements records.YearReader
func (s *Store) ReadYear(_ context.Context, year int) (core.ReadingYear, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, ok := s.years[year]
	if !ok {
		return core.ReadingYear{}, fmt.Errorf("%w: %d", core.ErrYearNotFound, year)
	}
	return y.Clone(), nil
}

// SaveYear implements records.YearWriter
func (s *Store) SaveYear(_ context.Context, y core.ReadingYear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[y.Year] = y.Clone()
	return nil
}

// Years lists the loaded years in no particular order.
func (s *Store) Years() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.years))
	for y := range s.years {
		out = append(out, y)
	}
	return out
}
