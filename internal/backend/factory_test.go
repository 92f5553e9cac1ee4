package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bookyear/internal/config"
	"bookyear/internal/core"
	"bookyear/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", DataFile: "y.json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.DataFile != "y.json" {
		t.Fatalf("unexpected backend config: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: Config{Type: MemoryBackend}},
		{name: "sqlite", cfg: Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}},
		{name: "sqlite without path", cfg: Config{Type: SQLiteBackend}, wantErr: true},
		{name: "unknown", cfg: Config{Type: "sheets"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTypeStrings(t *testing.T) {
	got := TypeStrings()
	if len(got) != 2 || got[0] != "memory" || got[1] != "sqlite" {
		t.Fatalf("TypeStrings() = %v", got)
	}
}

func TestOpenMemorySample(t *testing.T) {
	f := NewFactory(log.Discard().Logger)
	res, err := f.Open(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer res.Close()

	if _, err := res.Store.ReadYear(context.Background(), 2025); err != nil {
		t.Fatalf("read sample: %v", err)
	}
}

func TestOpenSQLite(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.Open(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "books.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer res.Close()

	ctx := context.Background()
	if _, err := res.Store.ReadYear(ctx, 2025); !errors.Is(err, core.ErrYearNotFound) {
		t.Fatalf("empty database should report ErrYearNotFound, got %v", err)
	}

	y := core.ReadingYear{Year: 2025, Books: []core.Book{
		{ID: "a", Title: "A", Author: "X", DateFinished: "2025-01-01"},
	}}
	if err := res.Store.SaveYear(ctx, y); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := res.Store.ReadYear(ctx, 2025)
	if err != nil || len(got.Books) != 1 {
		t.Fatalf("read back: %+v %v", got, err)
	}
}

func TestResultCloseWithoutCleanup(t *testing.T) {
	var r *Result
	if err := r.Close(); err != nil {
		t.Fatalf("nil result close: %v", err)
	}
	if err := (&Result{}).Close(); err != nil {
		t.Fatalf("close without cleanup: %v", err)
	}
}
