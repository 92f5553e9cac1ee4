package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookyear/internal/books"
	"bookyear/internal/config"
	"bookyear/internal/log"
	"bookyear/internal/records"
)

type stubFinder struct {
	calls int
}

func (s *stubFinder) FindVolume(_ context.Context, title, _ string) (books.Volume, error) {
	s.calls++
	if title == "Fourth Wing" {
		return books.Volume{PageCount: 517, Categories: []string{"Fiction / Fantasy / Romance"}}, nil
	}
	return books.Volume{}, fmt.Errorf("%w: %s", books.ErrNoVolume, title)
}

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	base := map[string]string{
		"DATA_BACKEND":    "memory",
		"DATA_FILE":       "",
		"READING_YEAR":    "2025",
		"ENRICH_DELAY":    "0s",
		"FEATURED_POLICY": "curated",
		"LOG_LEVEL":       "error",
		"LOG_FORMAT":      "text",
	}
	for k, v := range kv {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func run(t *testing.T, finder *stubFinder, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts := Options{Out: &out, Err: &errOut, SkipEnvFile: true}
	if finder != nil {
		opts.NewFinder = func(context.Context, *config.Config, *log.Logger) (books.VolumeFinder, error) {
			return finder, nil
		}
	}
	root := NewRootCommand(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestStatsCommand(t *testing.T) {
	setEnv(t, nil)
	out, _, err := run(t, nil, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"2025 (Victoria)", "8 (67% of goal 12)", "2,155", "4.29", "January", "Fantasy", "Project Hail Mary"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCommandMonth(t *testing.T) {
	setEnv(t, nil)
	out, _, err := run(t, nil, "stats", "--month", "1")
	if err != nil {
		t.Fatalf("stats --month: %v", err)
	}
	if !strings.Contains(out, "January 2025") || !strings.Contains(out, "2 book(s)") || !strings.Contains(out, "Educated") {
		t.Errorf("unexpected month output:\n%s", out)
	}

	out, _, err = run(t, nil, "stats", "--month", "2")
	if err != nil {
		t.Fatalf("stats --month 2: %v", err)
	}
	if !strings.Contains(out, "No books finished this month.") || !strings.Contains(out, "—") {
		t.Errorf("empty month should say so:\n%s", out)
	}

	if _, _, err := run(t, nil, "stats", "--month", "13"); err == nil {
		t.Fatal("expected error for month 13")
	}
}

func TestYearFlagOverridesConfig(t *testing.T) {
	setEnv(t, nil)
	if _, _, err := run(t, nil, "stats", "--year", "1999"); err == nil || !strings.Contains(err.Error(), "reading year not found") {
		t.Fatalf("expected year not found, got %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	setEnv(t, map[string]string{"DATA_BACKEND": "sheets"})
	if _, _, err := run(t, nil, "stats"); err == nil || !strings.Contains(err.Error(), "invalid data backend") {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	setEnv(t, nil)
	out, _, err := run(t, nil, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "OK: 8 book(s)") {
		t.Errorf("unexpected output: %s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	content := `year: 2025
readerName: Sam
goal: 3
books:
  - id: a
    title: A
    author: X
    dateFinished: "2025-13-01"
  - id: a
    title: B
    author: Y
    dateFinished: "2025-02-01"
    rating: 7
`
	if err := os.WriteFile(bad, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	setEnv(t, map[string]string{"DATA_FILE": bad})
	out, _, err = run(t, nil, "check")
	if !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}
	if got := strings.Count("\n"+out, "\n- "); got != 3 {
		t.Errorf("expected three problems listed, got %d:\n%s", got, out)
	}
	for _, want := range []string{"malformed date", "rating out of range", "duplicate id"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	setEnv(t, nil)
	dir := t.TempDir()
	out, _, err := run(t, nil, "render", "--out", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Rendered 13 pages") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "stats", "index.html")); err != nil {
		t.Errorf("stats page missing: %v", err)
	}
}

func TestEnrichCommand(t *testing.T) {
	setEnv(t, nil)
	finder := &stubFinder{}
	dest := filepath.Join(t.TempDir(), "enriched.yaml")

	_, report, err := run(t, finder, "enrich", "--out", dest)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	// fourth-wing lacks pages and genre, the-year-of-magical-thinking lacks pages
	if finder.calls != 2 {
		t.Fatalf("lookups = %d, want 2", finder.calls)
	}
	if !strings.Contains(report, "1 page count(s) and 1 genre(s) filled, 1 failed") {
		t.Errorf("unexpected report: %s", report)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	y, err := records.Decode(f, records.FormatYAML)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	for _, b := range y.Books {
		if b.ID == "fourth-wing" && (b.PageCount() != 517 || b.Genre != "Fantasy Romance") {
			t.Fatalf("fourth-wing not enriched: %+v", b)
		}
	}
}

func TestEnrichCommandRejectsUnknownField(t *testing.T) {
	setEnv(t, nil)
	if _, _, err := run(t, &stubFinder{}, "enrich", "--fields", "covers"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestExportAndImport(t *testing.T) {
	setEnv(t, nil)
	out, _, err := run(t, nil, "export", "--format", "yaml")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "readerName: Victoria") {
		t.Fatalf("unexpected export:\n%s", out)
	}

	snapshot := filepath.Join(t.TempDir(), "year.yaml")
	if err := os.WriteFile(snapshot, []byte(out), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := run(t, nil, "import", "--file", snapshot); err == nil {
		t.Fatal("import into the memory backend should fail")
	}

	setEnv(t, map[string]string{
		"DATA_BACKEND":   "sqlite",
		"SQLITE_DB_PATH": filepath.Join(t.TempDir(), "books.db"),
	})
	out, _, err = run(t, nil, "import", "--file", snapshot)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 8 book(s) for 2025") {
		t.Errorf("unexpected import output: %s", out)
	}

	out, _, err = run(t, nil, "export")
	if err != nil {
		t.Fatalf("export from sqlite: %v", err)
	}
	if !strings.Contains(out, `"readerName": "Victoria"`) {
		t.Errorf("sqlite export should round-trip the snapshot:\n%s", out)
	}
}

func TestLogsCarryRunID(t *testing.T) {
	setEnv(t, map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "json"})
	_, logs, err := run(t, nil, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(logs, `"run_id":"run_`) {
		t.Errorf("logs should carry a run id:\n%s", logs)
	}
	if !strings.Contains(logs, "Command finished") || !strings.Contains(logs, `"duration_ms"`) {
		t.Errorf("missing completion log:\n%s", logs)
	}
}
