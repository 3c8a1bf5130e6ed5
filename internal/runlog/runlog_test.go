package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedJournal(dir string, now time.Time) *Journal {
	j := New(dir)
	j.now = func() time.Time { return now }
	return j
}

func TestAppendAndSummarize(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	j := fixedJournal(dir, day)

	hook := j.Hook()
	hook("migrate", "A", "ok", nil)
	hook("migrate", "B", "skipped", []any{"reason", "missing 'data' key"})
	hook("analyze", "A", "ok", nil)
	hook("analyze", "B", "failed", []any{"error", "boom"})

	b, err := os.ReadFile(filepath.Join(dir, "2026-03-14.txt"))
	if err != nil {
		t.Fatalf("Expected journal file: %v", err)
	}
	if !strings.Contains(string(b), `"detail":"missing 'data' key"`) {
		t.Errorf("Expected reason in journal, got %s", b)
	}

	csvPath, err := j.SummarizeDay(day)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if csvPath != filepath.Join(dir, "summary", "2026-03-14.csv") {
		t.Errorf("Unexpected summary path %s", csvPath)
	}

	out, _ := os.ReadFile(csvPath)
	want := "stage,ok,skipped,failed\nanalyze,1,0,1\nmigrate,1,1,0\n"
	if string(out) != want {
		t.Errorf("Expected summary %q, got %q", want, out)
	}
}

func TestSummarizeDayWithoutJournal(t *testing.T) {
	j := New(t.TempDir())
	p, err := j.SummarizeDay(time.Now())
	if err != nil || p != "" {
		t.Errorf("Expected empty result, got %q, %v", p, err)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "2020-01-01.txt")
	fresh := filepath.Join(dir, "2026-03-14.txt")
	os.WriteFile(old, []byte("{}\n"), 0o644)
	os.WriteFile(fresh, []byte("{}\n"), 0o644)
	past := time.Now().AddDate(0, 0, -30)
	os.Chtimes(old, past, past)

	j := New(dir)
	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Errorf("Expected old journal to be compressed")
	}
	if _, err := os.Stat(old); err == nil {
		t.Errorf("Expected old journal to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("Expected fresh journal to be kept")
	}
}
