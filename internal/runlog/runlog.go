package runlog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
)

// Entry is one journal line: the outcome of a stage for one company.
type Entry struct {
	Time      string `json:"time"`
	Stage     string `json:"stage"`
	CompanyID string `json:"company_id"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
}

// Journal appends entries to <dir>/<date>.txt, one JSON object per line.
type Journal struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

var _ interfaces.RunSummarizer = (*Journal)(nil)

func New(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) dailyFilepath(t time.Time) string {
	return filepath.Join(j.dir, t.Format("2006-01-02")+".txt")
}

func (j *Journal) summaryPath(t time.Time) string {
	return filepath.Join(j.dir, "summary", t.Format("2006-01-02")+".csv")
}

func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	e.Time = now.Format("2006-01-02 15:04:05")
	p := j.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Hook adapts the journal to logger.SetStageHook. The "error" or "reason"
// field, when present, becomes the entry's detail.
func (j *Journal) Hook() logger.StageHook {
	return func(stage, companyID, outcome string, fields []any) {
		e := Entry{Stage: stage, CompanyID: companyID, Outcome: outcome}
		for i := 0; i+1 < len(fields); i += 2 {
			if k, ok := fields[i].(string); ok && (k == "error" || k == "reason") {
				e.Detail = fmt.Sprint(fields[i+1])
				break
			}
		}
		if err := j.Append(e); err != nil {
			logger.Warn(context.Background(), "Failed to append run journal entry", "error", err)
		}
	}
}

// StageSummary is one row of the daily summary CSV.
type StageSummary struct {
	Stage   string `csv:"stage"`
	OK      int    `csv:"ok"`
	Skipped int    `csv:"skipped"`
	Failed  int    `csv:"failed"`
}

// SummarizeDay counts the day's outcomes per stage and writes them to
// <dir>/summary/<date>.csv. It returns "" without error when the day has no
// journal.
func (j *Journal) SummarizeDay(t time.Time) (string, error) {
	inPath := j.dailyFilepath(t)
	f, err := os.Open(inPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	aggs := map[string]*StageSummary{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		row := aggs[e.Stage]
		if row == nil {
			row = &StageSummary{Stage: e.Stage}
			aggs[e.Stage] = row
		}
		switch e.Outcome {
		case "ok":
			row.OK++
		case "skipped":
			row.Skipped++
		default:
			row.Failed++
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(aggs) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([]StageSummary, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, *aggs[k])
	}

	outPath := j.summaryPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return "", err
	}
	return outPath, out.Close()
}

func (j *Journal) SummarizeToday() (string, error) {
	return j.SummarizeDay(j.now())
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago. Files that fail to compress are left in place.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
