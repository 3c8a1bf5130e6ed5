package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/datasource"
	"stock-insights/internal/db"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

const stage = "migrate"

// Summary counts the outcome of one migration run.
type Summary struct {
	Files    int
	Imported int
	Skipped  int
	Failed   int
}

type Migrator struct {
	db     *sqlx.DB
	rawDir string
}

func New(conn *sqlx.DB, rawDir string) *Migrator {
	return &Migrator{db: conn, rawDir: rawDir}
}

// Run imports every raw file in name order. Each file is committed in its own
// transaction; a file that fails is rolled back and the run moves on. A
// missing raw directory logs a warning and returns an empty summary.
func (m *Migrator) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	ids, err := datasource.ListJSONIDs(m.rawDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Raw data directory not found, nothing to migrate", "dir", m.rawDir)
		return summary, nil
	}
	if err != nil {
		return summary, err
	}

	summary.Files = len(ids)
	logger.Info(ctx, "Found raw files", "count", len(ids), "dir", m.rawDir)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fname := id + ".json"
		raw, err := parseFile(filepath.Join(m.rawDir, fname))
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "file", fname, "reason", err.Error())
			summary.Skipped++
			continue
		}

		if err := db.WithTx(ctx, m.db, func(tx *sqlx.Tx) error {
			return ImportFile(ctx, tx, raw)
		}); err != nil {
			logger.Stage(ctx, stage, id, "failed", "file", fname, "error", err.Error())
			summary.Failed++
			continue
		}

		logger.Stage(ctx, stage, id, "ok", "file", fname)
		summary.Imported++
	}
	return summary, nil
}

// parseFile requires both the company and data keys to be present.
func parseFile(path string) (*types.RawCompanyFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw types.RawCompanyFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("could not parse: %w", err)
	}
	if raw.Company == nil {
		return nil, types.ErrMissingCompany
	}
	if raw.Data == nil {
		return nil, types.ErrMissingData
	}
	return &raw, nil
}

// ImportFile upserts the company and insert-ignores its child rows. Child rows
// without a company_id inherit the company's.
func ImportFile(ctx context.Context, ex sqlx.ExtContext, raw *types.RawCompanyFile) error {
	c := *raw.Company
	if err := db.UpsertCompany(ctx, ex, c); err != nil {
		return err
	}

	d := raw.Data
	for i := range d.CashFlow {
		if d.CashFlow[i].CompanyID == "" {
			d.CashFlow[i].CompanyID = c.ID
		}
	}
	for i := range d.BalanceSheet {
		if d.BalanceSheet[i].CompanyID == "" {
			d.BalanceSheet[i].CompanyID = c.ID
		}
	}
	for i := range d.ProfitAndLoss {
		if d.ProfitAndLoss[i].CompanyID == "" {
			d.ProfitAndLoss[i].CompanyID = c.ID
		}
	}
	for i := range d.ProsAndCons {
		if d.ProsAndCons[i].CompanyID == "" {
			d.ProsAndCons[i].CompanyID = c.ID
		}
	}
	for i := range d.Analysis {
		if d.Analysis[i].CompanyID == "" {
			d.Analysis[i].CompanyID = c.ID
		}
	}

	if err := db.InsertIgnoreCashFlow(ctx, ex, d.CashFlow); err != nil {
		return err
	}
	if err := db.InsertIgnoreBalanceSheet(ctx, ex, d.BalanceSheet); err != nil {
		return err
	}
	if err := db.InsertIgnoreProfitAndLoss(ctx, ex, d.ProfitAndLoss); err != nil {
		return err
	}
	if err := db.InsertIgnoreProsAndCons(ctx, ex, d.ProsAndCons); err != nil {
		return err
	}
	return db.InsertIgnoreAnalysis(ctx, ex, d.Analysis)
}
