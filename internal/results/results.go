package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"stock-insights/internal/datasource"
	"stock-insights/internal/db"
	"stock-insights/internal/features"
	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

const stage = "store_results"

// StockPriceCAGR is written for every company; no price history is fetched.
const StockPriceCAGR = "0%"

type Summary struct {
	Stored  int
	Skipped int
	Failed  int
}

type Store struct {
	db           *sqlx.DB
	src          interfaces.CompanySource
	processedDir string
}

func New(conn *sqlx.DB, src interfaces.CompanySource, processedDir string) *Store {
	return &Store{db: conn, src: src, processedDir: processedDir}
}

// BuildAnalysis computes the growth summary row for a company. Growth is
// taken over the last six profit-and-loss rows.
func BuildAnalysis(cf *types.CompanyFinancials) types.AnalysisRow {
	sales := features.Growth(cf.ProfitAndLoss, features.Sales)
	profit := features.Growth(cf.ProfitAndLoss, features.NetProfit)
	roe := features.SafeFloat(cf.Company.ROEPercentage.Scalar)

	return types.AnalysisRow{
		ID:                     types.S(uuid.NewString()[:8]),
		CompanyID:              cf.Company.ID,
		CompoundedSalesGrowth:  types.S(percent(sales)),
		CompoundedProfitGrowth: types.S(percent(profit)),
		StockPriceCAGR:         types.S(StockPriceCAGR),
		ROE:                    types.S(percent(roe)),
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// StoreAll persists every processed result. Each company is written in its
// own transaction; a failure rolls back that company only.
func (s *Store) StoreAll(ctx context.Context) (Summary, error) {
	var summary Summary

	ids, err := datasource.ListJSONIDs(s.processedDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn(ctx, "Processed directory not found, nothing to store", "dir", s.processedDir)
		return summary, nil
	}
	if err != nil {
		return summary, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := datasource.ReadProcessed(filepath.Join(s.processedDir, id+".json"))
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "error", err.Error())
			summary.Skipped++
			continue
		}
		cf, err := s.src.LoadCompany(ctx, id)
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "error", err.Error())
			summary.Skipped++
			continue
		}

		if err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
			return StoreCompany(ctx, tx, cf, res)
		}); err != nil {
			logger.Stage(ctx, stage, id, "failed", "error", err.Error())
			summary.Failed++
			continue
		}

		logger.Stage(ctx, stage, id, "ok")
		summary.Stored++
	}
	return summary, nil
}

// StoreCompany upserts the company and its analysis row and replaces its
// pros and cons.
func StoreCompany(ctx context.Context, ex sqlx.ExtContext, cf *types.CompanyFinancials, res *types.ProcessedResult) error {
	if err := db.UpsertCompany(ctx, ex, cf.Company); err != nil {
		return err
	}
	if err := db.UpsertAnalysis(ctx, ex, BuildAnalysis(cf)); err != nil {
		return err
	}
	return db.ReplaceProsAndCons(ctx, ex, cf.Company.ID, res.Pros, res.Cons)
}
