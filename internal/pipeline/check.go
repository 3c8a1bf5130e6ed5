package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/db"
	"stock-insights/internal/logger"
	"stock-insights/internal/store"
)

var ErrNoCompanies = errors.New("no companies found in database")

// Availability is what CheckDataAvailability found before a run.
type Availability struct {
	Companies         int
	WithProfitAndLoss int
	TrainingCSV       bool
	Model             bool
	Warnings          []string
}

// CheckDataAvailability verifies the database holds companies and reports
// profit-and-loss coverage. A missing training CSV or model is only a warning.
func CheckDataAvailability(ctx context.Context, q sqlx.QueryerContext, cfg *store.Config) (*Availability, error) {
	logger.Info(ctx, "Checking data availability")

	companies, err := db.CountCompanies(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}
	if companies == 0 {
		logger.Error(ctx, "No companies found in database, run the migrate command first")
		return nil, ErrNoCompanies
	}

	withPnL, err := db.CountCompaniesWithProfitAndLoss(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count profit and loss coverage: %w", err)
	}

	a := &Availability{
		Companies:         companies,
		WithProfitAndLoss: withPnL,
		TrainingCSV:       fileExists(cfg.Paths.TrainingCSV),
		Model:             fileExists(cfg.Paths.Model),
	}
	if !a.TrainingCSV {
		a.Warnings = append(a.Warnings, fmt.Sprintf("%s not found, training may fail", cfg.Paths.TrainingCSV))
	}
	if !a.Model {
		a.Warnings = append(a.Warnings, fmt.Sprintf("%s not found, a new model will be trained", cfg.Paths.Model))
	}

	logger.Info(ctx, "Data availability",
		"companies", a.Companies,
		"with_profit_and_loss", a.WithProfitAndLoss,
	)
	for _, w := range a.Warnings {
		logger.Warn(ctx, w)
	}
	return a, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
