package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-insights/internal/analyzer"
	"stock-insights/internal/api"
	"stock-insights/internal/datasource"
	"stock-insights/internal/fetcher"
	"stock-insights/internal/fetcher/fetcherobs"
	"stock-insights/internal/forest"
	"stock-insights/internal/logger"
	"stock-insights/internal/migrate"
	"stock-insights/internal/results"
	"stock-insights/internal/training"
)

var errNoDatabase = errors.New("database connection required")

// Fetch downloads raw JSON for every ticker of the company spreadsheet.
func (p *Pipeline) Fetch(ctx context.Context) error {
	ids, err := fetcher.LoadCompanyIDs(p.cfg.Paths.CompanyList)
	if err != nil {
		return fmt.Errorf("load company list: %w", err)
	}

	apiKey := p.cfg.APIKey()
	if apiKey == "" {
		logger.Warn(ctx, "API key not set, requests will likely be rejected", "env", p.cfg.API.APIKeyEnv)
	}

	client := api.NewClient(
		api.WithBaseURL(p.cfg.API.BaseURL),
		api.WithTimeout(time.Duration(p.cfg.API.TimeoutSeconds)*time.Second),
		api.WithRateLimit(p.cfg.API.RequestsPerSecond),
		api.WithLogging(logger.IsDebugEnabled()),
	)
	f := fetcherobs.Wrap(fetcher.New(client, apiKey, p.cfg.Paths.RawDir))

	summary, err := f.FetchAll(ctx, ids)
	if err != nil {
		return err
	}
	if summary.Saved == 0 && summary.Requested > 0 {
		return fmt.Errorf("no company data fetched (%d failed, %d skipped)", summary.Failed, summary.Skipped)
	}
	return nil
}

// Migrate imports the raw directory into MySQL.
func (p *Pipeline) Migrate(ctx context.Context) error {
	if p.conn == nil {
		return errNoDatabase
	}
	summary, err := migrate.New(p.conn, p.cfg.Paths.RawDir).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Migration completed",
		"files", summary.Files,
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return nil
}

// GenerateTrainingData writes the training CSV from the configured source.
func (p *Pipeline) GenerateTrainingData(ctx context.Context) error {
	src, err := datasource.NewSource(p.cfg, p.conn)
	if err != nil {
		return err
	}
	rows, err := training.BuildDataset(ctx, src)
	if err != nil {
		return err
	}
	if err := training.WriteCSV(p.cfg.Paths.TrainingCSV, rows); err != nil {
		return err
	}
	logger.Info(ctx, "Training data written", "rows", len(rows), "path", p.cfg.Paths.TrainingCSV)
	return nil
}

// Train fits the classifier on the training CSV and saves the model.
func (p *Pipeline) Train(ctx context.Context) error {
	rows, err := training.ReadCSV(p.cfg.Paths.TrainingCSV)
	if err != nil {
		return fmt.Errorf("read training data: %w", err)
	}

	clf, report, err := training.Train(rows, p.cfg.Classifier.TestSize, p.forestParams())
	if err != nil {
		return err
	}
	if err := clf.Save(p.cfg.Paths.Model); err != nil {
		return err
	}

	logger.Info(ctx, "Model trained",
		"train_rows", report.TrainSize,
		"test_rows", report.TestSize,
		"subset_accuracy", report.SubsetAccuracy,
		"path", p.cfg.Paths.Model,
	)
	logger.Debug(ctx, "Classification report\n"+report.String())
	return nil
}

func (p *Pipeline) forestParams() forest.Params {
	c := p.cfg.Classifier
	return forest.Params{
		Trees:           c.Trees,
		MaxDepth:        c.MaxDepth,
		MaxFeatures:     c.MaxFeatures,
		MinSamplesSplit: c.MinSamplesSplit,
		Seed:            c.Seed,
	}
}

// Analyze predicts pros and cons for every company of the source.
func (p *Pipeline) Analyze(ctx context.Context) error {
	clf, err := forest.Load(p.cfg.Paths.Model)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	src, err := datasource.NewSource(p.cfg, p.conn)
	if err != nil {
		return err
	}

	summary, err := analyzer.New(src, clf, p.cfg.Paths.ProcessedDir).AnalyzeAll(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Analysis completed", "analyzed", summary.Analyzed, "skipped", summary.Skipped)
	return nil
}

// StoreResults writes the processed results back to MySQL.
func (p *Pipeline) StoreResults(ctx context.Context) error {
	if p.conn == nil {
		return errNoDatabase
	}
	src, err := datasource.NewSource(p.cfg, p.conn)
	if err != nil {
		return err
	}

	summary, err := results.New(p.conn, src, p.cfg.Paths.ProcessedDir).StoreAll(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Results stored",
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return nil
}
