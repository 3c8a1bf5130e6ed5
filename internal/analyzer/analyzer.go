package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"stock-insights/internal/features"
	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

const stage = "analyze"

// Predictor is satisfied by *forest.Classifier.
type Predictor interface {
	Predict(x []float64) ([]bool, error)
}

type Summary struct {
	Analyzed int
	Skipped  int
}

type Analyzer struct {
	src          interfaces.CompanySource
	model        Predictor
	processedDir string
}

func New(src interfaces.CompanySource, model Predictor, processedDir string) *Analyzer {
	return &Analyzer{src: src, model: model, processedDir: processedDir}
}

// Analyze predicts labels for one company and renders its sentences.
func (a *Analyzer) Analyze(ctx context.Context, id string) (*types.ProcessedResult, error) {
	cf, err := a.src.LoadCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	f := features.Extract(*cf)
	pred, err := a.model.Predict(f.Vector())
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", id, err)
	}

	pros, cons := Render(f, types.LabelsFromVector(pred))
	return &types.ProcessedResult{CompanyID: id, Pros: pros, Cons: cons}, nil
}

// AnalyzeAll writes <processedDir>/<id>.json for every company of the
// source. Failing companies are logged and skipped.
func (a *Analyzer) AnalyzeAll(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := os.MkdirAll(a.processedDir, 0o755); err != nil {
		return summary, fmt.Errorf("create processed dir: %w", err)
	}

	ids, err := a.src.ListCompanyIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := a.Analyze(ctx, id)
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "error", err.Error())
			summary.Skipped++
			continue
		}
		if err := WriteResult(a.processedDir, res); err != nil {
			logger.Stage(ctx, stage, id, "failed", "error", err.Error())
			summary.Skipped++
			continue
		}

		logger.Stage(ctx, stage, id, "ok", "pros", len(res.Pros), "cons", len(res.Cons))
		summary.Analyzed++
	}
	return summary, nil
}

func WriteResult(dir string, res *types.ProcessedResult) error {
	b, err := json.MarshalIndent(res, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, res.CompanyID+".json"), append(b, '\n'), 0o644)
}
