package pipeline

import (
	"context"
	"fmt"
	"net"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/runlog"
	"stock-insights/internal/runlog/runlogobs"
	"stock-insights/internal/store"
)

// Step is one named stage of a run.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

type Pipeline struct {
	cfg        *store.Config
	conn       *sqlx.DB
	journal    *runlog.Journal
	summarizer interfaces.RunSummarizer
}

// New builds a pipeline over conn. conn may be nil only for steps that read
// files, i.e. training data generation, training and analysis on the FILES
// source.
func New(cfg *store.Config, conn *sqlx.DB) *Pipeline {
	j := runlog.New(cfg.Paths.LogDir)
	return &Pipeline{
		cfg:        cfg,
		conn:       conn,
		journal:    j,
		summarizer: runlogobs.Wrap(j),
	}
}

// Journal is the run journal stage outcomes are appended to.
func (p *Pipeline) Journal() *runlog.Journal {
	return p.journal
}

// Steps lists the steps of a full run for the current configuration.
func (p *Pipeline) Steps() []Step {
	var steps []Step
	if p.cfg.Pipeline.Fetch {
		steps = append(steps, Step{"fetch", p.Fetch})
	}
	if p.cfg.Pipeline.Migrate {
		steps = append(steps, Step{"migrate", p.Migrate})
	}
	steps = append(steps, Step{"check_data", p.checkData})
	if p.cfg.Pipeline.GenerateTrainingData && !fileExists(p.cfg.Paths.TrainingCSV) {
		steps = append(steps, Step{"training_data", p.GenerateTrainingData})
	}
	return append(steps,
		Step{"train", p.Train},
		Step{"analyze", p.Analyze},
		Step{"store_results", p.StoreResults},
	)
}

func (p *Pipeline) checkData(ctx context.Context) error {
	if p.conn == nil {
		return errNoDatabase
	}
	_, err := CheckDataAvailability(ctx, p.conn, p.cfg)
	return err
}

// RunSteps executes steps in order and stops at the first failure.
func RunSteps(ctx context.Context, steps []Step) error {
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		logger.Info(ctx, fmt.Sprintf("Step %d/%d: %s", i+1, len(steps), st.Name))
		op := logger.StartOperation(ctx, "pipeline."+st.Name)
		if err := st.Run(op.GetContext()); err != nil {
			op.EndWithError(err)
			return fmt.Errorf("step %s: %w", st.Name, err)
		}
		op.End()
	}
	return nil
}

// Run executes the full pipeline, then summarizes today's journal and
// compresses journals past the retention window.
func (p *Pipeline) Run(ctx context.Context) error {
	logger.Info(ctx, "Starting financial analysis pipeline")

	err := RunSteps(ctx, p.Steps())

	if _, serr := p.summarizer.SummarizeToday(); serr != nil {
		logger.Warn(ctx, "Failed to summarize run journal", "error", serr)
	}
	if days := p.cfg.Pipeline.LogRetentionDays; days > 0 {
		if cerr := p.journal.CompressOlder(days); cerr != nil {
			logger.Warn(ctx, "Failed to compress old journals", "error", cerr)
		}
	}

	if err != nil {
		logger.ErrorWithErr(ctx, "Pipeline cannot proceed", err)
		return err
	}

	logger.Info(ctx, "Pipeline completed successfully")
	logger.Info(ctx, "You can now view insights at "+dashboardURL(p.cfg.Web.Addr))
	logger.Info(ctx, fmt.Sprintf("ML insights will be visible after analyzing %d+ companies", p.cfg.Web.InsightsThreshold))
	return nil
}

func dashboardURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
