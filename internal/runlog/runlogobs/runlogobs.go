package runlogobs

import (
	"context"
	"time"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/trace"
)

type observableSummarizer struct {
	summarizer interfaces.RunSummarizer
}

var _ interfaces.RunSummarizer = (*observableSummarizer)(nil)

func Wrap(summarizer interfaces.RunSummarizer) interfaces.RunSummarizer {
	return &observableSummarizer{summarizer: summarizer}
}

func (o *observableSummarizer) SummarizeDay(t time.Time) (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "runlog.SummarizeDay")
	defer span.End()

	csvPath, err := o.summarizer.SummarizeDay(t)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Run summary generation failed", err,
			"date", t.Format("2006-01-02"),
		)
		return "", err
	}

	if csvPath == "" {
		logger.InfoSkip(ctx, 1, "No journal entries for run summary",
			"date", t.Format("2006-01-02"),
		)
		return "", nil
	}

	logger.InfoSkip(ctx, 1, "Run summary generated",
		"date", t.Format("2006-01-02"),
		"csv_path", csvPath,
	)
	return csvPath, nil
}

func (o *observableSummarizer) SummarizeToday() (string, error) {
	ctx := context.Background()
	ctx, span := trace.StartSpan(ctx, "runlog.SummarizeToday")
	defer span.End()

	csvPath, err := o.summarizer.SummarizeToday()
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Today's run summary generation failed", err)
		return "", err
	}

	logger.InfoSkip(ctx, 1, "Today's run summary finished", "csv_path", csvPath)
	return csvPath, nil
}
