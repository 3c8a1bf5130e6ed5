package fetcherobs

import (
	"context"
	"time"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/trace"
	"stock-insights/internal/types"
)

type observableFetcher struct {
	fetcher interfaces.Fetcher
}

var _ interfaces.Fetcher = (*observableFetcher)(nil)

func Wrap(fetcher interfaces.Fetcher) interfaces.Fetcher {
	return &observableFetcher{fetcher: fetcher}
}

func (of *observableFetcher) FetchAll(ctx context.Context, ids []string) (types.FetchSummary, error) {
	ctx, span := trace.StartSpan(ctx, "fetcher.FetchAll")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting data fetch", "companies", len(ids))
	start := time.Now()

	summary, err := of.fetcher.FetchAll(ctx, ids)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Data fetch aborted", err,
			"saved", summary.Saved,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return summary, err
	}

	logger.InfoSkip(ctx, 1, "Data fetch completed",
		"requested", summary.Requested,
		"saved", summary.Saved,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}
