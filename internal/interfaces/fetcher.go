package interfaces

import (
	"context"

	"stock-insights/internal/types"
)

type Fetcher interface {
	FetchAll(ctx context.Context, ids []string) (types.FetchSummary, error)
}
