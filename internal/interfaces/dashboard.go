package interfaces

import (
	"context"

	"stock-insights/internal/types"
)

// CompanyReader reads one company's stored insights.
type CompanyReader interface {
	GetCompany(ctx context.Context, id string) (*types.Company, error)
	// GetAnalysis returns nil, nil when the company has no analysis row.
	GetAnalysis(ctx context.Context, id string) (*types.AnalysisRow, error)
	GetProsAndCons(ctx context.Context, id string) (pros, cons []string, err error)
}

// DashboardStore backs the web dashboard.
type DashboardStore interface {
	CompanyReader
	ListCompanySummaries(ctx context.Context, limit, offset int) ([]types.CompanySummary, error)
	SearchCompanies(ctx context.Context, term string) ([]types.CompanySummary, error)
	CountCompanies(ctx context.Context) (int, error)
	CountProcessed(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
