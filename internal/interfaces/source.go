package interfaces

import (
	"context"

	"stock-insights/internal/types"
)

// CompanySource reads company financials either from the raw JSON files or
// from MySQL. Yearly rows are returned oldest first.
type CompanySource interface {
	// Name is "FILES" or "DATABASE".
	Name() string

	// ListCompanyIDs returns every company id the source can serve.
	ListCompanyIDs(ctx context.Context) ([]string, error)

	// LoadCompany returns the company and its yearly statements.
	LoadCompany(ctx context.Context, id string) (*types.CompanyFinancials, error)

	// LoadPros returns the "pros" sentences recorded for a company, one
	// sentence per element.
	LoadPros(ctx context.Context, id string) ([]string, error)
}
