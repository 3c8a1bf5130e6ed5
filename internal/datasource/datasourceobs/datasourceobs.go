package datasourceobs

import (
	"context"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/trace"
	"stock-insights/internal/types"
)

type observableSource struct {
	inner interfaces.CompanySource
}

var _ interfaces.CompanySource = (*observableSource)(nil)

// Wrap adds spans and debug logs around every source call.
func Wrap(src interfaces.CompanySource) interfaces.CompanySource {
	return &observableSource{inner: src}
}

func (o *observableSource) Name() string {
	return o.inner.Name()
}

func (o *observableSource) ListCompanyIDs(ctx context.Context) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.ListCompanyIDs")
	defer span.End()

	ids, err := o.inner.ListCompanyIDs(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to list companies", err, "source", o.inner.Name())
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Listed companies", "source", o.inner.Name(), "count", len(ids))
	return ids, nil
}

func (o *observableSource) LoadCompany(ctx context.Context, id string) (*types.CompanyFinancials, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.LoadCompany")
	defer span.End()

	cf, err := o.inner.LoadCompany(ctx, id)
	if err != nil {
		logger.WarnSkip(ctx, 1, "Failed to load company", "source", o.inner.Name(), "company_id", id, "error", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Loaded company",
		"source", o.inner.Name(),
		"company_id", id,
		"profitandloss_rows", len(cf.ProfitAndLoss),
		"balancesheet_rows", len(cf.BalanceSheet),
	)
	return cf, nil
}

func (o *observableSource) LoadPros(ctx context.Context, id string) ([]string, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.LoadPros")
	defer span.End()

	pros, err := o.inner.LoadPros(ctx, id)
	if err != nil {
		logger.DebugSkip(ctx, 1, "No pros for company", "source", o.inner.Name(), "company_id", id, "error", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Loaded pros", "source", o.inner.Name(), "company_id", id, "count", len(pros))
	return pros, nil
}
