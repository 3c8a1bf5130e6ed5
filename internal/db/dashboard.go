package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/types"
)

const summarySelect = `SELECT c.id, c.company_name, c.roe_percentage,
	a.compounded_sales_growth, a.compounded_profit_growth,
	COUNT(pc.pros) AS pros_count,
	COUNT(pc.cons) AS cons_count
	FROM companies c
	LEFT JOIN analysis a ON c.id = a.company_id
	LEFT JOIN prosandcons pc ON c.id = pc.company_id`

const summaryGroup = `GROUP BY c.id, c.company_name, c.roe_percentage, a.compounded_sales_growth, a.compounded_profit_growth
	ORDER BY c.company_name`

// ListCompanySummaries returns one page of companies ordered by name.
func ListCompanySummaries(ctx context.Context, q sqlx.QueryerContext, limit, offset int) ([]types.CompanySummary, error) {
	var out []types.CompanySummary
	err := sqlx.SelectContext(ctx, q, &out, summarySelect+"\n\t"+summaryGroup+"\n\tLIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list company summaries: %w", err)
	}
	return out, nil
}

// SearchCompanies matches term anywhere in the company name.
func SearchCompanies(ctx context.Context, q sqlx.QueryerContext, term string) ([]types.CompanySummary, error) {
	var out []types.CompanySummary
	err := sqlx.SelectContext(ctx, q, &out, summarySelect+"\n\tWHERE c.company_name LIKE ?\n\t"+summaryGroup, likePattern(term))
	if err != nil {
		return nil, fmt.Errorf("search companies: %w", err)
	}
	return out, nil
}

func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

func CountCompanies(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	return count(ctx, q, "SELECT COUNT(*) FROM companies")
}

// CountProcessed counts companies with at least one pro or con sentence.
func CountProcessed(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	return count(ctx, q, "SELECT COUNT(DISTINCT company_id) FROM prosandcons")
}

func CountCompaniesWithProfitAndLoss(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	return count(ctx, q, "SELECT COUNT(DISTINCT company_id) FROM profitandloss")
}

// TableCounts returns the row count of every table, keyed by table name.
func TableCounts(ctx context.Context, q sqlx.QueryerContext) (map[string]int, error) {
	out := make(map[string]int, len(Tables))
	for _, t := range Tables {
		n, err := count(ctx, q, "SELECT COUNT(*) FROM "+t)
		if err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, nil
}

func count(ctx context.Context, q sqlx.QueryerContext, query string) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, query); err != nil {
		return 0, fmt.Errorf("%s: %w", query, err)
	}
	return n, nil
}

// Dashboard exposes the read queries the web dashboard and the report
// builder need over one connection pool.
type Dashboard struct {
	db *sqlx.DB
}

func NewDashboard(conn *sqlx.DB) *Dashboard {
	return &Dashboard{db: conn}
}

func (d *Dashboard) ListCompanySummaries(ctx context.Context, limit, offset int) ([]types.CompanySummary, error) {
	return ListCompanySummaries(ctx, d.db, limit, offset)
}

func (d *Dashboard) SearchCompanies(ctx context.Context, term string) ([]types.CompanySummary, error) {
	return SearchCompanies(ctx, d.db, term)
}

func (d *Dashboard) CountCompanies(ctx context.Context) (int, error) {
	return CountCompanies(ctx, d.db)
}

func (d *Dashboard) CountProcessed(ctx context.Context) (int, error) {
	return CountProcessed(ctx, d.db)
}

func (d *Dashboard) GetCompany(ctx context.Context, id string) (*types.Company, error) {
	return GetCompany(ctx, d.db, id)
}

func (d *Dashboard) GetAnalysis(ctx context.Context, id string) (*types.AnalysisRow, error) {
	return GetAnalysis(ctx, d.db, id)
}

func (d *Dashboard) GetProsAndCons(ctx context.Context, id string) (pros, cons []string, err error) {
	return GetProsAndCons(ctx, d.db, id)
}

func (d *Dashboard) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
