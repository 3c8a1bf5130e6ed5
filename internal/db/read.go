package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/types"
)

const companyColumns = `id, company_logo, company_name, chart_link, about_company, website, nse_profile, bse_profile,
	face_value, book_value, roce_percentage, roe_percentage`

// ListCompanyIDs returns every company id ordered by id.
func ListCompanyIDs(ctx context.Context, q sqlx.QueryerContext) ([]string, error) {
	var ids []string
	if err := sqlx.SelectContext(ctx, q, &ids, "SELECT id FROM companies ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return ids, nil
}

// GetCompany returns types.ErrCompanyNotFound when no row has the id.
func GetCompany(ctx context.Context, q sqlx.QueryerContext, id string) (*types.Company, error) {
	var c types.Company
	err := sqlx.GetContext(ctx, q, &c, "SELECT "+companyColumns+" FROM companies WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, types.ErrCompanyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get company %s: %w", id, err)
	}
	return &c, nil
}

func ProfitAndLoss(ctx context.Context, q sqlx.QueryerContext, companyID string) ([]types.ProfitAndLoss, error) {
	var rows []types.ProfitAndLoss
	err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, company_id, year, sales, expenses, operating_profit,
		opm_percentage, other_income, interest, depreciation, profit_before_tax, tax_percentage,
		net_profit, eps, dividend_payout
		FROM profitandloss WHERE company_id = ? ORDER BY year, row_id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("profitandloss %s: %w", companyID, err)
	}
	return rows, nil
}

func BalanceSheet(ctx context.Context, q sqlx.QueryerContext, companyID string) ([]types.BalanceSheet, error) {
	var rows []types.BalanceSheet
	err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, company_id, year, equity_capital, reserves, borrowings,
		other_liabilities, total_liabilities, fixed_assets, cwip, investments, other_asset, total_assets
		FROM balancesheet WHERE company_id = ? ORDER BY year, row_id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("balancesheet %s: %w", companyID, err)
	}
	return rows, nil
}

func CashFlow(ctx context.Context, q sqlx.QueryerContext, companyID string) ([]types.CashFlow, error) {
	var rows []types.CashFlow
	err := sqlx.SelectContext(ctx, q, &rows, `SELECT id, company_id, year, operating_activity, investing_activity,
		financing_activity, net_cash_flow
		FROM cashflow WHERE company_id = ? ORDER BY year, row_id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("cashflow %s: %w", companyID, err)
	}
	return rows, nil
}

// ProsTexts returns the non-empty pros column values of a company.
func ProsTexts(ctx context.Context, q sqlx.QueryerContext, companyID string) ([]string, error) {
	var pros []string
	err := sqlx.SelectContext(ctx, q, &pros,
		"SELECT pros FROM prosandcons WHERE company_id = ? AND pros IS NOT NULL AND pros <> '' ORDER BY row_id", companyID)
	if err != nil {
		return nil, fmt.Errorf("pros %s: %w", companyID, err)
	}
	return pros, nil
}

// GetProsAndCons splits a company's sentences into pros and cons.
func GetProsAndCons(ctx context.Context, q sqlx.QueryerContext, companyID string) (pros, cons []string, err error) {
	var rows []types.ProsAndConsRow
	err = sqlx.SelectContext(ctx, q, &rows,
		"SELECT id, company_id, pros, cons FROM prosandcons WHERE company_id = ? ORDER BY row_id", companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("prosandcons %s: %w", companyID, err)
	}
	for _, r := range rows {
		if !r.Pros.Empty() {
			pros = append(pros, r.Pros.String())
		}
		if !r.Cons.Empty() {
			cons = append(cons, r.Cons.String())
		}
	}
	return pros, cons, nil
}

// GetAnalysis returns nil without error when the company has no analysis row.
func GetAnalysis(ctx context.Context, q sqlx.QueryerContext, companyID string) (*types.AnalysisRow, error) {
	var a types.AnalysisRow
	err := sqlx.GetContext(ctx, q, &a, `SELECT id, company_id, compounded_sales_growth, compounded_profit_growth,
		stock_price_cagr, roe FROM analysis WHERE company_id = ?`, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("analysis %s: %w", companyID, err)
	}
	return &a, nil
}

// LoadFinancials reads a company and its yearly rows in one call.
func LoadFinancials(ctx context.Context, q sqlx.QueryerContext, id string) (*types.CompanyFinancials, error) {
	c, err := GetCompany(ctx, q, id)
	if err != nil {
		return nil, err
	}
	pl, err := ProfitAndLoss(ctx, q, id)
	if err != nil {
		return nil, err
	}
	bs, err := BalanceSheet(ctx, q, id)
	if err != nil {
		return nil, err
	}
	cf, err := CashFlow(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &types.CompanyFinancials{Company: *c, ProfitAndLoss: pl, BalanceSheet: bs, CashFlow: cf}, nil
}
