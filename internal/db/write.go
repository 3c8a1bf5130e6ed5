package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/types"
)

const upsertCompanySQL = `INSERT INTO companies
	(id, company_logo, company_name, chart_link, about_company, website, nse_profile, bse_profile,
	 face_value, book_value, roce_percentage, roe_percentage)
	VALUES (:id, :company_logo, :company_name, :chart_link, :about_company, :website, :nse_profile, :bse_profile,
	 :face_value, :book_value, :roce_percentage, :roe_percentage)
	ON DUPLICATE KEY UPDATE
	company_logo=VALUES(company_logo), company_name=VALUES(company_name),
	chart_link=VALUES(chart_link), about_company=VALUES(about_company), website=VALUES(website),
	nse_profile=VALUES(nse_profile), bse_profile=VALUES(bse_profile),
	face_value=VALUES(face_value), book_value=VALUES(book_value),
	roce_percentage=VALUES(roce_percentage), roe_percentage=VALUES(roe_percentage)`

const insertCashFlowSQL = `INSERT IGNORE INTO cashflow
	(id, company_id, year, operating_activity, investing_activity, financing_activity, net_cash_flow)
	VALUES (:id, :company_id, :year, :operating_activity, :investing_activity, :financing_activity, :net_cash_flow)`

const insertBalanceSheetSQL = `INSERT IGNORE INTO balancesheet
	(id, company_id, year, equity_capital, reserves, borrowings, other_liabilities, total_liabilities,
	 fixed_assets, cwip, investments, other_asset, total_assets)
	VALUES (:id, :company_id, :year, :equity_capital, :reserves, :borrowings, :other_liabilities, :total_liabilities,
	 :fixed_assets, :cwip, :investments, :other_asset, :total_assets)`

const insertProfitAndLossSQL = `INSERT IGNORE INTO profitandloss
	(id, company_id, year, sales, expenses, operating_profit, opm_percentage, other_income, interest,
	 depreciation, profit_before_tax, tax_percentage, net_profit, eps, dividend_payout)
	VALUES (:id, :company_id, :year, :sales, :expenses, :operating_profit, :opm_percentage, :other_income, :interest,
	 :depreciation, :profit_before_tax, :tax_percentage, :net_profit, :eps, :dividend_payout)`

const insertProsAndConsSQL = `INSERT IGNORE INTO prosandcons
	(id, company_id, pros, cons, sentence_key)
	VALUES (:id, :company_id, :pros, :cons, :sentence_key)`

const insertAnalysisSQL = `INSERT IGNORE INTO analysis
	(id, company_id, compounded_sales_growth, compounded_profit_growth, stock_price_cagr, roe)
	VALUES (:id, :company_id, :compounded_sales_growth, :compounded_profit_growth, :stock_price_cagr, :roe)`

const upsertAnalysisSQL = `INSERT INTO analysis
	(id, company_id, compounded_sales_growth, compounded_profit_growth, stock_price_cagr, roe)
	VALUES (:id, :company_id, :compounded_sales_growth, :compounded_profit_growth, :stock_price_cagr, :roe)
	ON DUPLICATE KEY UPDATE
	compounded_sales_growth=VALUES(compounded_sales_growth),
	compounded_profit_growth=VALUES(compounded_profit_growth),
	roe=VALUES(roe)`

// UpsertCompany inserts the company or refreshes every column of an existing row.
func UpsertCompany(ctx context.Context, ex sqlx.ExtContext, c types.Company) error {
	if c.ID == "" {
		return fmt.Errorf("upsert company: %w", types.ErrMissingCompany)
	}
	if _, err := sqlx.NamedExecContext(ctx, ex, upsertCompanySQL, c); err != nil {
		return fmt.Errorf("upsert company %s: %w", c.ID, err)
	}
	return nil
}

func InsertIgnoreCashFlow(ctx context.Context, ex sqlx.ExtContext, rows []types.CashFlow) error {
	return insertEach(ctx, ex, "cashflow", insertCashFlowSQL, rows)
}

func InsertIgnoreBalanceSheet(ctx context.Context, ex sqlx.ExtContext, rows []types.BalanceSheet) error {
	return insertEach(ctx, ex, "balancesheet", insertBalanceSheetSQL, rows)
}

func InsertIgnoreProfitAndLoss(ctx context.Context, ex sqlx.ExtContext, rows []types.ProfitAndLoss) error {
	return insertEach(ctx, ex, "profitandloss", insertProfitAndLossSQL, rows)
}

func InsertIgnoreProsAndCons(ctx context.Context, ex sqlx.ExtContext, rows []types.ProsAndConsRow) error {
	keyed := make([]prosAndConsRecord, len(rows))
	for i, r := range rows {
		keyed[i] = newProsAndConsRecord(r)
	}
	return insertEach(ctx, ex, "prosandcons", insertProsAndConsSQL, keyed)
}

func InsertIgnoreAnalysis(ctx context.Context, ex sqlx.ExtContext, rows []types.AnalysisRow) error {
	return insertEach(ctx, ex, "analysis", insertAnalysisSQL, rows)
}

// UpsertAnalysis writes the growth summary for one company. An existing row
// keeps its id and stock_price_cagr.
func UpsertAnalysis(ctx context.Context, ex sqlx.ExtContext, a types.AnalysisRow) error {
	if _, err := sqlx.NamedExecContext(ctx, ex, upsertAnalysisSQL, a); err != nil {
		return fmt.Errorf("upsert analysis %s: %w", a.CompanyID, err)
	}
	return nil
}

// ReplaceProsAndCons deletes every sentence of the company and inserts one
// row per pro and per con.
func ReplaceProsAndCons(ctx context.Context, ex sqlx.ExtContext, companyID string, pros, cons []string) error {
	if _, err := ex.ExecContext(ctx, "DELETE FROM prosandcons WHERE company_id = ?", companyID); err != nil {
		return fmt.Errorf("delete prosandcons %s: %w", companyID, err)
	}

	rows := make([]types.ProsAndConsRow, 0, len(pros)+len(cons))
	for _, p := range pros {
		rows = append(rows, types.ProsAndConsRow{CompanyID: companyID, Pros: types.S(p)})
	}
	for _, c := range cons {
		rows = append(rows, types.ProsAndConsRow{CompanyID: companyID, Cons: types.S(c)})
	}
	return InsertIgnoreProsAndCons(ctx, ex, rows)
}

type prosAndConsRecord struct {
	types.ProsAndConsRow
	SentenceKey string `db:"sentence_key"`
}

func newProsAndConsRecord(r types.ProsAndConsRow) prosAndConsRecord {
	return prosAndConsRecord{ProsAndConsRow: r, SentenceKey: SentenceKey(r.Pros.String(), r.Cons.String())}
}

// SentenceKey identifies a pro/con pair within one company.
func SentenceKey(pros, cons string) string {
	sum := sha256.Sum256([]byte(pros + "\x00" + cons))
	return hex.EncodeToString(sum[:])
}

// insertEach executes one statement per row so a single malformed row names
// itself in the error.
func insertEach[T any](ctx context.Context, ex sqlx.ExtContext, table, query string, rows []T) error {
	for i, r := range rows {
		if _, err := sqlx.NamedExecContext(ctx, ex, query, r); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}
