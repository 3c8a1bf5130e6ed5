package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Child tables keep the API's own id as a nullable column next to a surrogate
// key; deduplication runs on the unique keys.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		company_logo TEXT NULL,
		company_name VARCHAR(255) NULL,
		chart_link TEXT NULL,
		about_company TEXT NULL,
		website TEXT NULL,
		nse_profile TEXT NULL,
		bse_profile TEXT NULL,
		face_value DECIMAL(20,4) NULL,
		book_value DECIMAL(20,4) NULL,
		roce_percentage DECIMAL(20,4) NULL,
		roe_percentage DECIMAL(20,4) NULL,
		KEY idx_companies_name (company_name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cashflow (
		row_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NULL,
		company_id VARCHAR(64) NOT NULL,
		year VARCHAR(32) NOT NULL,
		operating_activity DECIMAL(20,4) NULL,
		investing_activity DECIMAL(20,4) NULL,
		financing_activity DECIMAL(20,4) NULL,
		net_cash_flow DECIMAL(20,4) NULL,
		UNIQUE KEY uq_cashflow_company_year (company_id, year)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS balancesheet (
		row_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NULL,
		company_id VARCHAR(64) NOT NULL,
		year VARCHAR(32) NOT NULL,
		equity_capital DECIMAL(20,4) NULL,
		reserves DECIMAL(20,4) NULL,
		borrowings DECIMAL(20,4) NULL,
		other_liabilities DECIMAL(20,4) NULL,
		total_liabilities DECIMAL(20,4) NULL,
		fixed_assets DECIMAL(20,4) NULL,
		cwip DECIMAL(20,4) NULL,
		investments DECIMAL(20,4) NULL,
		other_asset DECIMAL(20,4) NULL,
		total_assets DECIMAL(20,4) NULL,
		UNIQUE KEY uq_balancesheet_company_year (company_id, year)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS profitandloss (
		row_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NULL,
		company_id VARCHAR(64) NOT NULL,
		year VARCHAR(32) NOT NULL,
		sales DECIMAL(20,4) NULL,
		expenses DECIMAL(20,4) NULL,
		operating_profit DECIMAL(20,4) NULL,
		opm_percentage DECIMAL(20,4) NULL,
		other_income DECIMAL(20,4) NULL,
		interest DECIMAL(20,4) NULL,
		depreciation DECIMAL(20,4) NULL,
		profit_before_tax DECIMAL(20,4) NULL,
		tax_percentage DECIMAL(20,4) NULL,
		net_profit DECIMAL(20,4) NULL,
		eps DECIMAL(20,4) NULL,
		dividend_payout DECIMAL(20,4) NULL,
		UNIQUE KEY uq_profitandloss_company_year (company_id, year)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS prosandcons (
		row_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NULL,
		company_id VARCHAR(64) NOT NULL,
		pros TEXT NULL,
		cons TEXT NULL,
		sentence_key CHAR(64) NOT NULL,
		UNIQUE KEY uq_prosandcons_sentence (company_id, sentence_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS analysis (
		row_id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NULL,
		company_id VARCHAR(64) NOT NULL,
		compounded_sales_growth VARCHAR(32) NULL,
		compounded_profit_growth VARCHAR(32) NULL,
		stock_price_cagr VARCHAR(32) NULL,
		roe VARCHAR(32) NULL,
		UNIQUE KEY uq_analysis_company (company_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Tables lists the tables EnsureSchema creates, in creation order.
var Tables = []string{"companies", "cashflow", "balancesheet", "profitandloss", "prosandcons", "analysis"}

// EnsureSchema creates any missing table.
func EnsureSchema(ctx context.Context, ex sqlx.ExecerContext) error {
	for i, stmt := range schema {
		if _, err := ex.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", Tables[i], err)
		}
	}
	return nil
}
