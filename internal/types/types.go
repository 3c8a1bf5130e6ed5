package types

// Company is one row of the companies table, keyed by ticker.
type Company struct {
	ID             string `json:"id" db:"id"`
	CompanyLogo    Scalar `json:"company_logo" db:"company_logo"`
	CompanyName    Scalar `json:"company_name" db:"company_name"`
	ChartLink      Scalar `json:"chart_link" db:"chart_link"`
	AboutCompany   Scalar `json:"about_company" db:"about_company"`
	Website        Scalar `json:"website" db:"website"`
	NSEProfile     Scalar `json:"nse_profile" db:"nse_profile"`
	BSEProfile     Scalar `json:"bse_profile" db:"bse_profile"`
	FaceValue      Number `json:"face_value" db:"face_value"`
	BookValue      Number `json:"book_value" db:"book_value"`
	ROCEPercentage Number `json:"roce_percentage" db:"roce_percentage"`
	ROEPercentage  Number `json:"roe_percentage" db:"roe_percentage"`
}

// Name returns the display name, falling back to the ticker.
func (c Company) Name() string {
	if c.CompanyName.Empty() {
		return c.ID
	}
	return c.CompanyName.String()
}

type CashFlow struct {
	ID                Scalar `json:"id" db:"id"`
	CompanyID         string `json:"company_id" db:"company_id"`
	Year              Scalar `json:"year" db:"year"`
	OperatingActivity Number `json:"operating_activity" db:"operating_activity"`
	InvestingActivity Number `json:"investing_activity" db:"investing_activity"`
	FinancingActivity Number `json:"financing_activity" db:"financing_activity"`
	NetCashFlow       Number `json:"net_cash_flow" db:"net_cash_flow"`
}

type BalanceSheet struct {
	ID               Scalar `json:"id" db:"id"`
	CompanyID        string `json:"company_id" db:"company_id"`
	Year             Scalar `json:"year" db:"year"`
	EquityCapital    Number `json:"equity_capital" db:"equity_capital"`
	Reserves         Number `json:"reserves" db:"reserves"`
	Borrowings       Number `json:"borrowings" db:"borrowings"`
	OtherLiabilities Number `json:"other_liabilities" db:"other_liabilities"`
	TotalLiabilities Number `json:"total_liabilities" db:"total_liabilities"`
	FixedAssets      Number `json:"fixed_assets" db:"fixed_assets"`
	CWIP             Number `json:"cwip" db:"cwip"`
	Investments      Number `json:"investments" db:"investments"`
	OtherAsset       Number `json:"other_asset" db:"other_asset"`
	TotalAssets      Number `json:"total_assets" db:"total_assets"`
}

type ProfitAndLoss struct {
	ID              Scalar `json:"id" db:"id"`
	CompanyID       string `json:"company_id" db:"company_id"`
	Year            Scalar `json:"year" db:"year"`
	Sales           Number `json:"sales" db:"sales"`
	Expenses        Number `json:"expenses" db:"expenses"`
	OperatingProfit Number `json:"operating_profit" db:"operating_profit"`
	OPMPercentage   Number `json:"opm_percentage" db:"opm_percentage"`
	OtherIncome     Number `json:"other_income" db:"other_income"`
	Interest        Number `json:"interest" db:"interest"`
	Depreciation    Number `json:"depreciation" db:"depreciation"`
	ProfitBeforeTax Number `json:"profit_before_tax" db:"profit_before_tax"`
	TaxPercentage   Number `json:"tax_percentage" db:"tax_percentage"`
	NetProfit       Number `json:"net_profit" db:"net_profit"`
	EPS             Number `json:"eps" db:"eps"`
	DividendPayout  Number `json:"dividend_payout" db:"dividend_payout"`
}

// ProsAndConsRow stores one sentence: exactly one of Pros or Cons is set for
// rows written by the analyzer, imported rows may carry either.
type ProsAndConsRow struct {
	ID        Scalar `json:"id" db:"id"`
	CompanyID string `json:"company_id" db:"company_id"`
	Pros      Scalar `json:"pros" db:"pros"`
	Cons      Scalar `json:"cons" db:"cons"`
}

// AnalysisRow holds growth summaries as formatted percentages ("12.50%").
type AnalysisRow struct {
	ID                     Scalar `json:"id" db:"id"`
	CompanyID              string `json:"company_id" db:"company_id"`
	CompoundedSalesGrowth  Scalar `json:"compounded_sales_growth" db:"compounded_sales_growth"`
	CompoundedProfitGrowth Scalar `json:"compounded_profit_growth" db:"compounded_profit_growth"`
	StockPriceCAGR         Scalar `json:"stock_price_cagr" db:"stock_price_cagr"`
	ROE                    Scalar `json:"roe" db:"roe"`
}

// RawData is the "data" object of an API response.
type RawData struct {
	CashFlow      []CashFlow       `json:"cashflow"`
	BalanceSheet  []BalanceSheet   `json:"balancesheet"`
	ProfitAndLoss []ProfitAndLoss  `json:"profitandloss"`
	ProsAndCons   []ProsAndConsRow `json:"prosandcons"`
	Analysis      []AnalysisRow    `json:"analysis"`
}

// RawCompanyFile is one API response as written to the raw data directory.
type RawCompanyFile struct {
	Company *Company `json:"company"`
	Data    *RawData `json:"data"`
}

// CompanyFinancials is a company with its yearly rows ordered oldest first,
// independent of whether it was read from files or the database.
type CompanyFinancials struct {
	Company       Company
	ProfitAndLoss []ProfitAndLoss
	BalanceSheet  []BalanceSheet
	CashFlow      []CashFlow
}

// Features is the classifier input for one company.
type Features struct {
	ROE            float64 `json:"roe"`
	DividendPayout float64 `json:"dividend_payout"`
	SalesGrowth    float64 `json:"sales_growth"`
	DebtRatio      float64 `json:"debt_ratio"`
}

// Vector returns the features in model column order.
func (f Features) Vector() []float64 {
	return []float64{f.ROE, f.DividendPayout, f.SalesGrowth, f.DebtRatio}
}

// Labels are the four binary "pro" targets.
type Labels struct {
	ProROE      bool `json:"pro_roe"`
	ProDividend bool `json:"pro_dividend"`
	ProSales    bool `json:"pro_sales"`
	ProDebt     bool `json:"pro_debt"`
}

// Vector returns the labels in model column order.
func (l Labels) Vector() []bool {
	return []bool{l.ProROE, l.ProDividend, l.ProSales, l.ProDebt}
}

// LabelsFromVector is the inverse of Labels.Vector.
func LabelsFromVector(v []bool) Labels {
	var l Labels
	if len(v) > 0 {
		l.ProROE = v[0]
	}
	if len(v) > 1 {
		l.ProDividend = v[1]
	}
	if len(v) > 2 {
		l.ProSales = v[2]
	}
	if len(v) > 3 {
		l.ProDebt = v[3]
	}
	return l
}

var (
	FeatureNames = []string{"roe", "dividend_payout", "sales_growth", "debt_ratio"}
	LabelNames   = []string{"pro_roe", "pro_dividend", "pro_sales", "pro_debt"}
)

// ProcessedResult is the analyzer output written per company.
type ProcessedResult struct {
	CompanyID string   `json:"company_id"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
}

// FetchSummary counts the outcomes of one fetch run.
type FetchSummary struct {
	Requested int
	Saved     int
	Skipped   int
	Failed    int
}

// CompanySummary is one card of the dashboard listings.
type CompanySummary struct {
	ID                     string `db:"id"`
	CompanyName            Scalar `db:"company_name"`
	ROEPercentage          Number `db:"roe_percentage"`
	CompoundedSalesGrowth  Scalar `db:"compounded_sales_growth"`
	CompoundedProfitGrowth Scalar `db:"compounded_profit_growth"`
	ProsCount              int    `db:"pros_count"`
	ConsCount              int    `db:"cons_count"`
}

func (s CompanySummary) Name() string {
	if s.CompanyName.Empty() {
		return s.ID
	}
	return s.CompanyName.String()
}
