package db

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"stock-insights/internal/store"
	"stock-insights/internal/types"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestDSN(t *testing.T) {
	t.Setenv("MYSQL_PASSWORD", "pw")
	cfg := store.Default()
	cfg.Database.Params = map[string]string{"charset": "utf8mb4"}

	dsn := DSN(cfg)
	if !strings.HasPrefix(dsn, "root:pw@tcp(localhost:3306)/ml?") {
		t.Errorf("Unexpected DSN prefix: %s", dsn)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("Expected charset param in DSN, got %s", dsn)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMock(t)
	for range Tables {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpsertCompany(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO companies").
		WithArgs("TCS", nil, "Tata Consultancy", nil, nil, nil, nil, nil, nil, nil, nil, "45.5").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c := types.Company{
		ID:            "TCS",
		CompanyName:   types.S("Tata Consultancy"),
		ROEPercentage: types.N("45.5"),
		BookValue:     types.N("n/a"),
	}
	if err := UpsertCompany(context.Background(), db, c); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpsertCompanyRequiresID(t *testing.T) {
	db, mock := newMock(t)
	err := UpsertCompany(context.Background(), db, types.Company{})
	if !errors.Is(err, types.ErrMissingCompany) {
		t.Errorf("Expected ErrMissingCompany, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReplaceProsAndCons(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM prosandcons WHERE company_id = ?")).
		WithArgs("TCS").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT IGNORE INTO prosandcons").
		WithArgs(nil, "TCS", "good", nil, SentenceKey("good", "")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO prosandcons").
		WithArgs(nil, "TCS", nil, "bad", SentenceKey("", "bad")).
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := ReplaceProsAndCons(context.Background(), db, "TCS", []string{"good"}, []string{"bad"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSentenceKeyDistinguishesColumns(t *testing.T) {
	if SentenceKey("x", "") == SentenceKey("", "x") {
		t.Error("Expected a pro and a con with the same text to have different keys")
	}
}

func TestInsertIgnoreReportsRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT IGNORE INTO cashflow").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO cashflow").WillReturnError(errors.New("boom"))

	rows := []types.CashFlow{
		{CompanyID: "TCS", Year: types.S("Mar 2022")},
		{CompanyID: "TCS", Year: types.S("Mar 2023")},
	}
	err := InsertIgnoreCashFlow(context.Background(), db, rows)
	if err == nil || !strings.Contains(err.Error(), "cashflow row 1") {
		t.Errorf("Expected error naming row 1, got %v", err)
	}
}

func TestGetCompanyNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM companies WHERE id").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := GetCompany(context.Background(), db, "NOPE")
	if !errors.Is(err, types.ErrCompanyNotFound) {
		t.Errorf("Expected ErrCompanyNotFound, got %v", err)
	}
}

func TestLoadFinancials(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM companies WHERE id").
		WithArgs("TCS").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_name", "roe_percentage"}).
			AddRow("TCS", "Tata Consultancy", []byte("45.50")))
	mock.ExpectQuery("FROM profitandloss").
		WithArgs("TCS").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "year", "sales", "dividend_payout"}).
			AddRow("TCS", "Mar 2022", []byte("100.0000"), []byte("40.0000")).
			AddRow("TCS", "Mar 2023", []byte("120.0000"), nil))
	mock.ExpectQuery("FROM balancesheet").
		WithArgs("TCS").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "year", "borrowings", "total_liabilities"}).
			AddRow("TCS", "Mar 2023", []byte("50"), []byte("200")))
	mock.ExpectQuery("FROM cashflow").
		WithArgs("TCS").
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "year"}))

	cf, err := LoadFinancials(context.Background(), db, "TCS")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cf.Company.ROEPercentage.Float() != 45.5 {
		t.Errorf("Expected ROE 45.5, got %v", cf.Company.ROEPercentage.Float())
	}
	if len(cf.ProfitAndLoss) != 2 || cf.ProfitAndLoss[1].Sales.Float() != 120 {
		t.Errorf("Unexpected profit and loss rows %+v", cf.ProfitAndLoss)
	}
	if !cf.ProfitAndLoss[1].DividendPayout.Empty() {
		t.Errorf("Expected NULL dividend payout to scan as empty")
	}
	if len(cf.BalanceSheet) != 1 || len(cf.CashFlow) != 0 {
		t.Errorf("Unexpected row counts bs=%d cf=%d", len(cf.BalanceSheet), len(cf.CashFlow))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetProsAndCons(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM prosandcons WHERE company_id").
		WithArgs("TCS").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "pros", "cons"}).
			AddRow(nil, "TCS", "Strong ROE", nil).
			AddRow(nil, "TCS", nil, "High debt").
			AddRow(nil, "TCS", "", nil))

	pros, cons, err := GetProsAndCons(context.Background(), db, "TCS")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(pros) != 1 || pros[0] != "Strong ROE" {
		t.Errorf("Expected one pro, got %v", pros)
	}
	if len(cons) != 1 || cons[0] != "High debt" {
		t.Errorf("Expected one con, got %v", cons)
	}
}

func TestGetAnalysisMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM analysis WHERE company_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	a, err := GetAnalysis(context.Background(), db, "TCS")
	if err != nil || a != nil {
		t.Errorf("Expected nil analysis without error, got %+v, %v", a, err)
	}
}

func TestListCompanySummaries(t *testing.T) {
	db, mock := newMock(t)
	cols := []string{"id", "company_name", "roe_percentage", "compounded_sales_growth",
		"compounded_profit_growth", "pros_count", "cons_count"}
	mock.ExpectQuery("FROM companies c").
		WithArgs(24, 24).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("ABC", "ABC Ltd", "12.5", "10.00%", "8.00%", 2, 1).
			AddRow("XYZ", nil, nil, nil, nil, 0, 0))

	out, err := ListCompanySummaries(context.Background(), db, 24, 24)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(out))
	}
	if out[0].Name() != "ABC Ltd" || out[0].ProsCount != 2 {
		t.Errorf("Unexpected first row %+v", out[0])
	}
	if out[1].Name() != "XYZ" {
		t.Errorf("Expected name to fall back to id, got %s", out[1].Name())
	}
}

func TestSearchCompaniesEscapesWildcards(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("WHERE c.company_name LIKE").
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := SearchCompanies(context.Background(), db, "50%"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCountProcessed(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT company_id) FROM prosandcons")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(71))

	n, err := CountProcessed(context.Background(), db)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 71 {
		t.Errorf("Expected 71, got %d", n)
	}
}
