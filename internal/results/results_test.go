package results

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"stock-insights/internal/datasource"
	"stock-insights/internal/types"
)

func TestBuildAnalysis(t *testing.T) {
	var pl []types.ProfitAndLoss
	sales := []string{"90", "100", "110", "120", "130", "140", "160"}
	profit := []string{"5", "10", "11", "12", "13", "14", "15"}
	for i := range sales {
		pl = append(pl, types.ProfitAndLoss{Sales: types.N(sales[i]), NetProfit: types.N(profit[i])})
	}
	cf := &types.CompanyFinancials{
		Company:       types.Company{ID: "ABC", ROEPercentage: types.N("")},
		ProfitAndLoss: pl,
	}

	a := BuildAnalysis(cf)
	if a.CompoundedSalesGrowth.String() != "60.00%" {
		t.Errorf("Expected 60.00%%, got %s", a.CompoundedSalesGrowth)
	}
	if a.CompoundedProfitGrowth.String() != "50.00%" {
		t.Errorf("Expected 50.00%%, got %s", a.CompoundedProfitGrowth)
	}
	if a.ROE.String() != "0.00%" || a.StockPriceCAGR.String() != "0%" {
		t.Errorf("Unexpected roe/cagr %s %s", a.ROE, a.StockPriceCAGR)
	}
	if len(a.ID.String()) != 8 || a.CompanyID != "ABC" {
		t.Errorf("Unexpected id fields %q %q", a.ID, a.CompanyID)
	}
}

func writeJSON(t *testing.T, path, body string) {
	t.Helper()
	os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStoreAll(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	processed := filepath.Join(dir, "processed")
	writeJSON(t, filepath.Join(raw, "ABC.json"), `{"company":{"id":"ABC","roe_percentage":"18"},"data":{}}`)
	writeJSON(t, filepath.Join(raw, "XYZ.json"), `{"company":{"id":"XYZ"},"data":{}}`)
	writeJSON(t, filepath.Join(processed, "ABC.json"), `{"company_id":"ABC","pros":["Company is almost debt-free."],"cons":["Company is not paying out dividend."]}`)
	writeJSON(t, filepath.Join(processed, "ORPHAN.json"), `{"company_id":"ORPHAN","pros":[],"cons":[]}`)
	writeJSON(t, filepath.Join(processed, "XYZ.json"), `{"company_id":"XYZ","pros":[],"cons":[]}`)

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO companies").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO analysis").
		WithArgs(sqlmock.AnyArg(), "ABC", "0.00%", "0.00%", "0%", "18.00%").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM prosandcons").WithArgs("ABC").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT IGNORE INTO prosandcons").
		WithArgs(nil, "ABC", "Company is almost debt-free.", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO prosandcons").
		WithArgs(nil, "ABC", nil, "Company is not paying out dividend.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO companies").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	s := New(sqlx.NewDb(conn, "mysql"), datasource.NewFileSource(raw, processed), processed)
	summary, err := s.StoreAll(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := Summary{Stored: 1, Skipped: 1, Failed: 1}
	if summary != want {
		t.Errorf("Expected %+v, got %+v", want, summary)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
