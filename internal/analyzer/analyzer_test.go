package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stock-insights/internal/datasource"
	"stock-insights/internal/types"
)

func TestRenderAllPros(t *testing.T) {
	f := types.Features{ROE: 22.456, DividendPayout: 35, SalesGrowth: 60, DebtRatio: 0.1}
	pros, cons := Render(f, types.Labels{ProROE: true, ProDividend: true, ProSales: true, ProDebt: true})

	want := []string{
		"Company has a good ROE track record: 3 Years ROE 22.5%",
		"Company has maintained a healthy dividend payout of 35.0%",
		"Company has shown strong sales growth of 60.00% over last 5 years",
	}
	if !reflect.DeepEqual(pros, want) {
		t.Errorf("Expected %v, got %v", want, pros)
	}
	if len(cons) != 0 {
		t.Errorf("Expected no cons, got %v", cons)
	}
}

func TestRenderAllCons(t *testing.T) {
	f := types.Features{ROE: 4, SalesGrowth: -12.5, DebtRatio: 0.8}
	pros, cons := Render(f, types.Labels{})

	want := []string{
		"Company has a low return on equity of 4.0% over last 3 years.",
		"Company is not paying out dividend.",
		"Company has delivered poor sales growth of -12.50% over last 5 years",
	}
	if !reflect.DeepEqual(cons, want) {
		t.Errorf("Expected %v, got %v", want, cons)
	}
	if len(pros) != 0 {
		t.Errorf("Expected no pros, got %v", pros)
	}
}

func TestRenderDebt(t *testing.T) {
	_, cons := Render(types.Features{DebtRatio: 0.6}, types.Labels{ProROE: true, ProDividend: true})
	if len(cons) != 2 || cons[1] != "Company has high debt levels compared to liabilities." {
		t.Errorf("Expected high-debt con, got %v", cons)
	}

	_, cons = Render(types.Features{DebtRatio: 0.5}, types.Labels{ProROE: true, ProDividend: true})
	if len(cons) != 1 {
		t.Errorf("Expected no debt con at exactly 0.5, got %v", cons)
	}
}

type fixedModel struct {
	out []bool
	err error
}

func (m fixedModel) Predict(x []float64) ([]bool, error) {
	return m.out, m.err
}

func TestAnalyzeAll(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	processed := filepath.Join(dir, "processed")
	os.MkdirAll(raw, 0o755)
	os.WriteFile(filepath.Join(raw, "ABC.json"), []byte(`{"company":{"id":"ABC","roe_percentage":"30"},"data":{}}`), 0o644)
	os.WriteFile(filepath.Join(raw, "NOCO.json"), []byte(`{"data":{}}`), 0o644)

	a := New(datasource.NewFileSource(raw, processed), fixedModel{out: []bool{true, false, false, true}}, processed)
	summary, err := a.AnalyzeAll(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Analyzed != 1 || summary.Skipped != 1 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	res, err := datasource.ReadProcessed(filepath.Join(processed, "ABC.json"))
	if err != nil {
		t.Fatalf("Expected processed output: %v", err)
	}
	wantPros := []string{"Company has a good ROE track record: 3 Years ROE 30.0%", "Company is almost debt-free."}
	if res.CompanyID != "ABC" || !reflect.DeepEqual(res.Pros, wantPros) {
		t.Errorf("Unexpected result %+v", res)
	}
	if len(res.Cons) != 2 {
		t.Errorf("Expected dividend and sales cons, got %v", res.Cons)
	}
}

func TestAnalyzePredictError(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "ABC.json"), []byte(`{"company":{"id":"ABC"},"data":{}}`), 0o644)

	boom := errors.New("bad model")
	a := New(datasource.NewFileSource(dir, dir), fixedModel{err: boom}, dir)
	if _, err := a.Analyze(context.Background(), "ABC"); !errors.Is(err, boom) {
		t.Errorf("Expected model error, got %v", err)
	}
}
