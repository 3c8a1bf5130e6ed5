package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"stock-insights/internal/datasource"
	"stock-insights/internal/store"
)

func testConfig(t *testing.T) *store.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := store.Default()
	cfg.DataSource = store.SourceFiles
	cfg.Paths.RawDir = filepath.Join(dir, "raw")
	cfg.Paths.ProcessedDir = filepath.Join(dir, "processed")
	cfg.Paths.TrainingCSV = filepath.Join(dir, "training.csv")
	cfg.Paths.Model = filepath.Join(dir, "model.json")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Classifier.Trees = 5
	return cfg
}

func stepNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func TestStepsFollowConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Fetch = true

	got := stepNames(New(cfg, nil).Steps())
	want := []string{"fetch", "check_data", "training_data", "train", "analyze", "store_results"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if err := os.WriteFile(cfg.Paths.TrainingCSV, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Pipeline.Fetch = false
	cfg.Pipeline.Migrate = true

	got = stepNames(New(cfg, nil).Steps())
	want = []string{"migrate", "check_data", "train", "analyze", "store_results"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRunStepsStopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	step := func(name string, err error) Step {
		return Step{name, func(ctx context.Context) error {
			ran = append(ran, name)
			return err
		}}
	}

	err := RunSteps(context.Background(), []Step{step("a", nil), step("b", boom), step("c", nil)})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if !reflect.DeepEqual(ran, []string{"a", "b"}) {
		t.Errorf("Expected [a b] to run, got %v", ran)
	}
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "mysql"), mock
}

func TestCheckDataAvailability(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM companies")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(DISTINCT company_id) FROM profitandloss")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

	a, err := CheckDataAvailability(context.Background(), conn, testConfig(t))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if a.Companies != 3 || a.WithProfitAndLoss != 2 {
		t.Errorf("Expected 3 companies and 2 with P&L, got %+v", a)
	}
	if a.TrainingCSV || a.Model || len(a.Warnings) != 2 {
		t.Errorf("Expected warnings for missing CSV and model, got %+v", a)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCheckDataAvailabilityEmptyDatabase(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM companies")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	if _, err := CheckDataAvailability(context.Background(), conn, testConfig(t)); !errors.Is(err, ErrNoCompanies) {
		t.Errorf("Expected ErrNoCompanies, got %v", err)
	}
}

func TestDatabaseStepsNeedConnection(t *testing.T) {
	p := New(testConfig(t), nil)
	if err := p.Migrate(context.Background()); !errors.Is(err, errNoDatabase) {
		t.Errorf("Expected errNoDatabase from Migrate, got %v", err)
	}
	if err := p.StoreResults(context.Background()); !errors.Is(err, errNoDatabase) {
		t.Errorf("Expected errNoDatabase from StoreResults, got %v", err)
	}
}

func companyJSON(id string, roe string, sales [2]int) string {
	return `{"company": {"id": "` + id + `", "roe_percentage": "` + roe + `"},
"data": {"profitandloss": [
  {"year": "Mar 2022", "sales": ` + strconv.Itoa(sales[0]) + `, "dividend_payout": 10},
  {"year": "Mar 2023", "sales": ` + strconv.Itoa(sales[1]) + `}
]}}`
}

func TestFilePipelineTrainsAndAnalyzes(t *testing.T) {
	cfg := testConfig(t)
	files := map[string]string{
		filepath.Join(cfg.Paths.RawDir, "AAA.json"):       companyJSON("AAA", "25", [2]int{100, 150}),
		filepath.Join(cfg.Paths.RawDir, "BBB.json"):       companyJSON("BBB", "3", [2]int{200, 100}),
		filepath.Join(cfg.Paths.ProcessedDir, "AAA.json"): `{"company_id":"AAA","pros":["Company has a good return on equity (ROE) track record: 3 Years ROE 25.00%."],"cons":[]}`,
		filepath.Join(cfg.Paths.ProcessedDir, "BBB.json"): `{"company_id":"BBB","pros":[],"cons":["Company is not paying out dividend."]}`,
	}
	for path, body := range files {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := New(cfg, nil)
	ctx := context.Background()
	for _, step := range []func(context.Context) error{p.GenerateTrainingData, p.Train, p.Analyze} {
		if err := step(ctx); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if _, err := os.Stat(cfg.Paths.Model); err != nil {
		t.Errorf("Expected model file: %v", err)
	}
	res, err := datasource.ReadProcessed(filepath.Join(cfg.Paths.ProcessedDir, "BBB.json"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.CompanyID != "BBB" {
		t.Errorf("Expected BBB, got %s", res.CompanyID)
	}
}

func TestDashboardURL(t *testing.T) {
	cases := map[string]string{
		"0.0.0.0:5000":   "http://localhost:5000",
		":8080":          "http://localhost:8080",
		"10.0.0.5:5000":  "http://10.0.0.5:5000",
		"insights.local": "http://insights.local",
	}
	for addr, want := range cases {
		if got := dashboardURL(addr); got != want {
			t.Errorf("dashboardURL(%q): expected %s, got %s", addr, want, got)
		}
	}
}
