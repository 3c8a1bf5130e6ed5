package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"stock-insights/internal/api"
)

func TestFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("id") {
		case "TCS":
			w.Write([]byte(`{"company":{"id":"TCS"},"data":{}}`))
		case "EMPTY":
			w.Write([]byte(`{}`))
		case "HTML":
			w.Write([]byte(`<html></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(api.NewClient(api.WithBaseURL(srv.URL)), "secret", dir)

	summary, err := f.FetchAll(context.Background(), []string{"TCS", "EMPTY", "HTML", "MISSING", "../x"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if summary.Requested != 5 || summary.Saved != 1 || summary.Skipped != 1 || summary.Failed != 3 {
		t.Errorf("Unexpected summary %+v", summary)
	}

	b, err := os.ReadFile(filepath.Join(dir, "TCS.json"))
	if err != nil {
		t.Fatalf("Expected TCS.json to be written: %v", err)
	}
	if !strings.Contains(string(b), "\n    \"company\"") {
		t.Errorf("Expected 4-space indented JSON, got %s", b)
	}

	for _, name := range []string{"EMPTY.json", "HTML.json", "MISSING.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			t.Errorf("Expected %s not to be written", name)
		}
	}
}

func TestFetchAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(api.NewClient(), "", t.TempDir())
	summary, err := f.FetchAll(ctx, []string{"A", "B"})
	if err == nil {
		t.Fatal("Expected context error")
	}
	if summary.Saved != 0 {
		t.Errorf("Expected nothing saved, got %d", summary.Saved)
	}
}

func TestLoadCompanyIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.xlsx")

	x := excelize.NewFile()
	x.SetCellValue("Sheet1", "A1", "name")
	x.SetCellValue("Sheet1", "B1", "company_id")
	x.SetCellValue("Sheet1", "B2", "TCS")
	x.SetCellValue("Sheet1", "B3", "INFY")
	x.SetCellValue("Sheet1", "B4", " ")
	x.SetCellValue("Sheet1", "B5", "TCS")
	x.SetCellValue("Sheet1", "B6", "WIPRO")
	if err := x.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	x.Close()

	ids, err := LoadCompanyIDs(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"TCS", "INFY", "WIPRO"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Expected %v, got %v", want, ids)
	}
}

func TestCreateTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "companies.xlsx")
	if err := CreateTemplate(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	x, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer x.Close()

	if sheets := x.GetSheetList(); len(sheets) != 1 || sheets[0] != TemplateSheet {
		t.Errorf("Expected single sheet %s, got %v", TemplateSheet, sheets)
	}

	ids, err := LoadCompanyIDs(path)
	if err != nil {
		t.Fatalf("Expected template to load: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no ids, got %v", ids)
	}
}

func TestLoadCompanyIDsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	x := excelize.NewFile()
	x.SetCellValue("Sheet1", "A1", "ticker")
	x.SaveAs(path)
	x.Close()

	if _, err := LoadCompanyIDs(path); err == nil {
		t.Error("Expected error for missing company_id column")
	}
}
