package fetcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	IDColumn      = "company_id"
	TemplateSheet = "Companies"
)

// LoadCompanyIDs reads the company_id column of the first sheet. Blank cells are
// dropped and duplicates removed, keeping the first occurrence's position.
func LoadCompanyIDs(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open company list %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("company list %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("company list %s is empty", path)
	}

	col := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == IDColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("company list %s: no %q column in sheet %s", path, IDColumn, sheets[0])
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[col])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateTemplate writes an empty company list with just the header row.
func CreateTemplate(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetCellValue(TemplateSheet, "A1", IDColumn); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save template %s: %w", path, err)
	}
	return nil
}
