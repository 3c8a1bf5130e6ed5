package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stock-insights/internal/store"
	"stock-insights/internal/types"
)

// FileSource serves companies from the raw API dumps and takes pros from the
// analyzer's processed output.
type FileSource struct {
	rawDir       string
	processedDir string
}

func NewFileSource(rawDir, processedDir string) *FileSource {
	return &FileSource{rawDir: rawDir, processedDir: processedDir}
}

func (s *FileSource) Name() string { return store.SourceFiles }

// ListCompanyIDs returns the base names of the .json files in the raw
// directory, sorted.
func (s *FileSource) ListCompanyIDs(ctx context.Context) ([]string, error) {
	return ListJSONIDs(s.rawDir)
}

func (s *FileSource) LoadCompany(ctx context.Context, id string) (*types.CompanyFinancials, error) {
	raw, err := ReadRawFile(filepath.Join(s.rawDir, id+".json"))
	if err != nil {
		return nil, err
	}
	cf := &types.CompanyFinancials{Company: *raw.Company}
	if cf.Company.ID == "" {
		cf.Company.ID = id
	}
	if raw.Data != nil {
		cf.ProfitAndLoss = raw.Data.ProfitAndLoss
		cf.BalanceSheet = raw.Data.BalanceSheet
		cf.CashFlow = raw.Data.CashFlow
	}
	return cf, nil
}

// LoadPros fails with an error wrapping os.ErrNotExist when the company has
// not been analyzed yet.
func (s *FileSource) LoadPros(ctx context.Context, id string) ([]string, error) {
	res, err := ReadProcessed(filepath.Join(s.processedDir, id+".json"))
	if err != nil {
		return nil, err
	}
	return res.Pros, nil
}

// ReadRawFile parses one raw API dump. A file without a company object
// returns types.ErrMissingCompany.
func ReadRawFile(path string) (*types.RawCompanyFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw types.RawCompanyFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw.Company == nil {
		return nil, fmt.Errorf("%s: %w", path, types.ErrMissingCompany)
	}
	return &raw, nil
}

func ReadProcessed(path string) (*types.ProcessedResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var res types.ProcessedResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &res, nil
}

// ListJSONIDs returns the sorted base names of the .json files in dir.
func ListJSONIDs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
