package datasource

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/datasource/datasourceobs"
	"stock-insights/internal/interfaces"
	"stock-insights/internal/store"
)

// NewSource picks the company source named by cfg.DataSource. conn may be nil
// for the FILES source.
func NewSource(cfg *store.Config, conn *sqlx.DB) (interfaces.CompanySource, error) {
	var src interfaces.CompanySource
	switch cfg.DataSource {
	case store.SourceFiles:
		src = NewFileSource(cfg.Paths.RawDir, cfg.Paths.ProcessedDir)
	case store.SourceDatabase:
		if conn == nil {
			return nil, fmt.Errorf("data source %s requires a database connection", cfg.DataSource)
		}
		src = NewDBSource(conn)
	default:
		return nil, fmt.Errorf("unknown data source: %s (valid: %s, %s)", cfg.DataSource, store.SourceDatabase, store.SourceFiles)
	}
	return datasourceobs.Wrap(src), nil
}
