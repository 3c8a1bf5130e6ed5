package datasource

import (
	"context"

	"github.com/jmoiron/sqlx"

	"stock-insights/internal/db"
	"stock-insights/internal/features"
	"stock-insights/internal/store"
	"stock-insights/internal/types"
)

// DBSource serves companies from the migrated MySQL tables.
type DBSource struct {
	db *sqlx.DB
}

func NewDBSource(conn *sqlx.DB) *DBSource {
	return &DBSource{db: conn}
}

func (s *DBSource) Name() string { return store.SourceDatabase }

func (s *DBSource) ListCompanyIDs(ctx context.Context) ([]string, error) {
	return db.ListCompanyIDs(ctx, s.db)
}

func (s *DBSource) LoadCompany(ctx context.Context, id string) (*types.CompanyFinancials, error) {
	return db.LoadFinancials(ctx, s.db, id)
}

// LoadPros splits multi-line pros cells into one sentence per line.
func (s *DBSource) LoadPros(ctx context.Context, id string) ([]string, error) {
	texts, err := db.ProsTexts(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return features.SplitPros(texts), nil
}
