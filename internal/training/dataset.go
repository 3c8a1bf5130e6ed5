package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"stock-insights/internal/features"
	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

const stage = "training_data"

// Row is one line of the training CSV. Labels are written as 0/1.
type Row struct {
	CompanyID      string  `csv:"company_id"`
	ROE            float64 `csv:"roe"`
	DividendPayout float64 `csv:"dividend_payout"`
	SalesGrowth    float64 `csv:"sales_growth"`
	DebtRatio      float64 `csv:"debt_ratio"`
	ProROE         int     `csv:"pro_roe"`
	ProDividend    int     `csv:"pro_dividend"`
	ProSales       int     `csv:"pro_sales"`
	ProDebt        int     `csv:"pro_debt"`
}

func NewRow(id string, f types.Features, l types.Labels) Row {
	return Row{
		CompanyID:      id,
		ROE:            f.ROE,
		DividendPayout: f.DividendPayout,
		SalesGrowth:    f.SalesGrowth,
		DebtRatio:      f.DebtRatio,
		ProROE:         b2i(l.ProROE),
		ProDividend:    b2i(l.ProDividend),
		ProSales:       b2i(l.ProSales),
		ProDebt:        b2i(l.ProDebt),
	}
}

func (r Row) Features() types.Features {
	return types.Features{ROE: r.ROE, DividendPayout: r.DividendPayout, SalesGrowth: r.SalesGrowth, DebtRatio: r.DebtRatio}
}

func (r Row) Labels() types.Labels {
	return types.Labels{ProROE: r.ProROE != 0, ProDividend: r.ProDividend != 0, ProSales: r.ProSales != 0, ProDebt: r.ProDebt != 0}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BuildDataset computes features and labels for every company the source
// lists. Companies that cannot be loaded, or have no pros to label from,
// are logged and left out.
func BuildDataset(ctx context.Context, src interfaces.CompanySource) ([]Row, error) {
	ids, err := src.ListCompanyIDs(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Processing companies", "count", len(ids), "source", src.Name())

	var rows []Row
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		cf, err := src.LoadCompany(ctx, id)
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "error", err.Error())
			continue
		}
		pros, err := src.LoadPros(ctx, id)
		if err != nil {
			logger.Stage(ctx, stage, id, "skipped", "error", err.Error())
			continue
		}

		rows = append(rows, NewRow(id, features.Extract(*cf), features.DeriveLabels(pros)))
		logger.Stage(ctx, stage, id, "ok")
	}

	if len(rows) == 0 {
		return nil, types.ErrNoTrainingRows
	}
	return rows, nil
}

func WriteCSV(path string, rows []Row) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, types.ErrNoTrainingRows)
	}
	return rows, nil
}

// Split shuffles a copy of rows with seed and holds out ceil(testSize*n) of
// them. When that would leave nothing to train on, every row is used for
// training.
func Split(rows []Row, testSize float64, seed int64) (train, test []Row) {
	shuffled := append([]Row(nil), rows...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	nTest := int(math.Ceil(testSize * float64(len(shuffled))))
	if nTest >= len(shuffled) {
		nTest = 0
	}
	return shuffled[nTest:], shuffled[:nTest]
}
