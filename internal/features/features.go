// Package features derives the classifier inputs and training labels from a
// company's yearly financial rows.
package features

import (
	"strings"

	"stock-insights/internal/types"
)

// GrowthWindow is the number of trailing profit-and-loss rows used for growth
// figures; six rows span five years of growth.
const GrowthWindow = 6

// SafeFloat converts a scalar to float64, returning 0.0 instead of failing.
func SafeFloat(s types.Scalar) float64 {
	return s.Float()
}

// Extract computes the four features for one company. It is the single
// implementation shared by training, analysis and result storage.
func Extract(cf types.CompanyFinancials) types.Features {
	return types.Features{
		ROE:            SafeFloat(cf.Company.ROEPercentage.Scalar),
		DividendPayout: LatestDividendPayout(cf.ProfitAndLoss),
		SalesGrowth:    Growth(cf.ProfitAndLoss, Sales),
		DebtRatio:      DebtRatio(cf.BalanceSheet),
	}
}

// LatestDividendPayout scans from the latest year backwards and returns the
// first strictly positive payout, or 0 if there is none.
func LatestDividendPayout(pl []types.ProfitAndLoss) float64 {
	for i := len(pl) - 1; i >= 0; i-- {
		if payout := SafeFloat(pl[i].DividendPayout.Scalar); payout > 0 {
			return payout
		}
	}
	return 0
}

// Field selects one numeric column of a profit-and-loss row.
type Field func(types.ProfitAndLoss) types.Number

func Sales(r types.ProfitAndLoss) types.Number     { return r.Sales }
func NetProfit(r types.ProfitAndLoss) types.Number { return r.NetProfit }

// Growth is the percentage change between the first and last rows of the
// trailing GrowthWindow. It is 0 with fewer than two rows or when the first
// value is not positive.
func Growth(pl []types.ProfitAndLoss, field Field) float64 {
	window := pl
	if len(window) > GrowthWindow {
		window = window[len(window)-GrowthWindow:]
	}
	if len(window) < 2 {
		return 0
	}
	first := SafeFloat(field(window[0]).Scalar)
	last := SafeFloat(field(window[len(window)-1]).Scalar)
	if first <= 0 {
		return 0
	}
	return ((last - first) / first) * 100
}

// DebtRatio is borrowings over total liabilities for the latest balance
// sheet, 0 when there is no balance sheet or liabilities are zero.
func DebtRatio(bs []types.BalanceSheet) float64 {
	if len(bs) == 0 {
		return 0
	}
	latest := bs[len(bs)-1]
	totalLiabilities := SafeFloat(latest.TotalLiabilities.Scalar)
	if totalLiabilities == 0 {
		return 0
	}
	return SafeFloat(latest.Borrowings.Scalar) / totalLiabilities
}

// Keywords matched (case-sensitively) against pro sentences to derive labels.
const (
	KeywordROE      = "ROE"
	KeywordDividend = "dividend"
	KeywordSales    = "sales growth"
	KeywordDebtFree = "debt-free"
)

// DeriveLabels marks a label as set when any pro sentence contains its keyword.
func DeriveLabels(pros []string) types.Labels {
	return types.Labels{
		ProROE:      anyContains(pros, KeywordROE),
		ProDividend: anyContains(pros, KeywordDividend),
		ProSales:    anyContains(pros, KeywordSales),
		ProDebt:     anyContains(pros, KeywordDebtFree),
	}
}

// SplitPros flattens stored pros columns, which may hold several
// newline-separated sentences, into individual sentences.
func SplitPros(texts []string) []string {
	var out []string
	for _, t := range texts {
		if t == "" {
			continue
		}
		out = append(out, strings.Split(t, "\n")...)
	}
	return out
}

func anyContains(texts []string, keyword string) bool {
	for _, t := range texts {
		if strings.Contains(t, keyword) {
			return true
		}
	}
	return false
}
