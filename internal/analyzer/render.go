package analyzer

import (
	"fmt"

	"stock-insights/internal/types"
)

// MaxSentences caps each of the pros and cons lists.
const MaxSentences = 3

// HighDebtRatio is the debt ratio above which a company without the debt-free
// label gets a high-debt con.
const HighDebtRatio = 0.5

// Render turns predicted labels into the fixed pros and cons sentences.
func Render(f types.Features, pred types.Labels) (pros, cons []string) {
	pros, cons = []string{}, []string{}

	if pred.ProROE {
		pros = append(pros, fmt.Sprintf("Company has a good ROE track record: 3 Years ROE %.1f%%", f.ROE))
	} else {
		cons = append(cons, fmt.Sprintf("Company has a low return on equity of %.1f%% over last 3 years.", f.ROE))
	}

	if pred.ProDividend {
		pros = append(pros, fmt.Sprintf("Company has maintained a healthy dividend payout of %.1f%%", f.DividendPayout))
	} else {
		cons = append(cons, "Company is not paying out dividend.")
	}

	if pred.ProSales {
		pros = append(pros, fmt.Sprintf("Company has shown strong sales growth of %.2f%% over last 5 years", f.SalesGrowth))
	} else {
		cons = append(cons, fmt.Sprintf("Company has delivered poor sales growth of %.2f%% over last 5 years", f.SalesGrowth))
	}

	if pred.ProDebt {
		pros = append(pros, "Company is almost debt-free.")
	} else if f.DebtRatio > HighDebtRatio {
		cons = append(cons, "Company has high debt levels compared to liabilities.")
	}

	if len(pros) > MaxSentences {
		pros = pros[:MaxSentences]
	}
	if len(cons) > MaxSentences {
		cons = cons[:MaxSentences]
	}
	return pros, cons
}
