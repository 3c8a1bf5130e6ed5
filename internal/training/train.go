package training

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"stock-insights/internal/forest"
	"stock-insights/internal/types"
)

// LabelScore is one line of the evaluation report.
type LabelScore struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Report struct {
	TrainSize int
	TestSize  int
	Labels    []LabelScore
	// SubsetAccuracy is the share of test rows with every label right.
	SubsetAccuracy float64
}

// Train fits the classifier on the training split and scores it on the
// held-out rows.
func Train(rows []Row, testSize float64, p forest.Params) (*forest.Classifier, *Report, error) {
	if len(rows) == 0 {
		return nil, nil, types.ErrNoTrainingRows
	}

	train, test := Split(rows, testSize, p.Seed)
	X, Y := matrix(train)
	clf, err := forest.Fit(X, Y, types.FeatureNames, types.LabelNames, p)
	if err != nil {
		return nil, nil, err
	}

	report, err := Evaluate(clf, test)
	if err != nil {
		return nil, nil, err
	}
	report.TrainSize = len(train)
	return clf, report, nil
}

// Evaluate computes per-label precision, recall and F1 over rows. Ratios
// with an empty denominator are reported as 0.
func Evaluate(clf *forest.Classifier, rows []Row) (*Report, error) {
	n := len(types.LabelNames)
	tp := make([]int, n)
	fp := make([]int, n)
	fn := make([]int, n)
	exact := 0

	for _, r := range rows {
		pred, err := clf.Predict(r.Features().Vector())
		if err != nil {
			return nil, err
		}
		truth := r.Labels().Vector()
		allRight := true
		for l := 0; l < n; l++ {
			switch {
			case pred[l] && truth[l]:
				tp[l]++
			case pred[l] && !truth[l]:
				fp[l]++
				allRight = false
			case !pred[l] && truth[l]:
				fn[l]++
				allRight = false
			}
		}
		if allRight {
			exact++
		}
	}

	report := &Report{TestSize: len(rows)}
	for l, name := range types.LabelNames {
		precision := ratio(tp[l], tp[l]+fp[l])
		recall := ratio(tp[l], tp[l]+fn[l])
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report.Labels = append(report.Labels, LabelScore{
			Label:     name,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   tp[l] + fn[l],
		})
	}
	if len(rows) > 0 {
		report.SubsetAccuracy = float64(exact) / float64(len(rows))
	}
	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the report as an aligned table.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Classification report (train=%d, test=%d)\n", r.TrainSize, r.TestSize)
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tprecision\trecall\tf1-score\tsupport\t")
	for _, s := range r.Labels {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", s.Label, s.Precision, s.Recall, s.F1, s.Support)
	}
	w.Flush()
	fmt.Fprintf(&sb, "subset accuracy: %.2f\n", r.SubsetAccuracy)
	return sb.String()
}

func matrix(rows []Row) ([][]float64, [][]bool) {
	X := make([][]float64, len(rows))
	Y := make([][]bool, len(rows))
	for i, r := range rows {
		X[i] = r.Features().Vector()
		Y[i] = r.Labels().Vector()
	}
	return X, Y
}
