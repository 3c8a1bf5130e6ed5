package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stock-insights/internal/interfaces"
	"stock-insights/internal/logger"
	"stock-insights/internal/types"
)

// Format specifies the output format for insight reports
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// Formats lists every supported format, in the order the CLI documents them.
var Formats = []Format{FormatText, FormatMarkdown, FormatHTML, FormatPDF}

// Ext is the file extension used when saving a report in f.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// Report is everything known about one company's insights.
type Report struct {
	Company   types.Company
	Analysis  *types.AnalysisRow
	Pros      []string
	Cons      []string
	Generated time.Time
}

// Build collects the company, its analysis and its pros/cons. A missing
// analysis is not an error; the report simply shows no growth figures.
func Build(ctx context.Context, store interfaces.CompanyReader, id string) (*Report, error) {
	company, err := store.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis, err := store.GetAnalysis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load analysis for %s: %w", id, err)
	}
	pros, cons, err := store.GetProsAndCons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load pros and cons for %s: %w", id, err)
	}

	return &Report{
		Company:   *company,
		Analysis:  analysis,
		Pros:      pros,
		Cons:      cons,
		Generated: time.Now(),
	}, nil
}

type metric struct {
	Label string
	Value string
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

// metrics is the table shared by every format.
func (r *Report) metrics() []metric {
	c := r.Company
	m := []metric{
		{"Company", c.Name()},
		{"Ticker", c.ID},
		{"Face value", orNA(c.FaceValue.String())},
		{"Book value", orNA(c.BookValue.String())},
		{"ROCE %", orNA(c.ROCEPercentage.String())},
		{"ROE %", orNA(c.ROEPercentage.String())},
	}
	if a := r.Analysis; a != nil {
		m = append(m,
			metric{"Sales growth", orNA(a.CompoundedSalesGrowth.String())},
			metric{"Profit growth", orNA(a.CompoundedProfitGrowth.String())},
			metric{"Stock price CAGR", orNA(a.StockPriceCAGR.String())},
		)
	}
	return m
}

// Generate renders r in the given format.
func Generate(r *Report, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return generateText(r)
	case FormatMarkdown:
		return []byte(generateMarkdown(r)), nil
	case FormatHTML:
		return generateHTML(r)
	case FormatPDF:
		return generatePDF(r)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Reporter handles generation and storage of insight reports
type Reporter struct {
	outputDir string
}

func NewReporter(outputDir string) *Reporter {
	return &Reporter{outputDir: outputDir}
}

// SaveReport writes <outputDir>/<id>_insights.<ext> and returns its path.
func (rp *Reporter) SaveReport(ctx context.Context, r *Report, format Format) (string, error) {
	content, err := Generate(r, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(rp.outputDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(rp.outputDir, fmt.Sprintf("%s_insights.%s", r.Company.ID, format.Ext()))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", err
	}

	logger.Info(ctx, "Report saved", "company_id", r.Company.ID, "format", string(format), "path", path)
	return path, nil
}
