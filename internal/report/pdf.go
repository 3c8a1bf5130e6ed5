package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

func generatePDF(r *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(r.Company.Name()+" insights", true)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(r.Company.Name()), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Generated "+r.Generated.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	for _, m := range r.metrics() {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, tr(m.Label), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(m.Value), "1", 1, "L", false, 0, "")
	}

	pdfList(pdf, tr, "Pros", r.Pros, 29, 122, 58)
	pdfList(pdf, tr, "Cons", r.Cons, 176, 42, 42)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfList(pdf *fpdf.Fpdf, tr func(string) string, title string, items []string, red, green, blue int) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(red, green, blue)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)

	if len(items) == 0 {
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
		return
	}
	for _, item := range items {
		pdf.MultiCell(0, 6, tr("- "+item), "", "L", false)
	}
}
