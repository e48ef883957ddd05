package reports

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 5.5
)

// Render lays the report out as an A4 PDF document.
func Render(r Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(r.Title, true)
	pdf.SetAuthor("Casebook", false)
	pdf.SetMargins(18, 18, 18)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s | page %d", r.Status, pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 8, tr(r.Title), "", "L", false)
	pdf.Ln(4)

	paragraph := func(heading, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		pdf.SetFont(fontFamily, "B", 12)
		pdf.MultiCell(0, 7, tr(heading), "", "L", false)
		pdf.SetFont(fontFamily, "", 10)
		pdf.MultiCell(0, lineHeight, tr(body), "", "L", false)
		pdf.Ln(3)
	}

	bullets := func(heading string, items []string) {
		if len(items) == 0 {
			return
		}
		pdf.SetFont(fontFamily, "B", 11)
		pdf.MultiCell(0, 6, tr(heading), "", "L", false)
		pdf.SetFont(fontFamily, "", 10)
		for _, item := range items {
			pdf.MultiCell(0, lineHeight, tr("• "+item), "", "L", false)
		}
		pdf.Ln(2)
	}

	paragraph("Subjective", r.SOAP.Subjective)
	paragraph("Objective", r.SOAP.Objective)
	paragraph("Assessment", r.SOAP.Assessment)
	paragraph("Plan", r.SOAP.Plan)

	c := r.Content
	if !c.Empty() {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.MultiCell(0, 8, tr("About "+r.DiagnosisName), "", "L", false)
		pdf.Ln(1)

		paragraph("Pathophysiology", c.Pathophysiology)
		bullets("Risk factors", c.RiskFactors)
		bullets("Diagnostic criteria", c.DiagnosticCriteria)
		bullets("Treatment", c.Treatment)
		bullets("Complications", c.Complications)
		paragraph("Prognosis", c.Prognosis)
		bullets("Clinical pearls", c.Pearls)
		bullets("References", c.References)
	}

	paragraph("Learner notes", r.Notes)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// PageCount reads the page count of a rendered document.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: page count: %w", ErrRender, err)
	}
	return n, nil
}
