package report

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/kalkyl-app/backend/internal/calc"
)

// Page layout constants (A4 portrait in mm).
const (
	pdfPageWidth  = 210.0
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	pdfIndent     = 5.0
	pdfAmountW    = 35.0
	pdfQtyW       = 18.0
	pdfUnitW      = 12.0
	pdfPriceW     = 25.0
)

// WritePDF renders the calculation as a PDF report: a title block, the
// indented hierarchy with per-node amounts, the option list and the
// financial summary.
func WritePDF(w io.Writer, c *calc.Calculation) error {
	c.Aggregate()
	summary := calc.Summarize(c)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	// Core fonts are cp1252, which covers Swedish text and the no-break
	// spaces the locale formatting produces
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contentWidth := pdfPageWidth - 2*pdfMargin

	// Title block
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentWidth, 9, tr(c.Name), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(contentWidth, 5, tr(c.Project), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	// Column header
	labelWidth := contentWidth - pdfQtyW - pdfUnitW - pdfPriceW - pdfAmountW
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(labelWidth, pdfLineHeight, tr("Beskrivning"), "B", 0, "L", true, 0, "")
	pdf.CellFormat(pdfQtyW, pdfLineHeight, tr("Mängd"), "B", 0, "R", true, 0, "")
	pdf.CellFormat(pdfUnitW, pdfLineHeight, "Enhet", "B", 0, "L", true, 0, "")
	pdf.CellFormat(pdfPriceW, pdfLineHeight, tr("À-pris"), "B", 0, "R", true, 0, "")
	pdf.CellFormat(pdfAmountW, pdfLineHeight, "Summa", "B", 1, "R", true, 0, "")

	for _, row := range Rows(c) {
		renderPDFRow(pdf, tr, row, labelWidth)
	}

	if len(c.Options) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentWidth, pdfLineHeight, "Tillval", "", 1, "L", false, 0, "")
		for _, row := range OptionRows(c) {
			row.Depth = 1
			renderPDFRow(pdf, tr, row, labelWidth)
		}
	}

	// Summary block
	pdf.Ln(5)
	renderSummaryLine(pdf, tr, "Budget exkl. arvode", FormatCurrency(summary.BudgetExclRate), false)
	renderSummaryLine(pdf, tr, "Arvode", FormatCurrency(summary.FixedRate), false)
	renderSummaryLine(pdf, tr, "Anbudssumma", FormatCurrency(summary.BidAmount), true)

	pdf.Ln(3)
	renderSummaryLine(pdf, tr, "CO2 totalt", FormatNumber(summary.TotalCO2)+" kg", false)
	if summary.CO2BudgetTotal.IsPositive() {
		renderSummaryLine(pdf, tr, "CO2-budget", FormatNumber(summary.CO2BudgetTotal)+" kg", false)
		if summary.ExceedsBudget {
			pdf.SetTextColor(200, 30, 30)
			renderSummaryLine(pdf, tr, "Överskridande", FormatNumber(summary.Overshoot)+" kg", true)
			pdf.SetTextColor(0, 0, 0)
		}
	}

	return pdf.Output(w)
}

func renderPDFRow(pdf *fpdf.Fpdf, tr func(string) string, row Row, labelWidth float64) {
	indent := float64(row.Depth) * pdfIndent

	switch row.Kind {
	case KindSection:
		pdf.SetFont("Helvetica", "B", 10)
	case KindSubsection, KindSubSubsection:
		pdf.SetFont("Helvetica", "B", 9)
	default:
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.SetX(pdf.GetX() + indent)
	pdf.CellFormat(labelWidth-indent, pdfLineHeight, tr(row.Label), "", 0, "L", false, 0, "")

	if row.Kind == KindRow || row.Kind == KindOption {
		pdf.CellFormat(pdfQtyW, pdfLineHeight, tr(FormatNumber(row.Quantity)), "", 0, "R", false, 0, "")
		pdf.CellFormat(pdfUnitW, pdfLineHeight, tr(row.Unit), "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfPriceW, pdfLineHeight, tr(FormatCurrency(row.PricePerUnit)), "", 0, "R", false, 0, "")
	} else {
		pdf.CellFormat(pdfQtyW+pdfUnitW+pdfPriceW, pdfLineHeight, "", "", 0, "L", false, 0, "")
	}

	pdf.CellFormat(pdfAmountW, pdfLineHeight, tr(FormatCurrency(row.Amount)), "", 1, "R", false, 0, "")
}

func renderSummaryLine(pdf *fpdf.Fpdf, tr func(string) string, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}

	contentWidth := pdfPageWidth - 2*pdfMargin
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(contentWidth-pdfAmountW, pdfLineHeight, tr(label), "", 0, "L", false, 0, "")
	pdf.CellFormat(pdfAmountW, pdfLineHeight, tr(value), "", 1, "R", false, 0, "")
}
