package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"

	"fieldlens/domain/report"
	"fieldlens/internal/errors"
)

const (
	pdfMarginMM    = 15
	pdfLineHeight  = 6
	pdfTableColMin = 25
)

// PDF renders the document model as a paginated A4 document: title, then
// every section with its paragraphs, table and bullets. Page breaks happen
// automatically when vertical space is exhausted. The PDF creation date is
// pinned to the document's GeneratedAt so repeated renders are
// byte-identical.
func PDF(doc report.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.GeneratedAt.UTC())
	pdf.SetModificationDate(doc.GeneratedAt.UTC())
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(doc.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 5, "Generated "+doc.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, section := range doc.Sections {
		writePDFSection(pdf, tr, section)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.ExportFailed("pdf", err)
	}
	return buf.Bytes(), nil
}

func writePDFSection(pdf *fpdf.Fpdf, tr func(string) string, section report.Section) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.MultiCell(0, 7, tr(section.Heading), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)

	for _, paragraph := range section.Paragraphs {
		pdf.MultiCell(0, pdfLineHeight, tr(paragraph), "", "L", false)
	}

	if section.Table != nil {
		writePDFTable(pdf, tr, section.Table)
	}

	for _, bullet := range section.Bullets {
		pdf.MultiCell(0, pdfLineHeight, tr("- "+bullet), "", "L", false)
	}

	pdf.Ln(4)
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, table *report.Table) {
	if len(table.Headers) == 0 {
		return
	}

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMarginMM
	colWidth := usable / float64(len(table.Headers))
	if colWidth < pdfTableColMin {
		colWidth = pdfTableColMin
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, header := range table.Headers {
		pdf.CellFormat(colWidth, pdfLineHeight+1, tr(header), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range table.Rows {
		for i := 0; i < len(table.Headers); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, pdfLineHeight, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
