package report

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"visitorlog/internal/storage"
)

const pdfTitle = "Visitor Log Report"

// pdfDateLayout is the human-readable date form used in the report body.
const pdfDateLayout = "Jan 2, 2006 15:04"

// WritePDF renders the records into a paginated PDF document: a
// centered title, then Name/Purpose/Date lines per record. Records are
// expected ordered most recent first; page breaks are handled by the
// library's flow layout.
func WritePDF(w io.Writer, visitors []storage.Visitor) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; UTF-8 input must go through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(pdfTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, tr(pdfTitle), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, v := range visitors {
		pdf.MultiCell(0, 6, tr("Name: "+v.Name), "", "L", false)
		pdf.MultiCell(0, 6, tr("Purpose: "+v.Purpose), "", "L", false)
		pdf.MultiCell(0, 6, tr("Date: "+v.VisitedAt.Format(pdfDateLayout)), "", "L", false)
		pdf.Ln(4)
	}

	// Output closes the document.
	return pdf.Output(w)
}
