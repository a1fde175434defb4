package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 14.0
	lineHeight  = 7.0
	cellHeight  = 8.0
	usableWidth = 210.0 - 2*pageMargin
)

// WritePDF writes r as an A4 portrait document.
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usableWidth, 10, r.Title, "", 1, "C", false, 0, "")
	if r.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(usableWidth, lineHeight, r.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, s := range r.Sections {
		writeSection(pdf, s)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeSection(pdf *fpdf.Fpdf, s Section) {
	if s.Heading != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(usableWidth, lineHeight+1, s.Heading, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range s.Lines {
		pdf.CellFormat(usableWidth, lineHeight, line, "", 1, "L", false, 0, "")
	}
	if s.Table != nil {
		writeTable(pdf, *s.Table)
	}
	pdf.Ln(4)
}

func writeTable(pdf *fpdf.Fpdf, t Table) {
	cols := len(t.Header)
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}
	width := usableWidth / float64(cols)

	if len(t.Header) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(66, 139, 202)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range t.Header {
			pdf.CellFormat(width, cellHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		for i := 0; i < cols; i++ {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			pdf.CellFormat(width, cellHeight, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
