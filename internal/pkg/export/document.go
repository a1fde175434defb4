// Package export renders tabular documents as XLSX workbooks and PDF reports.
package export

// Content types of the supported formats.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "xlsx" and "pdf". Empty means xlsx.
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatXLSX:
		return FormatXLSX, true
	case FormatPDF:
		return FormatPDF, true
	}
	return "", false
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return ContentTypePDF
	}
	return ContentTypeXLSX
}

// Table is a header row plus data rows.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Sheet is one worksheet. Tables are written one after another with a blank row between them.
type Sheet struct {
	Name   string
	Tables []Table
}

// Workbook is a spreadsheet document
type Workbook struct {
	Sheets []Sheet
}

// Section is a block of a PDF report: a heading, optional key/value lines and an optional table.
type Section struct {
	Heading string
	Lines   []string
	Table   *Table
}

// Report is a printable document
type Report struct {
	Title    string
	Subtitle string
	Sections []Section
}
