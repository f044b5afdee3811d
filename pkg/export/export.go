package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Dataset is a titled table ready for rendering. Row values are keyed by
// column name; missing keys render as empty cells.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// RenderCSV encodes the dataset as CSV with a header row.
func RenderCSV(d Dataset) ([]byte, error) {
	if len(d.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(d.Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(d.Headers))
	for _, row := range d.Rows {
		for i, col := range d.Headers {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF lays the dataset out as a single-page-flowing A4 table with
// the title above and a generation timestamp below.
func RenderPDF(d Dataset) ([]byte, error) {
	if len(d.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if d.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, d.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	colWidth := 190.0 / float64(len(d.Headers))
	pdf.SetFont("Arial", "B", 10)
	for _, col := range d.Headers {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range d.Rows {
		for _, col := range d.Headers {
			pdf.CellFormat(colWidth, 7, row[col], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, "Generated "+time.Now().UTC().Format(time.RFC3339), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
