// Package export writes grid contents to spreadsheet and PDF files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Format is an export file type.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
	PDF  Format = "pdf"
)

// ParseFormat accepts "xlsx", "excel", "csv" and "pdf" case-insensitively.
// An empty string selects XLSX.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return XLSX, nil
	case "csv":
		return CSV, nil
	case "pdf":
		return PDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type for downloads.
func (f Format) ContentType() string {
	switch f {
	case CSV:
		return "text/csv"
	case PDF:
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Table is the data handed to a writer.
type Table struct {
	Sheet   string
	Headers []string
	Numeric []bool // per column; plain numeric cells are written as numbers in XLSX
	Rows    [][]string
}

func (t Table) numeric(col int) bool {
	return col < len(t.Numeric) && t.Numeric[col]
}

// Write encodes t in format f.
func Write(w io.Writer, f Format, t Table) error {
	switch f {
	case XLSX:
		return writeXLSX(w, t)
	case CSV:
		return writeCSV(w, t)
	case PDF:
		return writePDF(w, t)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(t.Headers) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return fmt.Errorf("apply header style: %w", err)
		}
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = v
			if t.numeric(c) {
				if n, ok := plainNumber(v); ok {
					values[c] = n
				}
			}
		}
		cellName, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cellName, &values); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	for c, h := range t.Headers {
		width := float64(len(h) + 4)
		for _, row := range t.Rows {
			if c < len(row) && float64(len(row[c])+2) > width {
				width = float64(len(row[c]) + 2)
			}
		}
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// plainNumber reads "$1,234.5" style cells. Values with a unit suffix such
// as "$2.4k" are not plain and stay text so the sheet shows what the grid
// shows.
func plainNumber(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
	pdfFontSize  = 9.0
)

// writePDF lays t out as a landscape A4 table. Column widths follow the
// longest cell and the header row repeats on every page.
func writePDF(w io.Writer, t Table) error {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle(t.Sheet, false)
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(false, pdfMargin)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := doc.GetPageSize()
	doc.SetFont("Helvetica", "", pdfFontSize)
	widths := pdfColumnWidths(doc, t, tr, pageW-2*pdfMargin)

	header := func() {
		doc.SetFont("Helvetica", "B", pdfFontSize)
		doc.SetFillColor(3, 201, 215)
		doc.SetTextColor(255, 255, 255)
		for i, h := range t.Headers {
			doc.CellFormat(widths[i], pdfRowHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", pdfFontSize)
		doc.SetTextColor(0, 0, 0)
	}

	doc.AddPage()
	if t.Sheet != "" {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, tr(t.Sheet), "", 1, "L", false, 0, "")
	}
	header()
	for _, row := range t.Rows {
		if doc.GetY()+pdfRowHeight > pageH-pdfMargin {
			doc.AddPage()
			header()
		}
		for i := range t.Headers {
			cell, align := "", "L"
			if i < len(row) {
				cell = row[i]
			}
			if t.numeric(i) {
				align = "R"
			}
			doc.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfColumnWidths sizes columns to their widest text, scaled down to fit
// avail when the table is too wide.
func pdfColumnWidths(doc *fpdf.Fpdf, t Table, tr func(string) string, avail float64) []float64 {
	widths := make([]float64, len(t.Headers))
	total := 0.0
	for i, h := range t.Headers {
		widths[i] = doc.GetStringWidth(tr(h)) + 6
		for _, row := range t.Rows {
			if i < len(row) {
				widths[i] = max(widths[i], doc.GetStringWidth(tr(row[i]))+4)
			}
		}
		total += widths[i]
	}
	if total > avail {
		for i := range widths {
			widths[i] *= avail / total
		}
	}
	return widths
}

// FileName builds a download name such as "orders-20250102-150405.xlsx".
func FileName(page string, f Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", strings.ToLower(page), now.Format("20060102-150405"), f)
}
