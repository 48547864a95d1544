package pages

import "github.com/tinytelemetry/admindash/internal/export"

// ExportTable converts a filtered result to an export table with the
// page's column headers.
func ExportTable(p Page, res Result) export.Table {
	cols := p.Columns()
	t := export.Table{
		Sheet:   p.Title(),
		Headers: make([]string, len(cols)),
		Numeric: make([]bool, len(cols)),
		Rows:    make([][]string, len(res.Rows)),
	}
	for i, col := range cols {
		t.Headers[i] = col.Header
		t.Numeric[i] = col.Numeric
	}
	for i, r := range res.Rows {
		t.Rows[i] = r.Cells
	}
	return t
}
