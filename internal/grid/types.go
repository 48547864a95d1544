// Package grid is the tabular widget every dashboard page hands its
// filtered rows to. It owns paging, sorting, selection, a row search, the
// toolbar and the context menu; the page owns the data.
package grid

import "github.com/charmbracelet/lipgloss"

// Column describes one grid column.
type Column struct {
	Field   string
	Header  string
	Width   int
	Align   lipgloss.Position
	Numeric bool
	// Editable columns accept in-place edits when the grid allows editing.
	Editable bool
}

// Row is one rendered record. Key must be unique within the grid.
type Row struct {
	Key   string
	Cells []string
}

// ToolbarAction is a button on the grid toolbar.
type ToolbarAction string

const (
	ToolbarDelete      ToolbarAction = "Delete"
	ToolbarSearch      ToolbarAction = "Search"
	ToolbarExcelExport ToolbarAction = "ExcelExport"
	ToolbarCsvExport   ToolbarAction = "CsvExport"
	ToolbarPdfExport   ToolbarAction = "PdfExport"
)

// EditPolicy controls which row edits the grid permits.
type EditPolicy struct {
	AllowEditing  bool
	AllowDeleting bool
}

// ContextMenuItem is one entry of the row context menu.
type ContextMenuItem string

const (
	MenuSortAscending  ContextMenuItem = "SortAscending"
	MenuSortDescending ContextMenuItem = "SortDescending"
	MenuCopy           ContextMenuItem = "Copy"
	MenuEdit           ContextMenuItem = "Edit"
	MenuDelete         ContextMenuItem = "Delete"
	MenuExcelExport    ContextMenuItem = "ExcelExport"
	MenuCsvExport      ContextMenuItem = "CsvExport"
	MenuPdfExport      ContextMenuItem = "PdfExport"
	MenuFirstPage      ContextMenuItem = "FirstPage"
	MenuPrevPage       ContextMenuItem = "PrevPage"
	MenuNextPage       ContextMenuItem = "NextPage"
	MenuLastPage       ContextMenuItem = "LastPage"
)

// DefaultContextMenu is the full item list, in menu order.
var DefaultContextMenu = []ContextMenuItem{
	MenuSortAscending, MenuSortDescending, MenuCopy, MenuEdit, MenuDelete,
	MenuExcelExport, MenuCsvExport, MenuPdfExport,
	MenuFirstPage, MenuPrevPage, MenuNextPage, MenuLastPage,
}

// Label is the menu text for an item.
func (c ContextMenuItem) Label() string {
	switch c {
	case MenuSortAscending:
		return "Sort Ascending"
	case MenuSortDescending:
		return "Sort Descending"
	case MenuCopy:
		return "Copy"
	case MenuEdit:
		return "Edit Cell"
	case MenuDelete:
		return "Delete Record"
	case MenuExcelExport:
		return "Excel Export"
	case MenuCsvExport:
		return "CSV Export"
	case MenuPdfExport:
		return "PDF Export"
	case MenuFirstPage:
		return "First Page"
	case MenuPrevPage:
		return "Previous Page"
	case MenuNextPage:
		return "Next Page"
	case MenuLastPage:
		return "Last Page"
	}
	return string(c)
}

// Options configures grid behaviour.
type Options struct {
	PageSize         int
	PageCount        int // page numbers shown in the pager
	AllowPaging      bool
	AllowSorting     bool
	Toolbar          []ToolbarAction
	Edit             EditPolicy
	PersistSelection bool
	ContextMenu      []ContextMenuItem
}

// HasToolbar reports whether a toolbar action is enabled.
func (o Options) HasToolbar(a ToolbarAction) bool {
	for _, t := range o.Toolbar {
		if t == a {
			return true
		}
	}
	return false
}

// CanDelete reports whether rows may be deleted from the grid.
func (o Options) CanDelete() bool {
	return o.Edit.AllowDeleting || o.HasToolbar(ToolbarDelete)
}

// CanEdit reports whether cells may be edited in place.
func (o Options) CanEdit() bool { return o.Edit.AllowEditing }

// SortDir is a column sort direction.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// next cycles asc -> desc -> none.
func (d SortDir) next() SortDir {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	}
	return SortNone
}

// ExportFormat is the file type an export request asks for.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
)

// DeleteMsg asks the owner to remove rows with these keys.
type DeleteMsg struct{ Keys []string }

// ExportMsg asks the owner to export the grid's current rows.
type ExportMsg struct{ Format ExportFormat }

// CopyMsg carries the cells of the row under the cursor.
type CopyMsg struct {
	Key  string
	Text string
}

// EditCellMsg asks the owner to edit one cell of the row under the cursor.
type EditCellMsg struct {
	Key    string
	Field  string
	Header string
	Value  string
}

// OpenRowMsg asks the owner to show the row under the cursor.
type OpenRowMsg struct{ Row Row }

// ContextMenuMsg asks the owner to open the context menu.
type ContextMenuMsg struct{ Items []ContextMenuItem }

// SearchMsg asks the owner to start editing the grid search term.
type SearchMsg struct{ Term string }
