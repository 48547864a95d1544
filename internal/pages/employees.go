package pages

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/model"
)

// NewEmployees builds the Employees page.
func NewEmployees() *Board[model.Employee] {
	return &Board[model.Employee]{
		id:    "employees",
		title: "Employees",
		noun:  "employees",
		set: filter.NewSet(
			filter.Choice("Title", "Job Title", func(e model.Employee) string { return e.Title }),
			filter.Choice("Country", "Country", func(e model.Employee) string { return e.Country }),
			filter.Choice("ReportsTo", "Reports To", func(e model.Employee) string { return e.ReportsTo }),
			filter.Search("Name", "Name Search", "Search by name...", func(e model.Employee) string { return e.Name }),
		),
		columns: []Column[model.Employee]{
			{grid.Column{Field: "Name", Header: "Employee", Width: 20}, func(e model.Employee) string { return e.Name }, setText(func(e *model.Employee) *string { return &e.Name })},
			{grid.Column{Field: "Title", Header: "Designation", Width: 20}, func(e model.Employee) string { return e.Title }, setText(func(e *model.Employee) *string { return &e.Title })},
			{grid.Column{Field: "Country", Header: "Country", Width: 10}, func(e model.Employee) string { return e.Country }, setText(func(e *model.Employee) *string { return &e.Country })},
			{grid.Column{Field: "HireDate", Header: "Hire Date", Width: 10}, func(e model.Employee) string { return e.HireDate }, setText(func(e *model.Employee) *string { return &e.HireDate })},
			{grid.Column{Field: "ReportsTo", Header: "Reports To", Width: 16}, func(e model.Employee) string { return e.ReportsTo }, setText(func(e *model.Employee) *string { return &e.ReportsTo })},
			{grid.Column{Field: "EmployeeID", Header: "Employee ID", Width: 11, Align: lipgloss.Right, Numeric: true}, func(e model.Employee) string { return strconv.Itoa(e.EmployeeID) }, nil},
		},
		gridOpts: grid.Options{
			PageSize:     model.DefaultPageSize,
			PageCount:    model.DefaultPagerWindow,
			AllowPaging:  true,
			AllowSorting: true,
			Toolbar:      []grid.ToolbarAction{grid.ToolbarSearch},
			Edit:         grid.EditPolicy{AllowEditing: true, AllowDeleting: true},
		},
		key:            func(e model.Employee) string { return strconv.Itoa(e.EmployeeID) },
		load:           func(src model.RecordSource) ([]model.Employee, error) { return src.Employees() },
		breakdownLabel: "Employees by Title",
		breakdown: func(rs []model.Employee) []Slice {
			return countBy(rs, func(e model.Employee) string { return e.Title })
		},
	}
}
