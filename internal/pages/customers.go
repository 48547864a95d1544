package pages

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/model"
)

// NewCustomers builds the Customers page. Budget is stored in display form
// ("$2.4k") so its range filter is in thousands.
func NewCustomers() *Board[model.Customer] {
	return &Board[model.Customer]{
		id:    "customers",
		title: "Customers",
		noun:  "customers",
		set: filter.NewSet(
			filter.Choice("Status", "Status", func(c model.Customer) string { return c.Status }),
			filter.Choice("Location", "Location", func(c model.Customer) string { return c.Location }),
			filter.Range("Budget", "Budget Range (k)", filter.Decorated(func(c model.Customer) string { return c.Budget })),
			filter.Search("ProjectName", "Project Search", "Search project...", func(c model.Customer) string { return c.ProjectName }),
			filter.Search("CustomerName", "Customer Search", "Search customer...", func(c model.Customer) string { return c.CustomerName }),
		),
		columns: []Column[model.Customer]{
			{grid.Column{Field: "CustomerName", Header: "Name", Width: 20}, func(c model.Customer) string { return c.CustomerName }, setText(func(c *model.Customer) *string { return &c.CustomerName })},
			{grid.Column{Field: "CustomerEmail", Header: "Email", Width: 20}, func(c model.Customer) string { return c.CustomerEmail }, setText(func(c *model.Customer) *string { return &c.CustomerEmail })},
			{grid.Column{Field: "ProjectName", Header: "Project Name", Width: 20}, func(c model.Customer) string { return c.ProjectName }, setText(func(c *model.Customer) *string { return &c.ProjectName })},
			{grid.Column{Field: "Status", Header: "Status", Width: 10}, func(c model.Customer) string { return c.Status }, setText(func(c *model.Customer) *string { return &c.Status })},
			{grid.Column{Field: "Weeks", Header: "Weeks", Width: 6, Align: lipgloss.Right, Numeric: true}, func(c model.Customer) string { return c.Weeks }, setDecorated(func(c *model.Customer) *string { return &c.Weeks })},
			{grid.Column{Field: "Budget", Header: "Budget", Width: 8, Align: lipgloss.Right, Numeric: true}, func(c model.Customer) string { return c.Budget }, setDecorated(func(c *model.Customer) *string { return &c.Budget })},
			{grid.Column{Field: "Location", Header: "Location", Width: 10}, func(c model.Customer) string { return c.Location }, setText(func(c *model.Customer) *string { return &c.Location })},
			{grid.Column{Field: "CustomerID", Header: "Customer ID", Width: 11, Align: lipgloss.Right, Numeric: true}, func(c model.Customer) string { return strconv.Itoa(c.CustomerID) }, nil},
		},
		gridOpts: grid.Options{
			PageSize:         model.DefaultPageSize,
			PageCount:        model.DefaultPagerWindow,
			AllowPaging:      true,
			AllowSorting:     true,
			Toolbar:          []grid.ToolbarAction{grid.ToolbarDelete},
			Edit:             grid.EditPolicy{AllowEditing: true, AllowDeleting: true},
			PersistSelection: true,
		},
		key:            func(c model.Customer) string { return strconv.Itoa(c.CustomerID) },
		load:           func(src model.RecordSource) ([]model.Customer, error) { return src.Customers() },
		breakdownLabel: "Customers by Status",
		breakdown: func(rs []model.Customer) []Slice {
			return countBy(rs, func(c model.Customer) string { return c.Status })
		},
	}
}
