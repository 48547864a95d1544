package model

// Customer is one row of the customers dataset. Budget keeps its display
// form (for example "$2.4k"); numeric filters parse it on demand.
type Customer struct {
	CustomerID    int    `yaml:"customer_id"`
	CustomerName  string `yaml:"customer_name"`
	CustomerEmail string `yaml:"customer_email"`
	ProjectName   string `yaml:"project_name"`
	Status        string `yaml:"status"`
	Weeks         string `yaml:"weeks"`
	Budget        string `yaml:"budget"`
	Location      string `yaml:"location"`
}

// Employee is one row of the employees dataset.
type Employee struct {
	EmployeeID int    `yaml:"employee_id"`
	Name       string `yaml:"name"`
	Title      string `yaml:"title"`
	HireDate   string `yaml:"hire_date"`
	Country    string `yaml:"country"`
	ReportsTo  string `yaml:"reports_to"`
}

// Order is one row of the orders dataset.
type Order struct {
	OrderID      int     `yaml:"order_id"`
	CustomerName string  `yaml:"customer_name"`
	TotalAmount  float64 `yaml:"total_amount"`
	OrderItems   string  `yaml:"order_items"`
	Location     string  `yaml:"location"`
	Status       string  `yaml:"status"`
}

// Dataset bundles the three static record sets the dashboard pages render.
type Dataset struct {
	Customers []Customer `yaml:"customers"`
	Employees []Employee `yaml:"employees"`
	Orders    []Order    `yaml:"orders"`
}
