// Package dataset loads the record sets bundled with the dashboard.
package dataset

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/tinytelemetry/admindash/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seed []byte

// Load parses the embedded seed dataset.
func Load() (model.Dataset, error) {
	return Parse(seed)
}

// Parse decodes a YAML dataset document and checks record identifiers.
func Parse(data []byte) (model.Dataset, error) {
	var ds model.Dataset

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return ds, fmt.Errorf("decoding dataset: %w", err)
	}

	if err := validate(ds); err != nil {
		return ds, err
	}
	return ds, nil
}

func validate(ds model.Dataset) error {
	seen := make(map[int]bool, len(ds.Customers))
	for _, c := range ds.Customers {
		if seen[c.CustomerID] {
			return fmt.Errorf("duplicate customer id %d", c.CustomerID)
		}
		seen[c.CustomerID] = true
	}

	seen = make(map[int]bool, len(ds.Employees))
	for _, e := range ds.Employees {
		if seen[e.EmployeeID] {
			return fmt.Errorf("duplicate employee id %d", e.EmployeeID)
		}
		seen[e.EmployeeID] = true
	}

	seen = make(map[int]bool, len(ds.Orders))
	for _, o := range ds.Orders {
		if seen[o.OrderID] {
			return fmt.Errorf("duplicate order id %d", o.OrderID)
		}
		seen[o.OrderID] = true
	}
	return nil
}
