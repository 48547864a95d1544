package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedSeed(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, ds.Customers)
	assert.NotEmpty(t, ds.Employees)
	assert.NotEmpty(t, ds.Orders)

	for _, c := range ds.Customers {
		assert.NotEmpty(t, c.CustomerName, "customer %d has no name", c.CustomerID)
		assert.NotEmpty(t, c.Budget, "customer %d has no budget", c.CustomerID)
	}
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	doc := []byte(`
orders:
  - {order_id: 1, customer_name: A, total_amount: 1}
  - {order_id: 1, customer_name: B, total_amount: 2}
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate order id 1")
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("customers:\n  - {customer_id: 1, shoe_size: 9}\n"))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	ds, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, ds.Customers)
}
