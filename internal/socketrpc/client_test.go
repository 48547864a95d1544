package socketrpc_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/socketrpc"
)

type mockBackend struct{}

func (m *mockBackend) Customers() ([]model.Customer, error) {
	return []model.Customer{
		{CustomerID: 1, CustomerName: "Alice Smith", Status: "Active", Budget: "$50k", Location: "UK"},
		{CustomerID: 2, CustomerName: "Bob Garrison", Status: "Pending", Budget: "$120k", Location: "Canada"},
	}, nil
}

func (m *mockBackend) Employees() ([]model.Employee, error) {
	return []model.Employee{{EmployeeID: 7, Name: "Nancy Davolio", Title: "Sales Representative", Country: "USA"}}, nil
}

func (m *mockBackend) Orders() ([]model.Order, error) {
	return []model.Order{{OrderID: 10248, CustomerName: "Vinet", TotalAmount: 32.38, Status: "pending"}}, nil
}

func (m *mockBackend) TableRowCounts() (map[string]int64, error) {
	return map[string]int64{"customers": 2, "employees": 1, "orders": 1}, nil
}

func startTestServer(t *testing.T) (string, *socketrpc.Server) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	srv := socketrpc.NewServer(sockPath, &mockBackend{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return sockPath, srv
}

func TestRoundtrip(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	t.Run("Customers", func(t *testing.T) {
		cs, err := client.Customers()
		if err != nil {
			t.Fatal(err)
		}
		if len(cs) != 2 || cs[0].CustomerName != "Alice Smith" || cs[1].Budget != "$120k" {
			t.Fatalf("unexpected customers: %v", cs)
		}
	})

	t.Run("Employees", func(t *testing.T) {
		es, err := client.Employees()
		if err != nil {
			t.Fatal(err)
		}
		if len(es) != 1 || es[0].Title != "Sales Representative" {
			t.Fatalf("unexpected employees: %v", es)
		}
	})

	t.Run("Orders", func(t *testing.T) {
		os, err := client.Orders()
		if err != nil {
			t.Fatal(err)
		}
		if len(os) != 1 || os[0].TotalAmount != 32.38 {
			t.Fatalf("unexpected orders: %v", os)
		}
	})

	t.Run("TableRowCounts", func(t *testing.T) {
		counts, err := client.TableRowCounts()
		if err != nil {
			t.Fatal(err)
		}
		if counts["customers"] != 2 || counts["orders"] != 1 {
			t.Fatalf("unexpected counts: %v", counts)
		}
	})

	t.Run("Records", func(t *testing.T) {
		res, err := client.Records("Customers", []string{"Status=Active", "Budget.max=60"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Page != "customers" || res.Total != 2 || res.Count != 1 {
			t.Fatalf("unexpected result: %+v", res)
		}
		if res.Summary != "Showing 1 of 2 customers" {
			t.Fatalf("summary = %q", res.Summary)
		}
		if len(res.Rows) != 1 || len(res.Rows[0]) != len(res.Headers) {
			t.Fatalf("rows %v do not match headers %v", res.Rows, res.Headers)
		}
	})
}

func TestRecordsErrors(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	tests := []struct {
		name    string
		page    string
		filters []string
		code    int
	}{
		{"malformed bound", "customers", []string{"Budget.min=abc"}, -32602},
		{"unknown field", "customers", []string{"Salary=1"}, -32602},
		{"missing equals", "orders", []string{"Status"}, -32602},
		{"unknown page", "invoices", nil, -32000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Records(tt.page, tt.filters)
			var rpcErr *socketrpc.RPCError
			if !errors.As(err, &rpcErr) {
				t.Fatalf("expected RPCError, got %v", err)
			}
			if rpcErr.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", rpcErr.Code, tt.code, rpcErr.Message)
			}
		})
	}

	// The connection stays usable after errors.
	if _, err := client.Orders(); err != nil {
		t.Fatalf("Orders after errors: %v", err)
	}
}

func TestDialFailure(t *testing.T) {
	_, err := socketrpc.Dial(filepath.Join(t.TempDir(), "nonexistent.sock"))
	if err == nil {
		t.Fatal("expected error dialing nonexistent socket")
	}
}

func TestStartRefusesLiveSocket(t *testing.T) {
	sockPath, srv := startTestServer(t)
	defer srv.Stop()

	second := socketrpc.NewServer(sockPath, &mockBackend{})
	if err := second.Start(); err == nil {
		second.Stop()
		t.Fatal("expected second server to refuse a live socket")
	}
}

func TestServerStopCleansSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "cleanup.sock")
	srv := socketrpc.NewServer(sockPath, &mockBackend{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	srv.Stop()

	if _, err := socketrpc.Dial(sockPath); err == nil {
		t.Fatal("expected dial to fail after server stop")
	}
}

func TestStopIdempotent(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "idempotent.sock")
	srv := socketrpc.NewServer(sockPath, &mockBackend{})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	srv.Stop()
	srv.Stop()
}

func TestStopClosesConns(t *testing.T) {
	sockPath, srv := startTestServer(t)
	client, err := socketrpc.Dial(sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	srv.Stop()

	done := make(chan error, 1)
	go func() {
		_, callErr := client.Customers()
		done <- callErr
	}()

	select {
	case callErr := <-done:
		if callErr == nil {
			t.Fatal("expected client call to fail after server stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client call hung after server stop")
	}
}
