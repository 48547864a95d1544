package socketrpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tinytelemetry/admindash/internal/model"
)

type stubBackend struct {
	err error
}

func (b *stubBackend) Customers() ([]model.Customer, error) {
	return []model.Customer{{CustomerID: 1, CustomerName: "Alice Smith", Status: "Active", Budget: "$50k"}}, b.err
}

func (b *stubBackend) Employees() ([]model.Employee, error) {
	return []model.Employee{{EmployeeID: 1, Name: "Nancy"}}, b.err
}

func (b *stubBackend) Orders() ([]model.Order, error) {
	return []model.Order{{OrderID: 1, TotalAmount: 10, Status: "complete"}}, b.err
}

func (b *stubBackend) TableRowCounts() (map[string]int64, error) {
	return map[string]int64{"customers": 1}, b.err
}

func newTestDispatcher() *Server {
	return &Server{store: &stubBackend{}}
}

func TestDispatch_AllMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	tests := []struct {
		method string
		params string
	}{
		{"Customers", `{}`},
		{"Employees", `{}`},
		{"Orders", `{}`},
		{"TableRowCounts", `{}`},
		{"Records", `{"Page":"orders","Filters":["Status=complete"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{
				JSONRPC: "2.0",
				ID:      1,
				Method:  tt.method,
				Params:  json.RawMessage(tt.params),
			})
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) error: %s", tt.method, resp.Error.Message)
			}
			if resp.Result == nil {
				t.Fatalf("dispatch(%s) returned nil result", tt.method)
			}
			if resp.JSONRPC != "2.0" {
				t.Errorf("JSONRPC = %q, want 2.0", resp.JSONRPC)
			}
			if resp.ID != 1 {
				t.Errorf("ID = %d, want 1", resp.ID)
			}
		})
	}
}

func TestDispatch_MethodNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 1, Method: "DropTables", Params: json.RawMessage(`{}`)})
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != codeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeMethodNotFound)
	}
}

func TestDispatch_InvalidParams(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 2, Method: "Records", Params: json.RawMessage(`not json`)})
	if resp.Error == nil {
		t.Fatal("expected error for malformed params")
	}
	if resp.Error.Code != codeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, codeInvalidParams)
	}
}

func TestDispatch_NilParamsOnListMethods(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, method := range []string{"Customers", "Employees", "Orders", "TableRowCounts"} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 1, Method: method})
			if resp.Error != nil {
				t.Fatalf("dispatch(%s) with nil params: %s", method, resp.Error.Message)
			}
		})
	}
}

func TestDispatch_BackendError(t *testing.T) {
	t.Parallel()
	srv := &Server{store: &stubBackend{err: errors.New("database is locked")}}

	resp := srv.dispatch(Request{JSONRPC: "2.0", ID: 3, Method: "Orders"})
	if resp.Error == nil {
		t.Fatal("expected backend error")
	}
	if resp.Error.Code != codeApplication || resp.Error.Message != "database is locked" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestDispatch_RecordsFiltersPage(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	resp := srv.dispatch(Request{
		JSONRPC: "2.0",
		ID:      4,
		Method:  "Records",
		Params:  json.RawMessage(`{"Page":"customers","Filters":["Status=Pending"]}`),
	})
	if resp.Error != nil {
		t.Fatalf("dispatch error: %s", resp.Error.Message)
	}
	var res RecordsResult
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.Total != 1 || res.Count != 0 || len(res.Rows) != 0 {
		t.Errorf("result = %+v, want 0 of 1", res)
	}
}

func TestDispatch_PreservesRequestID(t *testing.T) {
	t.Parallel()
	srv := newTestDispatcher()

	for _, id := range []int{0, 1, 42, 9999} {
		resp := srv.dispatch(Request{JSONRPC: "2.0", ID: id, Method: "TableRowCounts"})
		if resp.ID != id {
			t.Errorf("request ID %d: response ID = %d", id, resp.ID)
		}
	}
}
