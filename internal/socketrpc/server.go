package socketrpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/pages"
)

const (
	scannerInitBufSize  = 1024 * 1024
	scannerMaxTokenSize = 10 * 1024 * 1024
)

// Backend is what the server reads from.
type Backend interface {
	model.RecordSource
	TableRowCounts() (map[string]int64, error)
}

// Server exposes a Backend over a Unix domain socket using JSON-RPC 2.0.
type Server struct {
	socketPath string
	store      Backend
	log        zerolog.Logger
	listener   net.Listener
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once

	connMu sync.Mutex
	conns  map[net.Conn]struct{}
}

// NewServer creates a socket RPC server.
func NewServer(socketPath string, store Backend) *Server {
	return &Server{
		socketPath: socketPath,
		store:      store,
		log:        zerolog.Nop(),
		quit:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

// WithLogger sets the server logger.
func (s *Server) WithLogger(l zerolog.Logger) *Server {
	s.log = l
	return s
}

// Start listens on the socket, replacing a stale socket file but refusing
// to steal one another server is listening on.
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("socketrpc: mkdir: %w", err)
	}

	if _, err := os.Stat(s.socketPath); err == nil {
		conn, dialErr := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond)
		if dialErr != nil {
			os.Remove(s.socketPath)
		} else {
			conn.Close()
			return fmt.Errorf("socketrpc: another server is already listening on %s", s.socketPath)
		}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("socketrpc: listen: %w", err)
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	s.log.Info().Str("socket", s.socketPath).Msg("socketrpc listening")
	return nil
}

// Stop closes the listener and open connections, waits for handlers to
// return, and removes the socket file. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.listener != nil {
			s.listener.Close()
		}
		s.connMu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.connMu.Unlock()
		s.wg.Wait()
		os.Remove(s.socketPath)
	})
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
				s.log.Warn().Err(err).Msg("socketrpc accept")
				continue
			}
		}
		s.connMu.Lock()
		s.conns[conn] = struct{}{}
		s.connMu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.connMu.Lock()
		delete(s.conns, conn)
		s.connMu.Unlock()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		select {
		case <-s.quit:
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			encoder.Encode(Response{JSONRPC: "2.0", Error: &RPCError{Code: codeParseError, Message: "parse error"}})
			continue
		}
		if err := encoder.Encode(s.dispatch(req)); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	marshalResult := func(v interface{}, err error) Response {
		if err != nil {
			code := codeApplication
			if errors.Is(err, filter.ErrInvalidBound) {
				code = codeInvalidParams
			}
			resp.Error = &RPCError{Code: code, Message: err.Error()}
			return resp
		}
		data, merr := json.Marshal(v)
		if merr != nil {
			resp.Error = &RPCError{Code: codeInternal, Message: merr.Error()}
			return resp
		}
		resp.Result = data
		return resp
	}

	invalidParams := func(err error) Response {
		resp.Error = &RPCError{Code: codeInvalidParams, Message: fmt.Sprintf("invalid params: %v", err)}
		return resp
	}

	switch req.Method {
	case "Customers":
		return marshalResult(s.store.Customers())

	case "Employees":
		return marshalResult(s.store.Employees())

	case "Orders":
		return marshalResult(s.store.Orders())

	case "TableRowCounts":
		return marshalResult(s.store.TableRowCounts())

	case "Records":
		var p RecordsParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return invalidParams(err)
		}
		return s.records(p, marshalResult, invalidParams)

	default:
		resp.Error = &RPCError{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
		return resp
	}
}

// records filters a freshly loaded page so concurrent callers share no
// filter state.
func (s *Server) records(p RecordsParams, ok func(interface{}, error) Response, bad func(error) Response) Response {
	catalog := pages.Default()
	page, err := catalog.Lookup(p.Page)
	if err != nil {
		return ok(nil, err)
	}
	st, err := pages.ParseAssignments(page, p.Filters)
	if err != nil {
		return bad(err)
	}
	if err := page.Load(s.store); err != nil {
		return ok(nil, err)
	}
	res, err := page.Filter(st)
	if err != nil {
		return ok(nil, err)
	}
	tbl := pages.ExportTable(page, res)
	return ok(RecordsResult{
		Page:    page.ID(),
		Total:   res.Total,
		Count:   res.Count,
		Summary: res.Summary(page.Noun()),
		Headers: tbl.Headers,
		Rows:    tbl.Rows,
	}, nil)
}
