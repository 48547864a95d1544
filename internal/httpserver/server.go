// Package httpserver exposes the dashboard pages and the store over a
// read-only JSON API.
package httpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/admindash/internal/export"
	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/pages"
)

// Server provides the HTTP API.
type Server struct {
	addr      string
	store     model.ReadAPI
	catalog   *pages.Catalog
	log       zerolog.Logger
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithCatalog replaces the default page catalog.
func WithCatalog(c *pages.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// NewServer creates an API server over store. Pages are loaded from the
// store when the server starts.
func NewServer(addr string, store model.ReadAPI, opts ...Option) *Server {
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", model.DefaultAPIPort)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:    addr,
		store:   store,
		catalog: pages.Default(),
		log:     zerolog.Nop(),
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler loads the pages and builds the route table.
func (s *Server) Handler() (http.Handler, error) {
	if err := s.catalog.Load(s.store); err != nil {
		return nil, err
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(r)
	return r, nil
}

func (s *Server) registerRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/schema", s.handleSchema)
	api.POST("/query", s.handleQuery)
	api.GET("/pages", s.handlePages)
	api.GET("/pages/:id", s.handlePage)
	api.GET("/pages/:id/records", s.handleRecords)
	api.GET("/pages/:id/breakdown", s.handleBreakdown)
	api.GET("/pages/:id/export", s.handleExport)
}

// Start begins serving in the background.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	handler, err := s.Handler()
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}

	s.server = &http.Server{
		Handler:           handler,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.startTime = s.now()
	s.log.Info().Str("addr", listener.Addr().String()).Msg("http api listening")

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("http api stopped")
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", s.now().Sub(start)).
			Msg("request")
	}
}

// abort maps domain errors to status codes.
func abort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pages.ErrUnknownPage):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, filter.ErrInvalidBound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"uptime":       s.now().Sub(s.startTime).Round(time.Second).String(),
		"record_count": total,
		"row_counts":   counts,
	})
}

func (s *Server) handleSchema(c *gin.Context) {
	tables, err := s.store.ExecuteQuery(
		"SELECT table_name, column_name, data_type FROM information_schema.columns WHERE table_schema = 'main' ORDER BY table_name, ordinal_position",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schema metadata"})
		return
	}

	schema := make(map[string][]map[string]string)
	for _, row := range tables {
		name := fmt.Sprintf("%v", row["table_name"])
		schema[name] = append(schema[name], map[string]string{
			"column": fmt.Sprintf("%v", row["column_name"]),
			"type":   fmt.Sprintf("%v", row["data_type"]),
		})
	}

	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read table row counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"description": s.store.GetSchemaDescription(),
		"tables":      schema,
		"row_counts":  counts,
	})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		SQL string `json:"sql" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing sql field"})
		return
	}

	results, err := s.store.ExecuteQuery(req.SQL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	columns := []string{}
	if len(results) > 0 {
		for col := range results[0] {
			columns = append(columns, col)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"columns":   columns,
		"rows":      results,
		"row_count": len(results),
	})
}

type pageSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Noun  string `json:"noun"`
	Total int    `json:"total"`
}

type fieldInfo struct {
	filter.Descriptor
	Options []string `json:"options,omitempty"`
}

type columnInfo struct {
	Field   string `json:"field"`
	Header  string `json:"header"`
	Numeric bool   `json:"numeric"`
}

func summarize(p pages.Page) pageSummary {
	return pageSummary{ID: p.ID(), Title: p.Title(), Noun: p.Noun(), Total: p.Total()}
}

func (s *Server) handlePages(c *gin.Context) {
	out := []pageSummary{}
	for _, p := range s.catalog.Pages() {
		out = append(out, summarize(p))
	}
	c.JSON(http.StatusOK, gin.H{"pages": out})
}

func (s *Server) handlePage(c *gin.Context) {
	p, err := s.catalog.Lookup(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}

	fields := []fieldInfo{}
	for _, d := range p.Fields() {
		fields = append(fields, fieldInfo{Descriptor: d, Options: p.Options(d.Name)})
	}
	columns := []columnInfo{}
	for _, col := range p.Columns() {
		columns = append(columns, columnInfo{Field: col.Field, Header: col.Header, Numeric: col.Numeric})
	}
	opts := p.GridOptions()

	c.JSON(http.StatusOK, gin.H{
		"page":    summarize(p),
		"fields":  fields,
		"columns": columns,
		"grid": gin.H{
			"page_size":     opts.PageSize,
			"page_count":    opts.PageCount,
			"allow_paging":  opts.AllowPaging,
			"allow_sorting": opts.AllowSorting,
			"toolbar":       opts.Toolbar,
			"context_menu":  opts.ContextMenu,
		},
	})
}

// filtered resolves the page and applies the request's filter parameters.
func (s *Server) filtered(c *gin.Context) (pages.Page, pages.Result, bool) {
	p, err := s.catalog.Lookup(c.Param("id"))
	if err != nil {
		abort(c, err)
		return nil, pages.Result{}, false
	}
	res, err := p.Filter(pages.StateFromValues(p, c.Request.URL.Query()))
	if err != nil {
		abort(c, err)
		return nil, pages.Result{}, false
	}
	return p, res, true
}

func (s *Server) handleRecords(c *gin.Context) {
	p, res, ok := s.filtered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   res.Total,
		"count":   res.Count,
		"summary": res.Summary(p.Noun()),
		"records": res.Records,
	})
}

func (s *Server) handleBreakdown(c *gin.Context) {
	p, err := s.catalog.Lookup(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	slices, err := p.Breakdown(pages.StateFromValues(p, c.Request.URL.Query()))
	if err != nil {
		abort(c, err)
		return
	}
	if slices == nil {
		slices = []pages.Slice{}
	}
	c.JSON(http.StatusOK, gin.H{"label": p.BreakdownLabel(), "slices": slices})
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, res, ok := s.filtered(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, pages.ExportTable(p, res)); err != nil {
		s.log.Error().Err(err).Str("page", p.ID()).Msg("export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := export.FileName(p.ID(), format, s.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
