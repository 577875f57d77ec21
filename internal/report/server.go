package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Runner produces a report on demand. Implemented by the timesheet service;
// kept as an interface here so the server can be tested against a stub.
type Runner interface {
	Run(ctx context.Context, weeksAgo int, member string) (*Report, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, weeksAgo int, member string) (*Report, error)

func (f RunnerFunc) Run(ctx context.Context, weeksAgo int, member string) (*Report, error) {
	return f(ctx, weeksAgo, member)
}

// Server serves the audit report over HTTP. Every route is read-only: each
// request runs the audit against the database and renders the result.
type Server struct {
	runner   Runner
	weeksAgo int
	member   string
	engine   *gin.Engine
}

// NewServer builds a Server with the given default query parameters. Request
// query params "weeks" and "member" override them per request.
func NewServer(runner Runner, weeksAgo int, member string) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		runner:   runner,
		weeksAgo: weeksAgo,
		member:   member,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), corsMiddleware())
	s.registerRoutes()
	return s
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "healthy"})
	})
	s.engine.GET("/", s.handleHTML)
	s.engine.GET("/report.csv", s.handleCSV)
}

// params reads the per-request overrides, falling back to server defaults.
func (s *Server) params(c *gin.Context) (int, string) {
	weeks := s.weeksAgo
	if raw := c.Query("weeks"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			weeks = n
		}
	}
	member := s.member
	if raw := c.Query("member"); raw != "" {
		member = raw
	}
	return weeks, member
}

func (s *Server) handleHTML(c *gin.Context) {
	weeks, member := s.params(c)
	rep, err := s.runner.Run(c.Request.Context(), weeks, member)
	if err != nil {
		slog.Error("audit run failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := rep.WriteHTML(c.Writer); err != nil {
		slog.Error("rendering html report", "error", err)
	}
}

func (s *Server) handleCSV(c *gin.Context) {
	weeks, member := s.params(c)
	rep, err := s.runner.Run(c.Request.Context(), weeks, member)
	if err != nil {
		slog.Error("audit run failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="timesheet-errors.csv"`)
	c.Status(http.StatusOK)
	if err := rep.WriteCSV(c.Writer); err != nil {
		slog.Error("rendering csv report", "error", err)
	}
}

// Start runs the HTTP server on addr, blocking until it exits.
func (s *Server) Start(addr string) error {
	slog.Info("starting report server", "address", addr)
	return s.engine.Run(addr)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
