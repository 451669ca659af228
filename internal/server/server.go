package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	healthPingTimeout = 2 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// RunReporter exposes the trip run currently served from memory.
type RunReporter interface {
	Current() (storage.RunRecord, bool)
}

// Health is the body of GET /health.
type Health struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	Run      *RunHealth `json:"run"`
	Error    string     `json:"error,omitempty"`
}

// RunHealth summarizes the current run. It is null until the first
// ingestion completes.
type RunHealth struct {
	ID         uuid.UUID `json:"id"`
	Zones      int       `json:"zones"`
	Accepted   int       `json:"accepted"`
	FinishedAt time.Time `json:"finished_at"`
}

type Server struct {
	Engine *gin.Engine
	Addr   string
	db     *sql.DB
	runs   RunReporter
}

// New builds the HTTP server. db is nil when persistence is disabled, in
// which case health does not depend on a database.
func New(addr string, db *sql.DB, runs RunReporter, mode string) *Server {
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Engine: gin.Default(),
		Addr:   addr,
		db:     db,
		runs:   runs,
	}
	s.Engine.GET("/health", s.healthHandler)

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	h := Health{Status: "healthy", Database: "disabled", Run: s.currentRun()}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			slog.Error("[Server] Health check failed: database unreachable", "error", err)
			h.Status = "unhealthy"
			h.Database = "unreachable"
			h.Error = "database unreachable"
			c.JSON(http.StatusServiceUnavailable, h)
			return
		}
		h.Database = "connected"
	}

	c.JSON(http.StatusOK, h)
}

func (s *Server) currentRun() *RunHealth {
	if s.runs == nil {
		return nil
	}
	run, ok := s.runs.Current()
	if !ok {
		return nil
	}
	return &RunHealth{
		ID:         run.ID,
		Zones:      run.Zones,
		Accepted:   run.Stats.Accepted,
		FinishedAt: run.FinishedAt,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Addr,
		Handler: s.Engine,
	}

	slog.Info("[Server] Listening", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] Forced shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
