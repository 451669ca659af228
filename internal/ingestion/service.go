package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/aevon-lab/tripstats/internal/core/trips"
	"github.com/aevon-lab/tripstats/internal/source"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// ErrPersist marks a run that was ingested in memory but could not be saved.
var ErrPersist = errors.New("snapshot persistence failed")

// Config holds the ingestion settings taken from the application config.
type Config struct {
	SourcePath    string
	Reader        source.ReaderKind
	MaxLineBytes  int
	MaxBodySizeMB int
}

// Service owns the current trip aggregation. Each ingestion builds a fresh
// analyzer and swaps it in once complete, so readers never see a partial run.
type Service struct {
	ingestMu sync.Mutex // serializes ingestions
	reloads  singleflight.Group

	mu       sync.RWMutex
	analyzer *trips.Analyzer
	run      storage.RunRecord
	hasRun   bool

	store            storage.SnapshotStore
	cfg              Config
	maxBodySizeBytes int64
	now              func() time.Time
}

// NewService creates the ingestion service. store may be nil, in which case
// runs are kept in memory only.
func NewService(store storage.SnapshotStore, cfg Config) *Service {
	if cfg.Reader == "" {
		cfg.Reader = source.Disk
	}
	if cfg.MaxBodySizeMB <= 0 {
		cfg.MaxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		analyzer:         trips.NewAnalyzer(),
		store:            store,
		cfg:              cfg,
		maxBodySizeBytes: int64(cfg.MaxBodySizeMB) * 1024 * 1024,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/trips", s.UploadHandler)
	r.POST("/v1/trips/reload", s.ReloadHandler)
}

// IngestReader replaces the current aggregation with the trips read from r.
// origin labels the run in logs and persisted metadata.
//
// A cancelled ctx aborts the run and keeps the previous aggregation. Read
// errors end the scan early and the lines read so far are kept. If saving
// the snapshot fails the new run stays current and the returned error wraps
// ErrPersist.
func (s *Service) IngestReader(ctx context.Context, origin string, r io.Reader) (storage.RunRecord, error) {
	if r == nil {
		r = bytes.NewReader(nil)
	}

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	run := storage.RunRecord{
		ID:        uuid.New(),
		Origin:    origin,
		StartedAt: s.now(),
	}

	analyzer := trips.NewAnalyzer(
		trips.WithMaxLineBytes(s.cfg.MaxLineBytes),
		trips.WithRejectHook(func(line int, reason trips.RejectReason) {
			slog.Debug("[Ingestion] Dropped line",
				"run_id", run.ID,
				"line", line,
				"reason", reason.String())
		}),
	)

	src := &guardedReader{ctx: ctx, r: r}
	analyzer.Ingest(src)

	if err := ctx.Err(); err != nil {
		slog.Warn("[Ingestion] Run cancelled, keeping previous aggregation",
			"run_id", run.ID,
			"origin", origin,
			"error", err)
		return storage.RunRecord{}, err
	}
	if src.err != nil {
		slog.Warn("[Ingestion] Source failed mid-stream, keeping lines read so far",
			"run_id", run.ID,
			"origin", origin,
			"error", src.err)
	}

	run.FinishedAt = s.now()
	run.Stats = analyzer.Stats()
	run.Zones = analyzer.Zones()

	s.mu.Lock()
	s.analyzer = analyzer
	s.run = run
	s.hasRun = true
	s.mu.Unlock()

	slog.Info("[Ingestion] Run completed",
		"run_id", run.ID,
		"origin", origin,
		"lines", run.Stats.Lines,
		"accepted", run.Stats.Accepted,
		"rejected", run.Stats.Rejected(),
		"zones", run.Zones,
		"duration", run.FinishedAt.Sub(run.StartedAt))

	if s.store == nil {
		return run, nil
	}

	snap := storage.Snapshot{Run: run, Counts: analyzer.HourCounts()}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		slog.Error("[Ingestion] Failed to persist snapshot", "run_id", run.ID, "error", err)
		return run, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return run, nil
}

// IngestPath ingests the file at path. A missing or unreadable file is
// ingested as an empty source.
func (s *Service) IngestPath(ctx context.Context, path string) (storage.RunRecord, error) {
	rc, err := source.Open(path, s.cfg.Reader)
	if err != nil {
		slog.Warn("[Ingestion] Cannot open source, ingesting as empty",
			"path", path,
			"reader", s.cfg.Reader,
			"error", err)
		return s.IngestReader(ctx, path, bytes.NewReader(nil))
	}
	defer rc.Close()

	return s.IngestReader(ctx, path, rc)
}

// Reload re-ingests the configured source file. Reloads requested while one
// is in flight share its result. The shared run is not tied to any single
// caller: a caller whose ctx ends stops waiting and gets ctx.Err(), while
// the run goes on for the others.
func (s *Service) Reload(ctx context.Context) (storage.RunRecord, error) {
	ch := s.reloads.DoChan(s.cfg.SourcePath, func() (interface{}, error) {
		return s.IngestPath(context.WithoutCancel(ctx), s.cfg.SourcePath)
	})

	select {
	case <-ctx.Done():
		slog.Debug("[Ingestion] Stopped waiting for reload", "path", s.cfg.SourcePath, "error", ctx.Err())
		return storage.RunRecord{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			slog.Debug("[Ingestion] Joined in-flight reload", "path", s.cfg.SourcePath)
		}
		run, _ := res.Val.(storage.RunRecord)
		return run, res.Err
	}
}

// TopZones returns the k busiest zones of the current run together with
// that run's metadata.
func (s *Service) TopZones(k int) ([]trips.ZoneCount, storage.RunRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzer.TopZones(k), s.run
}

// TopBusySlots returns the k busiest (zone, hour) slots of the current run
// together with that run's metadata.
func (s *Service) TopBusySlots(k int) ([]trips.SlotCount, storage.RunRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzer.TopBusySlots(k), s.run
}

// Current returns the metadata of the current run, if any.
func (s *Service) Current() (storage.RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run, s.hasRun
}

// guardedReader stops the scan when ctx is done and remembers the first
// read failure, which the analyzer itself does not report.
type guardedReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (g *guardedReader) Read(p []byte) (int, error) {
	if err := g.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := g.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && g.err == nil {
		g.err = err
	}
	return n, err
}
