package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aevon-lab/tripstats/internal/core/trips"
	"github.com/google/uuid"
)

// ErrNoSnapshot is returned when no ingestion run has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot persisted")

// RunRecord is the metadata of one completed ingestion.
type RunRecord struct {
	ID         uuid.UUID         `json:"id" yaml:"id"`
	Origin     string            `json:"origin" yaml:"origin"`
	StartedAt  time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time         `json:"finished_at" yaml:"finished_at"`
	Zones      int               `json:"zones" yaml:"zones"`
	Stats      trips.IngestStats `json:"stats" yaml:"stats"`
}

// Snapshot is a run together with every non-zero (zone, hour) count it
// produced, in first-seen zone order.
type Snapshot struct {
	Run    RunRecord
	Counts []trips.SlotCount
}

// SnapshotStore persists ingestion results.
type SnapshotStore interface {
	// SaveSnapshot writes the run and its counts atomically.
	SaveSnapshot(ctx context.Context, snap Snapshot) error

	// LatestRun returns the most recently finished run, or ErrNoSnapshot.
	LatestRun(ctx context.Context) (*RunRecord, error)

	// LoadSlotCounts returns the counts of one run in the order they were saved.
	LoadSlotCounts(ctx context.Context, runID uuid.UUID) ([]trips.SlotCount, error)
}
