package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/aevon-lab/tripstats/internal/core/trips"
	"github.com/aevon-lab/tripstats/internal/report"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid report query")

// TripSource answers top-k queries over the current run.
type TripSource interface {
	TopZones(k int) ([]trips.ZoneCount, storage.RunRecord)
	TopBusySlots(k int) ([]trips.SlotCount, storage.RunRecord)
}

// Defaults are the k values used when a request does not name one.
type Defaults struct {
	TopZones int
	TopSlots int
}

// Service implements the read side: rankings from the in-memory run and
// run history from the snapshot store.
type Service struct {
	source   TripSource
	store    storage.SnapshotStore
	defaults Defaults
}

// NewService creates a new projection service. store may be nil when
// persistence is disabled.
func NewService(source TripSource, store storage.SnapshotStore, defaults Defaults) *Service {
	if source == nil {
		panic("projection: trip source must not be nil")
	}
	return &Service{
		source:   source,
		store:    store,
		defaults: defaults,
	}
}

// Zones returns the k busiest zones. A nil k uses the default.
func (s *Service) Zones(k *int) (*ZonesResponse, error) {
	n, err := resolveK(k, s.defaults.TopZones)
	if err != nil {
		return nil, err
	}

	zones, run := s.source.TopZones(n)
	return &ZonesResponse{
		Run:   report.RunFrom(run),
		K:     n,
		Zones: report.ZoneRows(zones, run.Stats.Accepted),
	}, nil
}

// Slots returns the k busiest (zone, hour) slots. A nil k uses the default.
func (s *Service) Slots(k *int) (*SlotsResponse, error) {
	n, err := resolveK(k, s.defaults.TopSlots)
	if err != nil {
		return nil, err
	}

	slots, run := s.source.TopBusySlots(n)
	return &SlotsResponse{
		Run:   report.RunFrom(run),
		K:     n,
		Slots: report.SlotRows(slots, run.Stats.Accepted),
	}, nil
}

// LatestRun returns the most recently persisted run.
// Returns storage.ErrNoSnapshot when nothing was persisted or persistence is off.
func (s *Service) LatestRun(ctx context.Context) (*storage.RunRecord, error) {
	if s.store == nil {
		return nil, storage.ErrNoSnapshot
	}
	run, err := s.store.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// LatestSlots ranks the persisted counts of the most recent run. It gives
// the same ordering as Slots over the run that is currently in memory.
func (s *Service) LatestSlots(ctx context.Context, k *int) (*SlotsResponse, error) {
	n, err := resolveK(k, s.defaults.TopSlots)
	if err != nil {
		return nil, err
	}

	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.store.LoadSlotCounts(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("load counts of run %s: %w", run.ID, err)
	}

	top := trips.SelectTop(counts, n, trips.CompareSlotCounts)
	return &SlotsResponse{
		Run:   report.RunFrom(*run),
		K:     n,
		Slots: report.SlotRows(top, run.Stats.Accepted),
	}, nil
}

func resolveK(k *int, fallback int) (int, error) {
	if k == nil {
		return fallback, nil
	}
	if *k < 0 {
		return 0, invalidQueryf("k must be >= 0, got %d", *k)
	}
	return *k, nil
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
