// Package report turns top-k results into rows with shares and renders them.
package report

import (
	"time"

	"github.com/aevon-lab/tripstats/internal/core/storage"
	"github.com/aevon-lab/tripstats/internal/core/trips"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const sharePlaces = 4

// Run identifies the ingestion a report was computed from.
type Run struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Origin     string    `json:"origin" yaml:"origin"`
	IngestedAt time.Time `json:"ingested_at" yaml:"ingested_at"`
	Accepted   int       `json:"accepted" yaml:"accepted"`
	Rejected   int       `json:"rejected" yaml:"rejected"`
}

// ZoneRow is one ranked zone.
type ZoneRow struct {
	Rank  int             `json:"rank" yaml:"rank"`
	Zone  string          `json:"zone" yaml:"zone"`
	Count int64           `json:"count" yaml:"count"`
	Share decimal.Decimal `json:"share" yaml:"share"`
}

// SlotRow is one ranked (zone, hour) slot.
type SlotRow struct {
	Rank  int             `json:"rank" yaml:"rank"`
	Zone  string          `json:"zone" yaml:"zone"`
	Hour  int             `json:"hour" yaml:"hour"`
	Count int64           `json:"count" yaml:"count"`
	Share decimal.Decimal `json:"share" yaml:"share"`
}

// Report is the full output of one query.
type Report struct {
	Run   Run       `json:"run" yaml:"run"`
	Zones []ZoneRow `json:"zones" yaml:"zones"`
	Slots []SlotRow `json:"slots" yaml:"slots"`
}

// RunFrom extracts report metadata from a run record.
func RunFrom(rec storage.RunRecord) Run {
	return Run{
		ID:         rec.ID,
		Origin:     rec.Origin,
		IngestedAt: rec.FinishedAt,
		Accepted:   rec.Stats.Accepted,
		Rejected:   rec.Stats.Rejected(),
	}
}

// Share returns count/accepted rounded to four decimal places, or zero when
// nothing was accepted.
func Share(count int64, accepted int) decimal.Decimal {
	if accepted <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(count).
		DivRound(decimal.NewFromInt(int64(accepted)), sharePlaces)
}

// ZoneRows ranks zones in the order given. The result is never nil.
func ZoneRows(zones []trips.ZoneCount, accepted int) []ZoneRow {
	rows := make([]ZoneRow, len(zones))
	for i, z := range zones {
		rows[i] = ZoneRow{
			Rank:  i + 1,
			Zone:  z.Zone,
			Count: z.Count,
			Share: Share(z.Count, accepted),
		}
	}
	return rows
}

// SlotRows ranks slots in the order given. The result is never nil.
func SlotRows(slots []trips.SlotCount, accepted int) []SlotRow {
	rows := make([]SlotRow, len(slots))
	for i, s := range slots {
		rows[i] = SlotRow{
			Rank:  i + 1,
			Zone:  s.Zone,
			Hour:  s.Hour,
			Count: s.Count,
			Share: Share(s.Count, accepted),
		}
	}
	return rows
}
