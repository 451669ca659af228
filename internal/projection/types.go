package projection

import (
	"github.com/aevon-lab/tripstats/internal/report"
)

// ReportQuery holds the query parameters shared by the report endpoints.
// An absent k selects the configured default.
type ReportQuery struct {
	K *int `form:"k" binding:"omitempty,gte=0"`
}

// ZonesResponse is the body of GET /v1/reports/zones.
type ZonesResponse struct {
	Run   report.Run       `json:"run"`
	K     int              `json:"k"`
	Zones []report.ZoneRow `json:"zones"`
}

// SlotsResponse is the body of GET /v1/reports/slots.
type SlotsResponse struct {
	Run   report.Run       `json:"run"`
	K     int              `json:"k"`
	Slots []report.SlotRow `json:"slots"`
}
