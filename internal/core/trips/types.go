package trips

// HoursPerDay is the number of hour-of-day buckets kept per zone.
const HoursPerDay = 24

// NoHour is returned by ExtractHour when the datetime field cannot yield a
// valid hour. It is distinct from every hour in [0, HoursPerDay).
const NoHour = -1

// ZoneCount is one row of the busiest-zones report.
type ZoneCount struct {
	Zone  string `json:"zone" yaml:"zone"`
	Count int64  `json:"count" yaml:"count"`
}

// SlotCount is one row of the busiest-slots report. Count is always > 0.
type SlotCount struct {
	Zone  string `json:"zone" yaml:"zone"`
	Hour  int    `json:"hour" yaml:"hour"`
	Count int64  `json:"count" yaml:"count"`
}

// RejectReason tells why a record line contributed nothing.
type RejectReason int

const (
	// RejectShortRecord: fewer than five delimiters (blank lines included).
	RejectShortRecord RejectReason = iota + 1
	// RejectEmptyField: the zone or datetime field has zero length.
	RejectEmptyField
	// RejectBadHour: the datetime field does not yield an hour in 0-23.
	RejectBadHour
	// RejectLongLine: the line is longer than the analyzer's line limit.
	RejectLongLine
)

func (r RejectReason) String() string {
	switch r {
	case RejectShortRecord:
		return "short_record"
	case RejectEmptyField:
		return "empty_field"
	case RejectBadHour:
		return "bad_hour"
	case RejectLongLine:
		return "long_line"
	default:
		return "unknown"
	}
}

// IngestStats counts what happened to the data lines of the last ingestion.
// The header line is not counted.
type IngestStats struct {
	Lines       int `json:"lines" yaml:"lines"`
	Accepted    int `json:"accepted" yaml:"accepted"`
	ShortRecord int `json:"short_record" yaml:"short_record"`
	EmptyField  int `json:"empty_field" yaml:"empty_field"`
	BadHour     int `json:"bad_hour" yaml:"bad_hour"`
	LongLine    int `json:"long_line" yaml:"long_line"`
}

// Rejected returns the number of dropped lines.
func (s IngestStats) Rejected() int {
	return s.ShortRecord + s.EmptyField + s.BadHour + s.LongLine
}

func (s *IngestStats) reject(r RejectReason) {
	switch r {
	case RejectShortRecord:
		s.ShortRecord++
	case RejectEmptyField:
		s.EmptyField++
	case RejectBadHour:
		s.BadHour++
	case RejectLongLine:
		s.LongLine++
	}
}
