package trips

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const (
	defaultStoreCapacity = 4096
	defaultMaxLineBytes  = 1 << 20
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRejectHook registers fn to be called for every dropped data line.
// line is 1-based and counts the header as line 1.
func WithRejectHook(fn func(line int, reason RejectReason)) Option {
	return func(a *Analyzer) { a.onReject = fn }
}

// WithMaxLineBytes caps the length of a single line, terminator excluded.
// A longer line is dropped as RejectLongLine and the scan goes on.
func WithMaxLineBytes(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxLineBytes = n
		}
	}
}

// Analyzer ingests trip records and answers top-k queries over them.
//
// An Analyzer is not safe for concurrent use. Ingest must not run while
// another goroutine reads from the same instance.
type Analyzer struct {
	store        *Store
	stats        IngestStats
	onReject     func(line int, reason RejectReason)
	maxLineBytes int
}

// NewAnalyzer returns an analyzer with an empty store.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		store:        NewStore(defaultStoreCapacity),
		maxLineBytes: defaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reset drops all aggregated data and statistics.
func (a *Analyzer) Reset() {
	a.store.Reset()
	a.stats = IngestStats{}
}

// Ingest replaces the current aggregation with the contents of r. The first
// line is a header and is skipped. Malformed lines are dropped and read
// errors end the scan early; neither is reported as a failure.
func (a *Analyzer) Ingest(r io.Reader) {
	a.Reset()
	if r == nil {
		return
	}

	// +2 leaves room for a "\r\n" after a line of exactly maxLineBytes.
	br := bufio.NewReaderSize(r, a.maxLineBytes+2)

	if _, _, ok := a.nextLine(br); !ok {
		return
	}

	lineNo := 1
	for {
		line, tooLong, ok := a.nextLine(br)
		if !ok {
			return
		}
		lineNo++
		a.stats.Lines++

		reason, accepted := RejectLongLine, false
		if !tooLong {
			reason, accepted = a.consume(line)
		}
		if !accepted {
			a.stats.reject(reason)
			if a.onReject != nil {
				a.onReject(lineNo, reason)
			}
			continue
		}
		a.stats.Accepted++
	}
}

// nextLine returns the next line without its "\n" or "\r\n" terminator.
// The slice is only valid until the next read. A line over maxLineBytes is
// consumed up to its terminator and reported as tooLong. ok is false at end
// of input or on a read error; a partial line at a read error is dropped.
func (a *Analyzer) nextLine(br *bufio.Reader) (line []byte, tooLong, ok bool) {
	line, err := br.ReadSlice('\n')
	for errors.Is(err, bufio.ErrBufferFull) {
		tooLong = true
		line, err = br.ReadSlice('\n')
	}
	if err != nil && !(errors.Is(err, io.EOF) && (len(line) > 0 || tooLong)) {
		return nil, false, false
	}
	if tooLong {
		return nil, true, true
	}

	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if len(line) > a.maxLineBytes {
		return nil, true, true
	}
	return line, false, true
}

func (a *Analyzer) consume(line []byte) (RejectReason, bool) {
	zone, datetime, reason, ok := SplitRecord(line)
	if !ok {
		return reason, false
	}
	hour := ExtractHour(datetime)
	if hour == NoHour {
		return RejectBadHour, false
	}
	a.store.Upsert(zone, hour)
	return 0, true
}

// TopZones returns the k busiest zones, ordered by trip count descending and
// zone ascending. k <= 0 yields an empty result.
func (a *Analyzer) TopZones(k int) []ZoneCount {
	if k <= 0 {
		return nil
	}
	return SelectTop(a.store.zoneCounts(), k, CompareZoneCounts)
}

// TopBusySlots returns the k busiest (zone, hour) slots, ordered by trip
// count descending, zone ascending, hour ascending. Slots with no trips are
// never candidates.
func (a *Analyzer) TopBusySlots(k int) []SlotCount {
	if k <= 0 {
		return nil
	}
	return SelectTop(a.store.slotCounts(), k, CompareSlotCounts)
}

// HourCounts returns every non-zero (zone, hour) count in first-seen zone
// order, hours ascending.
func (a *Analyzer) HourCounts() []SlotCount {
	return a.store.slotCounts()
}

// Zones returns the number of distinct zones seen.
func (a *Analyzer) Zones() int {
	return a.store.Len()
}

// Stats returns the line counters of the last ingestion.
func (a *Analyzer) Stats() IngestStats {
	return a.stats
}
