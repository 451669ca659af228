package trips

import "github.com/zeebo/xxh3"

const noSlot int32 = -1

// Store holds per-zone trip counts in first-seen order.
//
// The index maps the xxh3 hash of a zone to the most recently created slot
// with that hash; older slots sharing the hash are reached through chain.
// Every hit is confirmed against the stored zone text, so the index never
// keys on caller-owned memory.
type Store struct {
	zones  []string
	index  map[uint64]int32
	chain  []int32
	totals []int64
	hours  [][HoursPerDay]int64
}

// NewStore returns an empty store sized for capacity zones.
func NewStore(capacity int) *Store {
	return &Store{
		zones:  make([]string, 0, capacity),
		index:  make(map[uint64]int32, capacity),
		chain:  make([]int32, 0, capacity),
		totals: make([]int64, 0, capacity),
		hours:  make([][HoursPerDay]int64, 0, capacity),
	}
}

// Reset empties the store, keeping allocated capacity.
func (s *Store) Reset() {
	s.zones = s.zones[:0]
	s.chain = s.chain[:0]
	s.totals = s.totals[:0]
	s.hours = s.hours[:0]
	clear(s.index)
}

// Len returns the number of distinct zones.
func (s *Store) Len() int {
	return len(s.zones)
}

// Upsert records one trip for zone at hour. zone may alias a transient
// buffer; a copy is kept on first sighting. Returns false, leaving the store
// untouched, when hour is outside [0, HoursPerDay).
func (s *Store) Upsert(zone []byte, hour int) bool {
	if hour < 0 || hour >= HoursPerDay {
		return false
	}
	slot := s.slotFor(zone)
	s.totals[slot]++
	s.hours[slot][hour]++
	return true
}

func (s *Store) slotFor(zone []byte) int32 {
	h := xxh3.Hash(zone)
	if slot, ok := walk(s, h, zone); ok {
		return slot
	}
	head, ok := s.index[h]
	if !ok {
		head = noSlot
	}

	slot := int32(len(s.zones))
	s.zones = append(s.zones, string(zone))
	s.chain = append(s.chain, head)
	s.totals = append(s.totals, 0)
	s.hours = append(s.hours, [HoursPerDay]int64{})
	s.index[h] = slot
	return slot
}

// walk follows the chain for hash h and returns the slot holding zone.
func walk[Z string | []byte](s *Store, h uint64, zone Z) (int32, bool) {
	head, ok := s.index[h]
	if !ok {
		return 0, false
	}
	for slot := head; slot != noSlot; slot = s.chain[slot] {
		if s.zones[slot] == string(zone) {
			return slot, true
		}
	}
	return 0, false
}

// Total returns the trip count of zone and whether it was seen.
func (s *Store) Total(zone string) (int64, bool) {
	slot, ok := s.lookup(zone)
	if !ok {
		return 0, false
	}
	return s.totals[slot], true
}

// Hours returns the per-hour counts of zone and whether it was seen.
func (s *Store) Hours(zone string) ([HoursPerDay]int64, bool) {
	slot, ok := s.lookup(zone)
	if !ok {
		return [HoursPerDay]int64{}, false
	}
	return s.hours[slot], true
}

func (s *Store) lookup(zone string) (int32, bool) {
	return walk(s, xxh3.HashString(zone), zone)
}

// zoneCounts projects every zone and its total, in slot order.
func (s *Store) zoneCounts() []ZoneCount {
	out := make([]ZoneCount, len(s.zones))
	for i, z := range s.zones {
		out[i] = ZoneCount{Zone: z, Count: s.totals[i]}
	}
	return out
}

// slotCounts projects every non-zero (zone, hour) pair, in slot then hour order.
func (s *Store) slotCounts() []SlotCount {
	out := make([]SlotCount, 0, len(s.zones)*4)
	for i, z := range s.zones {
		for h, c := range s.hours[i] {
			if c > 0 {
				out = append(out, SlotCount{Zone: z, Hour: h, Count: c})
			}
		}
	}
	return out
}
