package trips

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireConsistent(t *testing.T, s *Store) {
	t.Helper()
	require.Len(t, s.index, countHeads(s))
	require.Len(t, s.chain, len(s.zones))
	require.Len(t, s.totals, len(s.zones))
	require.Len(t, s.hours, len(s.zones))
	for slot := range s.zones {
		var sum int64
		for _, c := range s.hours[slot] {
			sum += c
		}
		require.Equal(t, s.totals[slot], sum, "zone %q", s.zones[slot])
	}
}

func countHeads(s *Store) int {
	pointedTo := make(map[int32]bool, len(s.chain))
	for _, next := range s.chain {
		if next != noSlot {
			pointedTo[next] = true
		}
	}
	return len(s.zones) - len(pointedTo)
}

func TestStore_UpsertAssignsSlotsInFirstSeenOrder(t *testing.T) {
	s := NewStore(0)

	require.True(t, s.Upsert([]byte("Z2"), 9))
	require.True(t, s.Upsert([]byte("Z1"), 8))
	require.True(t, s.Upsert([]byte("Z2"), 9))
	require.True(t, s.Upsert([]byte("Z2"), 23))

	require.Equal(t, []string{"Z2", "Z1"}, s.zones)
	total, ok := s.Total("Z2")
	require.True(t, ok)
	require.Equal(t, int64(3), total)

	hours, ok := s.Hours("Z2")
	require.True(t, ok)
	require.Equal(t, int64(2), hours[9])
	require.Equal(t, int64(1), hours[23])

	_, ok = s.Total("Z3")
	require.False(t, ok)
	requireConsistent(t, s)
}

func TestStore_UpsertRejectsOutOfRangeHour(t *testing.T) {
	s := NewStore(0)

	require.False(t, s.Upsert([]byte("Z1"), -1))
	require.False(t, s.Upsert([]byte("Z1"), HoursPerDay))
	require.Equal(t, 0, s.Len())
}

func TestStore_KeepsOwnCopyOfZone(t *testing.T) {
	s := NewStore(0)
	buf := []byte("Z1")

	s.Upsert(buf, 1)
	buf[1] = '9'
	s.Upsert(buf, 1)

	require.Equal(t, []string{"Z1", "Z9"}, s.zones)
	total, ok := s.Total("Z1")
	require.True(t, ok)
	require.Equal(t, int64(1), total)
}

func TestStore_ExactByteEquality(t *testing.T) {
	s := NewStore(0)

	s.Upsert([]byte("z1"), 0)
	s.Upsert([]byte("Z1"), 0)
	s.Upsert([]byte("Z1 "), 0)

	require.Equal(t, 3, s.Len())
}

func TestStore_ChainedSlotsResolve(t *testing.T) {
	s := NewStore(0)
	s.Upsert([]byte("A"), 1)
	s.Upsert([]byte("B"), 2)

	// Force both zones onto one index entry to exercise the collision chain.
	clear(s.index)
	s.index[42] = 1
	s.chain[1] = 0
	s.chain[0] = noSlot

	slotA, ok := walk(s, 42, "A")
	require.True(t, ok)
	require.Equal(t, int32(0), slotA)
	slotB, ok := walk(s, 42, "B")
	require.True(t, ok)
	require.Equal(t, int32(1), slotB)
	_, ok = walk(s, 42, "C")
	require.False(t, ok)
}

func TestStore_ManyZones(t *testing.T) {
	s := NewStore(16)
	const zones = 10000

	for i := 0; i < zones; i++ {
		for h := 0; h <= i%HoursPerDay; h++ {
			s.Upsert([]byte(fmt.Sprintf("zone-%05d", i)), h)
		}
	}

	require.Equal(t, zones, s.Len())
	for i := 0; i < zones; i += 997 {
		total, ok := s.Total(fmt.Sprintf("zone-%05d", i))
		require.True(t, ok)
		require.Equal(t, int64(i%HoursPerDay+1), total)
	}
	requireConsistent(t, s)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(0)
	s.Upsert([]byte("Z1"), 3)

	s.Reset()

	require.Equal(t, 0, s.Len())
	require.Empty(t, s.index)
	_, ok := s.Total("Z1")
	require.False(t, ok)

	s.Upsert([]byte("Z2"), 4)
	require.Equal(t, []string{"Z2"}, s.zones)
	requireConsistent(t, s)
}

func TestStore_SlotCountsSkipEmptyHours(t *testing.T) {
	s := NewStore(0)
	s.Upsert([]byte("Z1"), 5)
	s.Upsert([]byte("Z2"), 0)
	s.Upsert([]byte("Z1"), 2)

	require.Equal(t, []SlotCount{
		{Zone: "Z1", Hour: 2, Count: 1},
		{Zone: "Z1", Hour: 5, Count: 1},
		{Zone: "Z2", Hour: 0, Count: 1},
	}, s.slotCounts())
}
