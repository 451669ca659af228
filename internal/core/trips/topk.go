package trips

import (
	"cmp"
	"slices"
	"strings"
)

// SelectTop returns the k first elements of candidates under cmp, sorted.
// candidates is reordered in place and the result aliases it. k <= 0 gives
// nil; when len(candidates) <= k every candidate is returned.
//
// cmp must be a strict total order (no two candidates compare equal) for the
// output to be deterministic.
func SelectTop[T any](candidates []T, k int, cmp func(a, b T) int) []T {
	if k <= 0 {
		return nil
	}
	if len(candidates) > k {
		nthElement(candidates, k, cmp)
		candidates = slices.Clip(candidates[:k])
	}
	slices.SortFunc(candidates, cmp)
	return candidates
}

// nthElement partially orders s so that s[:n] holds the n smallest elements
// under cmp, in no particular order. Requires 0 < n < len(s).
func nthElement[T any](s []T, n int, cmp func(a, b T) int) {
	lo, hi := 0, len(s)-1
	for lo < hi {
		p := partition(s, lo, hi, medianOfThree(s, lo, hi, cmp), cmp)
		switch {
		case p == n:
			return
		case p < n:
			lo = p + 1
		default:
			hi = p - 1
		}
	}
}

// partition moves s[pivot] to its sorted position within s[lo:hi+1] and
// returns that position.
func partition[T any](s []T, lo, hi, pivot int, cmp func(a, b T) int) int {
	s[pivot], s[hi] = s[hi], s[pivot]
	store := lo
	for i := lo; i < hi; i++ {
		if cmp(s[i], s[hi]) < 0 {
			s[i], s[store] = s[store], s[i]
			store++
		}
	}
	s[store], s[hi] = s[hi], s[store]
	return store
}

func medianOfThree[T any](s []T, lo, hi int, cmp func(a, b T) int) int {
	mid := lo + (hi-lo)/2
	if cmp(s[mid], s[lo]) < 0 {
		lo, mid = mid, lo
	}
	if cmp(s[hi], s[mid]) < 0 {
		mid = hi
		if cmp(s[mid], s[lo]) < 0 {
			mid = lo
		}
	}
	return mid
}

// CompareZoneCounts orders by count descending, then zone ascending.
func CompareZoneCounts(a, b ZoneCount) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return strings.Compare(a.Zone, b.Zone)
}

// CompareSlotCounts orders by count descending, zone ascending, hour ascending.
func CompareSlotCounts(a, b SlotCount) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := strings.Compare(a.Zone, b.Zone); c != 0 {
		return c
	}
	return cmp.Compare(a.Hour, b.Hour)
}
