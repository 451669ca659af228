package trips

// delimitersNeeded is how many commas a record must have: fields 0..4 have
// to be terminated even though only fields 1 and 3 are read.
const delimitersNeeded = 5

// SplitRecord carves the zone (field 1) and raw datetime (field 3) out of a
// record line. The returned slices alias line. ok is false when the line has
// fewer than five commas or when either field is empty; reason then says
// which.
func SplitRecord(line []byte) (zone, datetime []byte, reason RejectReason, ok bool) {
	var cuts [delimitersNeeded]int
	start := 0
	for i := range cuts {
		idx := indexOf(line[start:], patternComma)
		if idx < 0 {
			return nil, nil, RejectShortRecord, false
		}
		cuts[i] = start + idx
		start = cuts[i] + 1
	}

	zone = line[cuts[0]+1 : cuts[1]]
	datetime = line[cuts[2]+1 : cuts[3]]
	if len(zone) == 0 || len(datetime) == 0 {
		return nil, nil, RejectEmptyField, false
	}
	return zone, datetime, 0, true
}
