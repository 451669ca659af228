package trips

// Layout offsets inside "YYYY-MM-DD HH:MM".
const (
	dateTimeSepPos = 10
	hourHighPos    = 11
	hourLowPos     = 12
	minHourLayout  = 13
)

// ExtractHour reads the hour of a "YYYY-MM-DD HH:MM..." field, optionally
// wrapped in one pair of double quotes. Only the separator and the two hour
// digits are checked. Returns NoHour when the layout does not match or the
// hour is above 23.
func ExtractHour(field []byte) int {
	if n := len(field); n >= 2 && field[0] == '"' && field[n-1] == '"' {
		field = field[1 : n-1]
	}
	if len(field) < minHourLayout {
		return NoHour
	}
	if field[dateTimeSepPos] != ' ' {
		return NoHour
	}
	hi, lo := field[hourHighPos], field[hourLowPos]
	if !isDigit(hi) || !isDigit(lo) {
		return NoHour
	}
	hour := int(hi-'0')*10 + int(lo-'0')
	if hour >= HoursPerDay {
		return NoHour
	}
	return hour
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
