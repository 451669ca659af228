package trips

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRecord(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantZone   string
		wantDT     string
		wantReason RejectReason
		wantOK     bool
	}{
		{
			name:     "six fields",
			line:     "1,Z1,Z2,2024-01-01 08:15,3.2,10.5",
			wantZone: "Z1",
			wantDT:   "2024-01-01 08:15",
			wantOK:   true,
		},
		{
			name:     "five delimiters with empty trailing fields",
			line:     "4,Z9,Z9,2024-01-01 10:00,,",
			wantZone: "Z9",
			wantDT:   "2024-01-01 10:00",
			wantOK:   true,
		},
		{
			name:     "extra fields are ignored",
			line:     "7,zone with spaces,Z2,2024-01-01 08:15,1,2,3,4,5",
			wantZone: "zone with spaces",
			wantDT:   "2024-01-01 08:15",
			wantOK:   true,
		},
		{
			name:     "quoted datetime is returned verbatim",
			line:     `1,Z1,Z2,"2024-01-01 23:59",1,1`,
			wantZone: "Z1",
			wantDT:   `"2024-01-01 23:59"`,
			wantOK:   true,
		},
		{
			name:     "zone is not trimmed",
			line:     "1, Z1 ,Z2,2024-01-01 08:15,1,1",
			wantZone: " Z1 ",
			wantDT:   "2024-01-01 08:15",
			wantOK:   true,
		},
		{
			name:     "long line crosses eight byte words",
			line:     "123456789012345,ZONE-0000000000000001,DROP-000000000000002,2024-01-01 08:15,3.2,10.5",
			wantZone: "ZONE-0000000000000001",
			wantDT:   "2024-01-01 08:15",
			wantOK:   true,
		},
		{name: "three delimiters", line: "4,Z9,Z9,2024-01-01 10:00", wantReason: RejectShortRecord},
		{name: "four delimiters", line: "4,Z9,Z9,2024-01-01 10:00,1", wantReason: RejectShortRecord},
		{name: "blank line", line: "", wantReason: RejectShortRecord},
		{name: "empty zone", line: "5,,Z2,2024-01-01 08:00,1,1", wantReason: RejectEmptyField},
		{name: "empty datetime", line: "5,Z1,Z2,,1,1", wantReason: RejectEmptyField},
		{name: "only delimiters", line: ",,,,,", wantReason: RejectEmptyField},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			zone, dt, reason, ok := SplitRecord([]byte(tc.line))
			require.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				require.Equal(t, tc.wantReason, reason)
				require.Nil(t, zone)
				require.Nil(t, dt)
				return
			}
			require.Equal(t, tc.wantZone, string(zone))
			require.Equal(t, tc.wantDT, string(dt))
		})
	}
}

func TestIndexOf(t *testing.T) {
	tests := []struct {
		haystack string
		want     int
	}{
		{haystack: "", want: -1},
		{haystack: ",", want: 0},
		{haystack: "abc", want: -1},
		{haystack: "abcdefg,", want: 7},
		{haystack: "abcdefgh,", want: 8},
		{haystack: "abcdefghijklmno,", want: 15},
		{haystack: "abcdefghijklmnop", want: -1},
		{haystack: "a,b,c", want: 1},
		{haystack: "\x00\x80\xff,", want: 3},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, indexOf([]byte(tc.haystack), patternComma), "haystack %q", tc.haystack)
	}
}
