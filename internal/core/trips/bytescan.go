package trips

import (
	"encoding/binary"
	"math/bits"
)

var patternComma = compilePattern(',')

// indexOf returns the offset of the first byte matching pattern in haystack,
// or -1. Eight bytes are tested per step.
func indexOf(haystack []byte, pattern uint64) int {
	n := len(haystack)
	i := 0
	for ; i+8 <= n; i += 8 {
		if idx := firstInstance(binary.BigEndian.Uint64(haystack[i:i+8]), pattern); idx != 8 {
			return i + idx
		}
	}
	needle := byte(pattern)
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// https://richardstartin.github.io/posts/finding-bytes
func compilePattern(byteToFind byte) uint64 {
	return uint64(byteToFind) * 0x0101010101010101
}

// firstInstance returns the index (0-7, big-endian order) of the first byte
// of word equal to the pattern byte, or 8 when none is.
func firstInstance(word, pattern uint64) int {
	input := word ^ pattern
	tmp := (input & 0x7F7F7F7F7F7F7F7F) + 0x7F7F7F7F7F7F7F7F
	tmp = ^(tmp | input | 0x7F7F7F7F7F7F7F7F)
	return bits.LeadingZeros64(tmp) >> 3
}
