package deflate

import (
	"github.com/dargueta/zeroflate/internal/assert"
)

// MinMatchLength is the shortest match a length symbol can express.
const MinMatchLength = 3

// Base lengths and extra bit counts for length symbols 257 through 285
// (RFC 1951 section 3.2.5).
var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// lengthCodeFor returns the length symbol for a match of `length` bytes, along with
// the value of its extra bits and how many extra bits there are.
func lengthCodeFor(length int) (int, uint64, uint) {
	assert.Assertf(
		length >= MinMatchLength && length <= MaxMatchLength,
		"match length %d not in [%d, %d]",
		length,
		MinMatchLength,
		MaxMatchLength,
	)

	i := len(lengthBase) - 1
	for int(lengthBase[i]) > length {
		i--
	}
	return firstLengthSymbol + i, uint64(length - int(lengthBase[i])), uint(lengthExtraBits[i])
}
