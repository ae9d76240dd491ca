package deflate

import (
	"github.com/dargueta/zeroflate/internal/assert"
)

const maxCodeLength = 15

type huffmanCode struct {
	bits   uint64
	length uint
}

// canonicalCodes assigns Huffman codes to symbols given only the length of each
// symbol's code, using the algorithm in RFC 1951 section 3.2.2. Symbols with a length
// of 0 don't get a code.
//
// The code lengths must describe a complete prefix code.
func canonicalCodes(lengths []uint8) []huffmanCode {
	var lengthCounts [maxCodeLength + 1]int
	kraftSum := 0
	for symbol, length := range lengths {
		assert.Assertf(
			length <= maxCodeLength,
			"symbol %d has code length %d > %d",
			symbol,
			length,
			maxCodeLength,
		)
		if length > 0 {
			lengthCounts[length]++
			kraftSum += 1 << (maxCodeLength - length)
		}
	}
	assert.Assertf(
		kraftSum == 1<<maxCodeLength,
		"code lengths %v don't form a complete prefix code",
		lengths,
	)

	var nextCode [maxCodeLength + 1]uint64
	code := uint64(0)
	for bitLength := 1; bitLength <= maxCodeLength; bitLength++ {
		code = (code + uint64(lengthCounts[bitLength-1])) << 1
		nextCode[bitLength] = code
	}

	codes := make([]huffmanCode, len(lengths))
	for symbol, length := range lengths {
		if length == 0 {
			continue
		}
		codes[symbol] = huffmanCode{bits: nextCode[length], length: uint(length)}
		nextCode[length]++
	}
	return codes
}

// pushCode appends a Huffman code to the buffer, most-significant bit first.
func pushCode(bits *BitBuffer, code huffmanCode) {
	assert.Assertf(code.length > 0, "attempted to write a symbol that has no code")
	bits.PushReversed(code.bits, code.length)
}
