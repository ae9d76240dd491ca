package deflate

import (
	"github.com/dargueta/zeroflate/internal/assert"
)

// ZeroesPerRawByte is the number of decoded zero bytes represented by each 0x00 byte
// in the middle of a ZeroRunBlock: four matches of length 258 at distance 1, at two
// bits apiece.
const ZeroesPerRawByte = 4 * MaxMatchLength

// SmallZeroRunLimit is the longest run EncodeZeroes hands off to EncodeFixed. Aligning
// the long-run encoder to a byte boundary can use up to ZeroesPerRawByte zeroes after
// the leading literal, so it needs at least ZeroesPerRawByte + 1 of them.
const SmallZeroRunLimit = ZeroesPerRawByte

// codeLengthCodeLengths gives the code lengths of the code length alphabet. Only the
// values used by the two trees below have a code:
//
//	 0  unused symbols, in runs shorter than 11       3 bits
//	 1  symbol 285 and both distance symbols          2 bits
//	 2  the literal 0                                 3 bits
//	 3  end-of-block and the excess length symbol     2 bits
//	18  runs of 11 to 138 unused symbols              2 bits
var codeLengthCodeLengths = [19]uint8{0: 3, 1: 2, 2: 3, 3: 2, 18: 2}

// zeroRunDistanceLengths is the distance tree. Only distance symbol 0 (distance 1) is
// used. RFC 1951 requires a single used distance code to be one bit long; the unused
// second symbol also gets length 1 because that's cheaper to transmit than 0 here.
var zeroRunDistanceLengths = []uint8{1, 1}

var (
	codeLengthCodes = canonicalCodes(codeLengthCodeLengths[:])
	distanceCodes   = canonicalCodes(zeroRunDistanceLengths)
)

// zeroRunLiteralLengths builds the literal/length tree. Only four symbols are live:
//
//	285       length 258        1 bit    0
//	0         the literal 0     2 bits   10
//	256       end of block      3 bits   110
//	excess    the leftover      3 bits   111
//
// These lengths are valid for exactly this set of symbols: 1/2 + 1/4 + 1/8 + 1/8 = 1.
// When there's no leftover long enough for a match, symbol 257 stands in for the
// excess symbol so that the code stays complete.
func zeroRunLiteralLengths(excessSymbol int) []uint8 {
	assert.Assertf(
		excessSymbol >= firstLengthSymbol && excessSymbol < maxMatchSymbol,
		"excess symbol %d not in [%d, %d)",
		excessSymbol,
		firstLengthSymbol,
		maxMatchSymbol,
	)

	lengths := make([]uint8, numLiteralLengthCodes)
	lengths[0] = 2
	lengths[EndOfBlock] = 3
	lengths[excessSymbol] = 3
	lengths[maxMatchSymbol] = 1
	return lengths
}

// writeCodeLengths writes a sequence of code lengths using the code length alphabet.
// Lengths 1-3 are written as-is. Runs of zeroes use symbol 18 when they're long
// enough, and individual 0 symbols otherwise. Symbols 16 and 17 have no code.
func writeCodeLengths(bits *BitBuffer, lengths []uint8) {
	for i := 0; i < len(lengths); {
		if lengths[i] != 0 {
			pushCode(bits, codeLengthCodes[lengths[i]])
			i++
			continue
		}

		runLength := 1
		for i+runLength < len(lengths) && lengths[i+runLength] == 0 {
			runLength++
		}
		i += runLength

		for runLength >= 11 {
			repeat := runLength
			if repeat > 138 {
				repeat = 138
			}
			pushCode(bits, codeLengthCodes[18])
			bits.Push(uint64(repeat-11), 7)
			runLength -= repeat
		}
		for ; runLength > 0; runLength-- {
			pushCode(bits, codeLengthCodes[0])
		}
	}
}

// EncodeZeroes compresses a run of `n` zero bytes into a single, non-final DEFLATE
// block. Runs of up to SmallZeroRunLimit bytes come back as a LiteralBlock produced
// by EncodeFixed; longer runs come back as a ZeroRunBlock whose preamble and
// postamble have a small bounded size no matter how big `n` is.
func EncodeZeroes(n int64) Block {
	assert.Assertf(n >= 0, "negative zero run length %d", n)
	if n <= SmallZeroRunLimit {
		return LiteralBlock(EncodeFixed(make([]byte, n)))
	}

	// One zero has to be written as a literal so the matches have something to copy.
	// Whatever's left after taking out as many 258-byte matches as possible is the
	// excess.
	excess := (n - 1) % MaxMatchLength
	excessSymbol := firstLengthSymbol
	var excessExtraBits uint64
	var excessExtraLength uint
	if excess >= MinMatchLength {
		excessSymbol, excessExtraBits, excessExtraLength = lengthCodeFor(int(excess))
	}

	literalLengths := zeroRunLiteralLengths(excessSymbol)
	literalCodes := canonicalCodes(literalLengths)

	matchCode := literalCodes[maxMatchSymbol]
	distanceCode := distanceCodes[0]
	assert.Assertf(
		matchCode == huffmanCode{bits: 0, length: 1} &&
			distanceCode == huffmanCode{bits: 0, length: 1},
		"match and distance codes must be a single zero bit, got %+v and %+v",
		matchCode,
		distanceCode,
	)

	var bits BitBuffer

	bits.Push(0, 1) // BFINAL
	bits.Push(blockTypeDynamic, 2)
	bits.Push(numLiteralLengthCodes-257, 5) // HLIT
	bits.Push(numDistanceCodes-1, 5)        // HDIST
	bits.Push(numCodeLengthCodes-4, 4)      // HCLEN
	for _, symbol := range codeLengthOrder[:numCodeLengthCodes] {
		bits.Push(uint64(codeLengthCodeLengths[symbol]), 3)
	}

	allLengths := make([]uint8, 0, len(literalLengths)+len(zeroRunDistanceLengths))
	allLengths = append(allLengths, literalLengths...)
	allLengths = append(allLengths, zeroRunDistanceLengths...)
	writeCodeLengths(&bits, allLengths)

	remaining := n
	pushCode(&bits, literalCodes[0])
	remaining--

	// Each match is two bits, so we need to be at an even bit offset for the bulk of
	// the matches to line up with bytes. Fill with matches up to the next byte
	// boundary. If that leaves a match without its distance code, the distance is
	// written at the very end; every bit in between is a zero either way.
	distancePending := false
	for !bits.IsByteAligned() {
		if distancePending {
			pushCode(&bits, distanceCode)
		} else {
			assert.Assertf(
				remaining >= MaxMatchLength,
				"only %d zeroes left for alignment of run of %d",
				remaining,
				n,
			)
			pushCode(&bits, matchCode)
			remaining -= MaxMatchLength
		}
		distancePending = !distancePending
	}

	preamble := bits.Bytes()
	bits.Clear()

	rawZeroes := remaining / ZeroesPerRawByte
	remaining -= rawZeroes * ZeroesPerRawByte

	for remaining >= MaxMatchLength {
		pushCode(&bits, matchCode)
		pushCode(&bits, distanceCode)
		remaining -= MaxMatchLength
	}
	if distancePending {
		pushCode(&bits, distanceCode)
	}

	assert.Assertf(
		remaining == excess,
		"expected %d zeroes left for excess, have %d",
		excess,
		remaining,
	)

	if excess < MinMatchLength {
		for ; remaining > 0; remaining-- {
			pushCode(&bits, literalCodes[0])
		}
	} else {
		pushCode(&bits, literalCodes[excessSymbol])
		bits.Push(excessExtraBits, excessExtraLength)
		pushCode(&bits, distanceCode)
	}

	pushCode(&bits, literalCodes[EndOfBlock])
	bits.PadWithStoredBlock()

	return ZeroRunBlock{
		Preamble:  preamble,
		RawZeroes: rawZeroes,
		Postamble: bits.Bytes(),
	}
}
