package deflate

// Block types, as written in the two-bit BTYPE field.
const (
	blockTypeStored  = 0b00
	blockTypeFixed   = 0b01
	blockTypeDynamic = 0b10
)

const (
	// EndOfBlock is the literal/length symbol terminating every compressed block.
	EndOfBlock = 256
	// MaxMatchLength is the longest match a single length symbol can express.
	MaxMatchLength = 258
	// maxMatchSymbol is the length symbol for a match of exactly MaxMatchLength.
	maxMatchSymbol = 285
	// firstLengthSymbol is the first literal/length symbol that encodes a length.
	firstLengthSymbol = 257

	numLiteralLengthCodes = 286
	numDistanceCodes      = 2
	numCodeLengthCodes    = 18
)

// codeLengthOrder is the order in which the code lengths of the code length
// alphabet are transmitted (RFC 1951 section 3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// FinalEmptyBlock is an empty stored block with BFINAL set. It's byte aligned on both
// ends, so it can close any stream made of the blocks this package produces.
var FinalEmptyBlock = [5]byte{0x01, 0x00, 0x00, 0xff, 0xff}
