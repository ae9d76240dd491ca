package deflate

// Block is one encoded unit of a DEFLATE stream: either a LiteralBlock or a
// ZeroRunBlock. Both are byte aligned on both ends.
type Block interface {
	// EncodedLen gives the number of bytes the block occupies in the output.
	EncodedLen() int64
	isBlock()
}

// LiteralBlock is a complete, ready-to-write block.
type LiteralBlock []byte

func (b LiteralBlock) EncodedLen() int64 {
	return int64(len(b))
}

func (LiteralBlock) isBlock() {}

// ZeroRunBlock is written as Preamble, then RawZeroes 0x00 bytes, then Postamble.
//
// RawZeroes is kept as a count so that arbitrarily long runs cost O(1) memory to
// encode. The caller is expected to stream the zero bytes.
type ZeroRunBlock struct {
	Preamble  []byte
	RawZeroes int64
	Postamble []byte
}

func (b ZeroRunBlock) EncodedLen() int64 {
	return int64(len(b.Preamble)) + b.RawZeroes + int64(len(b.Postamble))
}

func (ZeroRunBlock) isBlock() {}
