package deflate

import (
	"math/bits"

	"github.com/dargueta/zeroflate/internal/assert"
)

// BitBuffer builds up a byte string from individual bits, filling each byte starting
// from the least-significant bit.
//
// The zero value is an empty buffer ready to use.
type BitBuffer struct {
	buf []byte
	// work holds the bits of the byte currently being filled.
	work byte
	// used is the number of bits in work that have been filled, always in [0, 8).
	used uint
}

// Push appends the low `nbits` bits of `value`, least-significant bit first. Bits of
// `value` above `nbits` are ignored.
//
// All DEFLATE header fields and extra bits are written this way.
func (b *BitBuffer) Push(value uint64, nbits uint) {
	assert.Assertf(nbits <= 64, "can't push %d bits at once", nbits)
	if nbits < 64 {
		value &= (1 << nbits) - 1
	}

	for nbits > 0 {
		take := 8 - b.used
		if take > nbits {
			take = nbits
		}

		b.work |= byte(value&((1<<take)-1)) << b.used
		b.used += take
		value >>= take
		nbits -= take

		if b.used == 8 {
			b.buf = append(b.buf, b.work)
			b.work = 0
			b.used = 0
		}
	}
}

// PushReversed appends the low `nbits` bits of `value` starting with the most
// significant of them. Huffman codes are packed this way.
func (b *BitBuffer) PushReversed(value uint64, nbits uint) {
	assert.Assertf(nbits <= 64, "can't push %d bits at once", nbits)
	if nbits == 0 {
		return
	}
	b.Push(bits.Reverse64(value)>>(64-nbits), nbits)
}

// IsByteAligned returns true if no partially filled byte is pending.
func (b *BitBuffer) IsByteAligned() bool {
	return b.used == 0
}

// BitLen gives the total number of bits pushed since the buffer was last cleared.
func (b *BitBuffer) BitLen() int {
	return len(b.buf)*8 + int(b.used)
}

// Clear resets the buffer to the empty state. Slices previously returned by Bytes
// are not affected.
func (b *BitBuffer) Clear() {
	b.buf = nil
	b.work = 0
	b.used = 0
}

// Bytes returns the bytes accumulated so far. The buffer must be byte aligned; use
// PadWithStoredBlock or push filler bits first.
func (b *BitBuffer) Bytes() []byte {
	assert.Assertf(
		b.IsByteAligned(),
		"extracting bytes with %d bits still pending",
		b.used,
	)
	output := make([]byte, len(b.buf))
	copy(output, b.buf)
	return output
}

// PadWithStoredBlock brings the buffer to a byte boundary by appending an empty,
// non-final stored block. Does nothing if the buffer is already aligned.
//
// A stored block's LEN field has to start on a byte boundary, so the header bits are
// followed by padding and then LEN=0, NLEN=0xffff.
func (b *BitBuffer) PadWithStoredBlock() {
	if b.IsByteAligned() {
		return
	}

	b.Push(0, 1) // BFINAL: not the last block
	b.Push(blockTypeStored, 2)
	if !b.IsByteAligned() {
		b.Push(0, 8-b.used)
	}
	b.Push(0x0000, 16) // LEN
	b.Push(0xffff, 16) // NLEN
}
