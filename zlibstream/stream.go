// Package zlibstream assembles a zlib stream (RFC 1950) out of independently encoded
// DEFLATE blocks, one per call to Push or PushZeroes.
//
// The stream is built in memory, except for the bulk of each long zero run, which is
// kept as a count and only expanded while the output is being produced. This means the
// exact output length is known before a single byte is written, which is what callers
// framing the stream in a length-prefixed container need.
package zlibstream

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/adler32"
	"github.com/dargueta/zeroflate/deflate"
	"github.com/dargueta/zeroflate/internal/assert"
)

// Header is the two-byte zlib header: deflate with a 32 KiB window, default
// compression level, and check bits making it a multiple of 31.
var Header = [2]byte{0x78, 0xda}

const (
	headerSize  = len(Header)
	trailerSize = 4
)

// zeroPageSize is the largest slice of zero bytes yielded at once for the middle of a
// zero run.
const zeroPageSize = 64 * 1024

var zeroPage [zeroPageSize]byte

// Stream accumulates encoded blocks and the Adler-32 checksum of the data they
// represent. A Stream is not safe for concurrent use.
type Stream struct {
	blocks    []deflate.Block
	checksum  adler32.Checksum
	inputSize int64
	finalized bool
}

// New creates an empty stream.
func New() *Stream {
	return &Stream{checksum: adler32.Initial}
}

// Push appends `data` to the stream as a single fixed-Huffman block. `data` is not
// retained.
func (s *Stream) Push(data []byte) error {
	if s.finalized {
		return zeroflate.ErrStreamFinalized.WithMessage("can't push data")
	}

	s.checksum = s.checksum.Update(data)
	s.blocks = append(s.blocks, deflate.LiteralBlock(deflate.EncodeFixed(data)))
	s.inputSize += int64(len(data))
	return nil
}

// PushZeroes appends `n` zero bytes to the stream. The cost in time and memory
// doesn't depend on `n`.
func (s *Stream) PushZeroes(n int64) error {
	if s.finalized {
		return zeroflate.ErrStreamFinalized.WithMessage("can't push zeroes")
	}
	if n < 0 {
		return zeroflate.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("zero run length can't be negative, got %d", n))
	}

	s.checksum = s.checksum.UpdateZeroes(n)
	s.blocks = append(s.blocks, deflate.EncodeZeroes(n))
	s.inputSize += n
	return nil
}

// Checksum returns the Adler-32 checksum of everything pushed so far.
func (s *Stream) Checksum() adler32.Checksum {
	return s.checksum
}

// InputSize returns the number of uncompressed bytes pushed so far.
func (s *Stream) InputSize() int64 {
	return s.inputSize
}

// NumBlocks returns the number of blocks pushed so far.
func (s *Stream) NumBlocks() int {
	return len(s.blocks)
}

// TotalLength returns the exact number of bytes Chunks will produce.
func (s *Stream) TotalLength() int64 {
	total := int64(headerSize)
	for _, block := range s.blocks {
		total += block.EncodedLen()
	}
	return total + int64(len(deflate.FinalEmptyBlock)) + trailerSize
}

// Chunks freezes the stream and returns the compressed output as a sequence of byte
// slices. After this is called, Push and PushZeroes fail with ErrStreamFinalized.
//
// The yielded slices may be shared with the stream or with each other and must not be
// modified or retained after the loop body returns.
func (s *Stream) Chunks() iter.Seq[[]byte] {
	s.finalized = true

	blocks := s.blocks
	var trailer [trailerSize]byte
	binary.BigEndian.PutUint32(trailer[:], uint32(s.checksum))

	return func(yield func([]byte) bool) {
		if !yield(Header[:]) {
			return
		}

		for _, block := range blocks {
			switch b := block.(type) {
			case deflate.LiteralBlock:
				if !yield(b) {
					return
				}
			case deflate.ZeroRunBlock:
				if !yield(b.Preamble) {
					return
				}
				for remaining := b.RawZeroes; remaining > 0; {
					size := int64(zeroPageSize)
					if remaining < size {
						size = remaining
					}
					if !yield(zeroPage[:size]) {
						return
					}
					remaining -= size
				}
				if len(b.Postamble) > 0 && !yield(b.Postamble) {
					return
				}
			default:
				assert.Assertf(false, "unrecognized block type %T", block)
			}
		}

		if !yield(deflate.FinalEmptyBlock[:]) {
			return
		}
		yield(trailer[:])
	}
}

// WriteTo writes the complete zlib stream to `w`, freezing the stream as Chunks does.
// It returns the number of bytes written.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	totalWritten := int64(0)
	for chunk := range s.Chunks() {
		n, err := w.Write(chunk)
		totalWritten += int64(n)
		if err != nil {
			return totalWritten, fmt.Errorf("failed to write zlib stream: %w", err)
		}
	}
	return totalWritten, nil
}
