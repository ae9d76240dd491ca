package png

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
	"io"

	"github.com/dargueta/zeroflate/internal/assert"
	"github.com/noxer/bytewriter"
)

// Signature is the eight-byte magic number every PNG file starts with.
var Signature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

const (
	chunkTypeIHDR = "IHDR"
	chunkTypePLTE = "PLTE"
	chunkTypeIDAT = "IDAT"
	chunkTypeIEND = "IEND"
)

const (
	colorTypeGrayscale      = 0
	colorTypeTruecolor      = 2
	colorTypePaletted       = 3
	colorTypeGrayscaleAlpha = 4
	colorTypeTruecolorAlpha = 6
)

// rawIHDR is the data of an IHDR chunk, in the order it's stored in the file.
type rawIHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         uint8
	CompressionMethod uint8
	FilterMethod      uint8
	InterlaceMethod   uint8
}

const ihdrSize = 13

func (h rawIHDR) serialize() []byte {
	buffer := make([]byte, ihdrSize)
	writer := bytewriter.New(buffer)
	err := binary.Write(writer, binary.BigEndian, h)
	assert.Assertf(err == nil, "failed to serialize IHDR: %v", err)
	return buffer
}

// countingWriter passes writes through to another writer, keeping track of how many
// bytes made it.
type countingWriter struct {
	w     io.Writer
	total int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.total += int64(n)
	return n, err
}

// writeChunk writes a complete chunk whose data is already in memory.
func writeChunk(w io.Writer, chunkType string, data []byte) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], chunkType)

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(data)

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc.Sum32())

	for _, part := range [][]byte{header[:], data, trailer[:]} {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}

// idatWriter splits everything written to it into IDAT chunks of at most maxSize
// bytes. The total size has to be known up front since each chunk's length comes
// before its data.
type idatWriter struct {
	w       io.Writer
	maxSize int64
	// remaining is the number of bytes left to write across all chunks.
	remaining int64
	// chunkRemaining is the number of bytes left in the current chunk. 0 means no
	// chunk is open.
	chunkRemaining int64
	crc            hash.Hash32
	numChunks      int
}

func newIDATWriter(w io.Writer, totalSize, maxSize int64) *idatWriter {
	assert.Assertf(maxSize > 0 && maxSize <= MaxChunkSize, "bad IDAT size limit %d", maxSize)
	return &idatWriter{
		w:         w,
		maxSize:   maxSize,
		remaining: totalSize,
		crc:       crc32.NewIEEE(),
	}
}

func (iw *idatWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		assert.Assertf(
			int64(len(p)) <= iw.remaining,
			"%d bytes written to IDAT with only %d left",
			len(p),
			iw.remaining,
		)

		if iw.chunkRemaining == 0 {
			if err := iw.startChunk(); err != nil {
				return written, err
			}
		}

		size := int64(len(p))
		if size > iw.chunkRemaining {
			size = iw.chunkRemaining
		}

		n, err := iw.w.Write(p[:size])
		iw.crc.Write(p[:n])
		written += n
		iw.remaining -= int64(n)
		iw.chunkRemaining -= int64(n)
		if err != nil {
			return written, err
		}
		p = p[size:]

		if iw.chunkRemaining == 0 {
			if err := iw.finishChunk(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (iw *idatWriter) startChunk() error {
	size := iw.remaining
	if size > iw.maxSize {
		size = iw.maxSize
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(size))
	copy(header[4:], chunkTypeIDAT)
	if _, err := iw.w.Write(header[:]); err != nil {
		return err
	}

	iw.crc.Reset()
	iw.crc.Write(header[4:])
	iw.chunkRemaining = size
	iw.numChunks++
	return nil
}

func (iw *idatWriter) finishChunk() error {
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], iw.crc.Sum32())
	_, err := iw.w.Write(trailer[:])
	return err
}
