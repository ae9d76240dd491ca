package png

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"image/color"
	"io"

	"github.com/dargueta/zeroflate"
)

// Report summarizes the structure of a PNG file.
type Report struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType uint8
	Palette   []color.RGBA
	// NumChunks is the total number of chunks in the file, including IHDR and IEND.
	NumChunks int
	// NumIDATChunks is the number of IDAT chunks the pixel data is split across.
	NumIDATChunks int
	// CompressedSize is the total size of the IDAT chunks' data.
	CompressedSize int64
	// DecompressedSize is the size of the decompressed pixel data, including filter
	// bytes.
	DecompressedSize int64
	// NonZeroBytes is the number of bytes of the decompressed pixel data that aren't
	// zero.
	NonZeroBytes int64
}

// ExpectedDecompressedSize gives the size the decompressed pixel data of a
// non-interlaced image with this header has to be.
func (r *Report) ExpectedDecompressedSize() int64 {
	bitsPerPixel := int64(r.BitDepth) * int64(channelsPerPixel(r.ColorType))
	rowSize := 1 + (int64(r.Width)*bitsPerPixel+7)/8
	return rowSize * int64(r.Height)
}

// CompressionRatio gives the decompressed size divided by the compressed size.
func (r *Report) CompressionRatio() float64 {
	if r.CompressedSize == 0 {
		return 0
	}
	return float64(r.DecompressedSize) / float64(r.CompressedSize)
}

func channelsPerPixel(colorType uint8) int {
	switch colorType {
	case colorTypeTruecolor:
		return 3
	case colorTypeGrayscaleAlpha:
		return 2
	case colorTypeTruecolorAlpha:
		return 4
	default:
		return 1
	}
}

type chunkHeader struct {
	Length uint32
	Type   [4]byte
}

func (h chunkHeader) typeName() string {
	return string(h.Type[:])
}

// chunkReader reads the chunks of a PNG file one after the other.
type chunkReader struct {
	r io.Reader
	// peeked is a header that's already been read but not yet handed out.
	peeked *chunkHeader
}

func (cr *chunkReader) nextHeader() (chunkHeader, error) {
	if cr.peeked != nil {
		header := *cr.peeked
		cr.peeked = nil
		return header, nil
	}

	var header chunkHeader
	err := binary.Read(cr.r, binary.BigEndian, &header)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return header, zeroflate.ErrInvalidImage.WithMessage("missing IEND chunk")
		}
		return header, zeroflate.ErrInvalidImage.Wrap(err)
	}
	if header.Length > MaxChunkSize {
		return header, zeroflate.ErrInvalidImage.WithMessage(
			fmt.Sprintf("%q chunk is too large: %d bytes", header.typeName(), header.Length))
	}
	return header, nil
}

// readChunkData reads the complete data of a chunk and checks its CRC.
func (cr *chunkReader) readChunkData(header chunkHeader) ([]byte, error) {
	data := make([]byte, header.Length)
	if _, err := io.ReadFull(cr.r, data); err != nil {
		return nil, zeroflate.ErrInvalidImage.Wrap(
			fmt.Errorf("truncated %q chunk: %w", header.typeName(), err))
	}

	crc := crc32.NewIEEE()
	crc.Write(header.Type[:])
	crc.Write(data)
	if err := cr.checkCRC(header, crc); err != nil {
		return nil, err
	}
	return data, nil
}

func (cr *chunkReader) checkCRC(header chunkHeader, crc hash.Hash32) error {
	var stored uint32
	if err := binary.Read(cr.r, binary.BigEndian, &stored); err != nil {
		return zeroflate.ErrInvalidImage.Wrap(
			fmt.Errorf("missing CRC of %q chunk: %w", header.typeName(), err))
	}
	if stored != crc.Sum32() {
		return zeroflate.ErrChecksumMismatch.WithMessage(
			fmt.Sprintf(
				"%q chunk has CRC %08x, expected %08x",
				header.typeName(),
				stored,
				crc.Sum32()))
	}
	return nil
}

// idatReader presents the data of a series of consecutive IDAT chunks as one stream,
// checking each chunk's CRC as its end is reached. It stops at the first chunk that
// isn't IDAT, leaving that chunk's header for the chunkReader.
type idatReader struct {
	chunks         *chunkReader
	current        chunkHeader
	chunkRemaining int64
	crc            hash.Hash32
	done           bool
	// err is the first error hit while moving between chunks. The CRC has already been
	// read by then, so retrying isn't possible.
	err error

	numChunks int
	totalSize int64
}

func newIDATReader(chunks *chunkReader, first chunkHeader) *idatReader {
	reader := &idatReader{chunks: chunks, crc: crc32.NewIEEE()}
	reader.begin(first)
	return reader
}

func (ir *idatReader) begin(header chunkHeader) {
	ir.current = header
	ir.chunkRemaining = int64(header.Length)
	ir.crc.Reset()
	ir.crc.Write(header.Type[:])
	ir.numChunks++
	ir.totalSize += int64(header.Length)
}

func (ir *idatReader) Read(p []byte) (int, error) {
	for ir.chunkRemaining == 0 {
		if ir.err != nil {
			return 0, ir.err
		}
		if ir.done {
			return 0, io.EOF
		}
		ir.err = ir.advance()
	}

	if int64(len(p)) > ir.chunkRemaining {
		p = p[:ir.chunkRemaining]
	}
	n, err := ir.chunks.r.Read(p)
	ir.crc.Write(p[:n])
	ir.chunkRemaining -= int64(n)
	if errors.Is(err, io.EOF) {
		if ir.chunkRemaining > 0 {
			err = io.ErrUnexpectedEOF
		} else {
			err = nil
		}
	}
	if err != nil {
		return n, zeroflate.ErrInvalidImage.Wrap(fmt.Errorf("truncated IDAT chunk: %w", err))
	}
	return n, nil
}

// advance finishes the current chunk and moves to the next one if it's also IDAT.
func (ir *idatReader) advance() error {
	if err := ir.chunks.checkCRC(ir.current, ir.crc); err != nil {
		return err
	}

	next, err := ir.chunks.nextHeader()
	if err != nil {
		return err
	}
	if next.typeName() != chunkTypeIDAT {
		ir.chunks.peeked = &next
		ir.done = true
		return nil
	}
	ir.begin(next)
	return nil
}

// nonZeroCounter is a sink that counts the bytes written to it.
type nonZeroCounter struct {
	total   int64
	nonZero int64
}

func (c *nonZeroCounter) Write(p []byte) (int, error) {
	c.total += int64(len(p))
	for _, b := range p {
		if b != 0 {
			c.nonZero++
		}
	}
	return len(p), nil
}

// Inspect reads a PNG file, verifying the CRC of every chunk and decompressing the
// pixel data without keeping it in memory.
//
// Only non-interlaced images are supported. A decompressed size that doesn't match the
// image dimensions is reported as ErrCorruptedStream.
func Inspect(r io.Reader) (*Report, error) {
	var signature [8]byte
	if _, err := io.ReadFull(r, signature[:]); err != nil {
		return nil, zeroflate.ErrInvalidImage.Wrap(err)
	}
	if !bytes.Equal(signature[:], Signature[:]) {
		return nil, zeroflate.ErrInvalidImage.WithMessage("not a PNG file")
	}

	chunks := &chunkReader{r: r}
	report := &Report{}
	seenIHDR := false
	seenIDAT := false

	for {
		header, err := chunks.nextHeader()
		if err != nil {
			return report, err
		}
		report.NumChunks++

		chunkType := header.typeName()
		if !seenIHDR && chunkType != chunkTypeIHDR {
			return report, zeroflate.ErrInvalidImage.WithMessage(
				fmt.Sprintf("first chunk must be IHDR, got %q", chunkType))
		}

		switch chunkType {
		case chunkTypeIDAT:
			if seenIDAT {
				return report, zeroflate.ErrInvalidImage.WithMessage(
					"IDAT chunks must be consecutive")
			}
			seenIDAT = true
			if err := inspectPixelData(chunks, header, report); err != nil {
				return report, err
			}
			continue

		case chunkTypeIEND:
			if _, err := chunks.readChunkData(header); err != nil {
				return report, err
			}
			if !seenIDAT {
				return report, zeroflate.ErrInvalidImage.WithMessage("no IDAT chunks")
			}
			return report, nil
		}

		data, err := chunks.readChunkData(header)
		if err != nil {
			return report, err
		}

		switch chunkType {
		case chunkTypeIHDR:
			if seenIHDR {
				return report, zeroflate.ErrInvalidImage.WithMessage("duplicate IHDR")
			}
			seenIHDR = true
			if err := parseIHDR(data, report); err != nil {
				return report, err
			}
		case chunkTypePLTE:
			if len(data)%3 != 0 {
				return report, zeroflate.ErrInvalidImage.WithMessage(
					fmt.Sprintf("PLTE size %d isn't a multiple of 3", len(data)))
			}
			for i := 0; i < len(data); i += 3 {
				report.Palette = append(
					report.Palette,
					color.RGBA{R: data[i], G: data[i+1], B: data[i+2], A: 0xff})
			}
		}
	}
}

func parseIHDR(data []byte, report *Report) error {
	if len(data) != ihdrSize {
		return zeroflate.ErrInvalidImage.WithMessage(
			fmt.Sprintf("IHDR must be %d bytes, got %d", ihdrSize, len(data)))
	}

	var ihdr rawIHDR
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &ihdr); err != nil {
		return zeroflate.ErrInvalidImage.Wrap(err)
	}
	if ihdr.InterlaceMethod != 0 {
		return zeroflate.ErrInvalidImage.WithMessage("interlaced images aren't supported")
	}

	report.Width = ihdr.Width
	report.Height = ihdr.Height
	report.BitDepth = ihdr.BitDepth
	report.ColorType = ihdr.ColorType
	return nil
}

func inspectPixelData(chunks *chunkReader, first chunkHeader, report *Report) error {
	idat := newIDATReader(chunks, first)
	zReader, err := zlib.NewReader(idat)
	if err != nil {
		return asStreamError(err)
	}
	defer zReader.Close()

	counter := nonZeroCounter{}
	_, err = io.Copy(&counter, zReader)
	report.DecompressedSize = counter.total
	report.NonZeroBytes = counter.nonZero
	if err != nil {
		return asStreamError(err)
	}

	// Anything after the end of the zlib stream still has to be read to get to the
	// next chunk.
	if _, err = io.Copy(io.Discard, idat); err != nil {
		return err
	}
	report.NumIDATChunks = idat.numChunks
	report.CompressedSize = idat.totalSize
	report.NumChunks += idat.numChunks - 1

	expected := report.ExpectedDecompressedSize()
	if report.DecompressedSize != expected {
		return zeroflate.ErrCorruptedStream.WithMessage(
			fmt.Sprintf(
				"pixel data is %d bytes, expected %d",
				report.DecompressedSize,
				expected))
	}
	return nil
}

// asStreamError passes through errors from reading the chunks, and marks everything
// else as a problem with the compressed data.
func asStreamError(err error) error {
	if errors.Is(err, zeroflate.ErrInvalidImage) || errors.Is(err, zeroflate.ErrChecksumMismatch) {
		return err
	}
	return zeroflate.ErrCorruptedStream.Wrap(err)
}
