package sparse

import (
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/deflate"
	"github.com/dargueta/zeroflate/zlibstream"
)

// DefaultMinZeroRun is the shortest run of null bytes worth encoding on its own.
const DefaultMinZeroRun = deflate.SmallZeroRunLimit + 1

// CompressStream reads the input to EOF and returns it as an unwritten zlib stream.
func CompressStream(input io.Reader, minZeroRun int) (*zlibstream.Stream, error) {
	if minZeroRun < 1 {
		return nil, zeroflate.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("minimum zero run must be at least 1, got %d", minZeroRun))
	}

	stream := zlibstream.New()
	grouper := NewRunGrouper(input, minZeroRun)
	for {
		run, err := grouper.GetNextRun()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stream, nil
			}
			return nil, zeroflate.ErrIOFailed.Wrap(fmt.Errorf("error reading input: %w", err))
		}

		if run.IsZeroRun() {
			err = stream.PushZeroes(run.Zeroes)
		} else {
			err = stream.Push(run.Data)
		}
		if err != nil {
			return nil, err
		}
	}
}

// Compress reads bytes from the input until it's exhausted and writes a zlib stream of
// them to the output. Runs of at least minZeroRun null bytes are compressed as zero
// runs.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func Compress(input io.Reader, output io.Writer, minZeroRun int) (int64, error) {
	stream, err := CompressStream(input, minZeroRun)
	if err != nil {
		return 0, err
	}

	n, err := stream.WriteTo(output)
	if err != nil {
		return n, zeroflate.ErrIOFailed.Wrap(err)
	}
	return n, nil
}

// Decompress takes a zlib stream and decompresses it to the original raw bytes.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size). If an error occurred, the value is undefined and should not be
// used.
func Decompress(input io.Reader, output io.Writer) (int64, error) {
	zReader, err := zlib.NewReader(input)
	if err != nil {
		return 0, zeroflate.ErrCorruptedStream.Wrap(err)
	}
	defer zReader.Close()

	n, err := io.Copy(output, zReader)
	if err != nil {
		return n, zeroflate.ErrCorruptedStream.Wrap(
			fmt.Errorf("failed to decompress after %d bytes: %w", n, err))
	}
	return n, nil
}
