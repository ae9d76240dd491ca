package testing

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// Zeroes returns a reader producing exactly `n` zero bytes without allocating them.
func Zeroes(n int64) io.Reader {
	return io.LimitReader(zeroReader{}, n)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

// CountingSink is an io.Writer that discards what's written to it, only keeping
// track of how many bytes it saw and how many of those weren't zero.
type CountingSink struct {
	Total   int64
	NonZero int64
}

func (sink *CountingSink) Write(p []byte) (int, error) {
	sink.Total += int64(len(p))
	for _, b := range p {
		if b != 0 {
			sink.NonZero++
		}
	}
	return len(p), nil
}

// SeqReader adapts a sequence of byte chunks into an io.Reader. The reader must be
// read to EOF or the sequence's resources are leaked until the test ends.
func SeqReader(t *testing.T, chunks iter.Seq[[]byte]) io.Reader {
	next, stop := iter.Pull(chunks)
	t.Cleanup(stop)
	return &seqReader{next: next, stop: stop}
}

type seqReader struct {
	next    func() ([]byte, bool)
	stop    func()
	pending []byte
	done    bool
}

func (r *seqReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.done {
			return 0, io.EOF
		}
		chunk, ok := r.next()
		if !ok {
			r.done = true
			r.stop()
			return 0, io.EOF
		}
		r.pending = chunk
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Collect concatenates all chunks of a sequence into a new slice.
func Collect(chunks iter.Seq[[]byte]) []byte {
	output := bytes.Buffer{}
	for chunk := range chunks {
		output.Write(chunk)
	}
	return output.Bytes()
}

// LoadOutput collects a chunk sequence into a seekable in-memory stream, for tests
// that need to poke at specific offsets of the output.
func LoadOutput(t *testing.T, chunks iter.Seq[[]byte]) io.ReadWriteSeeker {
	data := Collect(chunks)
	require.Greater(t, len(data), 0, "output is empty")
	return bytesextra.NewReadWriteSeeker(data)
}

// Inflate decompresses a zlib stream with the standard library, failing the test if
// the stream is invalid.
func Inflate(t *testing.T, compressed io.Reader) []byte {
	reader, err := zlib.NewReader(compressed)
	require.NoError(t, err, "invalid zlib header")
	defer reader.Close()

	output, err := io.ReadAll(reader)
	require.NoError(t, err, "failed to inflate zlib stream")
	return output
}

// InflateRaw decompresses a raw DEFLATE stream, failing the test if it's invalid.
func InflateRaw(t *testing.T, compressed io.Reader) []byte {
	reader := flate.NewReader(compressed)
	defer reader.Close()

	output, err := io.ReadAll(reader)
	require.NoError(t, err, "failed to inflate DEFLATE stream")
	return output
}

// InflateToSink decompresses a zlib stream into a CountingSink, for streams too big
// to hold in memory.
func InflateToSink(t *testing.T, compressed io.Reader) CountingSink {
	reader, err := zlib.NewReader(compressed)
	require.NoError(t, err, "invalid zlib header")
	defer reader.Close()

	sink := CountingSink{}
	_, err = io.Copy(&sink, reader)
	require.NoError(t, err, "failed to inflate zlib stream")
	return sink
}

// InflateRawToSink is InflateToSink for raw DEFLATE streams.
func InflateRawToSink(t *testing.T, compressed io.Reader) CountingSink {
	reader := flate.NewReader(compressed)
	defer reader.Close()

	sink := CountingSink{}
	_, err := io.Copy(&sink, reader)
	require.NoError(t, err, "failed to inflate DEFLATE stream")
	return sink
}
