package png

import (
	"fmt"
	"io"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/internal/assert"
	"github.com/sirupsen/logrus"
)

// Encode writes a PNG image to `w` and returns the number of bytes written. `secret`
// may be nil for a blank canvas.
func Encode(w io.Writer, opts Options, secret *Bitmap) (int64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	logger := opts.logger()
	stream, layout, err := buildStream(opts, secret)
	if err != nil {
		return 0, err
	}

	idatSize := stream.TotalLength()
	maxIDATSize := opts.maxIDATSize()
	logger.WithFields(logrus.Fields{
		"width":         opts.Width,
		"height":        opts.Height,
		"pixelDataSize": stream.InputSize(),
		"idatSize":      idatSize,
		"idatChunks":    (idatSize + maxIDATSize - 1) / maxIDATSize,
		"zlibBlocks":    stream.NumBlocks(),
	}).Debug("compressed pixel data")
	if !secret.IsEmpty() {
		logger.WithFields(logrus.Fields{
			"secretWidth":  secret.Width(),
			"secretHeight": secret.Height(),
			"top":          layout.Top,
			"leftBytes":    layout.Left,
		}).Debug("placed secret")
	}

	output := &countingWriter{w: w}
	if err := writeHeaderChunks(output, opts); err != nil {
		return output.total, zeroflate.ErrIOFailed.Wrap(err)
	}

	idat := newIDATWriter(output, idatSize, maxIDATSize)
	if _, err := stream.WriteTo(idat); err != nil {
		return output.total, zeroflate.ErrIOFailed.Wrap(err)
	}
	assert.Assertf(idat.remaining == 0, "%d bytes of IDAT data never written", idat.remaining)
	assert.Assert(idat.numChunks > 0)

	if err := writeChunk(output, chunkTypeIEND, nil); err != nil {
		return output.total, zeroflate.ErrIOFailed.Wrap(err)
	}

	logger.WithField("fileSize", output.total).Debug("wrote image")
	return output.total, nil
}

func writeHeaderChunks(w io.Writer, opts Options) error {
	if _, err := w.Write(Signature[:]); err != nil {
		return err
	}

	ihdr := rawIHDR{
		Width:     opts.Width,
		Height:    opts.Height,
		BitDepth:  1,
		ColorType: colorTypePaletted,
	}
	if err := writeChunk(w, chunkTypeIHDR, ihdr.serialize()); err != nil {
		return fmt.Errorf("failed to write IHDR: %w", err)
	}

	palette := make([]byte, 0, 3*len(opts.Palette))
	for _, entry := range opts.Palette {
		palette = append(palette, entry.R, entry.G, entry.B)
	}
	if err := writeChunk(w, chunkTypePLTE, palette); err != nil {
		return fmt.Errorf("failed to write PLTE: %w", err)
	}
	return nil
}
