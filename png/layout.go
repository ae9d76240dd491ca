package png

import (
	"fmt"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/zlibstream"
)

// Layout describes where the secret goes in the canvas. All horizontal measurements
// are in bytes of packed pixel data, not counting the filter byte at the start of each
// row. Vertical measurements are in rows.
type Layout struct {
	// Span is the number of packed bytes in a canvas row.
	Span int64
	// SecretSpan is the number of packed bytes in a secret row.
	SecretSpan int64
	Top        int64
	Bottom     int64
	Left       int64
	Right      int64
}

// RowSize gives the size of a scanline, including the filter byte.
func (l Layout) RowSize() int64 {
	return 1 + l.Span
}

// computeLayout centres a secret of the given size in the canvas. The secret's left
// edge is rounded down to a byte boundary.
func computeLayout(opts Options, secretWidth, secretHeight int) (Layout, error) {
	width := int64(opts.Width)
	height := int64(opts.Height)
	w := int64(secretWidth)
	h := int64(secretHeight)
	if w > width || h > height {
		return Layout{}, zeroflate.ErrImageTooLarge.WithMessage(
			fmt.Sprintf(
				"secret image is %dx%d but the canvas is only %dx%d",
				w,
				h,
				width,
				height))
	}

	layout := Layout{
		Span:       (width-1)/8 + 1,
		SecretSpan: (w + 7) / 8,
		Top:        (height - h) / 2,
		Left:       (width - w) / 2 / 8,
	}
	layout.Bottom = height - h - layout.Top
	layout.Right = layout.Span - layout.SecretSpan - layout.Left
	return layout, nil
}

// buildStream compresses the pixel data of the canvas: every row starts with filter
// type 0, and every pixel outside the secret is 0.
func buildStream(opts Options, secret *Bitmap) (*zlibstream.Stream, Layout, error) {
	stream := zlibstream.New()

	if secret.IsEmpty() {
		layout, err := computeLayout(opts, 0, 0)
		if err != nil {
			return nil, Layout{}, err
		}
		err = stream.PushZeroes(layout.RowSize() * int64(opts.Height))
		return stream, layout, err
	}

	layout, err := computeLayout(opts, secret.Width(), secret.Height())
	if err != nil {
		return nil, Layout{}, err
	}

	// Everything between the end of one secret row and the start of the next is a
	// single zero run, including the filter byte of the next row.
	err = stream.PushZeroes(layout.RowSize()*layout.Top + 1 + layout.Left)
	if err != nil {
		return nil, Layout{}, err
	}

	row := make([]byte, secret.RowSize())
	for y := 0; y < secret.Height(); y++ {
		if err = stream.Push(secret.PackRow(y, row)); err != nil {
			return nil, Layout{}, err
		}
		if y < secret.Height()-1 {
			err = stream.PushZeroes(layout.Right + 1 + layout.Left)
			if err != nil {
				return nil, Layout{}, err
			}
		}
	}

	err = stream.PushZeroes(layout.Right + layout.RowSize()*layout.Bottom)
	if err != nil {
		return nil, Layout{}, err
	}
	return stream, layout, nil
}
