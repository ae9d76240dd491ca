package png

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dargueta/zeroflate"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// MaxDimension is the largest width or height a PNG image can have.
const MaxDimension = math.MaxInt32

// MaxChunkSize is the largest data size of a single PNG chunk.
const MaxChunkSize = math.MaxInt32

// DefaultPalette is the color of 0 pixels followed by the color of 1 pixels.
var DefaultPalette = [2]color.RGBA{
	{R: 0x40, G: 0x00, B: 0xe0, A: 0xff},
	{R: 0xe0, G: 0x00, B: 0x40, A: 0xff},
}

type Options struct {
	Width  uint32
	Height uint32
	// Palette gives the colors of 0 and 1 pixels, in that order. The alpha channel is
	// ignored.
	Palette [2]color.RGBA
	// MaxIDATSize is the largest amount of compressed data to put into a single IDAT
	// chunk. 0 means MaxChunkSize.
	MaxIDATSize uint32
	// Logger receives debug information about the layout of the image. If nil,
	// nothing is logged.
	Logger logrus.FieldLogger
}

// NewOptions returns options for a canvas of the given size using the default palette.
func NewOptions(width, height uint32) Options {
	return Options{
		Width:   width,
		Height:  height,
		Palette: DefaultPalette,
	}
}

// Validate checks the options, returning every problem found rather than stopping at
// the first.
func (opts Options) Validate() error {
	var result *multierror.Error

	if opts.Width == 0 || opts.Width > MaxDimension {
		result = multierror.Append(
			result,
			zeroflate.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("width must be in [1, %d], got %d", MaxDimension, opts.Width)))
	}
	if opts.Height == 0 || opts.Height > MaxDimension {
		result = multierror.Append(
			result,
			zeroflate.ErrInvalidArgument.WithMessage(
				fmt.Sprintf("height must be in [1, %d], got %d", MaxDimension, opts.Height)))
	}
	if opts.MaxIDATSize > MaxChunkSize {
		result = multierror.Append(
			result,
			zeroflate.ErrInvalidArgument.WithMessage(
				fmt.Sprintf(
					"maximum IDAT size must be at most %d, got %d",
					MaxChunkSize,
					opts.MaxIDATSize)))
	}

	return result.ErrorOrNil()
}

func (opts Options) maxIDATSize() int64 {
	if opts.MaxIDATSize == 0 {
		return MaxChunkSize
	}
	return int64(opts.MaxIDATSize)
}

func (opts Options) logger() logrus.FieldLogger {
	if opts.Logger != nil {
		return opts.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ParseColor parses a color in the form "#rrggbb". The leading "#" is optional.
func ParseColor(s string) (color.RGBA, error) {
	hexDigits := strings.TrimPrefix(s, "#")
	if len(hexDigits) != 6 {
		return color.RGBA{}, zeroflate.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("color must be in the form #rrggbb, got %q", s))
	}

	value, err := strconv.ParseUint(hexDigits, 16, 32)
	if err != nil {
		return color.RGBA{}, zeroflate.ErrInvalidArgument.Wrap(
			fmt.Errorf("bad color %q: %w", s, err))
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xff,
	}, nil
}
