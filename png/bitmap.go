package png

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/zeroflate"
)

// Bitmap is a 1-bit image. Pixels are 0 or 1, and map to palette entries of the same
// index.
type Bitmap struct {
	width  int
	height int
	bits   bitmap.Bitmap
}

// NewBitmap creates a bitmap of the given size with every pixel set to 0.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("bitmap dimensions can't be negative: %dx%d", width, height))
	}
	return &Bitmap{
		width:  width,
		height: height,
		bits:   bitmap.New(width * height),
	}
}

func (b *Bitmap) Width() int {
	return b.width
}

func (b *Bitmap) Height() int {
	return b.height
}

// IsEmpty returns true if the bitmap has no pixels at all.
func (b *Bitmap) IsEmpty() bool {
	return b == nil || b.width == 0 || b.height == 0
}

// RowSize gives the number of bytes in one packed row.
func (b *Bitmap) RowSize() int {
	return (b.width + 7) / 8
}

func (b *Bitmap) Get(x, y int) bool {
	return b.bits.Get(b.index(x, y))
}

func (b *Bitmap) Set(x, y int, value bool) {
	b.bits.Set(b.index(x, y), value)
}

func (b *Bitmap) index(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("pixel (%d, %d) out of bounds for %dx%d bitmap", x, y, b.width, b.height))
	}
	return y*b.width + x
}

// PackRow writes row `y` to `dst` as PNG scanline data: eight pixels per byte, the
// leftmost pixel in the most significant bit. Bits past the right edge are 0. `dst`
// must be at least RowSize bytes long; the packed slice is returned.
func (b *Bitmap) PackRow(y int, dst []byte) []byte {
	dst = dst[:b.RowSize()]
	clear(dst)
	for x := 0; x < b.width; x++ {
		if b.Get(x, y) {
			dst[x/8] |= 0x80 >> (x % 8)
		}
	}
	return dst
}

// BitmapFromImage converts an image to a bitmap. Images with a palette of at most two
// colors keep their palette indexes. Anything else is thresholded: pixels darker than
// 50% luminance become 1.
func BitmapFromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	result := NewBitmap(bounds.Dx(), bounds.Dy())

	paletted, isPaletted := img.(*image.Paletted)
	if isPaletted && len(paletted.Palette) <= 2 {
		for y := 0; y < result.height; y++ {
			for x := 0; x < result.width; x++ {
				index := paletted.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y)
				result.Set(x, y, index != 0)
			}
		}
		return result
	}

	for y := 0; y < result.height; y++ {
		for x := 0; x < result.width; x++ {
			gray := color.Gray16Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
			result.Set(x, y, gray.Y < 0x8000)
		}
	}
	return result
}

// LoadBitmap decodes a PNG, GIF, or JPEG image and converts it with BitmapFromImage.
func LoadBitmap(r io.Reader) (*Bitmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, zeroflate.ErrInvalidImage.Wrap(err)
	}

	result := BitmapFromImage(img)
	if result.IsEmpty() {
		return nil, zeroflate.ErrInvalidImage.WithMessage(
			fmt.Sprintf("%s image has no pixels", format))
	}
	return result, nil
}
