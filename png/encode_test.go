package png_test

import (
	"bytes"
	"image"
	stdpng "image/png"
	"io"
	"testing"

	"github.com/dargueta/zeroflate"
	"github.com/dargueta/zeroflate/png"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeToBytes(t *testing.T, opts png.Options, secret *png.Bitmap) []byte {
	output := bytes.Buffer{}
	n, err := png.Encode(&output, opts, secret)
	require.NoError(t, err)
	require.EqualValues(t, output.Len(), n, "returned size is wrong")
	return output.Bytes()
}

func decodePaletted(t *testing.T, data []byte) *image.Paletted {
	img, err := stdpng.Decode(bytes.NewReader(data))
	require.NoError(t, err, "image/png rejected the image")
	paletted, ok := img.(*image.Paletted)
	require.True(t, ok, "expected a paletted image, got %T", img)
	return paletted
}

// checkerboard returns a bitmap with a pattern that's different in every row and
// column.
func checkerboard(width, height int) *png.Bitmap {
	bitmap := png.NewBitmap(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bitmap.Set(x, y, (x*x+3*y)%5 < 2)
		}
	}
	return bitmap
}

func checkCanvas(
	t *testing.T,
	img *image.Paletted,
	secret *png.Bitmap,
	offsetX int,
	offsetY int,
) {
	bounds := img.Bounds()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			expected := uint8(0)
			sx, sy := x-offsetX, y-offsetY
			if secret != nil && sx >= 0 && sx < secret.Width() && sy >= 0 && sy < secret.Height() {
				if secret.Get(sx, sy) {
					expected = 1
				}
			}
			actual := img.ColorIndexAt(x, y)
			if actual != expected {
				t.Errorf("pixel (%d, %d): expected %d, got %d", x, y, expected, actual)
				return
			}
		}
	}
}

func TestEncode__BlankCanvas(t *testing.T) {
	sizes := [][2]uint32{{1, 1}, {8, 1}, {9, 3}, {100, 37}, {1000, 1000}}
	for _, size := range sizes {
		data := encodeToBytes(t, png.NewOptions(size[0], size[1]), nil)
		img := decodePaletted(t, data)

		assert.Equal(t, image.Rect(0, 0, int(size[0]), int(size[1])), img.Bounds())
		require.Len(t, img.Palette, 2)
		assert.Equal(t, png.DefaultPalette[0], img.Palette[0])
		assert.Equal(t, png.DefaultPalette[1], img.Palette[1])
		checkCanvas(t, img, nil, 0, 0)
	}
}

func TestEncode__SecretIsCentred(t *testing.T) {
	type testCase struct {
		Name          string
		Width, Height uint32
		Secret        *png.Bitmap
		OffsetX       int
		OffsetY       int
	}
	cases := []testCase{
		{"byte aligned", 64, 20, checkerboard(16, 4), 24, 8},
		{"ragged secret", 50, 11, checkerboard(5, 3), 16, 4},
		{"same size as canvas", 13, 7, checkerboard(13, 7), 0, 0},
		{"single row", 40, 1, checkerboard(8, 1), 16, 0},
		{"left edge rounds down", 30, 30, checkerboard(1, 1), 8, 14},
		{"large canvas", 3000, 2000, checkerboard(37, 19), 1480, 990},
	}
	for _, tc := range cases {
		t.Run(
			tc.Name,
			func(t *testing.T) {
				data := encodeToBytes(t, png.NewOptions(tc.Width, tc.Height), tc.Secret)
				checkCanvas(t, decodePaletted(t, data), tc.Secret, tc.OffsetX, tc.OffsetY)
			},
		)
	}
}

func TestEncode__CustomPalette(t *testing.T) {
	opts := png.NewOptions(16, 16)
	opts.Palette[0], _ = png.ParseColor("#000000")
	opts.Palette[1], _ = png.ParseColor("#ffffff")

	img := decodePaletted(t, encodeToBytes(t, opts, checkerboard(4, 4)))
	assert.Equal(t, opts.Palette[0], img.Palette[0])
	assert.Equal(t, opts.Palette[1], img.Palette[1])
}

func TestEncode__SplitIDAT(t *testing.T) {
	secret := checkerboard(30, 30)
	opts := png.NewOptions(300, 300)
	opts.MaxIDATSize = 10

	data := encodeToBytes(t, opts, secret)
	checkCanvas(t, decodePaletted(t, data), secret, 128, 135)

	report, err := png.Inspect(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Greater(t, report.NumIDATChunks, 1)
	assert.EqualValues(t, (report.CompressedSize+9)/10, report.NumIDATChunks)
}

func TestEncode__SecretTooLarge(t *testing.T) {
	_, err := png.Encode(io.Discard, png.NewOptions(10, 10), png.NewBitmap(11, 1))
	assert.ErrorIs(t, err, zeroflate.ErrImageTooLarge)

	_, err = png.Encode(io.Discard, png.NewOptions(10, 10), png.NewBitmap(1, 11))
	assert.ErrorIs(t, err, zeroflate.ErrImageTooLarge)
}

func TestEncode__InvalidOptions(t *testing.T) {
	output := bytes.Buffer{}
	_, err := png.Encode(&output, png.Options{}, nil)
	assert.ErrorIs(t, err, zeroflate.ErrInvalidArgument)
	assert.Zero(t, output.Len(), "nothing should be written for invalid options")
}

func TestEncode__LogsLayout(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	opts := png.NewOptions(256, 256)
	opts.Logger = logger
	encodeToBytes(t, opts, checkerboard(8, 8))

	messages := []string{}
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "compressed pixel data")
	assert.Contains(t, messages, "placed secret")
	assert.Contains(t, messages, "wrote image")
}

func TestEncode__HugeCanvas(t *testing.T) {
	if testing.Short() {
		t.Skip("writes several megabytes of zeroes")
	}

	preset := uint32(225000)
	n, err := png.Encode(io.Discard, png.NewOptions(preset, preset), checkerboard(64, 64))
	require.NoError(t, err)

	// 225000 rows of 28126 bytes at 1032 bytes per compressed byte.
	assert.Greater(t, n, int64(6100000))
	assert.Less(t, n, int64(6200000))
}
