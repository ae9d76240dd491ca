package deflate_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/dargueta/zeroflate/deflate"
	ztest "github.com/dargueta/zeroflate/testing"
	"github.com/stretchr/testify/assert"
)

// inflateBlocks terminates a sequence of non-final blocks and decompresses it.
func inflateBlocks(t *testing.T, blocks ...[]byte) []byte {
	stream := bytes.Join(blocks, nil)
	stream = append(stream, deflate.FinalEmptyBlock[:]...)
	return ztest.InflateRaw(t, bytes.NewReader(stream))
}

func TestEncodeFixed__Empty(t *testing.T) {
	// 0 01 0000000 -> 10 bits, then an empty stored block to pad it out.
	expected := []byte{0x02, 0x00, 0x00, 0x00, 0xff, 0xff}
	assert.Equal(t, expected, deflate.EncodeFixed(nil))
	assert.Equal(t, expected, deflate.EncodeFixed([]byte{}))
}

func TestEncodeFixed__AlignedWithoutPadding(t *testing.T) {
	// The header and end-of-block code take 10 bits, so a block of 8-bit literals is
	// never aligned. Six 9-bit literals make it exactly 64 bits.
	data := bytes.Repeat([]byte{0xff}, 6)
	encoded := deflate.EncodeFixed(data)
	assert.Len(t, encoded, 8, "3 + 6*9 + 7 = 64 bits should need no padding")
	assert.Equal(t, data, inflateBlocks(t, encoded))
}

func TestEncodeFixed__RoundTrip(t *testing.T) {
	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}
	randomData := make([]byte, 4096)
	rand.Read(randomData)

	testData := []struct {
		Name string
		Data []byte
	}{
		{"empty", []byte{}},
		{"single zero", []byte{0}},
		{"single 143", []byte{143}},
		{"single 144", []byte{144}},
		{"every byte value", allBytes},
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"random", randomData},
		{"scanline", []byte{0x00, 0x0f, 0xf0, 0xaa, 0x55, 0xff, 0x81}},
	}

	for _, test := range testData {
		t.Run(
			test.Name,
			func(t *testing.T) {
				encoded := deflate.EncodeFixed(test.Data)
				assert.Equal(t, test.Data, inflateBlocks(t, encoded))
			},
		)
	}
}

func TestEncodeFixed__Concatenation(t *testing.T) {
	first := []byte("first block ")
	second := []byte{0xde, 0xad, 0xbe, 0xef}
	third := []byte{}

	decoded := inflateBlocks(
		t,
		deflate.EncodeFixed(first),
		deflate.EncodeFixed(second),
		deflate.EncodeFixed(third),
	)
	assert.Equal(t, bytes.Join([][]byte{first, second, third}, nil), decoded)
}

func TestEncodeFixed__Deterministic(t *testing.T) {
	data := []byte("the same input twice")
	assert.Equal(t, deflate.EncodeFixed(data), deflate.EncodeFixed(data))
}
