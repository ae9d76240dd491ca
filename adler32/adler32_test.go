package adler32_test

import (
	"bytes"
	"crypto/rand"
	stdadler32 "hash/adler32"
	"testing"

	"github.com/dargueta/zeroflate/adler32"
	"github.com/stretchr/testify/assert"
)

func TestInitialIsEmptyChecksum(t *testing.T) {
	assert.EqualValues(t, stdadler32.Checksum(nil), adler32.Initial)
	assert.Equal(t, adler32.Initial, adler32.Initial.Update(nil))
	assert.Equal(t, adler32.Initial, adler32.Initial.UpdateZeroes(0))
}

func TestUpdateMatchesStandardLibrary(t *testing.T) {
	randomData := make([]byte, 3*5552+17)
	rand.Read(randomData)

	testData := []struct {
		Name string
		Data []byte
	}{
		{"wikipedia", []byte("Wikipedia")},
		{"single byte", []byte{0xff}},
		{"all 0xff past reduction", bytes.Repeat([]byte{0xff}, 100000)},
		{"random", randomData},
	}

	for _, test := range testData {
		t.Run(
			test.Name,
			func(t *testing.T) {
				assert.EqualValues(
					t,
					stdadler32.Checksum(test.Data),
					adler32.Initial.Update(test.Data),
				)
			},
		)
	}
}

func TestKnownValue(t *testing.T) {
	assert.EqualValues(t, 0x11e60398, adler32.Initial.Update([]byte("Wikipedia")))
}

func TestUpdateIsIncremental(t *testing.T) {
	data := make([]byte, 20000)
	rand.Read(data)

	checksum := adler32.Initial
	for i := 0; i < len(data); i += 777 {
		end := i + 777
		if end > len(data) {
			end = len(data)
		}
		checksum = checksum.Update(data[i:end])
	}
	assert.EqualValues(t, stdadler32.Checksum(data), checksum)
}

func TestUpdateZeroesMatchesUpdate(t *testing.T) {
	prefix := make([]byte, 300)
	rand.Read(prefix)
	start := adler32.Initial.Update(prefix)

	for _, n := range []int64{0, 1, 2, 257, 1032, 65520, 65521, 65522, 200000} {
		expected := start.Update(make([]byte, n))
		assert.Equal(t, expected, start.UpdateZeroes(n), "wrong checksum for %d zeroes", n)
	}
}

func TestUpdateZeroesHugeRun(t *testing.T) {
	start := adler32.Initial.Update([]byte{0xff, 0x01})
	const n = int64(1_000_000_000_000)

	// Splitting a run must not change the result.
	split := start.UpdateZeroes(n / 2).UpdateZeroes(n - n/2)
	assert.Equal(t, start.UpdateZeroes(n), split)

	s1 := uint32(start) & 0xffff
	s2 := uint32(start) >> 16
	expectedS2 := (uint64(s2) + (uint64(n)%65521)*uint64(s1)) % 65521
	assert.EqualValues(t, expectedS2<<16|uint64(s1), start.UpdateZeroes(n))
}

func TestUpdateZeroesNegativePanics(t *testing.T) {
	assert.Panics(t, func() { adler32.Initial.UpdateZeroes(-1) })
}
