// Package adler32 implements the Adler-32 checksum used by the zlib container
// (RFC 1950), with an O(1) update for runs of zero bytes.
//
// The standard library's hash/adler32 can't resume from an arbitrary checksum value
// and has no way to skip over a run of zeroes, both of which the stream builder needs.
package adler32

import (
	"github.com/dargueta/zeroflate/internal/assert"
)

// modulus is the largest prime smaller than 65536.
const modulus = 65521

// nmax is the largest n such that 255n(n+1)/2 + (n+1)(modulus-1) fits in 32 bits, i.e.
// the number of bytes we can sum before we have to reduce.
const nmax = 5552

// Checksum is a packed Adler-32 value: the running sum of the bytes in the low 16 bits
// and the sum of those sums in the high 16 bits.
type Checksum uint32

// Initial is the checksum of the empty byte string.
const Initial Checksum = 1

func (c Checksum) sums() (uint32, uint32) {
	return uint32(c) & 0xffff, uint32(c) >> 16
}

// Update returns the checksum of the data c was computed over, followed by `data`.
func (c Checksum) Update(data []byte) Checksum {
	s1, s2 := c.sums()
	for len(data) > 0 {
		block := data
		if len(block) > nmax {
			block = block[:nmax]
		}
		data = data[len(block):]

		for _, x := range block {
			s1 += uint32(x)
			s2 += s1
		}
		s1 %= modulus
		s2 %= modulus
	}
	return Checksum(s2<<16 | s1)
}

// UpdateZeroes returns the checksum of the data c was computed over, followed by `n`
// zero bytes. It runs in constant time.
//
// Zero bytes leave the first sum unchanged and add the first sum to the second sum
// once per byte.
func (c Checksum) UpdateZeroes(n int64) Checksum {
	assert.Assertf(n >= 0, "negative zero run length %d", n)

	s1, s2 := c.sums()
	s1 %= modulus
	s2 = uint32((uint64(s2) + uint64(n%modulus)*uint64(s1)) % modulus)
	return Checksum(s2<<16 | s1)
}
