// Package png writes 1-bit palette PNG images whose pixel data is almost entirely
// zeroes, optionally with a small "secret" image centred in the canvas.
//
// The pixel data is compressed with [zlibstream], so the cost of producing an image
// depends on the size of the secret and on the size of the compressed output, not on
// the area of the canvas. A 225,000 x 225,000 canvas holds about 6 GiB of pixel data
// but compresses to about 6 MiB.
package png
