// Package deflate implements the two DEFLATE (RFC 1951) block encoders this module
// needs, and nothing else.
//
// EncodeFixed codes arbitrary bytes as literals with the predefined Huffman tables.
// There is no back-reference search, so the output is never smaller than the input,
// but the inputs it's used for are short.
//
// EncodeZeroes is where the compression happens. It builds one dynamic-Huffman block
// whose literal/length code gives the symbol 285 (match length 258) a one-bit code,
// and whose distance code gives distance 1 a one-bit code. A 258-byte run of zeroes,
// once the block has produced its first literal zero, then costs two zero bits. Four
// of those fit in a byte, so after aligning to a byte boundary the bulk of the run is
// represented by plain 0x00 bytes, each one standing for 1032 decoded zeroes. The
// encoder never materializes those bytes: it returns a ZeroRunBlock holding a short
// preamble, the number of 0x00 bytes to emit, and a short postamble.
//
// Every block produced here ends on a byte boundary. When the Huffman-coded data
// doesn't, an empty stored block is appended to pad it out. Blocks are never marked
// final; the container (see package zlibstream) closes the stream itself.
package deflate
