package deflate

// fixedLiteralCode returns the Huffman code and its length in bits for a literal byte
// using the predefined literal/length table of RFC 1951 section 3.2.6.
//
//	  0 - 143   8 bits   00110000  - 10111111
//	144 - 255   9 bits   110010000 - 111111111
func fixedLiteralCode(literal byte) (uint64, uint) {
	if literal <= 143 {
		return 0b00110000 + uint64(literal), 8
	}
	return 0b110010000 + uint64(literal-144), 9
}

// fixedEndOfBlockCode is the seven-bit code for symbol 256 in the fixed table.
const fixedEndOfBlockCode = 0b0000000

// EncodeFixed compresses `data` into a single, non-final DEFLATE block using the
// fixed Huffman codes. Every byte is coded as a literal. The returned block always
// ends on a byte boundary.
func EncodeFixed(data []byte) []byte {
	var bits BitBuffer

	bits.Push(0, 1) // BFINAL
	bits.Push(blockTypeFixed, 2)

	for _, literal := range data {
		bits.PushReversed(fixedLiteralCode(literal))
	}
	bits.PushReversed(fixedEndOfBlockCode, 7)

	bits.PadWithStoredBlock()
	return bits.Bytes()
}
