// Package sparse compresses mostly-empty data into zlib streams.
//
// Large files such as disk images or raw bitmaps are often dominated by long stretches
// of null bytes. General-purpose compressors still have to look at every one of those
// bytes and emit a match for each 258 of them. Here the input is first split into
// literal segments and runs of zeroes; the zero runs are handed to
// [zlibstream.Stream.PushZeroes], which encodes them in time and memory independent of
// their length, and only the literal segments are coded byte by byte.
//
// Runs shorter than the configured minimum are left inside the surrounding literal
// segment. Below [DefaultMinZeroRun] a zero run costs as much as the literal bytes it
// replaces, so there's nothing to gain by splitting them out.
package sparse
