package sparse

import (
	"bufio"
	"errors"
	"io"
)

// MaxLiteralSize is the largest literal segment a RunGrouper returns at once.
const MaxLiteralSize = 64 * 1024

// Run is one segment of the input: either a run of Zeroes null bytes, or literal Data.
// Exactly one of the two is set for a valid run.
type Run struct {
	Data   []byte
	Zeroes int64
}

// IsZeroRun returns true if the run is a run of null bytes.
func (r Run) IsZeroRun() bool {
	return r.Zeroes > 0
}

// Len gives the number of input bytes the run covers.
func (r Run) Len() int64 {
	return int64(len(r.Data)) + r.Zeroes
}

// RunGrouper splits a stream into literal segments and runs of null bytes at least
// minZeroRun bytes long.
type RunGrouper struct {
	rd         *bufio.Reader
	minZeroRun int
	// pendingZeroes is the length of a zero run found at the end of the last literal
	// segment returned. The run may continue past it.
	pendingZeroes int64
}

func NewRunGrouper(rd io.Reader, minZeroRun int) *RunGrouper {
	if minZeroRun < 1 {
		minZeroRun = 1
	}
	return &RunGrouper{rd: bufio.NewReader(rd), minZeroRun: minZeroRun}
}

// GetNextRun returns the next [Run] in the stream. At the end of the stream it returns
// an empty run and io.EOF.
func (grouper *RunGrouper) GetNextRun() (Run, error) {
	if grouper.pendingZeroes > 0 {
		return grouper.finishZeroRun()
	}

	literal := make([]byte, 0, 512)
	zeroStreak := 0
	for len(literal) < MaxLiteralSize {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Run{}, err
			}
			if len(literal) == 0 {
				return Run{}, io.EOF
			}
			return Run{Data: literal}, nil
		}

		literal = append(literal, currentByte)
		if currentByte != 0 {
			zeroStreak = 0
			continue
		}

		zeroStreak++
		if zeroStreak == grouper.minZeroRun {
			// Long enough to split out. Take the zeroes back off the literal and
			// return what came before them, if anything.
			literal = literal[:len(literal)-zeroStreak]
			grouper.pendingZeroes = int64(zeroStreak)
			if len(literal) > 0 {
				return Run{Data: literal}, nil
			}
			return grouper.finishZeroRun()
		}
	}
	return Run{Data: literal}, nil
}

// finishZeroRun reads null bytes until a non-null byte or EOF, and returns the zero run
// including any pending zeroes.
func (grouper *RunGrouper) finishZeroRun() (Run, error) {
	runLength := grouper.pendingZeroes
	grouper.pendingZeroes = 0

	for {
		currentByte, err := grouper.rd.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Run{}, err
		}
		if currentByte != 0 {
			// Hit a different byte, back up and return.
			grouper.rd.UnreadByte()
			break
		}
		runLength++
	}
	return Run{Zeroes: runLength}, nil
}
