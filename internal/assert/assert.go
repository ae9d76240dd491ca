// Package assert panics on violated internal invariants. A failed assertion means
// the encoder is about to produce a corrupt stream, so there is nothing to recover.
package assert

import (
	"fmt"
	"runtime/debug"
)

func Assert(condition bool) {
	if !condition {
		panic("assertion failed:\n" + string(debug.Stack()))
	}
}

func Assertf(condition bool, format string, args ...any) {
	if !condition {
		message := fmt.Sprintf(format, args...)
		panic("assertion failed: " + message + "\n" + string(debug.Stack()))
	}
}
