package zeroflate_test

import (
	"errors"
	"testing"

	"github.com/dargueta/zeroflate"
	"github.com/stretchr/testify/assert"
)

func TestErrorWithMessage(t *testing.T) {
	newErr := zeroflate.ErrInvalidArgument.WithMessage("asdfqwerty")
	assert.Equal(
		t, "Invalid argument: asdfqwerty", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, zeroflate.ErrInvalidArgument)
}

func TestErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := zeroflate.ErrIOFailed.Wrap(originalErr)
	expectedMessage := "Input/output error: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, zeroflate.ErrIOFailed, "sentinel not set as parent")
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.NotErrorIs(t, zeroflate.ErrNotFound, zeroflate.ErrInvalidArgument)
	assert.NotErrorIs(
		t,
		zeroflate.ErrChecksumMismatch.WithMessage("IDAT"),
		zeroflate.ErrCorruptedStream,
	)
}
