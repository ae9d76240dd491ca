package zeroflate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type ZeroflateError interface {
	error
	WithMessage(message string) ZeroflateError
	Wrap(err error) ZeroflateError
}

type baseError string

const rootError = baseError("")

var ErrChecksumMismatch = rootError.WithMessage("Checksum mismatch")
var ErrCorruptedStream = rootError.WithMessage("Compressed stream is corrupted")
var ErrImageTooLarge = rootError.WithMessage("Image too large")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrInvalidImage = rootError.WithMessage("Invalid image")
var ErrIOFailed = rootError.WithMessage("Input/output error")
var ErrNotFound = rootError.WithMessage("Not found")
var ErrStreamFinalized = rootError.WithMessage("Stream already finalized")

func (e baseError) Error() string {
	return string(e)
}

func (e baseError) WithMessage(message string) ZeroflateError {
	return customError{
		message:       message,
		originalError: e,
	}
}

func (e baseError) Wrap(err error) ZeroflateError {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customError) Error() string {
	return e.message
}

func (e customError) WithMessage(message string) ZeroflateError {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customError) Wrap(err error) ZeroflateError {
	return customError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customError) Unwrap() error {
	return e.originalError
}
