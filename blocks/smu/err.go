package smu

import (
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// ErrResult is a mailbox message the firmware did not accept.
type ErrResult struct {
	Socket  uint
	Message uint32
	Result  Result
}

func (err *ErrResult) Error() string {
	return f("smu: socket %v message 0x%02x: %v", err.Socket, err.Message, err.Result.String())
}

func (err *ErrResult) Unwrap() error {
	if err.Result == RESULT_UNKNOWN {
		return status.ErrInvalidParameter
	}
	return status.ErrDeviceError
}

// ErrRevision is a generation with no mailbox revision table.
type ErrRevision silicon.Generation

func (err ErrRevision) Error() string {
	return f("smu: no revision table for %v", silicon.Generation(err).String())
}

func (err ErrRevision) Unwrap() error {
	return status.ErrInvalidParameter
}
