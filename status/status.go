// Package status holds the error taxonomy shared by every silicon block,
// and maps errors onto the numeric result codes returned to host firmware.
package status

import (
	"errors"

	"github.com/ezrec/silicon/translate"
)

var f = translate.From

var (
	ErrAborted          = errors.New(f("aborted"))
	ErrNotFound         = errors.New(f("not found"))
	ErrNoSpace          = errors.New(f("out of resources"))
	ErrInvalidParameter = errors.New(f("invalid parameter"))
	ErrDeviceError      = errors.New(f("device error"))
	ErrTimeout          = errors.New(f("timeout"))
)

// Status is the numeric result code handed back to host firmware.
type Status uint32

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_PASS               = Status(0) // pass
	STATUS_ABORTED            = Status(1) // aborted
	STATUS_NOT_FOUND          = Status(2) // not-found
	STATUS_OUT_OF_RESOURCES   = Status(3) // out-of-resources
	STATUS_INVALID_PARAMETER  = Status(4) // invalid-parameter
	STATUS_DEVICE_ERROR       = Status(5) // device-error
	STATUS_TIMEOUT            = Status(6) // timeout
	STATUS_RESET_REQUEST_WARM = Status(7) // reset-warm
	STATUS_RESET_REQUEST_COLD = Status(8) // reset-cold
)

// Of returns the result code for err. Unknown errors are reported as aborted.
func Of(err error) Status {
	if err == nil {
		return STATUS_PASS
	}

	var rr ErrResetRequest
	if errors.As(err, &rr) {
		if rr.Kind() == RESET_WARM {
			return STATUS_RESET_REQUEST_WARM
		}
		return STATUS_RESET_REQUEST_COLD
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return STATUS_NOT_FOUND
	case errors.Is(err, ErrNoSpace):
		return STATUS_OUT_OF_RESOURCES
	case errors.Is(err, ErrInvalidParameter):
		return STATUS_INVALID_PARAMETER
	case errors.Is(err, ErrDeviceError):
		return STATUS_DEVICE_ERROR
	case errors.Is(err, ErrTimeout):
		return STATUS_TIMEOUT
	}

	return STATUS_ABORTED
}

// IsReset is true if err is a deferred reset request rather than a failure.
func IsReset(err error) bool {
	var rr ErrResetRequest
	return errors.As(err, &rr)
}
