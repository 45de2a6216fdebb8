package sim

import (
	"errors"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

var (
	ErrHalted  = errors.New(f("thread halted"))
	ErrRunaway = errors.New(f("thread did not halt"))
	ErrMode    = errors.New(f("operation invalid in this mode"))
	ErrNoStub  = errors.New(f("no jump stub at the reset vector"))
	ErrNoEntry = errors.New(f("call to unlinked address"))
)

// ErrUnmapped is an access outside every mapped region.
type ErrUnmapped struct {
	Addr uint64
	Size int
}

func (err *ErrUnmapped) Error() string {
	return f("access of %v bytes at 0x%x unmapped", err.Size, err.Addr)
}

func (err *ErrUnmapped) Unwrap() error {
	return status.ErrDeviceError
}

// ErrOverlap is a mapping that overlaps an existing region.
type ErrOverlap uint64

func (err ErrOverlap) Error() string {
	return f("mapping at 0x%x overlaps", uint64(err))
}

func (err ErrOverlap) Unwrap() error {
	return status.ErrInvalidParameter
}

// ErrFault is a simulated thread that could not execute its startup program.
type ErrFault struct {
	Coordinate topology.Coordinate
	Ip         uint64
	Mode       trampoline.Mode
	Err        error
}

func (err *ErrFault) Error() string {
	return f("thread %v fault at 0x%x (%v): %v", err.Coordinate.String(), err.Ip, err.Mode.String(), err.Err)
}

func (err *ErrFault) Unwrap() []error {
	return []error{status.ErrDeviceError, err.Err}
}

// ErrBus is a fabric register access outside the simulated topology.
type ErrBus struct {
	Socket uint
	Die    uint
}

func (err *ErrBus) Error() string {
	return f("no fabric die %v on socket %v", err.Die, err.Socket)
}

func (err *ErrBus) Unwrap() error {
	return status.ErrDeviceError
}
