package bringup

import (
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// ErrNotBootstrap is returned when the sequencer runs on any thread but the
// bootstrap thread.
type ErrNotBootstrap struct{}

func (err ErrNotBootstrap) Error() string {
	return f("bringup: not running on the bootstrap thread")
}

func (err ErrNotBootstrap) Unwrap() error {
	return status.ErrDeviceError
}

// ErrRendezvous is a thread that did not acknowledge its launch as expected.
type ErrRendezvous struct {
	Coordinate topology.Coordinate
	Ordinal    uint32 // Expected acknowledgement count.
	Ack        uint32 // Observed acknowledgement count.
}

func (err *ErrRendezvous) Error() string {
	if err.Ack < err.Ordinal {
		return f("bringup: thread %v did not reach rendezvous", err.Coordinate.String())
	}
	return f("bringup: thread %v acknowledged out of order", err.Coordinate.String())
}

func (err *ErrRendezvous) Unwrap() error {
	if err.Ack < err.Ordinal {
		return status.ErrTimeout
	}
	return status.ErrDeviceError
}

// ErrState rejects a rendezvous state location or its contents.
type ErrState string

func (err ErrState) Error() string {
	return f("bringup: state %v", string(err))
}

func (err ErrState) Unwrap() error {
	return status.ErrInvalidParameter
}
