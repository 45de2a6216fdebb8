package boot

import (
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// ErrBlock reports which block failed in which phase.
type ErrBlock struct {
	Block capability.BlockID
	Phase string
	Err   error
}

func (err *ErrBlock) Error() string {
	return f("%v %v: %v", err.Block, err.Phase, err.Err)
}

func (err *ErrBlock) Unwrap() error {
	return err.Err
}

// ErrTimepoint reports a timepoint the session cannot service.
type ErrTimepoint struct {
	Timepoint Timepoint
	Reason    string
}

func (err *ErrTimepoint) Error() string {
	return f("%v: %v", err.Timepoint, err.Reason)
}

func (err *ErrTimepoint) Unwrap() error {
	return status.ErrInvalidParameter
}
