package df

import (
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// ErrRevision is a generation with no fabric revision table.
type ErrRevision silicon.Generation

func (err ErrRevision) Error() string {
	return f("df: no revision table for %v", silicon.Generation(err).String())
}

func (err ErrRevision) Unwrap() error {
	return status.ErrInvalidParameter
}

// ErrStrap is a topology that does not fit the revision's register fields.
type ErrStrap string

func (err ErrStrap) Error() string {
	return f("df: strap %v", string(err))
}

func (err ErrStrap) Unwrap() error {
	return status.ErrInvalidParameter
}
