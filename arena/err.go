package arena

import (
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// ErrNoSpace is returned when an allocation does not fit in the arena.
type ErrNoSpace struct {
	Tag  Tag
	Need uint64
	Free uint64
}

func (err *ErrNoSpace) Error() string {
	return f("arena: %v needs %d bytes, %d free", err.Tag, err.Need, err.Free)
}

func (err *ErrNoSpace) Unwrap() error {
	return status.ErrNoSpace
}

// ErrBlockMissing is returned by Find when no block matches.
type ErrBlockMissing struct {
	Tag      Tag
	Instance uint16
}

func (err *ErrBlockMissing) Error() string {
	return f("arena: block %v instance %d missing", err.Tag, err.Instance)
}

func (err *ErrBlockMissing) Unwrap() error {
	return status.ErrNotFound
}

// ErrBlockDuplicate is returned when a (tag, instance) pair is allocated twice.
type ErrBlockDuplicate struct {
	Tag      Tag
	Instance uint16
}

func (err *ErrBlockDuplicate) Error() string {
	return f("arena: block %v instance %d duplicated", err.Tag, err.Instance)
}

func (err *ErrBlockDuplicate) Unwrap() error {
	return status.ErrInvalidParameter
}

// ErrArenaInvalid describes a host region that cannot hold or does not hold
// an arena.
type ErrArenaInvalid string

func (err ErrArenaInvalid) Error() string {
	return f("arena: %v", string(err))
}

func (err ErrArenaInvalid) Unwrap() error {
	return status.ErrInvalidParameter
}
