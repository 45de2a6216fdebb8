package boot

import (
	"github.com/ezrec/silicon/status"
)

// ResetArbiter collects deferred reset requests so the platform resets once.
// Cold always wins over warm; any unknown request is treated as cold.
type ResetArbiter struct {
	pending status.ResetKind
}

// Request records a deferred reset of kind.
func (ra *ResetArbiter) Request(kind status.ResetKind) {
	switch kind {
	case status.RESET_WARM:
		if ra.pending == status.RESET_NONE {
			ra.pending = status.RESET_WARM
		}
	default:
		ra.pending = status.RESET_COLD
	}
}

// Kind of the pending reset.
func (ra *ResetArbiter) Kind() status.ResetKind {
	return ra.pending
}

// Pending returns the deferred reset as an error, or nil if none was requested.
func (ra *ResetArbiter) Pending() error {
	if ra.pending == status.RESET_NONE {
		return nil
	}
	return status.ErrResetRequest(ra.pending)
}
