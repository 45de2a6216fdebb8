package status

// ResetKind is the flavour of a deferred platform reset.
type ResetKind int

//go:generate go tool stringer -linecomment -type=ResetKind
const (
	RESET_NONE = ResetKind(0) // none
	RESET_WARM = ResetKind(1) // warm
	RESET_COLD = ResetKind(2) // cold
)

// ErrResetRequest is returned by a silicon block that needs a platform reset
// once every block has had its chance to initialize. It is a delayed success.
type ErrResetRequest ResetKind

func (err ErrResetRequest) Error() string {
	return f("%v reset requested", err.Kind().String())
}

// Kind of the requested reset. Anything other than warm is treated as cold.
func (err ErrResetRequest) Kind() ResetKind {
	if ResetKind(err) == RESET_WARM {
		return RESET_WARM
	}
	return RESET_COLD
}

func (err ErrResetRequest) Is(target error) (ok bool) {
	_, ok = target.(ErrResetRequest)
	return
}
