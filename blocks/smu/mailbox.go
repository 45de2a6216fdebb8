// Package smu is the power-management silicon block. It talks to the
// system management unit firmware through a per-socket mailbox, enables the
// platform features the boot needs, and publishes the capability that
// releases a hardware thread from reset.
package smu

// MAILBOX_ARGS is the number of argument registers of a mailbox.
const MAILBOX_ARGS = 6

// Args are the mailbox argument registers. Replies overwrite them.
type Args [MAILBOX_ARGS]uint32

// Result is the response register of a mailbox.
type Result uint32

//go:generate go tool stringer -linecomment -type=Result
const (
	RESULT_NONE     = Result(0x00) // none
	RESULT_OK       = Result(0x01) // ok
	RESULT_BUSY     = Result(0xfc) // busy
	RESULT_REJECTED = Result(0xfd) // rejected
	RESULT_UNKNOWN  = Result(0xfe) // unknown-message
	RESULT_FAILED   = Result(0xff) // failed
)

// Mailbox is the message interface to the firmware of one socket.
type Mailbox interface {
	// Call sends message with args, and returns the firmware's response.
	// The reply is left in args.
	Call(socket uint, message uint32, args *Args) (Result, error)
}

// call sends a message and turns any response but RESULT_OK into an error.
func call(mb Mailbox, socket uint, message uint32, args *Args) (err error) {
	result, err := mb.Call(socket, message, args)
	if err != nil {
		return
	}
	if result != RESULT_OK {
		err = &ErrResult{Socket: socket, Message: message, Result: result}
	}
	return
}
