package trampoline

import (
	"errors"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

var (
	// Decode errors
	ErrCodeTruncated = errors.New(f("code truncated"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeMissing   = errors.New(f("argument missing"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrProgramTooLarge = errors.New(f("program too large"))
)

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", uint8(eo.Op))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrConfig rejects a trampoline configuration.
type ErrConfig string

func (err ErrConfig) Error() string {
	return f("trampoline: %v", string(err))
}

func (err ErrConfig) Unwrap() error {
	return status.ErrInvalidParameter
}
