package trampoline

import (
	"encoding/binary"
	"fmt"
)

// CodeOp is a startup program operation.
type CodeOp uint8

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_HALT   = CodeOp(0) // halt
	OP_LGDT   = CodeOp(1) // lgdt
	OP_PROT32 = CodeOp(2) // prot32
	OP_LONG64 = CodeOp(3) // long64
	OP_STATE  = CodeOp(4) // state
	OP_CALL   = CodeOp(5) // call
)

// CODE_SIZE is the encoded size of every Code.
const CODE_SIZE = 3

// HasArg is true if the operation takes a region offset.
func (op CodeOp) HasArg() bool {
	switch op {
	case OP_LGDT, OP_STATE, OP_CALL:
		return true
	}
	return false
}

// Mode is the execution stage a thread is in.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_REAL16 = Mode(0) // real16
	MODE_PROT32 = Mode(1) // prot32
	MODE_LONG64 = Mode(2) // long64
)

// Code is a single startup program step.
//
//	lgdt   OFFSET  ; Load the GDTR pseudo-descriptor at region OFFSET.
//	prot32         ; Enter 32-bit protected mode (needs a GDT).
//	long64         ; Enter 64-bit long mode (needs protected mode).
//	state  OFFSET  ; Load the rendezvous-state pointer from region OFFSET.
//	call   OFFSET  ; Call the entry function whose pointer is at region OFFSET.
//	halt           ; Stop fetching.
type Code struct {
	Op  CodeOp
	Arg uint16 // Region offset, for operations that take one.
}

// MakeCode creates a startup program step.
func MakeCode(op CodeOp, arg uint16) Code {
	if !op.HasArg() {
		arg = 0
	}
	return Code{Op: op, Arg: arg}
}

// Encode writes the code into buf, which must hold CODE_SIZE bytes.
func (code Code) Encode(buf []byte) {
	buf[0] = byte(code.Op)
	binary.LittleEndian.PutUint16(buf[1:], code.Arg)
}

// DecodeCode reads a code from buf.
func DecodeCode(buf []byte) (code Code, err error) {
	if len(buf) < CODE_SIZE {
		err = ErrCodeTruncated
		return
	}
	code = Code{
		Op:  CodeOp(buf[0]),
		Arg: binary.LittleEndian.Uint16(buf[1:]),
	}
	if code.Op > OP_CALL {
		err = ErrOpcode(code)
		return
	}
	return
}

// String returns the assembly language representation of this step.
func (code Code) String() string {
	if code.Op.HasArg() {
		return fmt.Sprintf("%v 0x%03x", code.Op.String(), code.Arg)
	}
	return code.Op.String()
}
