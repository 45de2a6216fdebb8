package trampoline

import (
	"strings"
	"sync"
)

// startupSource walks a thread arriving in real mode up to long mode and
// into the shared entry function. The jump stub at RESET_VECTOR lands on
// 'start'.
const startupSource = `
; Startup program for threads released at the reset vector.
.equ PTR   8
.equ ENTRY OFFSET_ENTRY_PTR
.equ STATE $(ENTRY + PTR)       ; pointer slots are packed after the entry
.equ GDTR  $(STATE + PTR)

start:
	lgdt   GDTR            ; descriptors copied from the bootstrap thread
	prot32
	long64
	state  STATE
	call   ENTRY
park:
	halt
`

var (
	startupOnce sync.Once
	startupProg *Program
	startupErr  error
)

// Startup returns the assembled startup program.
func Startup() (prog *Program, err error) {
	startupOnce.Do(func() {
		asm := &Assembler{Origin: OFFSET_STARTUP}
		startupProg, startupErr = asm.Parse(strings.NewReader(startupSource))
		if startupErr == nil && startupProg.Size() > STARTUP_LIMIT {
			startupErr = ErrProgramTooLarge
		}
	})

	return startupProg, startupErr
}
