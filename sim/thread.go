// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sim

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

// MAX_TICKS bounds a startup program run.
const MAX_TICKS = 64

// Thread is a simulated hardware thread.
type Thread struct {
	Log   zerolog.Logger
	Coord topology.Coordinate

	Mode      trampoline.Mode
	Ip        uint64 // Physical fetch address.
	Halted    bool
	Ticks     int
	Gdt       uint64 // Descriptor table base.
	GdtLimit  uint16
	State     uint64 // Rendezvous-state address loaded by the startup program.
	Registers map[uint32]uint64

	memory *Memory
	linker *Linker
}

var (
	_ trampoline.Processor = (*Thread)(nil)
	_ bringup.Bootstrap    = (*Thread)(nil)
)

func newThread(log zerolog.Logger, coord topology.Coordinate, memory *Memory, linker *Linker) *Thread {
	return &Thread{
		Log:       log.With().Stringer("thread", coord).Logger(),
		Coord:     coord,
		Registers: make(map[uint32]uint64),
		memory:    memory,
		linker:    linker,
	}
}

// Reset puts the thread in real mode, fetching from vector.
func (th *Thread) Reset(vector uint64) {
	th.Log.Debug().Uint64("vector", vector).Msg("reset")

	th.Mode = trampoline.MODE_REAL16
	th.Ip = vector
	th.Halted = false
	th.Ticks = 0
	th.Gdt = 0
	th.GdtLimit = 0
	th.State = 0
	clear(th.Registers)
}

// region is the base of the reset-vector region being executed.
func (th *Thread) region() uint64 {
	return th.Ip &^ (trampoline.RESET_REGION_SIZE - 1)
}

// readU64 reads a pointer slot of the region.
func (th *Thread) readU64(offset uint16) (value uint64, err error) {
	buf, err := th.memory.Slice(th.region()+uint64(offset), 8)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint64(buf)
	return
}

// FetchCode decodes the step at Ip.
func (th *Thread) FetchCode() (code trampoline.Code, err error) {
	if th.Halted {
		err = ErrHalted
		return
	}

	buf, err := th.memory.Slice(th.Ip, trampoline.CODE_SIZE)
	if err != nil {
		return
	}

	code, err = trampoline.DecodeCode(buf)
	return
}

// Tick executes a single step. At the reset vector that is the jump stub.
func (th *Thread) Tick() (err error) {
	defer func() {
		var fault *ErrFault
		if err != nil && !errors.As(err, &fault) {
			err = &ErrFault{Coordinate: th.Coord, Ip: th.Ip, Mode: th.Mode, Err: err}
		}
	}()

	th.Ticks++

	if th.Ip%trampoline.RESET_REGION_SIZE == trampoline.RESET_VECTOR && th.Mode == trampoline.MODE_REAL16 {
		var stub []byte
		stub, err = th.memory.Slice(th.Ip, trampoline.JUMP_STUB_SIZE)
		if err != nil {
			return
		}
		target, ok := trampoline.JumpTarget(stub)
		if !ok {
			err = ErrNoStub
			return
		}
		th.Log.Debug().Int("target", target).Msg("jmp")
		th.Ip = th.region() + uint64(target)
		return
	}

	code, err := th.FetchCode()
	if err != nil {
		return
	}

	return th.Execute(code)
}

// Execute runs one startup program step.
func (th *Thread) Execute(code trampoline.Code) (err error) {
	th.Log.Debug().Uint64("ip", th.Ip).Stringer("mode", th.Mode).Msg(code.String())

	next := th.Ip + trampoline.CODE_SIZE

	switch code.Op {
	case trampoline.OP_HALT:
		th.Halted = true
		return
	case trampoline.OP_LGDT:
		var buf []byte
		buf, err = th.memory.Slice(th.region()+uint64(code.Arg), trampoline.GDTR_SIZE)
		if err != nil {
			return
		}
		le := binary.LittleEndian
		err = th.LoadDescriptorTable(le.Uint64(buf[2:]), le.Uint16(buf[0:]))
	case trampoline.OP_PROT32:
		if th.Mode != trampoline.MODE_REAL16 || th.GdtLimit == 0 {
			err = ErrMode
			return
		}
		th.Mode = trampoline.MODE_PROT32
	case trampoline.OP_LONG64:
		if th.Mode != trampoline.MODE_PROT32 {
			err = ErrMode
			return
		}
		th.Mode = trampoline.MODE_LONG64
	case trampoline.OP_STATE:
		if th.Mode != trampoline.MODE_LONG64 {
			err = ErrMode
			return
		}
		th.State, err = th.readU64(code.Arg)
	case trampoline.OP_CALL:
		if th.Mode != trampoline.MODE_LONG64 {
			err = ErrMode
			return
		}
		var addr uint64
		addr, err = th.readU64(code.Arg)
		if err != nil {
			return
		}
		entry, ok := th.linker.Lookup(addr)
		if !ok {
			err = ErrNoEntry
			return
		}
		err = entry(th, th.State)
		// The entry function does not return on hardware; the thread parks,
		// and the region may already be restored under it.
		th.Halted = true
		return
	}
	if err != nil {
		return
	}

	th.Ip = next
	return
}

// Run ticks until the thread halts.
func (th *Thread) Run(ctx context.Context) (err error) {
	for !th.Halted {
		err = ctx.Err()
		if err != nil {
			return
		}
		if th.Ticks >= MAX_TICKS {
			err = &ErrFault{Coordinate: th.Coord, Ip: th.Ip, Mode: th.Mode, Err: ErrRunaway}
			return
		}
		err = th.Tick()
		if err != nil {
			return
		}
	}
	return
}

func (th *Thread) Memory() trampoline.Memory {
	return th.memory
}

func (th *Thread) LoadDescriptorTable(base uint64, limit uint16) (err error) {
	_, err = th.memory.Slice(base, int(limit)+1)
	if err != nil {
		return
	}
	th.Gdt = base
	th.GdtLimit = limit
	return
}

func (th *Thread) WriteRegister(index uint32, value uint64) error {
	th.Registers[index] = value
	return nil
}

func (th *Thread) IsBootstrap() bool {
	return th.Coord.IsBootstrap()
}

func (th *Thread) ReadRegister(index uint32) (value uint64, err error) {
	value, ok := th.Registers[index]
	if !ok {
		err = status.ErrNotFound
	}
	return
}

func (th *Thread) Descriptors() (gdt []byte, err error) {
	if th.GdtLimit == 0 {
		err = ErrMode
		return
	}
	buf, err := th.memory.Slice(th.Gdt, int(th.GdtLimit)+1)
	if err != nil {
		return
	}
	gdt = bytes.Clone(buf)
	return
}
