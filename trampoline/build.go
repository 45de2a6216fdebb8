package trampoline

import (
	"encoding/binary"
)

// Config of an image.
type Config struct {
	Base         uint64         // Physical base of the reset-vector region.
	EntryAddress uint64         // Linked address of the shared entry function.
	StateAddress uint64         // Address of the rendezvous state.
	Descriptors  []byte         // Segment-descriptor table of the bootstrap thread.
	RegisterSync []RegisterSync // Registers copied from the bootstrap thread.
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Base%RESET_REGION_SIZE != 0:
		return ErrConfig(f("base 0x%x not region aligned", cfg.Base))
	case cfg.EntryAddress == 0:
		return ErrConfig(f("entry address missing"))
	case cfg.StateAddress == 0:
		return ErrConfig(f("state address missing"))
	case len(cfg.Descriptors) == 0 || len(cfg.Descriptors) > GDT_LIMIT:
		return ErrConfig(f("descriptor table of %v bytes", len(cfg.Descriptors)))
	case len(cfg.RegisterSync) > SYNC_LIMIT:
		return ErrConfig(f("sync list of %v entries", len(cfg.RegisterSync)))
	}
	return nil
}

// JumpStub encodes a near jump placed at RESET_VECTOR to a region offset.
func JumpStub(target int) (stub [JUMP_STUB_SIZE]byte) {
	rel := uint16(target - (RESET_VECTOR + JUMP_STUB_SIZE))
	stub[0] = OP_JMP_NEAR
	binary.LittleEndian.PutUint16(stub[1:], rel)
	return
}

// JumpTarget decodes a jump stub, returning the region offset it lands on.
func JumpTarget(stub []byte) (target int, ok bool) {
	if len(stub) < JUMP_STUB_SIZE || stub[0] != OP_JMP_NEAR {
		return
	}
	rel := binary.LittleEndian.Uint16(stub[1:])
	target = int(uint16(RESET_VECTOR + JUMP_STUB_SIZE + rel))
	ok = target < RESET_REGION_SIZE
	return
}

// Build produces the region image for cfg. It has no side effects.
func Build(cfg Config) (image []byte, layout Layout, err error) {
	err = cfg.validate()
	if err != nil {
		return
	}

	prog, err := Startup()
	if err != nil {
		return
	}

	le := binary.LittleEndian
	image = make([]byte, RESET_REGION_SIZE)

	copy(image[OFFSET_STARTUP:], prog.Binary())
	le.PutUint64(image[OFFSET_ENTRY_PTR:], cfg.EntryAddress)
	le.PutUint64(image[OFFSET_STATE_PTR:], cfg.StateAddress)

	limit := uint16(len(cfg.Descriptors) - 1)
	le.PutUint16(image[OFFSET_GDTR:], limit)
	le.PutUint64(image[OFFSET_GDTR+2:], cfg.Base+OFFSET_GDT)
	copy(image[OFFSET_GDT:], cfg.Descriptors)

	copy(image[OFFSET_SYNC:], EncodeSyncList(cfg.RegisterSync))

	stub := JumpStub(prog.Label["start"])
	copy(image[RESET_VECTOR:], stub[:])

	layout = Layout{
		Base:            cfg.Base,
		ResetVector:     cfg.Base + RESET_VECTOR,
		Descriptors:     cfg.Base + OFFSET_GDT,
		DescriptorLimit: limit,
		SyncList:        cfg.Base + OFFSET_SYNC,
		SyncCount:       uint32(len(cfg.RegisterSync)),
	}

	return
}
