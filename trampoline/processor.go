package trampoline

// Memory is the physical address space as seen by a hardware thread.
type Memory interface {
	// Slice returns the bytes backing [addr, addr+size). Writes through the
	// slice are visible to every thread.
	Slice(addr uint64, size int) ([]byte, error)
}

// Processor is what a released thread can do to itself once it has reached
// the shared entry function.
type Processor interface {
	// Memory of the system.
	Memory() Memory
	// LoadDescriptorTable points the thread at a segment-descriptor table.
	LoadDescriptorTable(base uint64, limit uint16) error
	// WriteRegister sets a model specific or control register.
	WriteRegister(index uint32, value uint64) error
}

// Entry is the shared function every released thread calls, with the
// address of the rendezvous state.
type Entry func(proc Processor, state uint64) error

// Linker gives an entry function an address the startup program can call.
type Linker interface {
	Link(entry Entry) (address uint64)
}
