package trampoline

const (
	RESET_REGION_BASE = 0x000f_f000 // Default physical base of the region.
	RESET_REGION_SIZE = 0x1000      // Bytes in the region.
	RESET_VECTOR      = 0xff0       // Offset of the reset vector in the region.

	OFFSET_STARTUP   = 0x000 // Startup program.
	OFFSET_ENTRY_PTR = 0x100 // u64 address of the shared entry function.
	OFFSET_STATE_PTR = 0x108 // u64 address of the rendezvous state.
	OFFSET_GDTR      = 0x110 // u16 limit, u64 base.
	OFFSET_GDT       = 0x200 // Segment descriptors.
	OFFSET_SYNC      = 0x400 // Register synchronization list.

	STARTUP_LIMIT   = OFFSET_ENTRY_PTR - OFFSET_STARTUP // Bytes available to the startup program.
	GDTR_SIZE       = 10
	GDT_LIMIT       = OFFSET_SYNC - OFFSET_GDT // Bytes available to descriptors.
	SYNC_HEADER     = 8                        // u32 count, u32 reserved.
	SYNC_ENTRY_SIZE = 16                       // u32 index, u32 reserved, u64 value.
	SYNC_LIMIT      = 64                       // Entries in the sync list.
	JUMP_STUB_SIZE  = 3                        // jmp rel16

	OP_JMP_NEAR = 0xe9 // x86 near jump, rel16 in real mode.
)

// Slot is a fixed range of the template.
type Slot struct {
	Name   string
	Offset int
	Size   int
}

// End is the first offset past the slot.
func (slot Slot) End() int {
	return slot.Offset + slot.Size
}

// Slots of the template, in address order.
func Slots() []Slot {
	return []Slot{
		{"startup", OFFSET_STARTUP, STARTUP_LIMIT},
		{"entry", OFFSET_ENTRY_PTR, 8},
		{"state", OFFSET_STATE_PTR, 8},
		{"gdtr", OFFSET_GDTR, GDTR_SIZE},
		{"gdt", OFFSET_GDT, GDT_LIMIT},
		{"sync", OFFSET_SYNC, SYNC_HEADER + SYNC_LIMIT*SYNC_ENTRY_SIZE},
		{"reset", RESET_VECTOR, JUMP_STUB_SIZE},
	}
}

// Layout records where an installed image put things, as physical addresses.
type Layout struct {
	Base            uint64 // Region base.
	ResetVector     uint64 // Address threads are released at.
	Descriptors     uint64 // Segment-descriptor table.
	DescriptorLimit uint16 // Size of the descriptor table, less one.
	SyncList        uint64 // Register synchronization list header.
	SyncCount       uint32 // Entries in the synchronization list.
}
