package boot

import (
	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/capability"
)

// Callback is an initialize or API registration hook of a silicon block.
type Callback func(sess *Session) error

// PopulateFunc fills the freshly allocated block with its default configuration.
type PopulateFunc func(sess *Session, block arena.Block) error

// Record describes one silicon block in a timepoint table.
type Record struct {
	ID    capability.BlockID // Block identifier, also the arena tag of its data.
	Size  uint32             // Payload bytes to allocate at timepoint 1.
	Major uint8              // Payload layout revision.
	Minor uint8

	Populate    PopulateFunc // Optional.
	Initialize  Callback     // Optional.
	RegisterApi Callback     // Optional.
}

// Table is the ordered list of blocks for a single timepoint.
type Table []Record

// Tables holds the table for each timepoint of a platform.
type Tables map[Timepoint]Table

// QueryMemoryRequirements returns the number of bytes the host must reserve
// for the arena, rounded to a 2 KiB boundary.
func QueryMemoryRequirements(tables Tables) uint64 {
	var sizes []uint32
	for _, rec := range tables[TIMEPOINT_1] {
		sizes = append(sizes, rec.Size)
	}

	return arena.Requirement(sizes...)
}
