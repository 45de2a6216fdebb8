package smu

import (
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/topology"
)

// Feature bits of the firmware feature mask.
const (
	FEATURE_CCLK_CONTROLLER = uint64(1) << 0
	FEATURE_FAN_CONTROLLER  = uint64(1) << 1
	FEATURE_CORE_CSTATES    = uint64(1) << 2
	FEATURE_CPPC            = uint64(1) << 3
	FEATURE_DF_CSTATES      = uint64(1) << 4
	FEATURE_PROCHOT         = uint64(1) << 5
)

// THREAD_FIELD_WIDTH is the width of each field of a packed thread.
const THREAD_FIELD_WIDTH = 4

// Revision is the mailbox protocol of one silicon generation. It is the
// block's revision-transfer table.
type Revision struct {
	GetVersion     uint32 // reply: args[0] firmware version
	GetFeatures    uint32 // reply: args[0] low, args[1] high feature mask
	EnableFeatures uint32 // args[0] low, args[1] high feature mask
	ReleaseThread  uint32 // args[0] packed thread, args[1] low, args[2] high start address

	// Bit positions of the packed thread fields.
	Die     uint8
	Ccd     uint8
	Complex uint8
	Core    uint8
	Thread  uint8
}

// Revisions keyed by silicon generation.
var Revisions = map[silicon.Generation]*Revision{
	silicon.GEN_FAM19: {
		GetVersion:     0x02,
		GetFeatures:    0x06,
		EnableFeatures: 0x05,
		ReleaseThread:  0x4b,
		Die:            16,
		Ccd:            12,
		Complex:        8,
		Core:           4,
		Thread:         0,
	},
	silicon.GEN_FAM1A: {
		GetVersion:     0x02,
		GetFeatures:    0x08,
		EnableFeatures: 0x07,
		ReleaseThread:  0x2a,
		Die:            28,
		Ccd:            20,
		Complex:        16,
		Core:           8,
		Thread:         0,
	},
}

// Lookup returns the revision table for gen.
func Lookup(gen silicon.Generation) (rev *Revision, err error) {
	rev, ok := Revisions[gen]
	if !ok {
		err = ErrRevision(gen)
	}
	return
}

func (rev *Revision) fields(coord *topology.Coordinate) []struct {
	shift uint8
	value *uint
} {
	return []struct {
		shift uint8
		value *uint
	}{
		{rev.Die, &coord.Die},
		{rev.Ccd, &coord.Ccd},
		{rev.Complex, &coord.Complex},
		{rev.Core, &coord.Core},
		{rev.Thread, &coord.Thread},
	}
}

// PackThread encodes the socket-relative part of coord.
func (rev *Revision) PackThread(coord topology.Coordinate) (packed uint32) {
	const mask = 1<<THREAD_FIELD_WIDTH - 1
	for _, field := range rev.fields(&coord) {
		packed |= (uint32(*field.value) & mask) << field.shift
	}
	return
}

// UnpackThread decodes a packed thread on socket.
func (rev *Revision) UnpackThread(socket uint, packed uint32) (coord topology.Coordinate) {
	const mask = 1<<THREAD_FIELD_WIDTH - 1
	coord.Socket = socket
	for _, field := range rev.fields(&coord) {
		*field.value = uint((packed >> field.shift) & mask)
	}
	return
}

// FeatureArgs splits a feature mask into argument registers.
func FeatureArgs(mask uint64) (args Args) {
	args[0] = uint32(mask)
	args[1] = uint32(mask >> 32)
	return
}

// FeatureMask joins a feature mask from argument registers.
func FeatureMask(args Args) uint64 {
	return uint64(args[0]) | uint64(args[1])<<32
}
