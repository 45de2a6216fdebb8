// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package ccx

import (
	"encoding/binary"

	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

// ID of the core-complex block.
var ID = capability.Name(0x0000_0cc0, "ccx")

// Block is the core-complex silicon block.
type Block struct {
	Bootstrap bringup.Bootstrap
	Memory    trampoline.Memory
	Linker    trampoline.Linker
	Limits    topology.Limits // DefaultLimits if zero.
	Region    uint64          // Reset-vector region, default if zero.
}

// Record returns the table record of the block. Only timepoint 1 has work.
func (blk *Block) Record(tp boot.Timepoint) (rec boot.Record) {
	rec = boot.Record{ID: ID}

	if tp == boot.TIMEPOINT_1 {
		rec.Size = PAYLOAD_SIZE
		rec.Populate = blk.populate
		rec.Initialize = blk.initialize
	}

	return
}

func (blk *Block) populate(sess *boot.Session, block arena.Block) error {
	cfg := Defaults()
	return cfg.Encode(block.Data)
}

// initialize runs bring-up with the configuration left in the payload.
func (blk *Block) initialize(sess *boot.Session) (err error) {
	block, err := sess.FindBlock(ID, 0)
	if err != nil {
		return
	}

	cfg, err := Decode(block.Data)
	if err != nil {
		return
	}

	fabric, err := capability.Api[topology.Fabric](sess.Capability, df.ID)
	if err != nil {
		return
	}

	releaser, err := capability.Api[bringup.Releaser](sess.Capability, smu.ID)
	if err != nil {
		return
	}

	limits := blk.Limits
	if limits == (topology.Limits{}) {
		limits = topology.DefaultLimits
	}

	seq := &bringup.Sequencer{
		Log:           sess.Log.With().Stringer("block", ID).Logger(),
		Bootstrap:     blk.Bootstrap,
		Fabric:        fabric,
		Releaser:      releaser,
		Memory:        blk.Memory,
		Linker:        blk.Linker,
		Limits:        limits,
		Region:        blk.Region,
		StateAddress:  block.Address + PAYLOAD_STATE,
		SyncRegisters: cfg.SyncRegisters,
		Timeout:       cfg.Timeout,
		Resume:        cfg.Resume,
	}

	err = seq.Run()
	binary.LittleEndian.PutUint32(block.Data[PAYLOAD_LAUNCHED:], seq.Launched)

	return
}
