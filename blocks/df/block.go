// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package df

import (
	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/internal"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/topology"
)

// ID of the data-fabric block.
var ID = capability.Name(0x0000_0df0, "df")

// Block is the data-fabric silicon block.
type Block struct {
	Bus      RegisterBus
	Revision Revision
	Limits   topology.Limits
}

// New selects the revision table for gen.
func New(gen silicon.Generation, bus RegisterBus) (blk *Block, err error) {
	rev, err := Lookup(gen)
	if err != nil {
		return
	}

	blk = &Block{
		Bus:      bus,
		Revision: rev,
		Limits:   topology.DefaultLimits,
	}
	return
}

// Record returns the table record of the block for tp.
func (blk *Block) Record(tp boot.Timepoint) (rec boot.Record) {
	rec = boot.Record{
		ID:          ID,
		RegisterApi: blk.registerApi,
	}

	switch tp {
	case boot.TIMEPOINT_1:
		rec.Size = ReportSize(blk.Limits)
		rec.Initialize = blk.report
	case boot.TIMEPOINT_3:
		rec.Initialize = blk.lock
	}

	return
}

func (blk *Block) registerApi(sess *boot.Session) (err error) {
	sess.Capability.RegisterXfer(ID, blk.Revision)
	sess.Capability.RegisterApi(ID, topology.Fabric(&Fabric{Bus: blk.Bus, Revision: blk.Revision}))
	return
}

// fabric returns the published capability, as a dependent would see it.
func fabric(sess *boot.Session) (topology.Fabric, error) {
	return capability.Api[topology.Fabric](sess.Capability, ID)
}

// report walks the topology and leaves it in the arena.
func (blk *Block) report(sess *boot.Session) (err error) {
	fab, err := fabric(sess)
	if err != nil {
		return
	}

	seq, err := topology.Walk(fab, blk.Limits)
	if err != nil {
		return
	}

	var rep Report
	rep.Threads = uint(internal.IterSeqCount(seq))
	rep.Sockets, err = fab.SocketCount()
	if err != nil {
		return
	}

	for socket := range rep.Sockets {
		var count uint
		count, err = fab.DieCount(socket)
		if err != nil {
			return
		}
		var dies []topology.Die
		for die := range count {
			var info topology.Die
			info, err = fab.DieInfo(socket, die)
			if err != nil {
				return
			}
			dies = append(dies, info)
		}
		rep.Dies = append(rep.Dies, dies)
	}

	block, err := sess.FindBlock(ID, 0)
	if err != nil {
		return
	}

	err = rep.Encode(block.Data, blk.Limits)
	if err != nil {
		return
	}

	sess.Log.Info().Uint("sockets", rep.Sockets).Uint("threads", rep.Threads).Msg("df: topology")
	return
}

// lock sets the configuration lock on every die.
func (blk *Block) lock(sess *boot.Session) (err error) {
	rev, err := capability.Xfer[Revision](sess.Capability, ID)
	if err != nil {
		return
	}

	sockets, err := rev.Sockets(blk.Bus)
	if err != nil {
		return
	}

	for socket := range sockets {
		var dies uint
		dies, err = rev.Dies(blk.Bus, socket)
		if err != nil {
			return
		}
		for die := range dies {
			err = rev.Lock(blk.Bus, socket, die)
			if err != nil {
				return
			}
			sess.Log.Debug().Uint("socket", socket).Uint("die", die).Msg("df: locked")
		}
	}

	return
}

// Topology reads the report left by timepoint 1.
func Topology(sess *boot.Session, limits topology.Limits) (rep Report, err error) {
	var block arena.Block
	block, err = sess.FindBlock(ID, 0)
	if err != nil {
		return
	}
	return DecodeReport(block.Data, limits)
}
