// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package smu

import (
	"encoding/binary"

	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
)

// ID of the power-management block.
var ID = capability.Name(0x0000_05c0, "smu")

// Block payload layout.
const (
	PAYLOAD_FEATURES = 0x00 // u64 features the platform requires.
	PAYLOAD_VERSION  = 0x08 // u32 firmware version of socket 0, output.
	PAYLOAD_SIZE     = 0x10
)

// DEFAULT_FEATURES are required unless the host changes the payload.
const DEFAULT_FEATURES = FEATURE_CCLK_CONTROLLER | FEATURE_CORE_CSTATES | FEATURE_CPPC

// Block is the power-management silicon block.
type Block struct {
	Mailbox  Mailbox
	Revision *Revision
}

// New selects the mailbox revision for gen.
func New(gen silicon.Generation, mb Mailbox) (blk *Block, err error) {
	rev, err := Lookup(gen)
	if err != nil {
		return
	}

	blk = &Block{
		Mailbox:  mb,
		Revision: rev,
	}
	return
}

// Record returns the table record of the block for tp.
func (blk *Block) Record(tp boot.Timepoint) (rec boot.Record) {
	rec = boot.Record{
		ID:          ID,
		RegisterApi: blk.registerApi,
	}

	if tp == boot.TIMEPOINT_1 {
		rec.Size = PAYLOAD_SIZE
		rec.Populate = blk.populate
		rec.Initialize = blk.initialize
	}

	return
}

func (blk *Block) registerApi(sess *boot.Session) (err error) {
	sess.Capability.RegisterXfer(ID, blk.Revision)
	sess.Capability.RegisterApi(ID, bringup.Releaser(&Smu{Mailbox: blk.Mailbox, Revision: blk.Revision}))
	return
}

func (blk *Block) populate(sess *boot.Session, block arena.Block) (err error) {
	binary.LittleEndian.PutUint64(block.Data[PAYLOAD_FEATURES:], DEFAULT_FEATURES)
	return
}

// SetFeatures changes the required features in a populated payload.
func SetFeatures(block arena.Block, mask uint64) {
	binary.LittleEndian.PutUint64(block.Data[PAYLOAD_FEATURES:], mask)
}

// Version reads the firmware version left in the payload.
func Version(block arena.Block) uint32 {
	return binary.LittleEndian.Uint32(block.Data[PAYLOAD_VERSION:])
}

// initialize records the firmware version, and enables any required feature
// that is off on any socket. Newly enabled features need a warm reset.
func (blk *Block) initialize(sess *boot.Session) (err error) {
	fab, err := capability.Api[topology.Fabric](sess.Capability, df.ID)
	if err != nil {
		return
	}

	block, err := sess.FindBlock(ID, 0)
	if err != nil {
		return
	}

	smu := &Smu{Mailbox: blk.Mailbox, Revision: blk.Revision}

	version, err := smu.Version(0)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(block.Data[PAYLOAD_VERSION:], version)

	required := binary.LittleEndian.Uint64(block.Data[PAYLOAD_FEATURES:])

	sockets, err := fab.SocketCount()
	if err != nil {
		return
	}

	var reset bool
	for socket := range sockets {
		var enabled uint64
		enabled, err = smu.Features(socket)
		if err != nil {
			return
		}

		missing := required &^ enabled
		if missing == 0 {
			continue
		}

		sess.Log.Info().Uint("socket", socket).Uint64("features", missing).Msg("smu: enabling features")
		err = smu.EnableFeatures(socket, missing)
		if err != nil {
			return
		}
		reset = true
	}

	sess.Log.Debug().Uint32("version", version).Msg("smu: firmware")

	if reset {
		err = status.ErrResetRequest(status.RESET_WARM)
	}

	return
}
