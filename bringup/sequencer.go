// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package bringup

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

// DEFAULT_TIMEOUT bounds each rendezvous wait when none is configured.
const DEFAULT_TIMEOUT = time.Second

// Bootstrap is the thread running the sequencer.
type Bootstrap interface {
	// IsBootstrap is true when called on the bootstrap thread.
	IsBootstrap() bool
	// ReadRegister returns a model specific or control register.
	ReadRegister(index uint32) (uint64, error)
	// Descriptors returns the active segment-descriptor table.
	Descriptors() ([]byte, error)
}

// Releaser is the power-management capability that takes a thread out of reset.
type Releaser interface {
	// Release starts the thread at coord fetching from address.
	Release(coord topology.Coordinate, address uint64) error
}

// Sequencer brings up every hardware thread of the topology.
type Sequencer struct {
	Log       zerolog.Logger
	Bootstrap Bootstrap
	Fabric    topology.Fabric
	Releaser  Releaser
	Memory    trampoline.Memory
	Linker    trampoline.Linker
	Limits    topology.Limits

	Region        uint64        // Reset-vector region base, RESET_REGION_BASE if zero.
	StateAddress  uint64        // Physical address of STATE_SIZE bytes of rendezvous state.
	SyncRegisters []uint32      // Registers copied from the bootstrap thread.
	Timeout       time.Duration // Per-thread rendezvous bound, DEFAULT_TIMEOUT if zero.
	Resume        bool          // Leave the trampoline installed.

	Launched uint32 // Threads acknowledged by the last Run.
}

// snapshot captures the bootstrap thread state every thread copies.
func (seq *Sequencer) snapshot() (descriptors []byte, sync []trampoline.RegisterSync, control [CONTROL_COUNT]uint64, err error) {
	descriptors, err = seq.Bootstrap.Descriptors()
	if err != nil {
		return
	}

	for n, index := range ControlRegisters {
		control[n], err = seq.Bootstrap.ReadRegister(index)
		if err != nil {
			return
		}
	}

	for _, index := range seq.SyncRegisters {
		var value uint64
		value, err = seq.Bootstrap.ReadRegister(index)
		if err != nil {
			return
		}
		sync = append(sync, trampoline.RegisterSync{Index: index, Value: value})
	}

	return
}

// Run launches every non-bootstrap thread in topology order. Each launch
// waits for the thread's acknowledgement before the next release; a thread
// that does not acknowledge within Timeout stops the walk with a TIMEOUT
// error. On success, or when a release is refused, the reset-vector region
// is restored unless Resume is set on success. After a rendezvous failure it
// is left installed, as the released thread may still be executing from it.
func (seq *Sequencer) Run() (err error) {
	seq.Launched = 0

	if !seq.Bootstrap.IsBootstrap() {
		err = ErrNotBootstrap{}
		return
	}

	if seq.StateAddress%STATE_ALIGN != 0 {
		err = ErrState(f("address 0x%x misaligned", seq.StateAddress))
		return
	}

	coords, err := topology.Walk(seq.Fabric, seq.Limits)
	if err != nil {
		return
	}

	state, err := seq.Memory.Slice(seq.StateAddress, STATE_SIZE)
	if err != nil {
		return
	}
	err = checkState(state)
	if err != nil {
		return
	}

	descriptors, sync, control, err := seq.snapshot()
	if err != nil {
		return
	}

	region := seq.Region
	if region == 0 {
		region = trampoline.RESET_REGION_BASE
	}

	inst, err := trampoline.Install(seq.Memory, trampoline.Config{
		Base:         region,
		EntryAddress: seq.Linker.Link(Entry),
		StateAddress: seq.StateAddress,
		Descriptors:  descriptors,
		RegisterSync: sync,
	})
	if err != nil {
		return
	}

	st := State{
		DescriptorBase:  inst.Layout.Descriptors,
		DescriptorLimit: inst.Layout.DescriptorLimit,
		SyncList:        inst.Layout.SyncList,
		SyncCount:       inst.Layout.SyncCount,
		Control:         control,
	}
	st.Encode(state)
	ResetAck(state)

	seq.Log.Debug().
		Uint64("region", region).
		Uint64("state", seq.StateAddress).
		Int("sync", len(sync)).
		Msg("trampoline installed")

	for coord := range coords {
		if coord.IsBootstrap() {
			continue
		}

		st.Ordinal = seq.Launched + 1
		st.Encode(state)

		seq.Log.Debug().Stringer("thread", coord).Uint32("ordinal", st.Ordinal).Msg("release")
		err = seq.Releaser.Release(coord, inst.Layout.ResetVector)
		if err != nil {
			// Nothing is running from the region; every earlier thread acknowledged.
			seq.Log.Error().Stringer("thread", coord).Err(err).Msg("release")
			inst.Restore()
			return
		}

		err = seq.wait(state, coord, st.Ordinal)
		if err != nil {
			seq.Log.Error().Stringer("thread", coord).Err(err).Msg("rendezvous")
			return
		}
		seq.Launched = st.Ordinal
	}

	seq.Log.Info().Uint32("threads", seq.Launched).Msg("bring-up complete")

	if seq.Resume {
		seq.Log.Debug().Msg("resume: trampoline left installed")
		return
	}

	inst.Restore()
	return
}

// wait spins until the counter reaches ordinal or the timeout expires.
func (seq *Sequencer) wait(state []byte, coord topology.Coordinate, ordinal uint32) (err error) {
	timeout := seq.Timeout
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	deadline := time.Now().Add(timeout)

	for {
		ack := LoadAck(state)
		switch {
		case ack == ordinal:
			return
		case ack > ordinal:
			err = &ErrRendezvous{Coordinate: coord, Ordinal: ordinal, Ack: ack}
			return
		case time.Now().After(deadline):
			err = &ErrRendezvous{Coordinate: coord, Ordinal: ordinal, Ack: ack}
			return
		}
		runtime.Gosched()
	}
}
