// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sim

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/config"
	"github.com/ezrec/silicon/platform"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

// Physical memory map of the machine.
const (
	LOW_MEMORY_BASE = 0x0000_0000
	LOW_MEMORY_SIZE = 0x0010_0000 // Reset-vector region lives at the top.
	BOOTSTRAP_GDT   = 0x0000_1000 // Descriptor table of the bootstrap thread.
)

// BootstrapGdt is the flat descriptor table of the bootstrap thread.
var BootstrapGdt = []uint64{
	0x0000_0000_0000_0000, // null
	0x00af_9a00_0000_ffff, // 64-bit code
	0x00cf_9200_0000_ffff, // data
}

// Machine is a simulated multi-socket system.
type Machine struct {
	Log        zerolog.Logger
	Config     config.Config
	Generation silicon.Generation

	Memory    *Memory
	Registers *Registers
	Firmware  *Firmware
	Linker    *Linker

	// Hang lists threads that accept a release but never run.
	Hang map[topology.Coordinate]bool

	low       []byte
	bootstrap *Thread

	mutex    sync.Mutex
	threads  map[topology.Coordinate]*Thread
	released []topology.Coordinate
	group    *errgroup.Group
	ctx      context.Context
	cancel   context.CancelFunc
}

// Option adjusts a machine as it is built.
type Option func(m *Machine)

// WithLogger sets the machine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) {
		m.Log = log
	}
}

// New powers on a machine described by cfg.
func New(cfg config.Config, opts ...Option) (m *Machine, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	gen, err := cfg.Generation()
	if err != nil {
		return
	}

	rev, err := smu.Lookup(gen)
	if err != nil {
		return
	}

	m = &Machine{
		Log:        zerolog.Nop(),
		Config:     cfg,
		Generation: gen,
		Memory:     &Memory{},
		Registers:  &Registers{},
		Firmware:   &Firmware{Revision: rev, Version: cfg.Silicon.SmuVersion},
		Linker:     &Linker{},
		Hang:       make(map[topology.Coordinate]bool),
		low:        make([]byte, LOW_MEMORY_SIZE),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Firmware.release = m.release

	err = m.Memory.Map(LOW_MEMORY_BASE, m.low)
	if err != nil {
		m = nil
		return
	}

	err = m.Reset(status.RESET_COLD)
	if err != nil {
		m = nil
		return
	}

	return
}

// Reset the machine. A cold reset also reverts the firmware features to
// their power-on state.
func (m *Machine) Reset(kind status.ResetKind) (err error) {
	m.Log.Info().Stringer("reset", kind).Msg("machine reset")

	if m.cancel != nil {
		m.cancel()
		_ = m.group.Wait()
	}

	sockets := m.Config.Sockets

	m.Firmware.mutex.Lock()
	if kind != status.RESET_WARM || len(m.Firmware.features) != len(sockets) {
		m.Firmware.features = make([]uint64, len(sockets))
		for s, socket := range sockets {
			m.Firmware.features[s] = socket.Features
		}
	}
	m.Firmware.mutex.Unlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.group, m.ctx = errgroup.WithContext(m.ctx)
	m.threads = make(map[topology.Coordinate]*Thread)
	m.released = nil

	// Low memory comes up holding the platform's own reset code.
	for n := range m.low {
		m.low[n] = byte(n) ^ 0x5a
	}

	rev, err := df.Lookup(m.Generation)
	if err != nil {
		return
	}

	var dies []uint
	for _, socket := range sockets {
		dies = append(dies, uint(len(socket.Dies)))
	}
	m.Registers.reset(dies)
	for s, socket := range sockets {
		for d, die := range socket.Dies {
			err = rev.Strap(m.Registers, uint(s), uint(d), uint(len(sockets)), uint(len(socket.Dies)), die.Topology())
			if err != nil {
				return
			}
		}
	}

	m.bootstrap = newThread(m.Log, topology.Coordinate{}, m.Memory, m.Linker)
	gdt, err := m.Memory.Slice(BOOTSTRAP_GDT, len(BootstrapGdt)*8)
	if err != nil {
		return
	}
	for n, desc := range BootstrapGdt {
		for b := range 8 {
			gdt[n*8+b] = byte(desc >> (8 * b))
		}
	}
	m.bootstrap.Mode = trampoline.MODE_LONG64
	m.bootstrap.Halted = true
	m.bootstrap.Gdt = BOOTSTRAP_GDT
	m.bootstrap.GdtLimit = uint16(len(gdt) - 1)
	for index, value := range m.Config.Bootstrap.Registers() {
		m.bootstrap.Registers[index] = value
	}
	m.threads[m.bootstrap.Coord] = m.bootstrap

	return
}

// Bootstrap is the thread running the boot library.
func (m *Machine) Bootstrap() *Thread {
	return m.bootstrap
}

// Thread returns a released thread.
func (m *Machine) Thread(coord topology.Coordinate) (th *Thread, ok bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	th, ok = m.threads[coord]
	return
}

// Released lists the threads in release order.
func (m *Machine) Released() []topology.Coordinate {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return slices.Clone(m.released)
}

// exists is true if coord names a thread of the configured topology.
func (m *Machine) exists(coord topology.Coordinate) bool {
	sockets := m.Config.Sockets
	if coord.Socket >= uint(len(sockets)) || coord.Die >= uint(len(sockets[coord.Socket].Dies)) {
		return false
	}
	die := sockets[coord.Socket].Dies[coord.Die]
	return coord.Ccd < die.Ccds && coord.Complex < die.Complexes &&
		coord.Core < die.Cores && coord.Thread < die.Threads
}

// release starts a thread at address. It fails for the bootstrap thread,
// unknown threads, and threads already running.
func (m *Machine) release(coord topology.Coordinate, address uint64) (ok bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if coord.IsBootstrap() || !m.exists(coord) {
		return
	}
	if _, running := m.threads[coord]; running {
		return
	}

	th := newThread(m.Log, coord, m.Memory, m.Linker)
	m.threads[coord] = th
	m.released = append(m.released, coord)

	if m.Hang[coord] {
		m.Log.Debug().Stringer("thread", coord).Msg("hung")
		return true
	}

	th.Reset(address)
	ctx := m.ctx
	m.group.Go(func() error {
		return th.Run(ctx)
	})

	return true
}

// Wait for every released thread to park, returning the first fault.
func (m *Machine) Wait() error {
	return m.group.Wait()
}

// Close stops every thread.
func (m *Machine) Close() error {
	m.cancel()
	_ = m.group.Wait()
	return nil
}

// Hardware is what the platform tables need from the machine.
func (m *Machine) Hardware() platform.Hardware {
	return platform.Hardware{
		Fabric:    m.Registers,
		Mailbox:   m.Firmware,
		Bootstrap: m.bootstrap,
		Memory:    m.Memory,
		Linker:    m.Linker,
	}
}
