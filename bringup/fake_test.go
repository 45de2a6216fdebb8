package bringup

import (
	"encoding/binary"
	"sync"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

const (
	testMemorySize = 0x10_0000
	testState      = 0x8000
	testLinkBase   = 0x4000_0000
)

type flatMemory []byte

func (fm flatMemory) Slice(addr uint64, size int) ([]byte, error) {
	if addr+uint64(size) > uint64(len(fm)) {
		return nil, status.ErrInvalidParameter
	}
	return fm[addr : addr+uint64(size)], nil
}

type fakeLinker struct {
	entries []trampoline.Entry
}

func (fl *fakeLinker) Link(entry trampoline.Entry) uint64 {
	fl.entries = append(fl.entries, entry)
	return testLinkBase + uint64(len(fl.entries)-1)*16
}

func (fl *fakeLinker) lookup(addr uint64) trampoline.Entry {
	return fl.entries[(addr-testLinkBase)/16]
}

type fakeFabric struct {
	sockets uint
	die     topology.Die
	queries int
}

func (ff *fakeFabric) SocketCount() (uint, error) {
	ff.queries++
	return ff.sockets, nil
}

func (ff *fakeFabric) DieCount(socket uint) (uint, error) {
	ff.queries++
	return 1, nil
}

func (ff *fakeFabric) DieInfo(socket, die uint) (topology.Die, error) {
	ff.queries++
	return ff.die, nil
}

type fakeBootstrap struct {
	off       bool
	registers map[uint32]uint64
	gdt       []byte
}

func (fb *fakeBootstrap) IsBootstrap() bool {
	return !fb.off
}

func (fb *fakeBootstrap) ReadRegister(index uint32) (uint64, error) {
	value, ok := fb.registers[index]
	if !ok {
		return 0, status.ErrNotFound
	}
	return value, nil
}

func (fb *fakeBootstrap) Descriptors() ([]byte, error) {
	return fb.gdt, nil
}

type fakeProcessor struct {
	coord     topology.Coordinate
	mem       trampoline.Memory
	gdtBase   uint64
	gdtLimit  uint16
	registers map[uint32]uint64
}

func (fp *fakeProcessor) Memory() trampoline.Memory {
	return fp.mem
}

func (fp *fakeProcessor) LoadDescriptorTable(base uint64, limit uint16) error {
	fp.gdtBase = base
	fp.gdtLimit = limit
	return nil
}

func (fp *fakeProcessor) WriteRegister(index uint32, value uint64) error {
	fp.registers[index] = value
	return nil
}

// fakeReleaser starts a goroutine per release that calls the entry function
// named by the installed region, the way the startup program would.
type fakeReleaser struct {
	mem    flatMemory
	linker *fakeLinker
	stuck     topology.Coordinate // Never started, if not bootstrap.
	fail      error
	failAfter int // Releases accepted before fail is returned.

	mutex     sync.Mutex
	wg        sync.WaitGroup
	released  []topology.Coordinate
	observed  []uint32
	procs     []*fakeProcessor
	entryErrs []error
}

func (fr *fakeReleaser) Release(coord topology.Coordinate, address uint64) error {
	if fr.fail != nil && len(fr.released) >= fr.failAfter {
		return fr.fail
	}

	state, _ := fr.mem.Slice(testState, STATE_SIZE)
	fr.released = append(fr.released, coord)
	fr.observed = append(fr.observed, LoadAck(state))

	if coord == fr.stuck {
		return nil
	}

	base := address &^ (trampoline.RESET_REGION_SIZE - 1)
	le := binary.LittleEndian
	entry := fr.linker.lookup(le.Uint64(fr.mem[base+trampoline.OFFSET_ENTRY_PTR:]))
	stateAddr := le.Uint64(fr.mem[base+trampoline.OFFSET_STATE_PTR:])

	proc := &fakeProcessor{coord: coord, mem: fr.mem, registers: map[uint32]uint64{}}
	fr.wg.Add(1)
	go func() {
		defer fr.wg.Done()
		err := entry(proc, stateAddr)
		fr.mutex.Lock()
		defer fr.mutex.Unlock()
		fr.procs = append(fr.procs, proc)
		if err != nil {
			fr.entryErrs = append(fr.entryErrs, err)
		}
	}()

	return nil
}
