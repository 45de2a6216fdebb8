// Package sim simulates the machine the boot library brings up: physical
// memory, the fabric register file, the power-management firmware mailbox,
// and hardware threads that execute the startup program from the reset
// vector.
package sim

import (
	"slices"
	"sync"
)

// Region is a range of physical memory.
type Region struct {
	Base uint64
	Data []byte
}

// End is the first address past the region.
func (r Region) End() uint64 {
	return r.Base + uint64(len(r.Data))
}

// Memory is sparse physical memory built from regions.
type Memory struct {
	mutex   sync.RWMutex
	regions []Region
}

// Map places data at base.
func (mem *Memory) Map(base uint64, data []byte) (err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	region := Region{Base: base, Data: data}
	for _, r := range mem.regions {
		if region.Base < r.End() && r.Base < region.End() {
			err = ErrOverlap(base)
			return
		}
	}

	mem.regions = append(mem.regions, region)
	slices.SortFunc(mem.regions, func(a, b Region) int {
		switch {
		case a.Base < b.Base:
			return -1
		case a.Base > b.Base:
			return 1
		}
		return 0
	})
	return
}

// Unmap removes the region at base.
func (mem *Memory) Unmap(base uint64) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	mem.regions = slices.DeleteFunc(mem.regions, func(r Region) bool {
		return r.Base == base
	})
}

// Slice returns the bytes backing [addr, addr+size).
func (mem *Memory) Slice(addr uint64, size int) (buf []byte, err error) {
	mem.mutex.RLock()
	defer mem.mutex.RUnlock()

	end := addr + uint64(size)
	for _, r := range mem.regions {
		if addr >= r.Base && end <= r.End() && end >= addr {
			off := addr - r.Base
			buf = r.Data[off : off+uint64(size) : off+uint64(size)]
			return
		}
	}

	err = &ErrUnmapped{Addr: addr, Size: size}
	return
}
