package sim

import (
	"sync"

	"github.com/ezrec/silicon/trampoline"
)

const (
	LINK_BASE   = 0xffff_ffff_8000_0000 // Address of the first linked function.
	LINK_STRIDE = 0x10
)

// Linker hands out call addresses for entry functions.
type Linker struct {
	mutex   sync.RWMutex
	entries []trampoline.Entry
}

// Link gives entry an address.
func (lnk *Linker) Link(entry trampoline.Entry) (addr uint64) {
	lnk.mutex.Lock()
	defer lnk.mutex.Unlock()

	addr = LINK_BASE + uint64(len(lnk.entries))*LINK_STRIDE
	lnk.entries = append(lnk.entries, entry)
	return
}

// Lookup finds the function linked at addr.
func (lnk *Linker) Lookup(addr uint64) (entry trampoline.Entry, ok bool) {
	lnk.mutex.RLock()
	defer lnk.mutex.RUnlock()

	if addr < LINK_BASE || (addr-LINK_BASE)%LINK_STRIDE != 0 {
		return
	}
	index := (addr - LINK_BASE) / LINK_STRIDE
	if index >= uint64(len(lnk.entries)) {
		return
	}

	entry, ok = lnk.entries[index], true
	return
}
