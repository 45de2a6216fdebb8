//go:build unix && !race

package sim

import (
	"golang.org/x/sys/unix"
)

// HOST_MMAP is true when the arena is mapped outside the Go heap.
const HOST_MMAP = true

// HostMemory is page backed host memory, as firmware would hand the boot
// library for its arena.
type HostMemory struct {
	Data []byte
}

// AllocateHost maps size bytes of anonymous memory.
func AllocateHost(size int) (hm *HostMemory, err error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return
	}

	hm = &HostMemory{Data: data}
	return
}

// Close unmaps the memory.
func (hm *HostMemory) Close() (err error) {
	if hm.Data == nil {
		return
	}
	err = unix.Munmap(hm.Data)
	hm.Data = nil
	return
}
