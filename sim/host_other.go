//go:build !unix || race

// The race detector does not treat atomics on memory outside the Go heap as
// synchronization, so race builds keep the arena on the heap.

package sim

// HOST_MMAP is true when the arena is mapped outside the Go heap.
const HOST_MMAP = false

// HostMemory is host memory for the boot arena.
type HostMemory struct {
	Data []byte
}

// AllocateHost allocates size bytes from the Go heap.
func AllocateHost(size int) (hm *HostMemory, err error) {
	hm = &HostMemory{Data: make([]byte, size)}
	return
}

// Close releases the memory.
func (hm *HostMemory) Close() (err error) {
	hm.Data = nil
	return
}
