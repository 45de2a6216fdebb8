package trampoline

import (
	"encoding/binary"
)

// RegisterSync is one register value every thread copies from the bootstrap thread.
type RegisterSync struct {
	Index uint32
	Value uint64
}

// EncodeSyncList lays out list as found at OFFSET_SYNC.
func EncodeSyncList(list []RegisterSync) (buf []byte) {
	le := binary.LittleEndian
	buf = make([]byte, SYNC_HEADER+len(list)*SYNC_ENTRY_SIZE)
	le.PutUint32(buf[0:], uint32(len(list)))
	for n, entry := range list {
		at := buf[SYNC_HEADER+n*SYNC_ENTRY_SIZE:]
		le.PutUint32(at[0:], entry.Index)
		le.PutUint64(at[8:], entry.Value)
	}
	return
}

// ReadSyncList decodes the synchronization list at addr.
func ReadSyncList(mem Memory, addr uint64, count uint32) (list []RegisterSync, err error) {
	if count > SYNC_LIMIT {
		err = ErrConfig(f("sync list of %v entries", count))
		return
	}

	buf, err := mem.Slice(addr, SYNC_HEADER+int(count)*SYNC_ENTRY_SIZE)
	if err != nil {
		return
	}

	le := binary.LittleEndian
	if le.Uint32(buf[0:]) != count {
		err = ErrConfig(f("sync list count mismatch"))
		return
	}

	list = make([]RegisterSync, count)
	for n := range list {
		at := buf[SYNC_HEADER+n*SYNC_ENTRY_SIZE:]
		list[n] = RegisterSync{
			Index: le.Uint32(at[0:]),
			Value: le.Uint64(at[8:]),
		}
	}
	return
}
