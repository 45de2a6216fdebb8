package sim

import (
	"sync"

	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/topology"
)

// Firmware answers the power-management mailbox of every socket.
type Firmware struct {
	Revision *smu.Revision
	Version  uint32

	mutex    sync.Mutex
	features []uint64
	release  func(coord topology.Coordinate, address uint64) bool
}

var _ smu.Mailbox = (*Firmware)(nil)

// Features enabled on a socket.
func (fw *Firmware) Features(socket uint) uint64 {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	if socket >= uint(len(fw.features)) {
		return 0
	}
	return fw.features[socket]
}

func (fw *Firmware) Call(socket uint, message uint32, args *smu.Args) (result smu.Result, err error) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	if socket >= uint(len(fw.features)) {
		err = &ErrBus{Socket: socket}
		return
	}

	rev := fw.Revision
	result = smu.RESULT_OK

	switch message {
	case rev.GetVersion:
		*args = smu.Args{fw.Version}
	case rev.GetFeatures:
		*args = smu.FeatureArgs(fw.features[socket])
	case rev.EnableFeatures:
		fw.features[socket] |= smu.FeatureMask(*args)
	case rev.ReleaseThread:
		coord := rev.UnpackThread(socket, args[0])
		address := uint64(args[1]) | uint64(args[2])<<32
		if !fw.release(coord, address) {
			result = smu.RESULT_REJECTED
		}
	default:
		result = smu.RESULT_UNKNOWN
	}

	return
}
