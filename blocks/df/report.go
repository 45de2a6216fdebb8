package df

import (
	"encoding/binary"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
)

// Topology report layout, left in the arena for the host.
const (
	REPORT_SOCKETS  = 0x00 // u32 populated sockets.
	REPORT_THREADS  = 0x04 // u32 hardware threads, bootstrap included.
	REPORT_DIES     = 0x08 // Per (socket, die) entries of REPORT_DIE_SIZE bytes.
	REPORT_DIE_SIZE = 4    // u8 ccds, complexes, cores, threads.
)

// ReportSize is the payload needed to report a topology within limits.
func ReportSize(limits topology.Limits) uint32 {
	return uint32(REPORT_DIES + limits.Sockets*limits.Dies*REPORT_DIE_SIZE)
}

// Report is the topology discovered at timepoint 1.
type Report struct {
	Sockets uint
	Threads uint
	Dies    [][]topology.Die // Per socket.
}

// Encode writes the report into a payload sized by ReportSize(limits).
func (rep *Report) Encode(buf []byte, limits topology.Limits) (err error) {
	if len(buf) < int(ReportSize(limits)) || rep.Sockets > limits.Sockets {
		err = status.ErrInvalidParameter
		return
	}

	le := binary.LittleEndian
	le.PutUint32(buf[REPORT_SOCKETS:], uint32(rep.Sockets))
	le.PutUint32(buf[REPORT_THREADS:], uint32(rep.Threads))
	for socket, dies := range rep.Dies {
		if uint(len(dies)) > limits.Dies {
			err = status.ErrInvalidParameter
			return
		}
		for die, info := range dies {
			at := buf[REPORT_DIES+(uint(socket)*limits.Dies+uint(die))*REPORT_DIE_SIZE:]
			at[0] = uint8(info.Ccds)
			at[1] = uint8(info.Complexes)
			at[2] = uint8(info.Cores)
			at[3] = uint8(info.Threads)
		}
	}
	return
}

// DecodeReport reads a report from a payload sized by ReportSize(limits).
func DecodeReport(buf []byte, limits topology.Limits) (rep Report, err error) {
	if len(buf) < int(ReportSize(limits)) {
		err = status.ErrInvalidParameter
		return
	}

	le := binary.LittleEndian
	rep.Sockets = uint(le.Uint32(buf[REPORT_SOCKETS:]))
	rep.Threads = uint(le.Uint32(buf[REPORT_THREADS:]))
	if rep.Sockets > limits.Sockets {
		err = status.ErrInvalidParameter
		return
	}

	for socket := range rep.Sockets {
		var dies []topology.Die
		for die := range limits.Dies {
			at := buf[REPORT_DIES+(socket*limits.Dies+die)*REPORT_DIE_SIZE:]
			if at[0] == 0 {
				break
			}
			dies = append(dies, topology.Die{
				Ccds:      uint(at[0]),
				Complexes: uint(at[1]),
				Cores:     uint(at[2]),
				Threads:   uint(at[3]),
			})
		}
		rep.Dies = append(rep.Dies, dies)
	}
	return
}
