// Package topology names every hardware thread of a multi-socket system and
// walks them in bring-up order.
package topology

import (
	"fmt"
	"iter"

	"github.com/ezrec/silicon/internal"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// Coordinate of a hardware thread. The zero coordinate is the bootstrap thread.
type Coordinate struct {
	Socket  uint
	Die     uint
	Ccd     uint
	Complex uint
	Core    uint
	Thread  uint
}

// IsBootstrap is true for the all-zero coordinate.
func (c Coordinate) IsBootstrap() bool {
	return c == Coordinate{}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d.%d", c.Socket, c.Die, c.Ccd, c.Complex, c.Core, c.Thread)
}

// Die describes the compute resources behind one fabric die.
type Die struct {
	Ccds      uint // Compute dies.
	Complexes uint // Core complexes per compute die.
	Cores     uint // Cores per complex.
	Threads   uint // Threads per core.
}

// Count is the number of hardware threads on the die.
func (d Die) Count() uint {
	return d.Ccds * d.Complexes * d.Cores * d.Threads
}

// Limits are the platform maxima every topology query must respect.
type Limits struct {
	Sockets   uint
	Dies      uint
	Ccds      uint
	Complexes uint
	Cores     uint
	Threads   uint
}

// DefaultLimits cover every supported part.
var DefaultLimits = Limits{
	Sockets:   2,
	Dies:      1,
	Ccds:      16,
	Complexes: 2,
	Cores:     16,
	Threads:   2,
}

// Fabric is the data-fabric topology capability.
type Fabric interface {
	// SocketCount is the number of populated sockets.
	SocketCount() (uint, error)
	// DieCount is the number of fabric dies on a socket.
	DieCount(socket uint) (uint, error)
	// DieInfo describes one fabric die.
	DieInfo(socket, die uint) (Die, error)
}

// ErrLimit is returned when the fabric reports more of something than the
// platform supports.
type ErrLimit struct {
	What  string
	Count uint
	Limit uint
}

func (err *ErrLimit) Error() string {
	return f("topology: %v count %v exceeds %v", err.What, err.Count, err.Limit)
}

func (err *ErrLimit) Unwrap() error {
	return status.ErrInvalidParameter
}

func check(what string, count, limit uint) error {
	if count == 0 || count > limit {
		return &ErrLimit{What: what, Count: count, Limit: limit}
	}
	return nil
}

// dieThreads walks every thread behind one die.
func dieThreads(socket, die uint, info Die) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		for ccd := range info.Ccds {
			for cpx := range info.Complexes {
				for core := range info.Cores {
					for thread := range info.Threads {
						c := Coordinate{
							Socket:  socket,
							Die:     die,
							Ccd:     ccd,
							Complex: cpx,
							Core:    core,
							Thread:  thread,
						}
						if !yield(c) {
							return
						}
					}
				}
			}
		}
	}
}

// Walk queries the fabric for every (socket, die), validates the answers
// against limits, and returns the depth-first sequence of every thread
// coordinate, bootstrap thread included.
func Walk(fabric Fabric, limits Limits) (seq iter.Seq[Coordinate], err error) {
	sockets, err := fabric.SocketCount()
	if err != nil {
		return
	}
	err = check("socket", sockets, limits.Sockets)
	if err != nil {
		return
	}

	var dies []iter.Seq[Coordinate]
	for socket := range sockets {
		var count uint
		count, err = fabric.DieCount(socket)
		if err != nil {
			return
		}
		err = check("die", count, limits.Dies)
		if err != nil {
			return
		}

		for die := range count {
			var info Die
			info, err = fabric.DieInfo(socket, die)
			if err != nil {
				return
			}
			for _, lim := range []struct {
				what  string
				count uint
				limit uint
			}{
				{"ccd", info.Ccds, limits.Ccds},
				{"complex", info.Complexes, limits.Complexes},
				{"core", info.Cores, limits.Cores},
				{"thread", info.Threads, limits.Threads},
			} {
				err = check(lim.what, lim.count, lim.limit)
				if err != nil {
					return
				}
			}
			dies = append(dies, dieThreads(socket, die, info))
		}
	}

	seq = internal.IterSeqConcat(dies...)
	return
}
