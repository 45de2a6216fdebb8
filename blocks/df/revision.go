package df

import (
	"math/bits"

	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/topology"
)

// Revision decodes the fabric registers of one silicon generation. It is the
// block's revision-transfer table.
type Revision interface {
	Sockets(bus RegisterBus) (uint, error)
	Dies(bus RegisterBus, socket uint) (uint, error)
	Die(bus RegisterBus, socket, die uint) (topology.Die, error)
	Lock(bus RegisterBus, socket, die uint) error
	Locked(bus RegisterBus, socket, die uint) (bool, error)
	// Strap programs the registers a die reports at power on.
	Strap(bus RegisterBus, socket, die, sockets, dies uint, info topology.Die) error
}

// registers of a revision.
type registers struct {
	OtherSocket Field // Set when the second socket is populated.
	DieCount    Field // Dies per socket, less one.
	Ccds        Field // Compute dies: enable bitmap, or count less one.
	Complexes   Field // Complexes per compute die, less one.
	Cores       Field // Cores per complex, less one.
	Smt         Field // Set when cores have two threads.
	Lock        Field // Configuration lock.

	CcdBitmap bool // Ccds is an enable bitmap.
}

// revision implements Revision over a register map.
type revision struct {
	regs registers
}

// Revisions keyed by silicon generation.
var Revisions = map[silicon.Generation]Revision{
	silicon.GEN_FAM19: &revision{regs: registers{
		OtherSocket: Field{Function: 1, Offset: 0x200, Shift: 27, Width: 1},
		DieCount:    Field{Function: 1, Offset: 0x200, Shift: 28, Width: 2},
		Ccds:        Field{Function: 1, Offset: 0x104, Shift: 0, Width: 16},
		Complexes:   Field{Function: 1, Offset: 0x108, Shift: 0, Width: 1},
		Cores:       Field{Function: 1, Offset: 0x108, Shift: 4, Width: 4},
		Smt:         Field{Function: 1, Offset: 0x108, Shift: 8, Width: 1},
		Lock:        Field{Function: 0, Offset: 0x3fc, Shift: 0, Width: 1},
		CcdBitmap:   true,
	}},
	silicon.GEN_FAM1A: &revision{regs: registers{
		OtherSocket: Field{Function: 0, Offset: 0x180, Shift: 0, Width: 1},
		DieCount:    Field{Function: 0, Offset: 0x180, Shift: 4, Width: 2},
		Ccds:        Field{Function: 0, Offset: 0x184, Shift: 0, Width: 4},
		Complexes:   Field{Function: 0, Offset: 0x188, Shift: 0, Width: 1},
		Cores:       Field{Function: 0, Offset: 0x188, Shift: 8, Width: 4},
		Smt:         Field{Function: 0, Offset: 0x188, Shift: 16, Width: 1},
		Lock:        Field{Function: 0, Offset: 0x2fc, Shift: 31, Width: 1},
	}},
}

// Lookup returns the revision table for gen.
func Lookup(gen silicon.Generation) (rev Revision, err error) {
	rev, ok := Revisions[gen]
	if !ok {
		err = ErrRevision(gen)
	}
	return
}

func (rev *revision) Sockets(bus RegisterBus) (sockets uint, err error) {
	other, err := rev.regs.OtherSocket.Read(bus, 0, 0)
	if err != nil {
		return
	}
	sockets = 1 + uint(other)
	return
}

func (rev *revision) Dies(bus RegisterBus, socket uint) (dies uint, err error) {
	count, err := rev.regs.DieCount.Read(bus, socket, 0)
	if err != nil {
		return
	}
	dies = 1 + uint(count)
	return
}

func (rev *revision) Die(bus RegisterBus, socket, die uint) (info topology.Die, err error) {
	regs := &rev.regs

	ccds, err := regs.Ccds.Read(bus, socket, die)
	if err != nil {
		return
	}
	if regs.CcdBitmap {
		info.Ccds = uint(bits.OnesCount32(ccds))
	} else {
		info.Ccds = 1 + uint(ccds)
	}

	for _, field := range []struct {
		fld   Field
		value *uint
	}{
		{regs.Complexes, &info.Complexes},
		{regs.Cores, &info.Cores},
		{regs.Smt, &info.Threads},
	} {
		var value uint32
		value, err = field.fld.Read(bus, socket, die)
		if err != nil {
			return
		}
		*field.value = 1 + uint(value)
	}

	return
}

func (rev *revision) Lock(bus RegisterBus, socket, die uint) error {
	return rev.regs.Lock.Write(bus, socket, die, 1)
}

func (rev *revision) Locked(bus RegisterBus, socket, die uint) (locked bool, err error) {
	value, err := rev.regs.Lock.Read(bus, socket, die)
	locked = value != 0
	return
}

// count encodes a count as 'less one' in fld.
func count(fld Field, what string, n uint) (value uint32, err error) {
	if n == 0 || uint32(n-1) > fld.Max() {
		err = ErrStrap(f("%v count %v", what, n))
		return
	}
	value = uint32(n - 1)
	return
}

func (rev *revision) Strap(bus RegisterBus, socket, die, sockets, dies uint, info topology.Die) (err error) {
	regs := &rev.regs

	var ccds uint32
	if regs.CcdBitmap {
		if info.Ccds == 0 || info.Ccds > uint(regs.Ccds.Width) {
			err = ErrStrap(f("ccd count %v", info.Ccds))
			return
		}
		ccds = uint32(1)<<info.Ccds - 1
	} else {
		ccds, err = count(regs.Ccds, "ccd", info.Ccds)
		if err != nil {
			return
		}
	}

	writes := []struct {
		fld   Field
		what  string
		count uint
	}{
		{regs.OtherSocket, "socket", sockets},
		{regs.DieCount, "die", dies},
		{regs.Complexes, "complex", info.Complexes},
		{regs.Cores, "core", info.Cores},
		{regs.Smt, "thread", info.Threads},
	}
	for _, w := range writes {
		var value uint32
		value, err = count(w.fld, w.what, w.count)
		if err != nil {
			return
		}
		err = w.fld.Write(bus, socket, die, value)
		if err != nil {
			return
		}
	}

	err = regs.Ccds.Write(bus, socket, die, ccds)
	if err != nil {
		return
	}

	return regs.Lock.Write(bus, socket, die, 0)
}
