package sim

import (
	"sync"

	"github.com/ezrec/silicon/blocks/df"
)

type regKey struct {
	socket   uint
	die      uint
	function uint8
	offset   uint16
}

// Registers is the fabric configuration register file of every die.
type Registers struct {
	mutex sync.Mutex
	dies  []uint // Dies per socket.
	regs  map[regKey]uint32
}

var _ df.RegisterBus = (*Registers)(nil)

// reset clears every register for a machine with dies[socket] dies.
func (rf *Registers) reset(dies []uint) {
	rf.mutex.Lock()
	defer rf.mutex.Unlock()

	rf.dies = dies
	rf.regs = make(map[regKey]uint32)
}

func (rf *Registers) check(socket, die uint) error {
	if socket >= uint(len(rf.dies)) || die >= rf.dies[socket] {
		return &ErrBus{Socket: socket, Die: die}
	}
	return nil
}

func (rf *Registers) ReadFabric(socket, die uint, function uint8, offset uint16) (value uint32, err error) {
	rf.mutex.Lock()
	defer rf.mutex.Unlock()

	err = rf.check(socket, die)
	if err != nil {
		return
	}
	value = rf.regs[regKey{socket, die, function, offset}]
	return
}

func (rf *Registers) WriteFabric(socket, die uint, function uint8, offset uint16, value uint32) (err error) {
	rf.mutex.Lock()
	defer rf.mutex.Unlock()

	err = rf.check(socket, die)
	if err != nil {
		return
	}
	rf.regs[regKey{socket, die, function, offset}] = value
	return
}
