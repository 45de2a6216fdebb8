package bringup

import (
	"github.com/ezrec/silicon/trampoline"
)

// Entry is the function every launched thread calls from the startup
// program, with the address of the rendezvous state. It loads the bootstrap
// thread's descriptor table, control registers and register-sync list, then
// acknowledges.
func Entry(proc trampoline.Processor, addr uint64) (err error) {
	mem := proc.Memory()

	buf, err := mem.Slice(addr, STATE_SIZE)
	if err != nil {
		return
	}

	st, err := DecodeState(buf)
	if err != nil {
		return
	}

	err = proc.LoadDescriptorTable(st.DescriptorBase, st.DescriptorLimit)
	if err != nil {
		return
	}

	for n, index := range ControlRegisters {
		err = proc.WriteRegister(index, st.Control[n])
		if err != nil {
			return
		}
	}

	list, err := trampoline.ReadSyncList(mem, st.SyncList, st.SyncCount)
	if err != nil {
		return
	}
	for _, entry := range list {
		err = proc.WriteRegister(entry.Index, entry.Value)
		if err != nil {
			return
		}
	}

	ack := AddAck(buf)
	if ack != st.Ordinal {
		err = ErrState(f("acknowledged %v while launching %v", ack, st.Ordinal))
		return
	}

	return
}
