package bringup

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"
)

// Rendezvous state field offsets.
const (
	STATE_ACK         = 0x00 // u32 acknowledgement counter, atomic.
	STATE_ORDINAL     = 0x04 // u32 ordinal of the thread being launched.
	STATE_GDT_BASE    = 0x08 // u64 descriptor table address.
	STATE_GDT_LIMIT   = 0x10 // u16 descriptor table limit.
	STATE_SYNC_LIST   = 0x18 // u64 register-sync list address.
	STATE_SYNC_COUNT  = 0x20 // u32 register-sync entries.
	STATE_CONTROL     = 0x28 // u64 control register snapshot, CONTROL_COUNT entries.
	STATE_SIZE        = STATE_CONTROL + CONTROL_COUNT*8
	STATE_ALIGN       = 8
	CONTROL_COUNT     = 4
	REG_CR0           = 0x8000_0000 // Pseudo register indices for control registers.
	REG_CR3           = 0x8000_0003
	REG_CR4           = 0x8000_0004
	MSR_EFER          = 0xc000_0080
	MSR_APIC_BASE     = 0x0000_001b
	MSR_MTRR_DEF_TYPE = 0x0000_02ff
	MSR_PAT           = 0x0000_0277
)

// ControlRegisters are snapshotted from the bootstrap thread, in this order,
// and written by every launched thread before the register-sync list.
var ControlRegisters = [CONTROL_COUNT]uint32{REG_CR0, REG_CR3, REG_CR4, MSR_EFER}

// State is the decoded rendezvous state.
type State struct {
	Ack             uint32
	Ordinal         uint32
	DescriptorBase  uint64
	DescriptorLimit uint16
	SyncList        uint64
	SyncCount       uint32
	Control         [CONTROL_COUNT]uint64
}

// Encode writes everything but the acknowledgement counter into buf.
func (st *State) Encode(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[STATE_ORDINAL:], st.Ordinal)
	le.PutUint64(buf[STATE_GDT_BASE:], st.DescriptorBase)
	le.PutUint16(buf[STATE_GDT_LIMIT:], st.DescriptorLimit)
	le.PutUint64(buf[STATE_SYNC_LIST:], st.SyncList)
	le.PutUint32(buf[STATE_SYNC_COUNT:], st.SyncCount)
	for n, value := range st.Control {
		le.PutUint64(buf[STATE_CONTROL+n*8:], value)
	}
}

// DecodeState reads buf, loading the counter atomically.
func DecodeState(buf []byte) (st State, err error) {
	err = checkState(buf)
	if err != nil {
		return
	}

	le := binary.LittleEndian
	st = State{
		Ack:             LoadAck(buf),
		Ordinal:         le.Uint32(buf[STATE_ORDINAL:]),
		DescriptorBase:  le.Uint64(buf[STATE_GDT_BASE:]),
		DescriptorLimit: le.Uint16(buf[STATE_GDT_LIMIT:]),
		SyncList:        le.Uint64(buf[STATE_SYNC_LIST:]),
		SyncCount:       le.Uint32(buf[STATE_SYNC_COUNT:]),
	}
	for n := range st.Control {
		st.Control[n] = le.Uint64(buf[STATE_CONTROL+n*8:])
	}
	return
}

// checkState validates the backing of a rendezvous state.
func checkState(buf []byte) error {
	if len(buf) < STATE_SIZE {
		return ErrState(f("of %v bytes", len(buf)))
	}
	if uintptr(unsafe.Pointer(&buf[STATE_ACK]))%4 != 0 {
		return ErrState(f("counter misaligned"))
	}
	return nil
}

func ackCounter(buf []byte) *uint32 {
	return (*uint32)(unsafe.Pointer(&buf[STATE_ACK]))
}

// LoadAck atomically reads the acknowledgement counter.
func LoadAck(buf []byte) uint32 {
	return atomic.LoadUint32(ackCounter(buf))
}

// AddAck atomically increments the acknowledgement counter.
func AddAck(buf []byte) uint32 {
	return atomic.AddUint32(ackCounter(buf), 1)
}

// ResetAck atomically clears the acknowledgement counter.
func ResetAck(buf []byte) {
	atomic.StoreUint32(ackCounter(buf), 0)
}
