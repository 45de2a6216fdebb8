// Package ccx is the core-complex silicon block. Its timepoint 1 initialize
// brings up every hardware thread of the topology.
package ccx

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/status"
)

// Block payload layout.
const (
	PAYLOAD_TIMEOUT  = 0x00 // u32 rendezvous timeout, milliseconds, 0 for default.
	PAYLOAD_FLAGS    = 0x04 // u32 FLAG_* bits.
	PAYLOAD_SYNC_LEN = 0x08 // u32 entries of PAYLOAD_SYNC.
	PAYLOAD_LAUNCHED = 0x0c // u32 threads brought up, output.
	PAYLOAD_SYNC     = 0x10 // u32 register indices, SYNC_LIMIT entries.
	PAYLOAD_STATE    = PAYLOAD_SYNC + SYNC_LIMIT*4
	PAYLOAD_SIZE     = PAYLOAD_STATE + bringup.STATE_SIZE

	SYNC_LIMIT = 16

	FLAG_RESUME = 1 << 0 // Low-power resume, leave the trampoline installed.
)

// Config is the host adjustable part of the payload.
type Config struct {
	Timeout       time.Duration
	Resume        bool
	SyncRegisters []uint32
}

// Defaults populated at timepoint 1.
func Defaults() Config {
	return Config{
		Timeout:       bringup.DEFAULT_TIMEOUT,
		SyncRegisters: []uint32{bringup.MSR_PAT, bringup.MSR_MTRR_DEF_TYPE},
	}
}

// Encode writes cfg into a payload.
func (cfg *Config) Encode(buf []byte) (err error) {
	if len(buf) < PAYLOAD_SIZE || len(cfg.SyncRegisters) > SYNC_LIMIT || cfg.Timeout < 0 {
		err = status.ErrInvalidParameter
		return
	}

	// Zero selects the default. Anything else rounds up to a whole millisecond.
	ms := cfg.Timeout / time.Millisecond
	if cfg.Timeout%time.Millisecond != 0 {
		ms++
	}
	if ms > math.MaxUint32 {
		err = status.ErrInvalidParameter
		return
	}

	le := binary.LittleEndian
	le.PutUint32(buf[PAYLOAD_TIMEOUT:], uint32(ms))

	var flags uint32
	if cfg.Resume {
		flags |= FLAG_RESUME
	}
	le.PutUint32(buf[PAYLOAD_FLAGS:], flags)

	le.PutUint32(buf[PAYLOAD_SYNC_LEN:], uint32(len(cfg.SyncRegisters)))
	for n := range SYNC_LIMIT {
		var index uint32
		if n < len(cfg.SyncRegisters) {
			index = cfg.SyncRegisters[n]
		}
		le.PutUint32(buf[PAYLOAD_SYNC+n*4:], index)
	}
	return
}

// Decode reads the configuration from a payload.
func Decode(buf []byte) (cfg Config, err error) {
	if len(buf) < PAYLOAD_SIZE {
		err = status.ErrInvalidParameter
		return
	}

	le := binary.LittleEndian
	count := le.Uint32(buf[PAYLOAD_SYNC_LEN:])
	if count > SYNC_LIMIT {
		err = status.ErrInvalidParameter
		return
	}

	cfg.Timeout = time.Duration(le.Uint32(buf[PAYLOAD_TIMEOUT:])) * time.Millisecond
	cfg.Resume = le.Uint32(buf[PAYLOAD_FLAGS:])&FLAG_RESUME != 0
	for n := range int(count) {
		cfg.SyncRegisters = append(cfg.SyncRegisters, le.Uint32(buf[PAYLOAD_SYNC+n*4:]))
	}
	return
}

// Launched reads the number of threads brought up from a payload.
func Launched(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[PAYLOAD_LAUNCHED:])
}
