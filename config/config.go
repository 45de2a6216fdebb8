// Package config loads the TOML description of a simulated machine and the
// host settings the simulator CLI drives the boot library with.
package config

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/logging"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// Config is the whole simulator configuration.
type Config struct {
	ArenaBase uint64 `toml:"arena_base"` // Host address the arena is mapped at.
	ArenaSize uint64 `toml:"arena_size"` // Zero to use the queried requirement.
	Timeout   string `toml:"rendezvous_timeout"`
	Resume    bool   `toml:"resume"`
	Verbose   bool   `toml:"verbose"`
	LogLevel  string `toml:"log_level"`
	MaxResets int    `toml:"max_resets"` // Deferred resets honoured before giving up.

	Silicon   Silicon   `toml:"silicon"`
	Bootstrap Bootstrap `toml:"bootstrap"`
	Sockets   []Socket  `toml:"socket"`

	RendezvousTimeout time.Duration `toml:"-"`
}

// Silicon identity and firmware of the simulated part.
type Silicon struct {
	CpuId      uint32 `toml:"cpuid"`       // CPUID leaf 1 EAX.
	SmuVersion uint32 `toml:"smu_version"` // Firmware version reported by every socket.
}

// Socket of the simulated machine.
type Socket struct {
	Features uint64 `toml:"features"` // Firmware features enabled at power on.
	Dies     []Die  `toml:"die"`
}

// Die of a socket.
type Die struct {
	Ccds      uint `toml:"ccds"`
	Complexes uint `toml:"complexes"`
	Cores     uint `toml:"cores"`
	Threads   uint `toml:"threads"`
}

// Topology of the die.
func (die Die) Topology() topology.Die {
	return topology.Die{
		Ccds:      die.Ccds,
		Complexes: die.Complexes,
		Cores:     die.Cores,
		Threads:   die.Threads,
	}
}

// Bootstrap register state of the simulated bootstrap thread.
type Bootstrap struct {
	Cr0         uint64 `toml:"cr0"`
	Cr3         uint64 `toml:"cr3"`
	Cr4         uint64 `toml:"cr4"`
	Efer        uint64 `toml:"efer"`
	Pat         uint64 `toml:"pat"`
	MtrrDefType uint64 `toml:"mtrr_def_type"`
}

// Registers of the bootstrap thread, by index.
func (bsp Bootstrap) Registers() map[uint32]uint64 {
	return map[uint32]uint64{
		bringup.REG_CR0:           bsp.Cr0,
		bringup.REG_CR3:           bsp.Cr3,
		bringup.REG_CR4:           bsp.Cr4,
		bringup.MSR_EFER:          bsp.Efer,
		bringup.MSR_PAT:           bsp.Pat,
		bringup.MSR_MTRR_DEF_TYPE: bsp.MtrrDefType,
	}
}

// Default is a one socket, one die, two compute die machine.
func Default() Config {
	return Config{
		ArenaBase: 0x0100_0000,
		Timeout:   bringup.DEFAULT_TIMEOUT.String(),
		LogLevel:  "info",
		MaxResets: 1,
		Silicon: Silicon{
			CpuId:      0x00a1_0f11,
			SmuVersion: 0x004c_2a00,
		},
		Bootstrap: Bootstrap{
			Cr0:         0x8000_0011,
			Cr3:         0x0010_0000,
			Cr4:         0x0000_0668,
			Efer:        0x0000_0d01,
			Pat:         0x0007_0406_0007_0406,
			MtrrDefType: 0x0000_0c06,
		},
		Sockets: []Socket{
			{
				Features: smu.DEFAULT_FEATURES,
				Dies:     []Die{{Ccds: 2, Complexes: 1, Cores: 4, Threads: 2}},
			},
		},
		RendezvousTimeout: bringup.DEFAULT_TIMEOUT,
	}
}

// Load reads path over the defaults, then validates the result.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
		return
	}

	undecoded := meta.Undecoded()
	if len(undecoded) != 0 {
		err = &ErrLoad{Path: path, Err: ErrConfig(f("unknown key %v", undecoded[0].String()))}
		return
	}

	err = cfg.Validate()
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
		return
	}

	return
}

// Generation of the configured silicon.
func (cfg *Config) Generation() (silicon.Generation, error) {
	return silicon.Select(silicon.Decode(cfg.Silicon.CpuId))
}

// Validate checks cfg and fills in the derived fields.
func (cfg *Config) Validate() (err error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(cfg.Timeout))
	if err != nil || timeout <= 0 {
		return ErrConfig(f("rendezvous_timeout '%v'", cfg.Timeout))
	}
	cfg.RendezvousTimeout = timeout

	_, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		return ErrConfig(f("log_level '%v'", cfg.LogLevel))
	}

	switch {
	case cfg.ArenaBase == 0 || cfg.ArenaBase%0x1000 != 0:
		return ErrConfig(f("arena_base 0x%x", cfg.ArenaBase))
	case cfg.ArenaSize%2048 != 0:
		return ErrConfig(f("arena_size 0x%x", cfg.ArenaSize))
	case cfg.MaxResets < 0:
		return ErrConfig(f("max_resets %v", cfg.MaxResets))
	}

	_, err = cfg.Generation()
	if err != nil {
		return
	}

	limits := topology.DefaultLimits
	if len(cfg.Sockets) == 0 || uint(len(cfg.Sockets)) > limits.Sockets {
		return ErrConfig(f("%v sockets", len(cfg.Sockets)))
	}
	for n, socket := range cfg.Sockets {
		if len(socket.Dies) == 0 || uint(len(socket.Dies)) > limits.Dies {
			return ErrConfig(f("socket %v: %v dies", n, len(socket.Dies)))
		}
		for d, die := range socket.Dies {
			if die.Ccds == 0 || die.Ccds > limits.Ccds ||
				die.Complexes == 0 || die.Complexes > limits.Complexes ||
				die.Cores == 0 || die.Cores > limits.Cores ||
				die.Threads == 0 || die.Threads > limits.Threads {
				return ErrConfig(f("socket %v die %v: %+v", n, d, die))
			}
		}
	}

	return
}

// ErrConfig is an invalid configuration value.
type ErrConfig string

func (err ErrConfig) Error() string {
	return f("config: %v", string(err))
}

func (err ErrConfig) Unwrap() error {
	return status.ErrInvalidParameter
}

// ErrLoad wraps any failure to load a configuration file.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
