// Package platform assembles the per-timepoint silicon-block tables of each
// supported processor generation.
package platform

import (
	"github.com/ezrec/silicon/blocks/ccx"
	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/bringup"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/topology"
	"github.com/ezrec/silicon/trampoline"
)

// Hardware is what the blocks of a platform touch.
type Hardware struct {
	Fabric    df.RegisterBus    // Fabric configuration registers.
	Mailbox   smu.Mailbox       // Power-management firmware.
	Bootstrap bringup.Bootstrap // The thread running the library.
	Memory    trampoline.Memory // Physical memory, reset-vector region included.
	Linker    trampoline.Linker // Gives the shared thread entry an address.
}

// Detect selects the generation from a CPUID leaf 1 EAX value.
func Detect(eax uint32) (gen silicon.Generation, err error) {
	return silicon.Select(silicon.Decode(eax))
}

// Tables returns the block tables of gen:
//
//	timepoint 1: df, smu, ccx
//	timepoint 2: df, smu
//	timepoint 3: df, smu (df locks the fabric)
func Tables(gen silicon.Generation, hw Hardware) (tables boot.Tables, err error) {
	fabric, err := df.New(gen, hw.Fabric)
	if err != nil {
		return
	}

	power, err := smu.New(gen, hw.Mailbox)
	if err != nil {
		return
	}

	core := &ccx.Block{
		Bootstrap: hw.Bootstrap,
		Memory:    hw.Memory,
		Linker:    hw.Linker,
		Limits:    topology.DefaultLimits,
	}

	tables = boot.Tables{
		boot.TIMEPOINT_1: {
			fabric.Record(boot.TIMEPOINT_1),
			power.Record(boot.TIMEPOINT_1),
			core.Record(boot.TIMEPOINT_1),
		},
		boot.TIMEPOINT_2: {
			fabric.Record(boot.TIMEPOINT_2),
			power.Record(boot.TIMEPOINT_2),
		},
		boot.TIMEPOINT_3: {
			fabric.Record(boot.TIMEPOINT_3),
			power.Record(boot.TIMEPOINT_3),
		},
	}

	return
}
