package sim

import (
	"errors"

	"github.com/ezrec/silicon/blocks/ccx"
	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/blocks/smu"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/platform"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
)

// Result of driving the library through a boot.
type Result struct {
	Requirement uint64                           // Arena bytes the library asked for.
	Status      map[boot.Timepoint]status.Status // Result code of each timepoint run.
	Resets      int                              // Deferred resets honoured.
	Launched    uint32                           // Threads brought up.
	Topology    df.Report
	SmuVersion  uint32
}

// Boot drives the library the way host firmware does: query the arena
// requirement, map the arena, then assign memory and run each timepoint in
// turn. A deferred reset request resets the machine and starts over, up to
// Config.MaxResets times.
func (m *Machine) Boot() (res Result, err error) {
	for {
		var reset status.ResetKind
		res.Status = make(map[boot.Timepoint]status.Status)
		reset, err = m.boot(&res)
		if reset == status.RESET_NONE || res.Resets >= m.Config.MaxResets {
			return
		}

		res.Resets++
		err = m.Reset(reset)
		if err != nil {
			return
		}
	}
}

// boot runs one pass over the timepoints, returning any deferred reset.
func (m *Machine) boot(res *Result) (reset status.ResetKind, err error) {
	tables, err := platform.Tables(m.Generation, m.Hardware())
	if err != nil {
		return
	}

	res.Requirement = boot.QueryMemoryRequirements(tables)
	size := m.Config.ArenaSize
	if size == 0 {
		size = res.Requirement
	}

	host, err := AllocateHost(int(size))
	if err != nil {
		return
	}
	defer host.Close()

	base := m.Config.ArenaBase
	err = m.Memory.Map(base, host.Data)
	if err != nil {
		return
	}
	defer m.Memory.Unmap(base)

	for _, tp := range []boot.Timepoint{boot.TIMEPOINT_1, boot.TIMEPOINT_2, boot.TIMEPOINT_3} {
		var sess *boot.Session
		sess, err = boot.AssignMemory(tp, base, host.Data, tables, boot.WithLogger(m.Log))
		if err != nil {
			res.Status[tp] = status.Of(err)
			return
		}

		if tp == boot.TIMEPOINT_1 {
			err = m.configure(sess)
			if err != nil {
				return
			}
		}

		err = sess.RunTimepoint(tp)
		if tp == boot.TIMEPOINT_1 {
			err = errors.Join(err, m.Wait())
			m.collect(sess, res)
		}
		res.Status[tp] = status.Of(err)

		m.Log.Info().Stringer("timepoint", tp).Stringer("status", res.Status[tp]).Msg("timepoint complete")

		if status.IsReset(err) {
			var rr status.ErrResetRequest
			errors.As(err, &rr)
			reset = rr.Kind()
			return
		}
		if err != nil {
			return
		}
	}

	return
}

// configure applies the host settings to the defaults left at timepoint 1.
func (m *Machine) configure(sess *boot.Session) (err error) {
	block, err := sess.FindBlock(ccx.ID, 0)
	if err != nil {
		return
	}

	cfg, err := ccx.Decode(block.Data)
	if err != nil {
		return
	}
	cfg.Timeout = m.Config.RendezvousTimeout
	cfg.Resume = m.Config.Resume

	return cfg.Encode(block.Data)
}

// collect reads the output blocks after timepoint 1.
func (m *Machine) collect(sess *boot.Session, res *Result) {
	block, err := sess.FindBlock(ccx.ID, 0)
	if err == nil {
		res.Launched = ccx.Launched(block.Data)
	}

	block, err = sess.FindBlock(smu.ID, 0)
	if err == nil {
		res.SmuVersion = smu.Version(block)
	}

	rep, err := df.Topology(sess, topology.DefaultLimits)
	if err == nil {
		res.Topology = rep
	}
}
