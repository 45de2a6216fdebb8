// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package boot

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/status"
)

// Session is the state of the library for one AssignMemory call.
type Session struct {
	Log        zerolog.Logger
	Timepoint  Timepoint
	Arena      *arena.Arena
	Capability *capability.Registry
	Reset      ResetArbiter

	table Table
	ran   bool
}

// Option adjusts a session before any block runs.
type Option func(sess *Session)

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) Option {
	return func(sess *Session) {
		sess.Log = log
	}
}

// AssignMemory binds the host region mem, located at host address base, for
// timepoint tp and runs the API phase of that timepoint's table. At timepoint
// 1 the arena is created and every block's defaults are populated; later
// timepoints re-bind the arena as left by timepoint 1.
func AssignMemory(tp Timepoint, base uint64, mem []byte, tables Tables, opts ...Option) (sess *Session, err error) {
	if !tp.Valid() {
		err = &ErrTimepoint{Timepoint: tp, Reason: f("unknown timepoint")}
		return
	}

	sess = &Session{
		Log:        zerolog.Nop(),
		Timepoint:  tp,
		Capability: capability.NewRegistry(),
		table:      tables[tp],
	}
	for _, opt := range opts {
		opt(sess)
	}
	sess.Log = sess.Log.With().Stringer("timepoint", tp).Logger()

	if tp == TIMEPOINT_1 {
		sess.Arena, err = arena.New(base, mem)
	} else {
		sess.Arena, err = arena.Bind(base, mem)
	}
	if err != nil {
		sess = nil
		return
	}

	sess.Log.Debug().Uint64("base", base).Int("size", len(mem)).Msg("arena assigned")

	err = sess.registerApis()
	if err != nil {
		return
	}

	if tp == TIMEPOINT_1 {
		err = sess.populate()
		if err != nil {
			return
		}
	}

	return
}

// registerApis runs every API callback in table order.
func (sess *Session) registerApis() (err error) {
	for _, rec := range sess.table {
		if rec.RegisterApi == nil {
			continue
		}
		sess.Log.Debug().Stringer("block", rec.ID).Msg("register api")
		err = rec.RegisterApi(sess)
		if err != nil {
			err = &ErrBlock{Block: rec.ID, Phase: "api", Err: err}
			return
		}
	}

	return
}

// populate allocates each sized block and fills in its defaults.
func (sess *Session) populate() (err error) {
	for _, rec := range sess.table {
		if rec.Size == 0 {
			continue
		}

		var block arena.Block
		block, err = sess.Arena.Allocate(arena.Tag(rec.ID), rec.Size, 0, rec.Major, rec.Minor)
		if err != nil {
			err = &ErrBlock{Block: rec.ID, Phase: "allocate", Err: err}
			return
		}

		if rec.Populate == nil {
			sess.Log.Debug().Stringer("block", rec.ID).Msg("no defaults")
			continue
		}

		sess.Log.Debug().Stringer("block", rec.ID).Uint64("address", block.Address).Msg("populate defaults")
		err = rec.Populate(sess, block)
		if err != nil {
			err = &ErrBlock{Block: rec.ID, Phase: "populate", Err: err}
			return
		}
	}

	return
}

// RunTimepoint initializes every block of the session's timepoint. A hard
// failure stops the walk and is returned. Deferred resets are collected, and
// the strongest one is returned once the whole table has run.
func (sess *Session) RunTimepoint(tp Timepoint) (err error) {
	if tp != sess.Timepoint {
		err = &ErrTimepoint{Timepoint: tp, Reason: f("memory assigned for %v", sess.Timepoint)}
		return
	}
	if sess.ran {
		err = &ErrTimepoint{Timepoint: tp, Reason: f("already run")}
		return
	}
	sess.ran = true

	for _, rec := range sess.table {
		if rec.Initialize == nil {
			continue
		}

		sess.Log.Debug().Stringer("block", rec.ID).Msg("initialize")
		err = rec.Initialize(sess)
		if err == nil {
			continue
		}

		var rr status.ErrResetRequest
		if errors.As(err, &rr) {
			sess.Log.Info().Stringer("block", rec.ID).Stringer("reset", rr.Kind()).Msg("reset deferred")
			sess.Reset.Request(rr.Kind())
			err = nil
			continue
		}

		sess.Log.Error().Stringer("block", rec.ID).Err(err).Msg("initialize failed")
		err = &ErrBlock{Block: rec.ID, Phase: "initialize", Err: err}
		return
	}

	err = sess.Reset.Pending()
	return
}

// FindBlock returns the data block a silicon block left in the arena.
func (sess *Session) FindBlock(id capability.BlockID, instance uint16) (block arena.Block, err error) {
	return sess.Arena.Find(arena.Tag(id), instance)
}
