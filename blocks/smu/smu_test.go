package smu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/silicon/blocks/df"
	"github.com/ezrec/silicon/boot"
	"github.com/ezrec/silicon/internal/testlog"
	"github.com/ezrec/silicon/silicon"
	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/topology"
)

type release struct {
	coord   topology.Coordinate
	address uint64
}

// fakeFirmware answers the mailbox of every socket.
type fakeFirmware struct {
	rev      *Revision
	features [2]uint64
	released []release
}

func (ff *fakeFirmware) Call(socket uint, message uint32, args *Args) (Result, error) {
	if socket > 1 {
		return RESULT_NONE, status.ErrDeviceError
	}

	switch message {
	case ff.rev.GetVersion:
		*args = Args{0x004c_2a00}
	case ff.rev.GetFeatures:
		*args = FeatureArgs(ff.features[socket])
	case ff.rev.EnableFeatures:
		ff.features[socket] |= FeatureMask(*args)
	case ff.rev.ReleaseThread:
		ff.released = append(ff.released, release{
			coord:   ff.rev.UnpackThread(socket, args[0]),
			address: uint64(args[1]) | uint64(args[2])<<32,
		})
	default:
		return RESULT_UNKNOWN, nil
	}
	return RESULT_OK, nil
}

type fakeFabric uint

func (ff fakeFabric) SocketCount() (uint, error) { return uint(ff), nil }

func (ff fakeFabric) DieCount(socket uint) (uint, error) { return 1, nil }

func (ff fakeFabric) DieInfo(socket, die uint) (topology.Die, error) {
	return topology.Die{Ccds: 1, Complexes: 1, Cores: 1, Threads: 1}, nil
}

func TestRevision_Thread(t *testing.T) {
	assert := assert.New(t)

	coord := topology.Coordinate{Socket: 1, Die: 0, Ccd: 11, Complex: 1, Core: 15, Thread: 1}
	for gen, rev := range Revisions {
		packed := rev.PackThread(coord)
		assert.Equal(coord, rev.UnpackThread(1, packed), gen.String())
	}

	assert.Equal(uint32(0xb1f1), Revisions[silicon.GEN_FAM19].PackThread(coord))
	assert.Equal(uint32(0x00b1_0f01), Revisions[silicon.GEN_FAM1A].PackThread(coord))

	_, err := Lookup(silicon.GEN_UNKNOWN)
	assert.ErrorIs(err, status.ErrInvalidParameter)
}

func TestSmu(t *testing.T) {
	assert := assert.New(t)

	rev := Revisions[silicon.GEN_FAM19]
	fw := &fakeFirmware{rev: rev}
	smu := &Smu{Mailbox: fw, Revision: rev}

	coord := topology.Coordinate{Socket: 1, Ccd: 3, Core: 2, Thread: 1}
	assert.NoError(smu.Release(coord, 0x1_000f_fff0))
	assert.Equal([]release{{coord, 0x1_000f_fff0}}, fw.released)

	version, err := smu.Version(0)
	assert.NoError(err)
	assert.Equal(uint32(0x004c_2a00), version)

	assert.NoError(smu.EnableFeatures(1, FEATURE_CPPC|FEATURE_PROCHOT))
	mask, err := smu.Features(1)
	assert.NoError(err)
	assert.Equal(FEATURE_CPPC|FEATURE_PROCHOT, mask)

	_, err = smu.Version(2)
	assert.ErrorIs(err, status.ErrDeviceError)

	// A table for the wrong generation sends messages the firmware rejects.
	other := &Smu{Mailbox: fw, Revision: Revisions[silicon.GEN_FAM1A]}
	_, err = other.Features(0)
	assert.ErrorIs(err, status.ErrInvalidParameter)
	var er *ErrResult
	assert.ErrorAs(err, &er)
	assert.Equal(RESULT_UNKNOWN, er.Result)
}

func TestBlock(t *testing.T) {
	assert := assert.New(t)

	fw := &fakeFirmware{rev: Revisions[silicon.GEN_FAM1A]}
	fw.features[0] = DEFAULT_FEATURES

	blk, err := New(silicon.GEN_FAM1A, fw)
	require.NoError(t, err)

	fabric := boot.Record{
		ID: df.ID,
		RegisterApi: func(sess *boot.Session) error {
			sess.Capability.RegisterApi(df.ID, topology.Fabric(fakeFabric(2)))
			return nil
		},
	}
	tables := boot.Tables{boot.TIMEPOINT_1: {fabric, blk.Record(boot.TIMEPOINT_1)}}
	mem := make([]byte, boot.QueryMemoryRequirements(tables))

	// Socket 1 is missing the defaults.
	sess, err := boot.AssignMemory(boot.TIMEPOINT_1, 0x1000, mem, tables, boot.WithLogger(testlog.New(t)))
	require.NoError(t, err)

	block, err := sess.FindBlock(ID, 0)
	require.NoError(t, err)
	SetFeatures(block, DEFAULT_FEATURES|FEATURE_DF_CSTATES)

	err = sess.RunTimepoint(boot.TIMEPOINT_1)
	assert.Equal(status.STATUS_RESET_REQUEST_WARM, status.Of(err))
	assert.Equal(uint32(0x004c_2a00), Version(block))
	assert.Equal(DEFAULT_FEATURES|FEATURE_DF_CSTATES, fw.features[0])
	assert.Equal(DEFAULT_FEATURES|FEATURE_DF_CSTATES, fw.features[1])

	// After the reset everything is already on.
	sess, err = boot.AssignMemory(boot.TIMEPOINT_1, 0x1000, mem, tables)
	require.NoError(t, err)
	assert.NoError(sess.RunTimepoint(boot.TIMEPOINT_1))

	// Without the fabric capability the block cannot run.
	tables = boot.Tables{boot.TIMEPOINT_1: {blk.Record(boot.TIMEPOINT_1)}}
	sess, err = boot.AssignMemory(boot.TIMEPOINT_1, 0x1000, mem, tables)
	require.NoError(t, err)
	err = sess.RunTimepoint(boot.TIMEPOINT_1)
	assert.ErrorIs(err, status.ErrNotFound)

	_, err = sess.Capability.GetApi(ID)
	assert.NoError(err)
	_, err = New(silicon.GEN_UNKNOWN, fw)
	assert.ErrorIs(err, status.ErrInvalidParameter)
}
