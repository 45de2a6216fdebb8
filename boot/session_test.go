package boot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/silicon/arena"
	"github.com/ezrec/silicon/capability"
	"github.com/ezrec/silicon/internal/testlog"
	"github.com/ezrec/silicon/status"
)

const (
	blockA = capability.BlockID(0xa0)
	blockB = capability.BlockID(0xb0)
	blockC = capability.BlockID(0xc0)
	blockD = capability.BlockID(0xd0)
)

// trace records the order callbacks were invoked in.
type trace struct {
	calls []string
}

func (tr *trace) callback(name string, err error) Callback {
	return func(sess *Session) error {
		tr.calls = append(tr.calls, name)
		return err
	}
}

func TestQueryMemoryRequirements(t *testing.T) {
	assert := assert.New(t)

	tables := Tables{
		TIMEPOINT_1: Table{{ID: blockA, Size: 100}, {ID: blockB}, {ID: blockC, Size: 3000}},
		TIMEPOINT_2: Table{{ID: blockD, Size: 1 << 20}},
	}

	assert.Equal(arena.Requirement(100, 3000), QueryMemoryRequirements(tables))
	assert.Equal(uint64(4096), QueryMemoryRequirements(tables))
}

func TestSession_BootSequence(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, RegisterApi: tr.callback("api:A", nil), Initialize: tr.callback("init:A", nil)},
			{ID: blockB, RegisterApi: tr.callback("api:B", nil), Initialize: tr.callback("init:B", status.ErrResetRequest(status.RESET_WARM))},
			{ID: blockC, Initialize: tr.callback("init:C", status.ErrResetRequest(status.RESET_COLD))},
			{ID: blockD, RegisterApi: tr.callback("api:D", nil), Initialize: tr.callback("init:D", nil)},
		},
	}

	mem := make([]byte, QueryMemoryRequirements(tables))
	sess, err := AssignMemory(TIMEPOINT_1, 0x10000, mem, tables, WithLogger(testlog.New(t)))
	require.NoError(t, err)
	assert.Equal([]string{"api:A", "api:B", "api:D"}, tr.calls)

	err = sess.RunTimepoint(TIMEPOINT_1)
	assert.Equal(status.ErrResetRequest(status.RESET_COLD), err)
	assert.Equal(status.STATUS_RESET_REQUEST_COLD, status.Of(err))
	assert.Equal([]string{"api:A", "api:B", "api:D", "init:A", "init:B", "init:C", "init:D"}, tr.calls)

	err = sess.RunTimepoint(TIMEPOINT_1)
	assert.ErrorIs(err, status.ErrInvalidParameter)
}

func TestSession_HardFailure(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, Initialize: tr.callback("init:A", status.ErrResetRequest(status.RESET_WARM))},
			{ID: blockB, Initialize: tr.callback("init:B", status.ErrDeviceError)},
			{ID: blockC, Initialize: tr.callback("init:C", nil)},
		},
	}

	sess, err := AssignMemory(TIMEPOINT_1, 0, make([]byte, 2048), tables)
	require.NoError(t, err)

	err = sess.RunTimepoint(TIMEPOINT_1)
	assert.ErrorIs(err, status.ErrDeviceError)
	var blockErr *ErrBlock
	assert.True(errors.As(err, &blockErr))
	assert.Equal(blockB, blockErr.Block)
	assert.Equal("initialize", blockErr.Phase)
	assert.Equal([]string{"init:A", "init:B"}, tr.calls)
}

func TestSession_ApiFailure(t *testing.T) {
	assert := assert.New(t)

	tr := &trace{}
	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, RegisterApi: tr.callback("api:A", status.ErrNotFound)},
			{ID: blockB, RegisterApi: tr.callback("api:B", nil), Size: 16, Populate: func(sess *Session, block arena.Block) error {
				tr.calls = append(tr.calls, "populate:B")
				return nil
			}},
		},
	}

	_, err := AssignMemory(TIMEPOINT_1, 0, make([]byte, 2048), tables)
	assert.ErrorIs(err, status.ErrNotFound)
	assert.Equal([]string{"api:A"}, tr.calls)
}

func TestSession_Populate(t *testing.T) {
	assert := assert.New(t)

	var populated []capability.BlockID
	populate := func(sess *Session, block arena.Block) error {
		populated = append(populated, capability.BlockID(block.Tag))
		block.Data[0] = byte(block.Tag)
		return nil
	}

	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, Size: 8, Populate: populate, Major: 2},
			{ID: blockB, Size: 8},
			{ID: blockC},
			{ID: blockD, Size: 24, Populate: populate},
		},
		TIMEPOINT_2: Table{
			{ID: blockA, Initialize: func(sess *Session) error {
				block, err := sess.FindBlock(blockA, 0)
				if err != nil {
					return err
				}
				if block.Data[0] != byte(blockA) {
					return status.ErrDeviceError
				}
				return nil
			}},
		},
	}

	mem := make([]byte, QueryMemoryRequirements(tables))
	sess, err := AssignMemory(TIMEPOINT_1, 0x2000, mem, tables)
	require.NoError(t, err)
	assert.Equal([]capability.BlockID{blockA, blockD}, populated)

	block, err := sess.FindBlock(blockA, 0)
	assert.NoError(err)
	assert.Equal(uint8(2), block.Major)

	block, err = sess.FindBlock(blockB, 0)
	assert.NoError(err)
	assert.Len(block.Data, 8)

	_, err = sess.FindBlock(blockC, 0)
	assert.ErrorIs(err, status.ErrNotFound)

	assert.NoError(sess.RunTimepoint(TIMEPOINT_1))

	// Timepoint 2 re-binds without re-populating.
	sess2, err := AssignMemory(TIMEPOINT_2, 0x2000, mem, tables)
	require.NoError(t, err)
	assert.Len(populated, 2)
	assert.NoError(sess2.RunTimepoint(TIMEPOINT_2))

	err = sess2.RunTimepoint(TIMEPOINT_1)
	assert.ErrorIs(err, status.ErrInvalidParameter)
}

func TestSession_PopulateNoSpace(t *testing.T) {
	assert := assert.New(t)

	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, Size: 1024},
			{ID: blockB, Size: 1024},
		},
	}

	_, err := AssignMemory(TIMEPOINT_1, 0, make([]byte, 1500), tables)
	assert.ErrorIs(err, status.ErrNoSpace)
	assert.Equal(status.STATUS_OUT_OF_RESOURCES, status.Of(err))
}

func TestSession_PopulateFailure(t *testing.T) {
	assert := assert.New(t)

	tables := Tables{
		TIMEPOINT_1: Table{
			{ID: blockA, Size: 8, Populate: func(sess *Session, block arena.Block) error {
				return status.ErrInvalidParameter
			}},
		},
	}

	_, err := AssignMemory(TIMEPOINT_1, 0, make([]byte, 2048), tables)
	assert.ErrorIs(err, status.ErrInvalidParameter)
}

func TestAssignMemory_Invalid(t *testing.T) {
	assert := assert.New(t)

	_, err := AssignMemory(Timepoint(4), 0, make([]byte, 2048), Tables{})
	assert.ErrorIs(err, status.ErrInvalidParameter)

	// Timepoint 2 without a prior timepoint 1.
	_, err = AssignMemory(TIMEPOINT_2, 0, make([]byte, 2048), Tables{})
	assert.ErrorIs(err, status.ErrInvalidParameter)
}

func TestTimepoint_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("tp1", TIMEPOINT_1.String())
	assert.Equal("tp3", TIMEPOINT_3.String())
	assert.Equal("Timepoint(0)", Timepoint(0).String())
}
