package bringup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

func TestState(t *testing.T) {
	assert := assert.New(t)

	buf := make([]byte, STATE_SIZE)
	st := State{
		Ack:             99,
		Ordinal:         3,
		DescriptorBase:  0xff200,
		DescriptorLimit: 0x17,
		SyncList:        0xff400,
		SyncCount:       2,
		Control:         [CONTROL_COUNT]uint64{1, 2, 3, 4},
	}
	st.Encode(buf)

	got, err := DecodeState(buf)
	assert.NoError(err)
	assert.Equal(uint32(0), got.Ack)
	got.Ack = st.Ack
	assert.Equal(st, got)

	assert.Equal(uint32(1), AddAck(buf))
	assert.Equal(uint32(2), AddAck(buf))
	assert.Equal(uint32(2), LoadAck(buf))
	ResetAck(buf)
	assert.Equal(uint32(0), LoadAck(buf))

	_, err = DecodeState(buf[:STATE_SIZE-1])
	assert.ErrorIs(err, status.ErrInvalidParameter)
}
