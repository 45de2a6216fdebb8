package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/silicon/status"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	var mem Memory
	low := make([]byte, 0x1000)
	high := make([]byte, 0x100)
	assert.NoError(mem.Map(0x10000, high))
	assert.NoError(mem.Map(0, low))

	assert.ErrorIs(mem.Map(0xf00, make([]byte, 0x200)), status.ErrInvalidParameter)
	assert.ErrorIs(mem.Map(0x100ff, make([]byte, 1)), status.ErrInvalidParameter)

	buf, err := mem.Slice(0xff0, 0x10)
	assert.NoError(err)
	buf[0] = 0xaa
	assert.Equal(byte(0xaa), low[0xff0])
	assert.Equal(0x10, cap(buf))

	buf, err = mem.Slice(0x10080, 0x80)
	assert.NoError(err)
	assert.Len(buf, 0x80)

	table := [](struct {
		addr uint64
		size int
	}){
		{0xff8, 0x10},
		{0x1000, 1},
		{0x100f0, 0x20},
		{0xffff_ffff_ffff_fff0, 0x20},
	}
	for _, entry := range table {
		_, err = mem.Slice(entry.addr, entry.size)
		assert.ErrorIs(err, status.ErrDeviceError, "0x%x", entry.addr)
	}

	mem.Unmap(0x10000)
	_, err = mem.Slice(0x10000, 1)
	assert.ErrorIs(err, status.ErrDeviceError)
	assert.NoError(mem.Map(0x10000, high))
}

func TestHostMemory(t *testing.T) {
	assert := assert.New(t)

	hm, err := AllocateHost(8192)
	assert.NoError(err)
	assert.Len(hm.Data, 8192)
	assert.Equal(make([]byte, 8192), hm.Data)

	hm.Data[8191] = 1
	assert.NoError(hm.Close())
	assert.Nil(hm.Data)
	assert.NoError(hm.Close())
}

func TestLinker(t *testing.T) {
	assert := assert.New(t)

	var lnk Linker
	a := lnk.Link(nil)
	b := lnk.Link(nil)
	assert.Equal(uint64(LINK_BASE), a)
	assert.Equal(uint64(LINK_BASE+LINK_STRIDE), b)

	_, ok := lnk.Lookup(b)
	assert.True(ok)
	_, ok = lnk.Lookup(b + 1)
	assert.False(ok)
	_, ok = lnk.Lookup(b + LINK_STRIDE)
	assert.False(ok)
	_, ok = lnk.Lookup(0)
	assert.False(ok)
}
