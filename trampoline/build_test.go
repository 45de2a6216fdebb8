package trampoline

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/silicon/status"
)

// flatMemory is a single contiguous range of physical memory.
type flatMemory struct {
	base uint64
	data []byte
}

func (fm *flatMemory) Slice(addr uint64, size int) ([]byte, error) {
	if addr < fm.base || addr+uint64(size) > fm.base+uint64(len(fm.data)) {
		return nil, status.ErrInvalidParameter
	}
	off := addr - fm.base
	return fm.data[off : off+uint64(size)], nil
}

func testConfig() Config {
	return Config{
		Base:         RESET_REGION_BASE,
		EntryAddress: 0xffff_8000_0000_1000,
		StateAddress: 0x7654_3210,
		Descriptors:  bytes.Repeat([]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, 3),
		RegisterSync: []RegisterSync{
			{Index: 0xc001_0015, Value: 0x0100_0000},
			{Index: 0x0000_0277, Value: 0x0007_0406_0007_0406},
		},
	}
}

func TestSlots(t *testing.T) {
	assert := assert.New(t)

	slots := Slots()
	sort.Slice(slots, func(i, j int) bool { return slots[i].Offset < slots[j].Offset })
	for n := 1; n < len(slots); n++ {
		assert.LessOrEqual(slots[n-1].End(), slots[n].Offset, "%v overlaps %v", slots[n-1].Name, slots[n].Name)
	}
	assert.LessOrEqual(slots[len(slots)-1].End(), RESET_REGION_SIZE)
}

func TestBuild(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	image, layout, err := Build(cfg)
	require.NoError(t, err)
	assert.Len(image, RESET_REGION_SIZE)

	le := binary.LittleEndian
	assert.Equal(cfg.EntryAddress, le.Uint64(image[OFFSET_ENTRY_PTR:]))
	assert.Equal(cfg.StateAddress, le.Uint64(image[OFFSET_STATE_PTR:]))
	assert.Equal(uint16(23), le.Uint16(image[OFFSET_GDTR:]))
	assert.Equal(cfg.Base+OFFSET_GDT, le.Uint64(image[OFFSET_GDTR+2:]))
	assert.Equal(cfg.Descriptors, image[OFFSET_GDT:OFFSET_GDT+24])

	target, ok := JumpTarget(image[RESET_VECTOR:])
	assert.True(ok)
	assert.Equal(OFFSET_STARTUP, target)

	code, err := DecodeCode(image[target:])
	assert.NoError(err)
	assert.Equal(OP_LGDT, code.Op)

	assert.Equal(Layout{
		Base:            cfg.Base,
		ResetVector:     cfg.Base + RESET_VECTOR,
		Descriptors:     cfg.Base + OFFSET_GDT,
		DescriptorLimit: 23,
		SyncList:        cfg.Base + OFFSET_SYNC,
		SyncCount:       2,
	}, layout)

	mem := &flatMemory{base: cfg.Base, data: image}
	list, err := ReadSyncList(mem, layout.SyncList, layout.SyncCount)
	assert.NoError(err)
	assert.Equal(cfg.RegisterSync, list)

	_, err = ReadSyncList(mem, layout.SyncList, 1)
	assert.ErrorIs(err, status.ErrInvalidParameter)

	again, _, err := Build(cfg)
	assert.NoError(err)
	assert.Equal(image, again)
}

func TestBuild_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		modify func(cfg *Config)
	}){
		{"unaligned", func(cfg *Config) { cfg.Base += 0x10 }},
		{"no_entry", func(cfg *Config) { cfg.EntryAddress = 0 }},
		{"no_state", func(cfg *Config) { cfg.StateAddress = 0 }},
		{"no_gdt", func(cfg *Config) { cfg.Descriptors = nil }},
		{"big_gdt", func(cfg *Config) { cfg.Descriptors = make([]byte, GDT_LIMIT+8) }},
		{"big_sync", func(cfg *Config) { cfg.RegisterSync = make([]RegisterSync, SYNC_LIMIT+1) }},
	}

	for _, entry := range table {
		cfg := testConfig()
		entry.modify(&cfg)
		_, _, err := Build(cfg)
		assert.ErrorIs(err, status.ErrInvalidParameter, entry.name)
	}
}

func TestJumpStub(t *testing.T) {
	assert := assert.New(t)

	stub := JumpStub(0)
	assert.Equal([JUMP_STUB_SIZE]byte{0xe9, 0x0d, 0xf0}, stub)

	for _, target := range []int{0, 0x40, 0xfe0} {
		stub := JumpStub(target)
		got, ok := JumpTarget(stub[:])
		assert.True(ok)
		assert.Equal(target, got)
	}

	_, ok := JumpTarget([]byte{0x90, 0, 0})
	assert.False(ok)
}

func TestInstall_Restore(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	mem := &flatMemory{base: cfg.Base - 0x1000, data: make([]byte, 3*RESET_REGION_SIZE)}
	rand.New(rand.NewSource(1)).Read(mem.data)
	before := bytes.Clone(mem.data)

	captured, err := Capture(mem, cfg.Base)
	require.NoError(t, err)

	inst, err := Install(mem, cfg)
	require.NoError(t, err)
	assert.Equal(captured, inst.Saved())

	image, _, err := Build(cfg)
	require.NoError(t, err)
	region, err := mem.Slice(cfg.Base, RESET_REGION_SIZE)
	require.NoError(t, err)
	assert.Equal(image, region)

	// Neighbouring memory is untouched.
	assert.Equal(before[:0x1000], mem.data[:0x1000])
	assert.Equal(before[0x2000:], mem.data[0x2000:])

	inst.Restore()
	restored, err := Capture(mem, cfg.Base)
	assert.NoError(err)
	assert.Equal(captured, restored)
	assert.Equal(before, mem.data)

	inst.Restore()
	assert.Equal(before, mem.data)
}

func TestInstall_Invalid(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	mem := &flatMemory{base: 0, data: make([]byte, RESET_REGION_SIZE)}
	_, err := Install(mem, cfg)
	assert.ErrorIs(err, status.ErrInvalidParameter)

	cfg.EntryAddress = 0
	mem.base = cfg.Base
	_, err = Install(mem, cfg)
	assert.ErrorIs(err, status.ErrInvalidParameter)
	assert.Equal(make([]byte, RESET_REGION_SIZE), mem.data)
}
