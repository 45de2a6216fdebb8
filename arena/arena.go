// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package arena

import (
	"encoding/binary"
	"fmt"
	"iter"
)

const (
	ARENA_SIGNATURE   = 0x414c_4953 // "SILA", little endian.
	ARENA_VERSION     = 1           // Layout version of the arena header.
	ARENA_HEADER_SIZE = 32          // Bytes reserved for the arena header.
	ARENA_ALIGN       = 8           // Alignment of every block header and payload.
	ARENA_GRANULE     = 2048        // Host memory requirements are rounded to this.
	BLOCK_HEADER_SIZE = 16          // Bytes before each block payload.
)

// Arena header field offsets.
const (
	hdrSignature  = 0
	hdrVersion    = 4
	hdrTotalSize  = 8
	hdrFreeOffset = 16
	hdrFreeBytes  = 24
)

// Block header field offsets.
const (
	blkTag      = 0
	blkInstance = 4
	blkMajor    = 6
	blkMinor    = 7
	blkSize     = 8
)

// Tag identifies the owner of a block, usually a silicon block identifier.
type Tag uint32

func (tag Tag) String() string {
	return fmt.Sprintf("tag_%08x", uint32(tag))
}

// Block is a tagged payload carved out of the arena.
type Block struct {
	Tag      Tag
	Instance uint16
	Major    uint8
	Minor    uint8
	Address  uint64 // Host address of the first payload byte.
	Data     []byte // Payload, length rounded to ARENA_ALIGN.
}

// Arena is a view of the host supplied region.
type Arena struct {
	Base uint64 // Host address of mem[0].
	mem  []byte
}

// Align rounds size up to the arena alignment.
func Align(size uint64) uint64 {
	return (size + ARENA_ALIGN - 1) &^ (ARENA_ALIGN - 1)
}

// Requirement is the number of host bytes needed to hold blocks with the
// given payload sizes, rounded up to ARENA_GRANULE.
func Requirement(sizes ...uint32) (need uint64) {
	need = ARENA_HEADER_SIZE
	for _, size := range sizes {
		if size == 0 {
			continue
		}
		need += BLOCK_HEADER_SIZE + Align(uint64(size))
	}

	need = (need + ARENA_GRANULE - 1) &^ (ARENA_GRANULE - 1)
	return
}

// New initializes an empty arena over mem, which is located at host address base.
func New(base uint64, mem []byte) (arena *Arena, err error) {
	if len(mem) < ARENA_HEADER_SIZE {
		err = ErrArenaInvalid(f("%d bytes is too small", len(mem)))
		return
	}
	if base%ARENA_ALIGN != 0 {
		err = ErrArenaInvalid(f("base 0x%x is not aligned", base))
		return
	}

	arena = &Arena{Base: base, mem: mem}

	total := uint64(len(mem))
	le := binary.LittleEndian
	le.PutUint32(mem[hdrSignature:], ARENA_SIGNATURE)
	le.PutUint32(mem[hdrVersion:], ARENA_VERSION)
	le.PutUint64(mem[hdrTotalSize:], total)
	arena.setFree(ARENA_HEADER_SIZE, total-ARENA_HEADER_SIZE)

	return
}

// Bind attaches to an arena previously created by New over the same bytes.
// Nothing inside the arena is modified.
func Bind(base uint64, mem []byte) (arena *Arena, err error) {
	if len(mem) < ARENA_HEADER_SIZE {
		err = ErrArenaInvalid(f("%d bytes is too small", len(mem)))
		return
	}

	le := binary.LittleEndian
	if le.Uint32(mem[hdrSignature:]) != ARENA_SIGNATURE {
		err = ErrArenaInvalid(f("signature missing"))
		return
	}
	if le.Uint32(mem[hdrVersion:]) != ARENA_VERSION {
		err = ErrArenaInvalid(f("version %d unsupported", le.Uint32(mem[hdrVersion:])))
		return
	}

	total := le.Uint64(mem[hdrTotalSize:])
	if total != uint64(len(mem)) {
		err = ErrArenaInvalid(f("size %d, expected %d", len(mem), total))
		return
	}

	arena = &Arena{Base: base, mem: mem}
	offset, free := arena.freeState()
	if offset < ARENA_HEADER_SIZE || offset > total || free != total-offset {
		err = ErrArenaInvalid(f("free space corrupted"))
		arena = nil
		return
	}

	// The block chain must end exactly at the free offset.
	if arena.chainEnd() != offset {
		err = ErrArenaInvalid(f("block chain corrupted"))
		arena = nil
		return
	}

	return
}

func (arena *Arena) freeState() (offset, free uint64) {
	le := binary.LittleEndian
	offset = le.Uint64(arena.mem[hdrFreeOffset:])
	free = le.Uint64(arena.mem[hdrFreeBytes:])
	return
}

func (arena *Arena) setFree(offset, free uint64) {
	le := binary.LittleEndian
	le.PutUint64(arena.mem[hdrFreeOffset:], offset)
	le.PutUint64(arena.mem[hdrFreeBytes:], free)
}

// Size of the arena, including headers.
func (arena *Arena) Size() uint64 {
	return uint64(len(arena.mem))
}

// Free returns the number of unallocated bytes.
func (arena *Arena) Free() uint64 {
	_, free := arena.freeState()
	return free
}

// Allocate appends a new block. The payload is zeroed.
func (arena *Arena) Allocate(tag Tag, size uint32, instance uint16, major, minor uint8) (block Block, err error) {
	if size == 0 {
		err = ErrArenaInvalid(f("%v zero sized allocation", tag))
		return
	}

	_, err = arena.Find(tag, instance)
	if err == nil {
		err = &ErrBlockDuplicate{Tag: tag, Instance: instance}
		return
	}
	err = nil

	offset, free := arena.freeState()
	payload := Align(uint64(size))
	need := BLOCK_HEADER_SIZE + payload
	if need > free {
		err = &ErrNoSpace{Tag: tag, Need: need, Free: free}
		return
	}

	hdr := arena.mem[offset : offset+BLOCK_HEADER_SIZE]
	clear(hdr)
	le := binary.LittleEndian
	le.PutUint32(hdr[blkTag:], uint32(tag))
	le.PutUint16(hdr[blkInstance:], instance)
	hdr[blkMajor] = major
	hdr[blkMinor] = minor
	le.PutUint32(hdr[blkSize:], uint32(payload))

	arena.setFree(offset+need, free-need)

	block = arena.blockAt(offset)
	clear(block.Data)

	return
}

// blockAt decodes the block whose header is at offset.
func (arena *Arena) blockAt(offset uint64) (block Block) {
	le := binary.LittleEndian
	hdr := arena.mem[offset : offset+BLOCK_HEADER_SIZE]
	size := uint64(le.Uint32(hdr[blkSize:]))
	start := offset + BLOCK_HEADER_SIZE

	block = Block{
		Tag:      Tag(le.Uint32(hdr[blkTag:])),
		Instance: le.Uint16(hdr[blkInstance:]),
		Major:    hdr[blkMajor],
		Minor:    hdr[blkMinor],
		Address:  arena.Base + start,
		Data:     arena.mem[start : start+size : start+size],
	}

	return
}

// fits is true if a block header at offset, and the non-empty payload it
// claims, lie below end.
func (arena *Arena) fits(offset, end uint64) bool {
	if end > uint64(len(arena.mem)) || offset > end || end-offset < BLOCK_HEADER_SIZE {
		return false
	}
	size := uint64(binary.LittleEndian.Uint32(arena.mem[offset+blkSize:]))
	return size != 0 && size <= end-offset-BLOCK_HEADER_SIZE
}

// chainEnd is the offset where the walk of block headers stops.
func (arena *Arena) chainEnd() (offset uint64) {
	end, _ := arena.freeState()
	offset = ARENA_HEADER_SIZE
	for arena.fits(offset, end) {
		offset += BLOCK_HEADER_SIZE + uint64(binary.LittleEndian.Uint32(arena.mem[offset+blkSize:]))
	}
	return
}

// All iterates over the allocated blocks in allocation order. The walk stops
// at the first block that does not fit below the free offset.
func (arena *Arena) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		end, _ := arena.freeState()
		for offset := uint64(ARENA_HEADER_SIZE); arena.fits(offset, end); {
			block := arena.blockAt(offset)
			if !yield(block) {
				return
			}
			offset += BLOCK_HEADER_SIZE + uint64(len(block.Data))
		}
	}
}

// Find returns the first block matching tag and instance.
func (arena *Arena) Find(tag Tag, instance uint16) (block Block, err error) {
	for candidate := range arena.All() {
		if candidate.Tag == tag && candidate.Instance == instance {
			block = candidate
			return
		}
	}

	err = &ErrBlockMissing{Tag: tag, Instance: instance}
	return
}
