package trampoline

import (
	"bytes"
)

// Installation is an image written over the reset-vector region, with the
// bytes it replaced.
type Installation struct {
	Layout Layout

	region []byte
	saved  []byte
}

// Capture returns a copy of the region at base.
func Capture(mem Memory, base uint64) (saved []byte, err error) {
	region, err := mem.Slice(base, RESET_REGION_SIZE)
	if err != nil {
		return
	}
	saved = bytes.Clone(region)
	return
}

// Install saves the reset-vector region, zeroes it, and writes the image
// built from cfg into it.
func Install(mem Memory, cfg Config) (inst *Installation, err error) {
	image, layout, err := Build(cfg)
	if err != nil {
		return
	}

	region, err := mem.Slice(cfg.Base, RESET_REGION_SIZE)
	if err != nil {
		return
	}

	inst = &Installation{
		Layout: layout,
		region: region,
		saved:  bytes.Clone(region),
	}

	clear(region)
	copy(region, image)

	return
}

// Saved returns the bytes the region held before Install.
func (inst *Installation) Saved() []byte {
	return inst.saved
}

// Restore writes the saved bytes back over the region.
func (inst *Installation) Restore() {
	copy(inst.region, inst.saved)
}
