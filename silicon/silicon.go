// Package silicon identifies the processor the library is running on and
// selects the revision variant every block's implementation is keyed on.
package silicon

import (
	"fmt"

	"github.com/ezrec/silicon/status"
	"github.com/ezrec/silicon/translate"
)

var f = translate.From

// Identity as reported by CPUID leaf 1, EAX.
type Identity struct {
	Family   uint8
	Model    uint8
	Stepping uint8
}

// Decode splits a CPUID leaf 1 EAX value into family, model and stepping.
// The extended fields only apply to base family 0xf.
func Decode(eax uint32) (id Identity) {
	stepping := eax & 0xf
	model := (eax >> 4) & 0xf
	family := (eax >> 8) & 0xf
	extModel := (eax >> 16) & 0xf
	extFamily := (eax >> 20) & 0xff

	if family == 0xf {
		family += extFamily
		model |= extModel << 4
	}

	id = Identity{
		Family:   uint8(family),
		Model:    uint8(model),
		Stepping: uint8(stepping),
	}
	return
}

// Encode is the inverse of Decode for family 0xf and above.
func (id Identity) Encode() (eax uint32) {
	eax = uint32(id.Stepping & 0xf)
	eax |= uint32(id.Model&0xf) << 4
	if id.Family >= 0xf {
		eax |= 0xf << 8
		eax |= uint32(id.Model>>4) << 16
		eax |= uint32(id.Family-0xf) << 20
	} else {
		eax |= uint32(id.Family) << 8
	}
	return
}

func (id Identity) String() string {
	return fmt.Sprintf("family %02xh model %02xh stepping %d", id.Family, id.Model, id.Stepping)
}

// Generation is the revision variant of a supported processor family.
type Generation int

//go:generate go tool stringer -linecomment -type=Generation
const (
	GEN_UNKNOWN = Generation(0) // unknown
	GEN_FAM19   = Generation(1) // fam19
	GEN_FAM1A   = Generation(2) // fam1a
)

// ErrUnsupported is returned for a processor no revision variant supports.
type ErrUnsupported Identity

func (err ErrUnsupported) Error() string {
	return f("unsupported silicon: %v", Identity(err))
}

func (err ErrUnsupported) Unwrap() error {
	return status.ErrInvalidParameter
}

// Select picks the revision variant for id.
func Select(id Identity) (gen Generation, err error) {
	switch {
	case id.Family == 0x19 && id.Model >= 0x10 && id.Model <= 0x1f:
		gen = GEN_FAM19
	case id.Family == 0x19 && id.Model >= 0xa0 && id.Model <= 0xaf:
		gen = GEN_FAM19
	case id.Family == 0x1a && id.Model <= 0x1f:
		gen = GEN_FAM1A
	default:
		err = ErrUnsupported(id)
	}
	return
}
