// Package df is the data-fabric silicon block. It decodes the fabric's
// system-configuration registers into the topology capability, reports the
// discovered topology at timepoint 1, and locks the fabric configuration at
// timepoint 3.
package df

// RegisterBus reaches the fabric configuration registers of one die.
type RegisterBus interface {
	ReadFabric(socket, die uint, function uint8, offset uint16) (uint32, error)
	WriteFabric(socket, die uint, function uint8, offset uint16, value uint32) error
}

// Field is a bit range of a fabric configuration register.
type Field struct {
	Function uint8
	Offset   uint16
	Shift    uint8
	Width    uint8
}

func (fld Field) mask() uint32 {
	return (uint32(1)<<fld.Width - 1) << fld.Shift
}

// Max is the largest value the field holds.
func (fld Field) Max() uint32 {
	return uint32(1)<<fld.Width - 1
}

// Get extracts the field from a register value.
func (fld Field) Get(reg uint32) uint32 {
	return (reg & fld.mask()) >> fld.Shift
}

// Set replaces the field in a register value.
func (fld Field) Set(reg, value uint32) uint32 {
	return (reg &^ fld.mask()) | ((value << fld.Shift) & fld.mask())
}

// Read the field from a die.
func (fld Field) Read(bus RegisterBus, socket, die uint) (value uint32, err error) {
	reg, err := bus.ReadFabric(socket, die, fld.Function, fld.Offset)
	if err != nil {
		return
	}
	value = fld.Get(reg)
	return
}

// Write the field on a die, preserving the rest of the register.
func (fld Field) Write(bus RegisterBus, socket, die uint, value uint32) (err error) {
	reg, err := bus.ReadFabric(socket, die, fld.Function, fld.Offset)
	if err != nil {
		return
	}
	return bus.WriteFabric(socket, die, fld.Function, fld.Offset, fld.Set(reg, value))
}
