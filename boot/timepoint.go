package boot

// Timepoint is one of the boot phases at which the host calls the library.
type Timepoint int

//go:generate go tool stringer -linecomment -type=Timepoint
const (
	TIMEPOINT_1 = Timepoint(1) // tp1
	TIMEPOINT_2 = Timepoint(2) // tp2
	TIMEPOINT_3 = Timepoint(3) // tp3
)

// Valid is true for the three defined timepoints.
func (tp Timepoint) Valid() bool {
	return tp >= TIMEPOINT_1 && tp <= TIMEPOINT_3
}
