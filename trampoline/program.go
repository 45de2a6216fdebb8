package trampoline

// Opcode is a line of assembled startup program.
type Opcode struct {
	LineNo int
	Offset int
	Words  []string
	Code   Code
}

// Program is an assembled startup program.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int // Region offsets of labels.
}

// Size in bytes of the encoded program.
func (prog *Program) Size() int {
	return len(prog.Opcodes) * CODE_SIZE
}

// Binary encodes the program.
func (prog *Program) Binary() (bin []byte) {
	bin = make([]byte, prog.Size())
	for n, op := range prog.Opcodes {
		op.Code.Encode(bin[n*CODE_SIZE:])
	}
	return
}

// Debug returns the opcode at a region offset, or nil.
func (prog *Program) Debug(offset int) *Opcode {
	for n, op := range prog.Opcodes {
		if offset >= op.Offset && offset < op.Offset+CODE_SIZE {
			return &prog.Opcodes[n]
		}
	}
	return nil
}
