// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package trampoline

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined layout equates
var sysEquate = map[string]string{
	"RESET_REGION_SIZE": fmt.Sprintf("%#x", RESET_REGION_SIZE),
	"RESET_VECTOR":      fmt.Sprintf("%#x", RESET_VECTOR),
	"OFFSET_STARTUP":    fmt.Sprintf("%#x", OFFSET_STARTUP),
	"OFFSET_ENTRY_PTR":  fmt.Sprintf("%#x", OFFSET_ENTRY_PTR),
	"OFFSET_STATE_PTR":  fmt.Sprintf("%#x", OFFSET_STATE_PTR),
	"OFFSET_GDTR":       fmt.Sprintf("%#x", OFFSET_GDTR),
	"OFFSET_GDT":        fmt.Sprintf("%#x", OFFSET_GDT),
	"OFFSET_SYNC":       fmt.Sprintf("%#x", OFFSET_SYNC),
}

// opMap maps mnemonics to operations.
var opMap = map[string]CodeOp{
	"halt":   OP_HALT,
	"lgdt":   OP_LGDT,
	"prot32": OP_PROT32,
	"long64": OP_LONG64,
	"state":  OP_STATE,
	"call":   OP_CALL,
}

// Assembler is a single pass assembler for startup programs.
//
// Lines are 'label: mnemonic [offset] ; comment'. '.equ NAME VALUE' defines
// an equate, and '$(...)' is replaced by the value of a compile-time
// expression over the equates and the labels defined so far.
type Assembler struct {
	Log    zerolog.Logger // Assembly trace, at debug level.
	Origin int            // Region offset of the first opcode.

	Opcode []Opcode          // List of generated opcodes.
	Label  map[string]int    // Map of labels to region offsets.
	Equate map[string]string // Map of equates.
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	v64, err := strconv.ParseUint(word, 0, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value16 uint16
		value16, err = asm.valueOf(str)
		if err != nil {
			continue
		}
		pred[key] = starlark.MakeInt(int(value16))
	}
	err = nil
	for key, offset := range asm.Label {
		pred[key] = starlark.MakeInt(offset)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xffff {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine expands a line into words.
func (asm *Assembler) parseLine(line string) (words []string, err error) {
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%#x", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value := words[2]
		equate, ok := asm.Equate[value]
		if ok {
			value = equate
		}
		asm.Equate[words[1]] = value
		words = nil
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentOffset()
		words = words[1:]
	}

	return
}

// currentOffset gets the region offset of the next opcode.
func (asm *Assembler) currentOffset() int {
	return asm.Origin + len(asm.Opcode)*CODE_SIZE
}

// parseWords assembles one instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	var arg uint16
	switch {
	case op.HasArg() && len(args) == 0:
		err = ErrOpcodeMissing
		return
	case op.HasArg() && len(args) == 1:
		arg, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
	case len(args) != 0:
		err = ErrOpcodeExtraArgs
		return
	}

	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo: lineno,
		Offset: asm.currentOffset(),
		Words:  words,
		Code:   MakeCode(op, arg),
	})

	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]int)
	asm.Equate = maps.Clone(sysEquate)

	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		asm.Log.Debug().Int("line", lineno).Msg(text)

		line = strings.TrimSpace(strings.SplitN(text, ";", 2)[0])

		var words []string
		words, err = asm.parseLine(line)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}
