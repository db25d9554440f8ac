package emulator

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	AInstruction Kind = iota // @value
	CInstruction             // dest=comp;jump
)

// Destination bits of a C-instruction
const (
	DestM = 1 << iota
	DestD
	DestA
)

type Jump int

const (
	JumpNone Jump = iota
	JGT
	JEQ
	JGE
	JLT
	JNE
	JLE
	JMP
)

var jumps = map[string]Jump{
	"JGT": JGT,
	"JEQ": JEQ,
	"JGE": JGE,
	"JLT": JLT,
	"JNE": JNE,
	"JLE": JLE,
	"JMP": JMP,
}

// taken reports whether the jump condition holds for the ALU output v
func (j Jump) taken(v int16) bool {
	switch j {
	case JGT:
		return v > 0
	case JEQ:
		return v == 0
	case JGE:
		return v >= 0
	case JLT:
		return v < 0
	case JNE:
		return v != 0
	case JLE:
		return v <= 0
	case JMP:
		return true
	default:
		return false
	}
}

// Instruction is one assembled Hack instruction
type Instruction struct {
	Kind  Kind
	Value int16 // AInstruction only

	Dest int    // DestA | DestD | DestM
	Comp string // normalized computation
	Jump Jump

	Line int    // source line
	Text string // source text
}

// String returns the source text of the instruction
func (i Instruction) String() string {
	if i.Text != "" {
		return i.Text
	}
	if i.Kind == AInstruction {
		return "@" + strconv.Itoa(int(i.Value))
	}
	return fmt.Sprintf("%d=%s;%d", i.Dest, i.Comp, i.Jump)
}

// usesM reports whether the instruction reads RAM[A]
func (i Instruction) usesM() bool {
	if i.Kind != CInstruction {
		return false
	}
	for _, ch := range i.Comp {
		if ch == 'M' {
			return true
		}
	}
	return false
}

type alu func(a, d, m int16) int16

// computations maps every accepted comp field to its ALU function.
// Commutative forms such as M+D are accepted alongside D+M.
var computations = map[string]alu{
	"0":  func(a, d, m int16) int16 { return 0 },
	"1":  func(a, d, m int16) int16 { return 1 },
	"-1": func(a, d, m int16) int16 { return -1 },

	"D":  func(a, d, m int16) int16 { return d },
	"A":  func(a, d, m int16) int16 { return a },
	"M":  func(a, d, m int16) int16 { return m },
	"!D": func(a, d, m int16) int16 { return ^d },
	"!A": func(a, d, m int16) int16 { return ^a },
	"!M": func(a, d, m int16) int16 { return ^m },
	"-D": func(a, d, m int16) int16 { return -d },
	"-A": func(a, d, m int16) int16 { return -a },
	"-M": func(a, d, m int16) int16 { return -m },

	"D+1": func(a, d, m int16) int16 { return d + 1 },
	"A+1": func(a, d, m int16) int16 { return a + 1 },
	"M+1": func(a, d, m int16) int16 { return m + 1 },
	"D-1": func(a, d, m int16) int16 { return d - 1 },
	"A-1": func(a, d, m int16) int16 { return a - 1 },
	"M-1": func(a, d, m int16) int16 { return m - 1 },

	"D+A": func(a, d, m int16) int16 { return d + a },
	"A+D": func(a, d, m int16) int16 { return d + a },
	"D+M": func(a, d, m int16) int16 { return d + m },
	"M+D": func(a, d, m int16) int16 { return d + m },
	"D-A": func(a, d, m int16) int16 { return d - a },
	"D-M": func(a, d, m int16) int16 { return d - m },
	"A-D": func(a, d, m int16) int16 { return a - d },
	"M-D": func(a, d, m int16) int16 { return m - d },
	"D&A": func(a, d, m int16) int16 { return d & a },
	"A&D": func(a, d, m int16) int16 { return d & a },
	"D&M": func(a, d, m int16) int16 { return d & m },
	"M&D": func(a, d, m int16) int16 { return d & m },
	"D|A": func(a, d, m int16) int16 { return d | a },
	"A|D": func(a, d, m int16) int16 { return d | a },
	"D|M": func(a, d, m int16) int16 { return d | m },
	"M|D": func(a, d, m int16) int16 { return d | m },
}
