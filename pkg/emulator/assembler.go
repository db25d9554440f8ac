package emulator

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// VariableBase is the first RAM address given to user variables
	VariableBase = 16
	MaxAddress   = 32767
)

var predefined = map[string]int16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = int16(i)
	}
}

// AsmError reports a malformed assembly line
type AsmError struct {
	Line int
	Text string
	Msg  string
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

type sourceLine struct {
	line int
	text string
}

// Assemble resolves labels and variables in src and returns the program.
// Labels are declared as (NAME); unknown symbols become variables allocated
// from VariableBase upward in order of first use.
func Assemble(src string) ([]Instruction, error) {
	symbols := make(map[string]int16, len(predefined))
	for k, v := range predefined {
		symbols[k] = v
	}

	// first pass: labels
	var lines []sourceLine
	sc := bufio.NewScanner(strings.NewReader(src))
	n := 0
	for sc.Scan() {
		n++
		text := sc.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "(") {
			if !strings.HasSuffix(text, ")") || len(text) < 3 {
				return nil, &AsmError{n, text, "malformed label"}
			}
			name := text[1 : len(text)-1]
			if _, ok := symbols[name]; ok {
				return nil, &AsmError{n, text, "duplicate symbol"}
			}
			symbols[name] = int16(len(lines))
			continue
		}
		lines = append(lines, sourceLine{n, text})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading assembly")
	}

	// second pass: instructions
	prog := make([]Instruction, 0, len(lines))
	next := int16(VariableBase)
	for _, l := range lines {
		if strings.HasPrefix(l.text, "@") {
			in, err := assembleA(l, symbols, &next)
			if err != nil {
				return nil, err
			}
			prog = append(prog, in)
			continue
		}

		in, err := assembleC(l)
		if err != nil {
			return nil, err
		}
		prog = append(prog, in)
	}

	return prog, nil
}

func assembleA(l sourceLine, symbols map[string]int16, next *int16) (Instruction, error) {
	sym := l.text[1:]
	if sym == "" {
		return Instruction{}, &AsmError{l.line, l.text, "missing address"}
	}

	in := Instruction{Kind: AInstruction, Line: l.line, Text: l.text}
	if sym[0] >= '0' && sym[0] <= '9' {
		v, err := strconv.Atoi(sym)
		if err != nil || v > MaxAddress {
			return Instruction{}, &AsmError{l.line, l.text, "invalid constant"}
		}
		in.Value = int16(v)
		return in, nil
	}

	v, ok := symbols[sym]
	if !ok {
		v = *next
		symbols[sym] = v
		*next++
	}
	in.Value = v
	return in, nil
}

func assembleC(l sourceLine) (Instruction, error) {
	in := Instruction{Kind: CInstruction, Line: l.line, Text: l.text}

	rest := l.text
	if dest, comp, ok := strings.Cut(rest, "="); ok {
		for _, ch := range dest {
			switch ch {
			case 'A':
				in.Dest |= DestA
			case 'D':
				in.Dest |= DestD
			case 'M':
				in.Dest |= DestM
			default:
				return Instruction{}, &AsmError{l.line, l.text, "invalid destination"}
			}
		}
		rest = comp
	}

	if comp, jump, ok := strings.Cut(rest, ";"); ok {
		j, found := jumps[jump]
		if !found {
			return Instruction{}, &AsmError{l.line, l.text, "invalid jump"}
		}
		in.Jump = j
		rest = comp
	}

	if _, ok := computations[rest]; !ok {
		return Instruction{}, &AsmError{l.line, l.text, "invalid computation"}
	}
	in.Comp = rest
	return in, nil
}
