package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/Vamanan/nand2tetris2/pkg/vm"
)

const commentMarker = "//"

// Parser reads VM commands one line at a time. Blank lines and whole-line
// comments are skipped; everything after a trailing "//" is ignored.
type Parser struct {
	scanner *bufio.Scanner // line scanner over the source
	name    string         // source unit name, used in positions
	line    int            // number of lines consumed so far

	pending     string // next command line found by HasNext, not yet consumed
	pendingLine int    // line number of pending
	hasPending  bool   // true when pending holds a command

	current string      // current command, trimmed
	fields  []string    // current command split at white space
	pos     vm.Position // position of the current command
	ready   bool        // true after a successful Advance

	err error // read error, if any
}

// NewParser creates a parser over r. The name is only used in error
// positions; for files it should be the file name.
func NewParser(r io.Reader, name string) *Parser {
	return &Parser{
		scanner: bufio.NewScanner(r),
		name:    name,
	}
}

// HasNext skips blank and comment lines and reports whether another command
// is available. It does not consume that command: calling HasNext twice in a
// row returns the same answer and the next Advance still sees the command.
func (p *Parser) HasNext() bool {
	if p.hasPending {
		return true
	}
	if p.err != nil {
		return false
	}

	for p.scanner.Scan() {
		p.line++
		text := strings.TrimSpace(p.scanner.Text())
		if text == "" || strings.HasPrefix(text, commentMarker) {
			continue
		}

		p.pending = text
		p.pendingLine = p.line
		p.hasPending = true
		return true
	}

	p.err = p.scanner.Err()
	return false
}

// Advance makes the command found by the last HasNext the current command.
// It returns ErrNoCommand if HasNext was not called or returned false.
func (p *Parser) Advance() error {
	if !p.hasPending {
		return ErrNoCommand
	}

	text := p.pending
	if i := strings.Index(text, commentMarker); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	p.current = text
	p.fields = strings.Fields(text)
	p.pos = vm.Position{File: p.name, Line: p.pendingLine}
	p.ready = true

	p.pending = ""
	p.hasPending = false
	return nil
}

// Current returns the current command text
func (p *Parser) Current() string {
	return p.current
}

// Pos returns the position of the current command
func (p *Parser) Pos() vm.Position {
	return p.pos
}

// Err returns the first read error encountered, if any
func (p *Parser) Err() error {
	return p.err
}

// CommandType classifies the current command by its first token
func (p *Parser) CommandType() (vm.CommandType, error) {
	if !p.ready {
		return 0, ErrNoCommand
	}
	if len(p.fields) == 0 {
		return 0, p.errorf(ErrEmptyCommand, "")
	}

	t, ok := vm.LookupCommand(p.fields[0])
	if !ok {
		return 0, p.errorf(ErrUnknownCommand, "%q", p.fields[0])
	}
	return t, nil
}

// Arg1 returns the first argument of the current command. For arithmetic
// commands it is the mnemonic itself. A return command has no first argument.
func (p *Parser) Arg1() (string, error) {
	t, err := p.CommandType()
	if err != nil {
		return "", err
	}

	switch t {
	case vm.Arithmetic:
		return p.fields[0], nil
	case vm.Return:
		return "", p.errorf(ErrMissingArgument, "return takes no argument")
	}

	if len(p.fields) < 2 {
		return "", p.errorf(ErrMissingArgument, "%s expects an argument", p.fields[0])
	}
	return p.fields[1], nil
}

// Arg2 returns the numeric second argument of push, pop, function and call
// commands.
func (p *Parser) Arg2() (int, error) {
	t, err := p.CommandType()
	if err != nil {
		return 0, err
	}
	if !t.HasArg2() {
		return 0, p.errorf(ErrMissingArgument, "%s has no second argument", p.fields[0])
	}
	if len(p.fields) < 3 {
		return 0, p.errorf(ErrMissingArgument, "%s expects two arguments", p.fields[0])
	}
	return p.parseIndex(p.fields[2])
}

// Command returns the current command fully classified and validated
// syntactically. Semantic checks (such as popping into constant) are left to
// the code generator.
func (p *Parser) Command() (vm.Command, error) {
	t, err := p.CommandType()
	if err != nil {
		return vm.Command{}, err
	}

	cmd := vm.Command{Type: t, Text: p.current, Pos: p.pos}

	switch t {
	case vm.Arithmetic:
		if err := p.expectFields(1); err != nil {
			return vm.Command{}, err
		}
		cmd.Operator, _ = vm.LookupOperator(p.fields[0])

	case vm.Push, vm.Pop:
		if err := p.expectFields(3); err != nil {
			return vm.Command{}, err
		}
		seg, ok := vm.LookupSegment(p.fields[1])
		if !ok {
			return vm.Command{}, p.errorf(ErrUnknownSegment, "%q", p.fields[1])
		}
		cmd.Segment = seg
		if cmd.Index, err = p.parseIndex(p.fields[2]); err != nil {
			return vm.Command{}, err
		}

	case vm.Label, vm.Goto, vm.IfGoto:
		if err := p.expectFields(2); err != nil {
			return vm.Command{}, err
		}
		if cmd.Symbol, err = p.parseSymbol(p.fields[1]); err != nil {
			return vm.Command{}, err
		}

	case vm.Function, vm.Call:
		if err := p.expectFields(3); err != nil {
			return vm.Command{}, err
		}
		if cmd.Symbol, err = p.parseSymbol(p.fields[1]); err != nil {
			return vm.Command{}, err
		}
		if cmd.Index, err = p.parseIndex(p.fields[2]); err != nil {
			return vm.Command{}, err
		}

	case vm.Return:
		if err := p.expectFields(1); err != nil {
			return vm.Command{}, err
		}
	}

	return cmd, nil
}

// Commands reads every remaining command. It stops at the first error.
func (p *Parser) Commands() ([]vm.Command, error) {
	var cmds []vm.Command
	for p.HasNext() {
		if err := p.Advance(); err != nil {
			return nil, err
		}
		cmd, err := p.Command()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, p.Err()
}
