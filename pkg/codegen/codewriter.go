package codegen

import (
	"fmt"
	"io"

	"github.com/Vamanan/nand2tetris2/pkg/codegen/assembly"
	"github.com/Vamanan/nand2tetris2/pkg/vm"

	"github.com/charmbracelet/log"
)

// Scratch cells. Every command that uses them writes them before reading
// them, so no value is carried in them from one command to the next.
const (
	ScratchA = "R14" // left operand, result
	ScratchB = "R13" // right operand, staged pop address, return frame
)

type CodeWriter struct {
	out      *errWriter // destination, sticky on first error
	unit     string     // source unit name, qualifies static cells
	comments bool       // echo each command as a comment

	labelCounter int    // comparison label pairs issued so far
	callCounter  int    // return-address labels issued so far
	currentFunc  string // function currently being emitted, scopes labels
}

var _ assembly.Assembly = (*CodeWriter)(nil)

type Option func(*CodeWriter)

// WithUnit sets the source unit name used to qualify static cells
func WithUnit(name string) Option {
	return func(c *CodeWriter) { c.unit = name }
}

// WithComments enables or disables the "// command" line emitted before each block
func WithComments(enable bool) Option {
	return func(c *CodeWriter) { c.comments = enable }
}

// NewCodeWriter creates a code writer emitting Hack assembly to w
func NewCodeWriter(w io.Writer, opts ...Option) *CodeWriter {
	c := &CodeWriter{
		out:      newErrWriter(w),
		comments: true,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetUnit switches the source unit, e.g. when translating the next file
func (c *CodeWriter) SetUnit(name string) {
	c.unit = name
	c.currentFunc = ""
}

// Labels returns how many comparison label pairs have been allocated
func (c *CodeWriter) Labels() int {
	return c.labelCounter
}

// Err returns the first write error, if any
func (c *CodeWriter) Err() error {
	return c.out.err
}

// Close reports any pending write error. The underlying writer is owned by
// the caller and is not closed.
func (c *CodeWriter) Close() error {
	return c.out.err
}

// WriteCommand translates one command. Nothing is written for a command
// that fails validation.
func (c *CodeWriter) WriteCommand(cmd vm.Command) error {
	log.Debug("Translating command", "command", cmd.String(), "pos", cmd.Pos)

	var (
		b   block
		err error
	)

	switch cmd.Type {
	case vm.Arithmetic:
		err = c.arithmetic(&b, cmd.Operator)
	case vm.Push, vm.Pop:
		err = c.pushPop(&b, cmd.Type, cmd.Segment, cmd.Index)
	case vm.Label:
		err = c.label(&b, cmd.Symbol)
	case vm.Goto:
		err = c.gotoLabel(&b, cmd.Symbol)
	case vm.IfGoto:
		err = c.ifGoto(&b, cmd.Symbol)
	case vm.Function:
		err = c.declare(&b, cmd.Symbol, cmd.Index)
	case vm.Call:
		err = c.call(&b, cmd.Symbol, cmd.Index)
	case vm.Return:
		c.ret(&b)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}

	text := cmd.Text
	if text == "" {
		text = cmd.String()
	}
	return c.emit(text, &b)
}

// WriteArithmetic translates one of the nine arithmetic/logical operators
func (c *CodeWriter) WriteArithmetic(op vm.Operator) error {
	var b block
	if err := c.arithmetic(&b, op); err != nil {
		return err
	}
	return c.emit(op.String(), &b)
}

// WritePushPop translates a push or pop command
func (c *CodeWriter) WritePushPop(t vm.CommandType, seg vm.Segment, index int) error {
	var b block
	if err := c.pushPop(&b, t, seg, index); err != nil {
		return err
	}
	return c.emit(vm.Command{Type: t, Segment: seg, Index: index}.String(), &b)
}

// emit writes the optional comment followed by the block
func (c *CodeWriter) emit(comment string, b *block) error {
	if c.comments {
		c.addText("// " + comment)
	}
	for _, line := range b.lines {
		c.addText(line)
	}
	return c.out.err
}
