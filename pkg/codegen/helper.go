package codegen

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// errWriter remembers the first write error and refuses further writes
type errWriter struct {
	w   io.Writer
	err error
}

func newErrWriter(w io.Writer) *errWriter {
	return &errWriter{w: w}
}

func (w *errWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(p)
	if err != nil {
		w.err = errors.Wrap(err, "write failed")
	}
	return n, w.err
}

// addText writes one line of assembly
func (c *CodeWriter) addText(instruction string) {
	io.WriteString(c.out, instruction+"\n")
}

// block collects the instructions of one command before they are written
type block struct {
	lines []string
}

func (b *block) add(instructions ...string) {
	b.lines = append(b.lines, instructions...)
}

func (b *block) addf(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// pushD appends D to the top of the stack and increments SP
func (b *block) pushD() {
	b.add("@SP", "A=M", "M=D", "@SP", "M=M+1")
}

// popD decrements SP and loads the old top of the stack into D
func (b *block) popD() {
	b.add("@SP", "M=M-1", "A=M", "D=M")
}

// popTo pops the top of the stack into the named cell
func (b *block) popTo(cell string) {
	b.popD()
	b.addf("@%s", cell)
	b.add("M=D")
}

// pushFrom pushes the value of the named cell
func (b *block) pushFrom(cell string) {
	b.addf("@%s", cell)
	b.add("D=M")
	b.pushD()
}
