package codegen

import (
	"fmt"

	"github.com/Vamanan/nand2tetris2/pkg/vm"

	"github.com/charmbracelet/log"
)

// Stack base used by the bootstrap code
const StackBase = 256

// savedFrame lists the caller cells saved by call, in push order
var savedFrame = []string{"LCL", "ARG", "THIS", "THAT"}

// declare emits the function entry point and zeroes its locals
func (c *CodeWriter) declare(b *block, name string, nLocals int) error {
	if name == "" {
		return ErrEmptySymbol
	}
	if nLocals < 0 {
		return fmt.Errorf("%w: function %s %d", ErrNegativeIndex, name, nLocals)
	}

	c.currentFunc = name
	b.addf("(%s)", name)
	for k := 0; k < nLocals; k++ {
		b.add("@SP", "A=M", "M=0", "@SP", "M=M+1")
	}
	return nil
}

// call saves the caller frame, repositions ARG and LCL and jumps to name
func (c *CodeWriter) call(b *block, name string, nArgs int) error {
	if name == "" {
		return ErrEmptySymbol
	}
	if nArgs < 0 {
		return fmt.Errorf("%w: call %s %d", ErrNegativeIndex, name, nArgs)
	}
	if len(savedFrame)+1+nArgs > vm.MaxConstant {
		return fmt.Errorf("%w: call %s %d", ErrIndexOutOfRange, name, nArgs)
	}

	caller := c.currentFunc
	if caller == "" {
		caller = c.unit
	}
	if caller == "" {
		caller = "Bootstrap"
	}
	ret := fmt.Sprintf("%s$ret.%d", caller, c.callCounter)
	c.callCounter++

	b.addf("@%s", ret)
	b.add("D=A")
	b.pushD()
	for _, cell := range savedFrame {
		b.pushFrom(cell)
	}

	// ARG = SP - 5 - nArgs
	b.add("@SP", "D=M")
	b.addf("@%d", len(savedFrame)+1+nArgs)
	b.add("D=D-A", "@ARG", "M=D")
	// LCL = SP
	b.add("@SP", "D=M", "@LCL", "M=D")

	b.addf("@%s", name)
	b.add("0;JMP")
	b.addf("(%s)", ret)
	return nil
}

// ret restores the caller frame and jumps to the saved return address.
// ScratchB holds the frame pointer, ScratchA the return address.
func (c *CodeWriter) ret(b *block) {
	b.add("@LCL", "D=M")
	b.addf("@%s", ScratchB)
	b.add("M=D")

	b.addf("@%d", len(savedFrame)+1)
	b.add("A=D-A", "D=M")
	b.addf("@%s", ScratchA)
	b.add("M=D")

	// *ARG = pop()
	b.popD()
	b.add("@ARG", "A=M", "M=D")
	// SP = ARG + 1
	b.add("@ARG", "D=M+1", "@SP", "M=D")

	for i := len(savedFrame) - 1; i >= 0; i-- {
		b.addf("@%s", ScratchB)
		b.add("M=M-1", "A=M", "D=M")
		b.addf("@%s", savedFrame[i])
		b.add("M=D")
	}

	b.addf("@%s", ScratchA)
	b.add("A=M", "0;JMP")
}

// WriteFunction declares a function with nLocals zeroed locals
func (c *CodeWriter) WriteFunction(name string, nLocals int) error {
	var b block
	if err := c.declare(&b, name, nLocals); err != nil {
		return err
	}
	return c.emit(fmt.Sprintf("function %s %d", name, nLocals), &b)
}

// WriteCall calls name with the nArgs values on top of the stack as arguments
func (c *CodeWriter) WriteCall(name string, nArgs int) error {
	var b block
	if err := c.call(&b, name, nArgs); err != nil {
		return err
	}
	return c.emit(fmt.Sprintf("call %s %d", name, nArgs), &b)
}

// WriteReturn returns from the current function
func (c *CodeWriter) WriteReturn() error {
	var b block
	c.ret(&b)
	return c.emit("return", &b)
}

// WriteInit emits the bootstrap sequence: SP = 256, call Sys.init.
// It is only needed when several translated units are linked into one program.
func (c *CodeWriter) WriteInit() error {
	log.Debug("Writing bootstrap code", "sp", StackBase)

	var b block
	b.addf("@%d", StackBase)
	b.add("D=A", "@SP", "M=D")
	if err := c.emit("bootstrap", &b); err != nil {
		return err
	}
	return c.WriteCall("Sys.init", 0)
}
