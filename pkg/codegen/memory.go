package codegen

import (
	"fmt"
	"strconv"

	"github.com/Vamanan/nand2tetris2/pkg/vm"

	"github.com/charmbracelet/log"
)

// pushPop validates the segment access and emits the push or pop sequence
func (c *CodeWriter) pushPop(b *block, t vm.CommandType, seg vm.Segment, index int) error {
	if err := c.checkAccess(t, seg, index); err != nil {
		return err
	}

	switch t {
	case vm.Push:
		c.push(b, seg, index)
	case vm.Pop:
		c.pop(b, seg, index)
	}
	return nil
}

// checkAccess rejects segment/index combinations that have no meaning
func (c *CodeWriter) checkAccess(t vm.CommandType, seg vm.Segment, index int) error {
	if t != vm.Push && t != vm.Pop {
		return fmt.Errorf("%w: %v", ErrNotPushPop, t)
	}
	if index < 0 {
		return fmt.Errorf("%w: %s %d", ErrNegativeIndex, seg, index)
	}

	switch seg {
	case vm.Constant:
		if t == vm.Pop {
			return fmt.Errorf("%w: pop constant %d", ErrPopConstant, index)
		}
		if index > vm.MaxConstant {
			return fmt.Errorf("%w: %d > %d", ErrConstantRange, index, vm.MaxConstant)
		}
	case vm.Temp:
		if index >= vm.TempSize {
			return fmt.Errorf("%w: temp %d", ErrIndexOutOfRange, index)
		}
	case vm.Pointer:
		if index > 1 {
			log.Warn("pointer index greater than 1 selects THAT", "index", index)
		}
	case vm.Static:
		if c.unit == "" {
			return ErrNoUnit
		}
		if index > vm.MaxConstant {
			return fmt.Errorf("%w: static %d", ErrIndexOutOfRange, index)
		}
	case vm.Local, vm.Argument, vm.This, vm.That:
		// the offset is loaded with an A-instruction
		if index > vm.MaxConstant {
			return fmt.Errorf("%w: %s %d", ErrIndexOutOfRange, seg, index)
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownSegment, seg)
	}
	return nil
}

// push loads the source value into D and appends it to the stack
func (c *CodeWriter) push(b *block, seg vm.Segment, index int) {
	switch seg {
	case vm.Constant:
		b.addf("@%d", index)
		b.add("D=A")

	case vm.Local, vm.Argument, vm.This, vm.That:
		base, _ := seg.Base()
		b.addf("@%s", base)
		b.add("D=M")
		b.addf("@%d", index)
		b.add("A=D+A", "D=M")

	case vm.Temp:
		b.addf("@%d", vm.TempBase+index)
		b.add("D=M")

	case vm.Pointer:
		b.addf("@%s", pointerCell(index))
		b.add("D=M")

	case vm.Static:
		b.addf("@%s", c.staticCell(index))
		b.add("D=M")
	}

	b.pushD()
}

// pop removes the top of the stack and stores it in the destination cell.
// When the destination is base+index it is computed first and staged in
// ScratchB, since D is needed to carry the value.
func (c *CodeWriter) pop(b *block, seg vm.Segment, index int) {
	switch seg {
	case vm.Local, vm.Argument, vm.This, vm.That:
		base, _ := seg.Base()
		b.addf("@%s", base)
		b.add("D=M")
		b.addf("@%d", index)
		b.add("D=D+A")
		b.addf("@%s", ScratchB)
		b.add("M=D")

		b.add("@SP", "M=M-1")
		b.add("@SP", "A=M", "D=M")

		b.addf("@%s", ScratchB)
		b.add("A=M", "M=D")

	case vm.Temp:
		b.popTo(strconv.Itoa(vm.TempBase + index))

	case vm.Pointer:
		b.popTo(pointerCell(index))

	case vm.Static:
		b.popTo(c.staticCell(index))
	}
}

// pointerCell selects THIS for pointer 0 and THAT otherwise
func pointerCell(index int) string {
	if index == 0 {
		return "THIS"
	}
	return "THAT"
}

// staticCell names the persistent cell for static index of the current unit
func (c *CodeWriter) staticCell(index int) string {
	return c.unit + "." + strconv.Itoa(index)
}
