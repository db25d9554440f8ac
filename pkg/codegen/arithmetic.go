package codegen

import (
	"fmt"

	"github.com/Vamanan/nand2tetris2/pkg/vm"
)

// binaryComp is the C-instruction combining D (right operand) into M (left
// operand, held in ScratchA)
var binaryComp = map[vm.Operator]string{
	vm.OpAdd: "M=M+D",
	vm.OpSub: "M=M-D",
	vm.OpAnd: "M=D&M",
	vm.OpOr:  "M=D|M",
}

// falseJump jumps to the else branch when the comparison is false, given
// D = left - right
var falseJump = map[vm.Operator]string{
	vm.OpEq: "D;JNE",
	vm.OpGt: "D;JLE",
	vm.OpLt: "D;JGE",
}

// arithmetic pops the operands into the scratch cells, computes the result
// in ScratchA and pushes it back
func (c *CodeWriter) arithmetic(b *block, op vm.Operator) error {
	switch op {
	case vm.OpAdd, vm.OpSub, vm.OpAnd, vm.OpOr:
		b.popTo(ScratchB)
		b.popTo(ScratchA)
		b.addf("@%s", ScratchB)
		b.add("D=M")
		b.addf("@%s", ScratchA)
		b.add(binaryComp[op])

	case vm.OpNeg:
		b.popTo(ScratchA)
		b.addf("@%s", ScratchA)
		// two's complement: !x + 1
		b.add("M=!M", "M=M+1")

	case vm.OpNot:
		b.popTo(ScratchA)
		b.addf("@%s", ScratchA)
		b.add("M=!M")

	case vm.OpEq, vm.OpGt, vm.OpLt:
		b.popTo(ScratchB)
		b.popTo(ScratchA)
		c.compare(b, falseJump[op])

	default:
		return fmt.Errorf("%w: %v", ErrUnknownOperator, op)
	}

	b.pushFrom(ScratchA)
	return nil
}

// compare writes -1 (true) or 0 (false) into ScratchA depending on the sign
// of ScratchA - ScratchB. It takes a fresh label pair.
func (c *CodeWriter) compare(b *block, jump string) {
	n := c.labelCounter
	c.labelCounter++

	b.addf("@%s", ScratchB)
	b.add("D=M")
	b.addf("@%s", ScratchA)
	b.add("D=M-D")

	b.addf("@else%d", n)
	b.add(jump)
	b.addf("@%s", ScratchA)
	b.add("M=-1")
	b.addf("@outsideif%d", n)
	b.add("0;JMP")

	b.addf("(else%d)", n)
	b.addf("@%s", ScratchA)
	b.add("M=0")
	b.addf("@outsideif%d", n)
	b.add("0;JMP")

	b.addf("(outsideif%d)", n)
}
