package interpreter

import "github.com/Vamanan/nand2tetris2/pkg/vm"

// Boolean results of the comparison operators
const (
	True  int16 = -1
	False int16 = 0
)

func boolValue(b bool) int16 {
	if b {
		return True
	}
	return False
}

// evalBinary applies a two-operand operator with 16-bit wrap-around
func evalBinary(op vm.Operator, a, b int16) int16 {
	switch op {
	case vm.OpAdd:
		return a + b
	case vm.OpSub:
		return a - b
	case vm.OpAnd:
		return a & b
	case vm.OpOr:
		return a | b
	case vm.OpEq:
		return boolValue(a == b)
	case vm.OpGt:
		// the translated code compares the wrapped difference
		return boolValue(a-b > 0)
	case vm.OpLt:
		return boolValue(a-b < 0)
	}
	return 0
}

// evalUnary applies neg or not
func evalUnary(op vm.Operator, a int16) int16 {
	if op == vm.OpNeg {
		return -a
	}
	return ^a
}
