package vm

import "fmt"

type Operator int

// Arithmetic and logical operators
const (
	OpAdd Operator = iota // x + y
	OpSub                 // x - y
	OpNeg                 // -y
	OpEq                  // x == y
	OpGt                  // x > y
	OpLt                  // x < y
	OpAnd                 // x & y
	OpOr                  // x | y
	OpNot                 // !y
)

var operators = map[string]Operator{
	"add": OpAdd,
	"sub": OpSub,
	"neg": OpNeg,
	"eq":  OpEq,
	"gt":  OpGt,
	"lt":  OpLt,
	"and": OpAnd,
	"or":  OpOr,
	"not": OpNot,
}

// Operators lists every operator in declaration order
var Operators = []Operator{OpAdd, OpSub, OpNeg, OpEq, OpGt, OpLt, OpAnd, OpOr, OpNot}

// LookupOperator maps a mnemonic to its Operator
func LookupOperator(mnemonic string) (Operator, bool) {
	op, ok := operators[mnemonic]
	return op, ok
}

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpNeg:
		return "neg"
	case OpEq:
		return "eq"
	case OpGt:
		return "gt"
	case OpLt:
		return "lt"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(o))
	}
}

// Arity returns how many stack values the operator consumes
func (o Operator) Arity() int {
	if o == OpNeg || o == OpNot {
		return 1
	}
	return 2
}

// IsComparison is true for eq, gt and lt
func (o Operator) IsComparison() bool {
	return o == OpEq || o == OpGt || o == OpLt
}

// Valid reports whether o is one of the nine operators
func (o Operator) Valid() bool {
	return o >= OpAdd && o <= OpNot
}
