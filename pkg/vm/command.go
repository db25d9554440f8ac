package vm

import (
	"fmt"
	"strconv"
)

type CommandType int

const (
	Arithmetic CommandType = iota // add, sub, neg, eq, gt, lt, and, or, not
	Push                          // push segment index
	Pop                           // pop segment index
	Label                         // label symbol
	Goto                          // goto symbol
	IfGoto                        // if-goto symbol
	Function                      // function name nLocals
	Return                        // return
	Call                          // call name nArgs
)

// Mnemonics maps the first token of a command to its kind
var Mnemonics = map[string]CommandType{
	"add":      Arithmetic,
	"sub":      Arithmetic,
	"neg":      Arithmetic,
	"eq":       Arithmetic,
	"gt":       Arithmetic,
	"lt":       Arithmetic,
	"and":      Arithmetic,
	"or":       Arithmetic,
	"not":      Arithmetic,
	"push":     Push,
	"pop":      Pop,
	"label":    Label,
	"goto":     Goto,
	"if-goto":  IfGoto,
	"function": Function,
	"return":   Return,
	"call":     Call,
}

// LookupCommand returns the kind of the given mnemonic
func LookupCommand(mnemonic string) (CommandType, bool) {
	t, ok := Mnemonics[mnemonic]
	return t, ok
}

// String returns the conventional C_ name of the command kind
func (t CommandType) String() string {
	switch t {
	case Arithmetic:
		return "C_ARITHMETIC"
	case Push:
		return "C_PUSH"
	case Pop:
		return "C_POP"
	case Label:
		return "C_LABEL"
	case Goto:
		return "C_GOTO"
	case IfGoto:
		return "C_IF"
	case Function:
		return "C_FUNCTION"
	case Return:
		return "C_RETURN"
	case Call:
		return "C_CALL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// HasArg2 reports whether commands of this kind carry a numeric second argument
func (t CommandType) HasArg2() bool {
	switch t {
	case Push, Pop, Function, Call:
		return true
	default:
		return false
	}
}

// Command is one classified VM command
type Command struct {
	Type     CommandType
	Operator Operator // Arithmetic only
	Segment  Segment  // Push and Pop only
	Index    int      // segment offset (Push, Pop) or count (Function, Call)
	Symbol   string   // label or function name
	Text     string   // source text, trimmed
	Pos      Position // where the command was read
}

// String renders the command back in VM syntax
func (c Command) String() string {
	switch c.Type {
	case Arithmetic:
		return c.Operator.String()
	case Push, Pop:
		return fmt.Sprintf("%s %s %d", mnemonicOf(c.Type), c.Segment, c.Index)
	case Label, Goto, IfGoto:
		return mnemonicOf(c.Type) + " " + c.Symbol
	case Function, Call:
		return mnemonicOf(c.Type) + " " + c.Symbol + " " + strconv.Itoa(c.Index)
	case Return:
		return "return"
	default:
		return c.Text
	}
}

func mnemonicOf(t CommandType) string {
	switch t {
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Label:
		return "label"
	case Goto:
		return "goto"
	case IfGoto:
		return "if-goto"
	case Function:
		return "function"
	case Call:
		return "call"
	case Return:
		return "return"
	}
	return ""
}
