package interpreter

import (
	"errors"
	"io"
	"strconv"

	"github.com/Vamanan/nand2tetris2/pkg/emulator"
	"github.com/Vamanan/nand2tetris2/pkg/vm"
)

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrUnknownFunction  = errors.New("unknown function")
	ErrAddress          = errors.New("memory address out of range")
	ErrReturnAddress    = errors.New("saved return address was overwritten")
)

// Interpreter executes VM commands directly against a Hack memory image.
// Segments, statics and call frames are laid out the way the code writer
// lays them out. Memory after a run matches the translated program except
// for the scratch cells and the saved return addresses, which hold command
// indices here and ROM addresses there.
type Interpreter struct {
	prog []vm.Command // program
	ip   int          // index of the next command

	ram []int16 // data memory

	stack   []*Frame // active calls
	calling bool     // the next command is entered through call

	unit       string         // static qualifier
	labelIndex map[string]int // scoped label -> command index
	funcOf     []string       // enclosing function of each command
	funcIndex  map[string]int // function name -> command index
	statics    map[string]int // static cell -> address

	out io.Writer // trace output, may be nil

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*Interpreter)

// WithWriter traces every executed command to w
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxSteps sets a maximum number of steps before Run returns ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithUnit sets the name used to qualify static cells
func WithUnit(name string) Option {
	return func(i *Interpreter) { i.unit = name }
}

// WithRAM presets memory cells before execution
func WithRAM(cells map[int]int16) Option {
	return func(i *Interpreter) {
		for addr, v := range cells {
			i.ram[addr] = v
		}
	}
}

// NewInterpreter creates an interpreter loaded with prog
func NewInterpreter(prog []vm.Command, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog: append([]vm.Command(nil), prog...),
		ram:  make([]int16, emulator.RAMSize),
	}
	for _, o := range opts {
		o(it)
	}
	it.indexProgram()
	return it
}

// Exec interprets prog to completion
func Exec(prog []vm.Command, opts ...Option) (*Interpreter, error) {
	it := NewInterpreter(prog, opts...)
	return it, it.Run()
}

// Reset clears memory, the call stack and counters
func (i *Interpreter) Reset() {
	i.ip = 0
	i.steps = 0
	i.calling = false
	i.stack = i.stack[:0]
	clear(i.ram)
}

// Step executes a single command, returning (halted, error). The
// interpreter halts when it runs past the last command, or when top-level
// code runs into a function declaration: function bodies are entered only
// through call or as the first command of the program.
func (i *Interpreter) Step() (bool, error) {
	if i.ip < 0 || i.ip >= len(i.prog) {
		return true, nil
	}
	if i.prog[i.ip].Type == vm.Function && i.ip > 0 && !i.calling {
		return true, nil
	}
	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	i.steps++
	return false, coreStep(i)
}

// Run executes until halt or error
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

// PC returns the index of the next command
func (i *Interpreter) PC() int { return i.ip }

// Steps returns the number of commands executed
func (i *Interpreter) Steps() int { return i.steps }

// Peek returns RAM[addr]
func (i *Interpreter) Peek(addr int) int16 { return i.ram[addr] }

// Poke sets RAM[addr]
func (i *Interpreter) Poke(addr int, v int16) { i.ram[addr] = v }

// SP returns the stack pointer, RAM[0]
func (i *Interpreter) SP() int { return int(i.ram[0]) }

// Stack returns the values between base and the stack pointer, bottom first
func (i *Interpreter) Stack(base int) []int16 {
	sp := i.SP()
	if sp <= base {
		return nil
	}
	return append([]int16(nil), i.ram[base:sp]...)
}

// CallStack returns the names of the active functions, outermost first
func (i *Interpreter) CallStack() []string {
	names := make([]string, len(i.stack))
	for n, f := range i.stack {
		names[n] = f.FuncName
	}
	return names
}

func (i *Interpreter) currentFrame() *Frame {
	if len(i.stack) == 0 {
		return nil
	}
	return i.stack[len(i.stack)-1]
}

func (i *Interpreter) pushFrame(name string, retToIP int) {
	i.stack = append(i.stack, &Frame{
		FuncName:   name,
		ReturnToIP: retToIP,
	})
}

func (i *Interpreter) popFrame() *Frame {
	f := i.currentFrame()
	if f != nil {
		i.stack = i.stack[:len(i.stack)-1]
	}
	return f
}

// indexProgram resolves labels, function entry points and static cells.
// Labels are scoped to the function declared before them; statics get
// addresses from emulator.VariableBase in order of first use.
func (i *Interpreter) indexProgram() {
	i.labelIndex = make(map[string]int)
	i.funcIndex = make(map[string]int)
	i.statics = make(map[string]int)

	i.funcOf = make([]string, len(i.prog))

	current := ""
	next := emulator.VariableBase
	for idx, cmd := range i.prog {
		if cmd.Type == vm.Function {
			current = cmd.Symbol
		}
		i.funcOf[idx] = current

		switch cmd.Type {
		case vm.Function:
			i.funcIndex[cmd.Symbol] = idx
		case vm.Label:
			i.labelIndex[i.scope(current, cmd.Symbol)] = idx
		case vm.Push, vm.Pop:
			if cmd.Segment != vm.Static {
				continue
			}
			name := i.staticName(cmd.Index)
			if _, ok := i.statics[name]; !ok {
				i.statics[name] = next
				next++
			}
		}
	}
}

func (i *Interpreter) staticName(index int) string {
	return i.unit + "." + strconv.Itoa(index)
}

// scope qualifies a label the way the code writer does: with the enclosing
// function, or with the unit at top level
func (i *Interpreter) scope(function, label string) string {
	switch {
	case function != "":
		return function + "$" + label
	case i.unit != "":
		return i.unit + "$" + label
	}
	return label
}
