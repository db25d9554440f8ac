package emulator

import (
	"errors"
	"fmt"
)

// RAMSize is the number of addressable data words
const RAMSize = MaxAddress + 1

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrAddress          = errors.New("memory address out of range")
)

// Machine executes an assembled Hack program
type Machine struct {
	rom []Instruction // program
	ram []int16       // data memory

	a  int16 // address register
	d  int16 // data register
	pc int   // program counter

	hook func(addr int, write bool) // memory access observer, may be nil

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*Machine)

// WithMaxSteps sets a maximum number of steps before Run returns ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(m *Machine) { m.maxSteps = n }
}

// WithRAM presets memory cells before execution
func WithRAM(cells map[int]int16) Option {
	return func(m *Machine) {
		for addr, v := range cells {
			m.Poke(addr, v)
		}
	}
}

// WithMemoryHook installs fn, called on every RAM[A] read or write done by
// an instruction
func WithMemoryHook(fn func(addr int, write bool)) Option {
	return func(m *Machine) { m.hook = fn }
}

// New creates a machine loaded with prog
func New(prog []Instruction, opts ...Option) *Machine {
	m := &Machine{
		rom: append([]Instruction(nil), prog...),
		ram: make([]int16, RAMSize),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Exec assembles src and runs it to completion
func Exec(src string, opts ...Option) (*Machine, error) {
	prog, err := Assemble(src)
	if err != nil {
		return nil, err
	}
	m := New(prog, opts...)
	return m, m.Run()
}

// Reset clears registers, counters and memory
func (m *Machine) Reset() {
	m.a, m.d, m.pc, m.steps = 0, 0, 0, 0
	clear(m.ram)
}

// Step executes a single instruction, returning (halted, error). The machine
// halts when the program counter leaves the program.
func (m *Machine) Step() (bool, error) {
	if m.pc < 0 || m.pc >= len(m.rom) {
		return true, nil
	}
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	in := m.rom[m.pc]
	m.steps++

	if in.Kind == AInstruction {
		m.a = in.Value
		m.pc++
		return false, nil
	}

	var mv int16
	if in.usesM() {
		v, err := m.load(m.a)
		if err != nil {
			return false, fmt.Errorf("line %d %q: %w", in.Line, in.Text, err)
		}
		mv = v
	}

	out := computations[in.Comp](m.a, m.d, mv)
	addr := m.a

	if in.Dest&DestM != 0 {
		if err := m.store(addr, out); err != nil {
			return false, fmt.Errorf("line %d %q: %w", in.Line, in.Text, err)
		}
	}
	if in.Dest&DestA != 0 {
		m.a = out
	}
	if in.Dest&DestD != 0 {
		m.d = out
	}

	if in.Jump.taken(out) {
		m.pc = int(uint16(addr))
	} else {
		m.pc++
	}
	return false, nil
}

// Run executes until halt or error
func (m *Machine) Run() error {
	for {
		halted, err := m.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

func (m *Machine) load(addr int16) (int16, error) {
	if addr < 0 {
		return 0, fmt.Errorf("%w: %d", ErrAddress, addr)
	}
	if m.hook != nil {
		m.hook(int(addr), false)
	}
	return m.ram[addr], nil
}

func (m *Machine) store(addr, v int16) error {
	if addr < 0 {
		return fmt.Errorf("%w: %d", ErrAddress, addr)
	}
	if m.hook != nil {
		m.hook(int(addr), true)
	}
	m.ram[addr] = v
	return nil
}

// Peek returns RAM[addr]
func (m *Machine) Peek(addr int) int16 {
	return m.ram[addr]
}

// Poke sets RAM[addr]
func (m *Machine) Poke(addr int, v int16) {
	m.ram[addr] = v
}

// A returns the address register
func (m *Machine) A() int16 { return m.a }

// D returns the data register
func (m *Machine) D() int16 { return m.d }

// PC returns the program counter
func (m *Machine) PC() int { return m.pc }

// Steps returns the number of instructions executed
func (m *Machine) Steps() int { return m.steps }

// SP returns the stack pointer, RAM[0]
func (m *Machine) SP() int {
	return int(m.ram[0])
}

// Stack returns the values between base and the stack pointer, bottom first
func (m *Machine) Stack(base int) []int16 {
	sp := m.SP()
	if sp <= base {
		return nil
	}
	return append([]int16(nil), m.ram[base:sp]...)
}
