package interpreter

import (
	"fmt"

	"github.com/Vamanan/nand2tetris2/pkg/codegen"
	"github.com/Vamanan/nand2tetris2/pkg/vm"
)

// Registers of the memory image
const (
	regSP = iota
	regLCL
	regARG
	regTHIS
	regTHAT
)

// savedFrame lists the caller registers saved by call, in push order
var savedFrame = []int{regLCL, regARG, regTHIS, regTHAT}

// coreStep executes the command at the instruction pointer
func coreStep(i *Interpreter) error {
	cmd := i.prog[i.ip]
	if i.out != nil {
		fmt.Fprintf(i.out, "%s: %s\tSP=%d\n", cmd.Pos, cmd, i.SP())
	}

	if err := i.exec(cmd); err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return nil
}

func (i *Interpreter) exec(cmd vm.Command) error {
	next := i.ip + 1
	i.calling = false

	switch cmd.Type {
	case vm.Arithmetic:
		if !cmd.Operator.Valid() {
			return fmt.Errorf("%w: %v", codegen.ErrUnknownOperator, cmd.Operator)
		}
		if cmd.Operator.Arity() == 1 {
			a, err := i.pop()
			if err != nil {
				return err
			}
			return i.advance(next, i.push(evalUnary(cmd.Operator, a)))
		}
		b, err := i.pop()
		if err != nil {
			return err
		}
		a, err := i.pop()
		if err != nil {
			return err
		}
		return i.advance(next, i.push(evalBinary(cmd.Operator, a, b)))

	case vm.Push:
		addr, v, err := i.locate(cmd.Type, cmd.Segment, cmd.Index)
		if err != nil {
			return err
		}
		if addr >= 0 {
			v = i.ram[addr]
		}
		return i.advance(next, i.push(v))

	case vm.Pop:
		addr, _, err := i.locate(cmd.Type, cmd.Segment, cmd.Index)
		if err != nil {
			return err
		}
		v, err := i.pop()
		if err != nil {
			return err
		}
		i.ram[addr] = v

	case vm.Label:

	case vm.Goto:
		target, err := i.label(cmd.Symbol)
		if err != nil {
			return err
		}
		next = target

	case vm.IfGoto:
		target, err := i.label(cmd.Symbol)
		if err != nil {
			return err
		}
		v, err := i.pop()
		if err != nil {
			return err
		}
		if v != 0 {
			next = target
		}

	case vm.Function:
		for k := 0; k < cmd.Index; k++ {
			if err := i.push(0); err != nil {
				return err
			}
		}

	case vm.Call:
		target, ok := i.funcIndex[cmd.Symbol]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownFunction, cmd.Symbol)
		}
		if err := i.push(int16(next)); err != nil {
			return err
		}
		for _, reg := range savedFrame {
			if err := i.push(i.ram[reg]); err != nil {
				return err
			}
		}
		sp := i.ram[regSP]
		i.ram[regARG] = sp - int16(len(savedFrame)+1+cmd.Index)
		i.ram[regLCL] = sp
		i.pushFrame(cmd.Symbol, next)
		i.calling = true
		next = target

	case vm.Return:
		frame := int(i.ram[regLCL])
		ret, err := i.read(frame - len(savedFrame) - 1)
		if err != nil {
			return err
		}
		v, err := i.pop()
		if err != nil {
			return err
		}
		arg := int(i.ram[regARG])
		if err := i.write(arg, v); err != nil {
			return err
		}
		i.ram[regSP] = int16(arg + 1)
		for n := len(savedFrame) - 1; n >= 0; n-- {
			frame--
			saved, err := i.read(frame)
			if err != nil {
				return err
			}
			i.ram[savedFrame[n]] = saved
		}
		// a return without a matching call follows memory alone
		if f := i.popFrame(); f != nil && f.ReturnToIP != int(ret) {
			return fmt.Errorf("%w: %s expected %d, found %d", ErrReturnAddress, f.FuncName, f.ReturnToIP, ret)
		}
		next = int(ret)

	default:
		return fmt.Errorf("%w: %v", codegen.ErrUnknownCommand, cmd.Type)
	}

	i.ip = next
	return nil
}

// advance moves to next unless err is set
func (i *Interpreter) advance(next int, err error) error {
	if err != nil {
		return err
	}
	i.ip = next
	return nil
}

// locate resolves a segment access to an address. A constant has no
// address: it is returned as the value with address -1.
func (i *Interpreter) locate(t vm.CommandType, seg vm.Segment, index int) (int, int16, error) {
	if index < 0 {
		return 0, 0, fmt.Errorf("%w: %s %d", codegen.ErrNegativeIndex, seg, index)
	}

	switch seg {
	case vm.Constant:
		if t == vm.Pop {
			return 0, 0, fmt.Errorf("%w: pop constant %d", codegen.ErrPopConstant, index)
		}
		if index > vm.MaxConstant {
			return 0, 0, fmt.Errorf("%w: %d > %d", codegen.ErrConstantRange, index, vm.MaxConstant)
		}
		return -1, int16(index), nil

	case vm.Local, vm.Argument, vm.This, vm.That:
		if index > vm.MaxConstant {
			return 0, 0, fmt.Errorf("%w: %s %d", codegen.ErrIndexOutOfRange, seg, index)
		}
		reg := map[vm.Segment]int{vm.Local: regLCL, vm.Argument: regARG, vm.This: regTHIS, vm.That: regTHAT}[seg]
		addr := int(i.ram[reg] + int16(index))
		if addr < 0 {
			return 0, 0, fmt.Errorf("%w: %s %d", ErrAddress, seg, index)
		}
		return addr, 0, nil

	case vm.Temp:
		if index >= vm.TempSize {
			return 0, 0, fmt.Errorf("%w: temp %d", codegen.ErrIndexOutOfRange, index)
		}
		return vm.TempBase + index, 0, nil

	case vm.Pointer:
		if index == 0 {
			return regTHIS, 0, nil
		}
		return regTHAT, 0, nil

	case vm.Static:
		if index > vm.MaxConstant {
			return 0, 0, fmt.Errorf("%w: static %d", codegen.ErrIndexOutOfRange, index)
		}
		return i.statics[i.staticName(index)], 0, nil
	}

	return 0, 0, fmt.Errorf("%w: %v", codegen.ErrUnknownSegment, seg)
}

// label resolves a jump target in the scope of the current command
func (i *Interpreter) label(name string) (int, error) {
	idx, ok := i.labelIndex[i.scope(i.funcOf[i.ip], name)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownLabel, name)
	}
	return idx, nil
}

func (i *Interpreter) read(addr int) (int16, error) {
	if addr < 0 || addr >= len(i.ram) {
		return 0, fmt.Errorf("%w: %d", ErrAddress, addr)
	}
	return i.ram[addr], nil
}

func (i *Interpreter) write(addr int, v int16) error {
	if addr < 0 || addr >= len(i.ram) {
		return fmt.Errorf("%w: %d", ErrAddress, addr)
	}
	i.ram[addr] = v
	return nil
}

func (i *Interpreter) push(v int16) error {
	if err := i.write(i.SP(), v); err != nil {
		return err
	}
	i.ram[regSP]++
	return nil
}

func (i *Interpreter) pop() (int16, error) {
	i.ram[regSP]--
	return i.read(i.SP())
}
