package translator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Vamanan/nand2tetris2/pkg/color"
	"github.com/Vamanan/nand2tetris2/pkg/emulator"
	"github.com/Vamanan/nand2tetris2/pkg/interpreter"
	"github.com/Vamanan/nand2tetris2/pkg/parser"

	"github.com/charmbracelet/log"
	pkgerrors "github.com/pkg/errors"
)

// DefaultSteps bounds emulation when no limit is given
const DefaultSteps = 1_000_000

// Segment pointers preset before running a single translated unit, as done
// by the course test scripts
var DefaultRAM = map[int]int16{
	0: 256,  // SP
	1: 300,  // LCL
	2: 400,  // ARG
	3: 3000, // THIS
	4: 3010, // THAT
}

// runOutput assembles the translated program and runs it in the emulator
func (opts *Translator) runOutput() error {
	src, err := os.ReadFile(opts.OutputFile)
	if err != nil {
		return pkgerrors.Wrap(err, "read output")
	}

	steps := opts.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}

	if opts.Verbose {
		fmt.Println(color.GreenText("\n=== Generated Assembly ==="))
		fmt.Println(color.GrayText(string(src)))
	}

	m, err := emulator.Exec(string(src), emulator.WithRAM(DefaultRAM), emulator.WithMaxSteps(steps))
	if err != nil {
		return fmt.Errorf("emulation failed: %w", err)
	}

	log.Info("Emulation finished", "steps", m.Steps(), "sp", m.SP())

	stack := m.Stack(int(DefaultRAM[0]))
	fmt.Println(color.GreenText("=== Stack ==="))
	fmt.Println(FormatStack(stack))

	return opts.crossCheck(stack, steps)
}

// crossCheck interprets the source directly and warns when its final stack
// differs from the emulated one
func (opts *Translator) crossCheck(stack []int16, steps int) error {
	in, err := os.Open(opts.SourceFile)
	if err != nil {
		return pkgerrors.Wrap(err, "open source")
	}
	defer in.Close()

	prog, err := parser.NewParser(in, filepath.Base(opts.SourceFile)).Commands()
	if err != nil {
		return err
	}

	var trace io.Writer
	if opts.Verbose {
		fmt.Println(color.GreenText("=== Interpreter Trace ==="))
		trace = os.Stdout
	}
	it, err := interpreter.Exec(prog,
		interpreter.WithUnit(UnitName(opts.SourceFile)),
		interpreter.WithRAM(DefaultRAM),
		interpreter.WithMaxSteps(steps),
		interpreter.WithWriter(trace))
	if err != nil {
		log.Warn("Interpreter failed", "error", err)
		return nil
	}

	if want := it.Stack(int(DefaultRAM[0])); !slices.Equal(want, stack) {
		log.Warn("Emulated stack differs from interpreted stack",
			"emulator", FormatStack(stack), "interpreter", FormatStack(want))
		return nil
	}
	log.Debug("Interpreter agrees with emulator", "commands", it.Steps())
	return nil
}

// FormatStack renders stack values bottom first, one per line
func FormatStack(values []int16) string {
	if len(values) == 0 {
		return color.GrayText("(empty)")
	}

	var b strings.Builder
	for i, v := range values {
		fmt.Fprintf(&b, "%s: %s\n",
			color.CyanText(strconv.Itoa(int(DefaultRAM[0])+i)),
			color.YellowText(strconv.Itoa(int(v))))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
