package translator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vamanan/nand2tetris2/pkg/codegen"
	"github.com/Vamanan/nand2tetris2/pkg/codegen/assembly"
	"github.com/Vamanan/nand2tetris2/pkg/color"
	"github.com/Vamanan/nand2tetris2/pkg/parser"

	"github.com/charmbracelet/log"
	pkgerrors "github.com/pkg/errors"
)

const (
	SourceExt = ".vm"
	OutputExt = ".asm"
)

var (
	ErrNotVMFile = errors.New("input is not a .vm file")
	ErrSameFile  = errors.New("output would overwrite the source")
)

type Translator struct {
	Help       bool   // Show help message
	Verbose    bool   // Enable verbose output
	NoColor    bool   // Disable colored output
	NoComments bool   // Do not echo VM commands as assembly comments
	Run        bool   // Run the translated program in the emulator
	Steps      int    // Emulator step limit
	SourceFile string // Path to the .vm file
	OutputFile string // Path to the .asm file, derived from SourceFile when empty

	closers []io.Closer // open files, closed by Close
}

// UnitName derives the source unit name (used for static cells) from a path
func UnitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputPath returns the .asm path next to a .vm source
func OutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + OutputExt
}

// Translate reads VM commands from src and writes Hack assembly to dst. It
// stops at the first malformed command or write error; output written
// before the error is not retracted.
func Translate(src io.Reader, dst io.Writer, unit string, opts ...codegen.Option) error {
	p := parser.NewParser(src, unit+SourceExt)
	cw := codegen.NewCodeWriter(dst, append([]codegen.Option{codegen.WithUnit(unit)}, opts...)...)
	return translate(p, cw)
}

func translate(p *parser.Parser, out assembly.Assembly) error {
	count := 0
	for p.HasNext() {
		if err := p.Advance(); err != nil {
			return err
		}

		cmd, err := p.Command()
		if err != nil {
			return err
		}

		if err := out.WriteCommand(cmd); err != nil {
			return err
		}
		count++
	}

	if err := p.Err(); err != nil {
		return pkgerrors.Wrap(err, "reading source")
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Debug("Translation done", "commands", count)
	return nil
}

// Translate translates SourceFile into OutputFile. Both files are closed on
// return; a failed run leaves a partial output file behind.
func (opts *Translator) Translate() error {
	log.Info("Processing file", "file", opts.SourceFile)

	if filepath.Ext(opts.SourceFile) != SourceExt {
		return fmt.Errorf("%w: %s", ErrNotVMFile, opts.SourceFile)
	}
	if opts.OutputFile == "" {
		opts.OutputFile = OutputPath(opts.SourceFile)
	}
	if err := checkDistinct(opts.SourceFile, opts.OutputFile); err != nil {
		return err
	}
	defer opts.Close()

	in, err := os.Open(opts.SourceFile)
	if err != nil {
		return pkgerrors.Wrap(err, "open source")
	}
	opts.closers = append(opts.closers, in)

	out, err := os.Create(opts.OutputFile)
	if err != nil {
		return pkgerrors.Wrap(err, "create output")
	}
	opts.closers = append(opts.closers, out)

	w := bufio.NewWriter(out)
	unit := UnitName(opts.SourceFile)
	err = Translate(in, w, unit, codegen.WithComments(!opts.NoComments))
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = pkgerrors.Wrap(ferr, "write output")
	}
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, color.BrightRedText("=== Syntax Errors ==="))
			fmt.Fprintln(os.Stderr, perr.Pretty())
		}
		return err
	}

	log.Info("Wrote assembly", "file", opts.OutputFile)

	if opts.Run {
		return opts.runOutput()
	}
	return nil
}

// checkDistinct refuses an output path that names the source file
func checkDistinct(source, output string) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return pkgerrors.Wrap(err, "resolve source")
	}
	dst, err := filepath.Abs(output)
	if err != nil {
		return pkgerrors.Wrap(err, "resolve output")
	}
	if src == dst {
		return fmt.Errorf("%w: %s", ErrSameFile, output)
	}
	return nil
}

// Close closes every file opened by Translate. It is safe to call more than once.
func (opts *Translator) Close() {
	for i := len(opts.closers) - 1; i >= 0; i-- {
		if err := opts.closers[i].Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Warn("Failed to close file", "error", err)
		}
	}
	opts.closers = nil
}
