package parser

import (
	"errors"
	"fmt"

	"github.com/Vamanan/nand2tetris2/pkg/color"
	"github.com/Vamanan/nand2tetris2/pkg/vm"
)

var (
	ErrNoCommand       = errors.New("no current command")
	ErrEmptyCommand    = errors.New("empty command")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownSegment  = errors.New("unknown segment")
	ErrMissingArgument = errors.New("missing argument")
	ErrExtraArgument   = errors.New("unexpected argument")
	ErrInvalidIndex    = errors.New("invalid index")
	ErrNegativeIndex   = errors.New("negative index")
	ErrInvalidSymbol   = errors.New("invalid symbol")
)

// ParseError reports a malformed command together with its position.
// Err is one of the Err* values above and can be tested with errors.Is.
type ParseError struct {
	Pos    vm.Position
	Text   string // offending command
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Pos, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Pretty renders the error for a terminal, with the offending command below
func (e *ParseError) Pretty() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += " " + color.BlueText(e.Detail)
	}
	return color.ErrorWithPosition(e.Pos.String(), msg, e.Text)
}

// errorf builds a ParseError for the current command
func (p *Parser) errorf(err error, format string, args ...any) error {
	return &ParseError{
		Pos:    p.pos,
		Text:   p.current,
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}
