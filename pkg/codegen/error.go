package codegen

import "errors"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownOperator = errors.New("unknown arithmetic operator")
	ErrUnknownSegment  = errors.New("unknown segment")
	ErrPopConstant     = errors.New("cannot pop into constant segment")
	ErrNegativeIndex   = errors.New("negative segment index")
	ErrIndexOutOfRange = errors.New("segment index out of range")
	ErrConstantRange   = errors.New("constant out of range")
	ErrNoUnit          = errors.New("static segment used without a source unit")
	ErrNotPushPop      = errors.New("not a push or pop command")
	ErrEmptySymbol     = errors.New("empty label or function name")
	ErrReservedLabel   = errors.New("label name is reserved for generated code")
)
