package vm

import "fmt"

type Segment int

const (
	Constant Segment = iota // literal value, not a memory region
	Local                   // based at LCL
	Argument                // based at ARG
	This                    // based at THIS
	That                    // based at THAT
	Temp                    // RAM[5..12]
	Pointer                 // THIS (0) or THAT (1)
	Static                  // <unit>.<index>
)

const (
	TempBase    = 5
	TempSize    = 8
	MaxConstant = 32767 // largest value an A-instruction can load
)

var segments = map[string]Segment{
	"constant": Constant,
	"local":    Local,
	"argument": Argument,
	"this":     This,
	"that":     That,
	"temp":     Temp,
	"pointer":  Pointer,
	"static":   Static,
}

// LookupSegment maps a segment name to its Segment
func LookupSegment(name string) (Segment, bool) {
	s, ok := segments[name]
	return s, ok
}

func (s Segment) String() string {
	switch s {
	case Constant:
		return "constant"
	case Local:
		return "local"
	case Argument:
		return "argument"
	case This:
		return "this"
	case That:
		return "that"
	case Temp:
		return "temp"
	case Pointer:
		return "pointer"
	case Static:
		return "static"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Base returns the machine cell holding the segment's base address.
// Only local, argument, this and that have one.
func (s Segment) Base() (string, bool) {
	switch s {
	case Local:
		return "LCL", true
	case Argument:
		return "ARG", true
	case This:
		return "THIS", true
	case That:
		return "THAT", true
	default:
		return "", false
	}
}
