package parser

import (
	"regexp"
	"strconv"
)

var (
	// symbols may not start with a digit
	symbolRegex = regexp.MustCompile(`^[A-Za-z_.:$][A-Za-z0-9_.:$]*$`)
	indexRegex  = regexp.MustCompile(`^\d+$`)
)

// parseSymbol checks that s is a valid label or function name
func (p *Parser) parseSymbol(s string) (string, error) {
	if !symbolRegex.MatchString(s) {
		return "", p.errorf(ErrInvalidSymbol, "%q", s)
	}
	return s, nil
}

// parseIndex parses a non-negative decimal integer
func (p *Parser) parseIndex(s string) (int, error) {
	if !indexRegex.MatchString(s) {
		if len(s) > 0 && s[0] == '-' {
			return 0, p.errorf(ErrNegativeIndex, "%s", s)
		}
		return 0, p.errorf(ErrInvalidIndex, "%q", s)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf(ErrInvalidIndex, "%q: %v", s, err)
	}
	return n, nil
}

// expectFields checks the number of tokens in the current command
func (p *Parser) expectFields(n int) error {
	switch {
	case len(p.fields) < n:
		return p.errorf(ErrMissingArgument, "%s expects %d argument(s), got %d", p.fields[0], n-1, len(p.fields)-1)
	case len(p.fields) > n:
		return p.errorf(ErrExtraArgument, "%s expects %d argument(s), got %d", p.fields[0], n-1, len(p.fields)-1)
	}
	return nil
}
