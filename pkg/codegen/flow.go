package codegen

import (
	"fmt"
	"regexp"
)

// Names the generator allocates for itself. Return labels end in $ret.N in
// any scope; comparison labels are bare.
var (
	returnLabel  = regexp.MustCompile(`^ret\.\d+$`)
	compareLabel = regexp.MustCompile(`^(else|outsideif)\d+$`)
)

// scoped qualifies a label with the enclosing function or, at top level,
// with the unit, so that labels of different units never meet
func (c *CodeWriter) scoped(label string) (string, error) {
	if label == "" {
		return "", ErrEmptySymbol
	}
	if returnLabel.MatchString(label) {
		return "", fmt.Errorf("%w: %s", ErrReservedLabel, label)
	}

	switch {
	case c.currentFunc != "":
		return c.currentFunc + "$" + label, nil
	case c.unit != "":
		return c.unit + "$" + label, nil
	case compareLabel.MatchString(label):
		return "", fmt.Errorf("%w: %s", ErrReservedLabel, label)
	}
	return label, nil
}

func (c *CodeWriter) label(b *block, name string) error {
	target, err := c.scoped(name)
	if err != nil {
		return err
	}
	b.addf("(%s)", target)
	return nil
}

func (c *CodeWriter) gotoLabel(b *block, name string) error {
	target, err := c.scoped(name)
	if err != nil {
		return err
	}
	b.addf("@%s", target)
	b.add("0;JMP")
	return nil
}

// ifGoto pops the top of the stack and jumps when it is not zero
func (c *CodeWriter) ifGoto(b *block, name string) error {
	target, err := c.scoped(name)
	if err != nil {
		return err
	}
	b.popD()
	b.addf("@%s", target)
	b.add("D;JNE")
	return nil
}

// WriteLabel declares a label scoped to the current function
func (c *CodeWriter) WriteLabel(name string) error {
	var b block
	if err := c.label(&b, name); err != nil {
		return err
	}
	return c.emit(fmt.Sprintf("label %s", name), &b)
}

// WriteGoto jumps unconditionally to a label of the current function
func (c *CodeWriter) WriteGoto(name string) error {
	var b block
	if err := c.gotoLabel(&b, name); err != nil {
		return err
	}
	return c.emit(fmt.Sprintf("goto %s", name), &b)
}

// WriteIf pops the stack and jumps to the label if the value is not zero
func (c *CodeWriter) WriteIf(name string) error {
	var b block
	if err := c.ifGoto(&b, name); err != nil {
		return err
	}
	return c.emit(fmt.Sprintf("if-goto %s", name), &b)
}
