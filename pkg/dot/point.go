package dot

import (
	"fmt"
	"strconv"
	"strings"
)

// PointError reports a pos value that is not exactly two coordinates.
type PointError struct {
	Line   int    // Line of the node statement, zero when parsed standalone
	NodeID int    // Node the value belongs to, zero when parsed standalone
	Value  string // Raw attribute value
	Fields int    // Number of comma or space separated fields found
}

func (e *PointError) Error() string {
	msg := fmt.Sprintf("pos %q: want 2 coordinates, got %d", e.Value, e.Fields)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: node %d: %s", e.Line, e.NodeID, msg)
	}
	return msg
}

// ParsePoint parses a pos value of the form "x,y", "x y" or "x,y!".
// Each coordinate is an optionally signed decimal with optional fraction
// and exponent. Anything else, including a third coordinate, is an error of
// type *PointError.
func ParsePoint(s string) (x, y float64, err error) {
	c := cursor{s: s}
	c.spaces()
	x, okX := c.number()
	okSep := okX && c.separator()
	y, okY := 0.0, false
	if okSep {
		y, okY = c.number()
	}
	if okY {
		c.spaces()
		c.optional('!')
		c.spaces()
	}
	if !okY || !c.done() {
		return 0, 0, &PointError{Value: s, Fields: countFields(s)}
	}
	return x, y, nil
}

func countFields(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "!")
	return len(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}))
}

type cursor struct {
	s string
	i int
}

func (c *cursor) done() bool { return c.i >= len(c.s) }

func (c *cursor) at(b byte) bool { return c.i < len(c.s) && c.s[c.i] == b }

func (c *cursor) optional(b byte) bool {
	if c.at(b) {
		c.i++
		return true
	}
	return false
}

func (c *cursor) spaces() int {
	start := c.i
	for c.i < len(c.s) && isSpace(c.s[c.i]) {
		c.i++
	}
	return c.i - start
}

func (c *cursor) digits() int {
	start := c.i
	for c.i < len(c.s) && isDigit(c.s[c.i]) {
		c.i++
	}
	return c.i - start
}

// separator matches `ws* ',' ws*` or `ws+`.
func (c *cursor) separator() bool {
	ws := c.spaces()
	if c.optional(',') {
		c.spaces()
		return true
	}
	return ws > 0
}

// number matches `sign? (digits ('.' digits*)? | '.' digits) exponent?`.
// On failure the cursor is left where it started.
func (c *cursor) number() (float64, bool) {
	start := c.i
	_ = c.optional('+') || c.optional('-')
	whole := c.digits()
	frac := 0
	if c.optional('.') {
		frac = c.digits()
	}
	if whole == 0 && frac == 0 {
		c.i = start
		return 0, false
	}
	mark := c.i
	if c.optional('e') || c.optional('E') {
		_ = c.optional('+') || c.optional('-')
		if c.digits() == 0 {
			c.i = mark
		}
	}
	v, err := strconv.ParseFloat(c.s[start:c.i], 64)
	if err != nil {
		c.i = start
		return 0, false
	}
	return v, true
}
