package dot

import (
	"io"
	"strconv"
	"strings"
)

// Record is one position record read from engine output.
type Record struct {
	ID   int     // Node identifier
	X, Y float64 // Position in engine units
	Line int     // Line of the node statement
}

// Scanner reads position records from a DOT document.
//
// Statements whose identifier is not an integer, or which carry no pos
// attribute, are skipped without a record. A node statement with a
// malformed pos value still yields a record; [Scanner.Record] returns it
// together with a *PointError.
type Scanner struct {
	lex    *lexer
	peeked *token
	rec    Record
	recErr error
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lex: newLexer(r)}
}

// Scan advances to the next position record. It returns false at the end
// of input or on a read error; see [Scanner.Err].
func (s *Scanner) Scan() bool {
	for {
		t := s.next()
		switch t.kind {
		case tokEOF:
			return false
		case tokID:
			if s.statement(t) {
				return true
			}
		}
	}
}

// Record returns the record found by the last call to Scan.
func (s *Scanner) Record() (Record, error) {
	return s.rec, s.recErr
}

// Err returns the first read error encountered, if any. End of input is not
// an error.
func (s *Scanner) Err() error {
	return s.lex.err
}

func (s *Scanner) next() token {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t
	}
	return s.lex.next()
}

func (s *Scanner) peek() token {
	if s.peeked == nil {
		t := s.lex.next()
		s.peeked = &t
	}
	return *s.peeked
}

func (s *Scanner) unread(t token) {
	s.peeked = &t
}

// statement classifies the statement starting with id and reports whether
// it produced a record.
func (s *Scanner) statement(id token) bool {
	switch s.peek().kind {
	case tokEqual:
		s.next()
		s.next()
		return false
	case tokColon:
		s.skipPorts()
	}

	switch s.peek().kind {
	case tokEdgeOp:
		s.skipEdge()
		return false
	case tokLBracket:
	default:
		return false
	}

	if isKeyword(id, "node", "edge", "graph") {
		s.attrLists()
		return false
	}

	value, found := s.attrLists()
	if !found {
		return false
	}
	n, err := strconv.Atoi(id.text)
	if err != nil {
		return false
	}

	s.rec = Record{ID: n, Line: id.line}
	s.recErr = nil
	x, y, err := ParsePoint(value)
	if err != nil {
		pe := err.(*PointError)
		pe.Line = id.line
		pe.NodeID = n
		s.recErr = pe
		return true
	}
	s.rec.X, s.rec.Y = x, y
	return true
}

// attrLists consumes one or more bracketed attribute lists and returns the
// last pos value among them.
func (s *Scanner) attrLists() (pos string, found bool) {
	for s.peek().kind == tokLBracket {
		s.next()
	list:
		for {
			t := s.next()
			switch t.kind {
			case tokEOF, tokRBracket:
				break list
			case tokID:
				if s.peek().kind != tokEqual {
					continue
				}
				s.next()
				v := s.next()
				if v.kind != tokID {
					s.unread(v)
					continue
				}
				if t.text == "pos" {
					pos, found = v.text, true
				}
			}
		}
	}
	return pos, found
}

func (s *Scanner) skipPorts() {
	for s.peek().kind == tokColon {
		s.next()
		if s.peek().kind == tokID {
			s.next()
		}
	}
}

func (s *Scanner) skipEdge() {
	for s.peek().kind == tokEdgeOp {
		s.next()
		s.skipOperand()
	}
	s.attrLists()
}

func (s *Scanner) skipOperand() {
	t := s.next()
	switch t.kind {
	case tokLBrace:
		s.skipBlock()
	case tokID:
		if isKeyword(t, "subgraph") {
			if s.peek().kind == tokID {
				s.next()
			}
			if s.peek().kind == tokLBrace {
				s.next()
				s.skipBlock()
			}
			return
		}
		s.skipPorts()
	default:
		s.unread(t)
	}
}

// skipBlock consumes tokens up to the brace closing an already opened block.
func (s *Scanner) skipBlock() {
	depth := 1
	for depth > 0 {
		switch s.next().kind {
		case tokEOF:
			return
		case tokLBrace:
			depth++
		case tokRBrace:
			depth--
		}
	}
}

func isKeyword(t token, words ...string) bool {
	if t.quoted {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(t.text, w) {
			return true
		}
	}
	return false
}
