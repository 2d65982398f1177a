package dot

import (
	"bufio"
	"io"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokID            // identifier, numeral, quoted or HTML string
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokEqual
	tokComma
	tokSemi
	tokColon
	tokEdgeOp // "->" or "--"
)

type token struct {
	kind   tokenKind
	text   string
	quoted bool
	line   int
}

// lexer splits DOT text into tokens. It reads one byte at a time from a
// buffered reader so arbitrarily large documents stream through in constant
// memory (apart from the current token).
type lexer struct {
	r    *bufio.Reader
	line int
	err  error
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (l *lexer) read() (byte, bool) {
	c, err := l.r.ReadByte()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}
		return 0, false
	}
	if c == '\n' {
		l.line++
	}
	return c, true
}

func (l *lexer) peek() (byte, bool) {
	b, err := l.r.Peek(1)
	if len(b) == 0 {
		if err != nil && err != io.EOF && l.err == nil {
			l.err = err
		}
		return 0, false
	}
	return b[0], true
}

func (l *lexer) next() token {
	for {
		c, ok := l.read()
		if !ok {
			return token{kind: tokEOF, line: l.line}
		}
		line := l.line
		switch {
		case isSpace(c):
		case c == '#':
			l.skipLine()
		case c == '/':
			switch n, _ := l.peek(); n {
			case '/':
				l.skipLine()
			case '*':
				l.read()
				l.skipBlock()
			}
		case c == '"':
			return token{kind: tokID, text: l.quoted(), quoted: true, line: line}
		case c == '<':
			return token{kind: tokID, text: l.html(), quoted: true, line: line}
		case c == '-':
			n, _ := l.peek()
			if n == '>' || n == '-' {
				l.read()
				return token{kind: tokEdgeOp, text: "-" + string(n), line: line}
			}
			if isDigit(n) || n == '.' {
				return token{kind: tokID, text: l.ident(c), line: line}
			}
		case isIDByte(c):
			return token{kind: tokID, text: l.ident(c), line: line}
		default:
			if k, ok := punct[c]; ok {
				return token{kind: k, text: string(c), line: line}
			}
		}
	}
}

var punct = map[byte]tokenKind{
	'[': tokLBracket,
	']': tokRBracket,
	'{': tokLBrace,
	'}': tokRBrace,
	'=': tokEqual,
	',': tokComma,
	';': tokSemi,
	':': tokColon,
}

func (l *lexer) skipLine() {
	for {
		c, ok := l.read()
		if !ok || c == '\n' {
			return
		}
	}
}

func (l *lexer) skipBlock() {
	star := false
	for {
		c, ok := l.read()
		if !ok {
			return
		}
		if star && c == '/' {
			return
		}
		star = c == '*'
	}
}

func (l *lexer) ident(first byte) string {
	var b strings.Builder
	b.WriteByte(first)
	for {
		c, ok := l.peek()
		if !ok || !isIDByte(c) {
			return b.String()
		}
		l.read()
		b.WriteByte(c)
	}
}

// quoted reads the rest of a double-quoted string. The opening quote has
// already been consumed. Escaped quotes are unescaped, backslash-newline is
// a continuation, and "a" + "b" concatenates. Other escapes are kept
// verbatim since they belong to the attribute, not the lexer.
func (l *lexer) quoted() string {
	var b strings.Builder
	for {
		c, ok := l.read()
		if !ok {
			return b.String()
		}
		switch c {
		case '\\':
			n, ok := l.read()
			if !ok {
				b.WriteByte('\\')
				return b.String()
			}
			switch n {
			case '\n':
			case '\r':
				if p, _ := l.peek(); p == '\n' {
					l.read()
				}
			case '"':
				b.WriteByte('"')
			default:
				b.WriteByte('\\')
				b.WriteByte(n)
			}
		case '"':
			if !l.concat() {
				return b.String()
			}
		default:
			b.WriteByte(c)
		}
	}
}

// concat consumes `ws* '+' ws* '"'` if it follows, reporting whether the
// string continues.
func (l *lexer) concat() bool {
	i, c := l.spaceAhead(0)
	if c != '+' {
		return false
	}
	j, c := l.spaceAhead(i + 1)
	if c != '"' {
		return false
	}
	for k := 0; k <= j; k++ {
		l.read()
	}
	return true
}

// spaceAhead looks past whitespace starting at offset off without consuming
// anything. It returns the offset of the first other byte and the byte, or
// zero when the buffer runs out.
func (l *lexer) spaceAhead(off int) (int, byte) {
	for n := off + 1; ; n++ {
		buf, _ := l.r.Peek(n)
		if len(buf) < n {
			return n - 1, 0
		}
		if c := buf[n-1]; !isSpace(c) {
			return n - 1, c
		}
	}
}

// html reads an HTML-like string. The opening '<' has already been consumed.
func (l *lexer) html() string {
	var b strings.Builder
	depth := 1
	for {
		c, ok := l.read()
		if !ok {
			return b.String()
		}
		switch c {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return b.String()
			}
		}
		b.WriteByte(c)
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIDByte(c byte) bool {
	return c == '_' || c == '.' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
