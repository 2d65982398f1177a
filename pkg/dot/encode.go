package dot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/gvlayout/pkg/graph"
)

// Options holds the graph-level attributes written at the top of a document.
type Options struct {
	Algorithm   string // layout engine name, e.g. "dot", "neato", "fdp"
	RankDir     string // preferred flow direction, e.g. "LR", "TB"
	Overlap     string // node overlap policy, e.g. "false", "scale"
	Concentrate bool   // merge parallel edges
}

// Serialize renders g as a layout document.
// Serialization is total: every view produces a document.
func Serialize(g graph.View, opts Options) string {
	var buf bytes.Buffer
	encode(&buf, g, opts)
	return buf.String()
}

// Write renders g as a layout document to w.
func Write(w io.Writer, g graph.View, opts Options) error {
	var buf bytes.Buffer
	encode(&buf, g, opts)
	_, err := buf.WriteTo(w)
	return err
}

func encode(buf *bytes.Buffer, g graph.View, opts Options) {
	nodes := g.Nodes()
	edges := g.Edges()

	known := make(map[int]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	directed := false
	for _, e := range edges {
		if e.Directed {
			directed = true
			break
		}
	}

	if directed {
		buf.WriteString("digraph g {\n")
	} else {
		buf.WriteString("graph g {\n")
	}
	fmt.Fprintf(buf, "layout = \"%s\";\n", escape(opts.Algorithm))
	fmt.Fprintf(buf, "rankdir = \"%s\";\n", escape(opts.RankDir))
	fmt.Fprintf(buf, "overlap = \"%s\";\n", escape(opts.Overlap))
	if opts.Concentrate {
		buf.WriteString("concentrate=true;\n")
	}

	for _, n := range nodes {
		buf.WriteString(strconv.Itoa(n.ID))
		buf.WriteString(" [")
		if isFinite(n.X) && isFinite(n.Y) {
			fmt.Fprintf(buf, "pos=\"%s,%s\", ", formatFloat(n.X), formatFloat(n.Y))
		}
		fmt.Fprintf(buf, "label=\"%s\"];\n", escape(n.Label))
	}

	for _, e := range edges {
		_, okFrom := known[e.From]
		_, okTo := known[e.To]
		if !okFrom || !okTo {
			continue
		}
		buf.WriteString(strconv.Itoa(e.From))
		buf.WriteString(edgeOp(directed))
		buf.WriteString(strconv.Itoa(e.To))
		buf.WriteString(" [")
		if directed && !e.Directed {
			buf.WriteString("dir=none, ")
		}
		fmt.Fprintf(buf, "weight=%s];\n", formatFloat(e.Weight))
	}

	buf.WriteString("}\n")
}

func edgeOp(directed bool) string {
	if directed {
		return "->"
	}
	return "--"
}

// escape makes s safe inside a double-quoted DOT string.
// Newlines keep their meaning as line breaks; other control characters
// become spaces.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case unicode.IsControl(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatFloat writes the shortest decimal that round-trips, never using
// exponent notation.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
