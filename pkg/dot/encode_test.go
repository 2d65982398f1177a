package dot

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gvlayout/pkg/graph"
)

var defaultOpts = Options{Algorithm: "dot", RankDir: "LR", Overlap: "false"}

func sample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: 1, Label: "app"}))
	require.NoError(t, g.AddNode(graph.Node{ID: 2, Label: "lib", X: 27, Y: 18.5}))
	require.NoError(t, g.AddEdge(graph.Edge{From: 1, To: 2, Directed: true, Weight: 1}))
	return g
}

func TestSerialize(t *testing.T) {
	want := "digraph g {\n" +
		"layout = \"dot\";\n" +
		"rankdir = \"LR\";\n" +
		"overlap = \"false\";\n" +
		"1 [pos=\"0,0\", label=\"app\"];\n" +
		"2 [pos=\"27,18.5\", label=\"lib\"];\n" +
		"1->2 [weight=1];\n" +
		"}\n"
	assert.Equal(t, want, Serialize(sample(t), defaultOpts))
}

func TestSerializeConcentrate(t *testing.T) {
	opts := defaultOpts
	opts.Concentrate = true
	out := Serialize(sample(t), opts)
	assert.Contains(t, out, "overlap = \"false\";\nconcentrate=true;\n")

	assert.NotContains(t, Serialize(sample(t), defaultOpts), "concentrate")
}

func TestSerializeUndirected(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: 1}))
	require.NoError(t, g.AddNode(graph.Node{ID: 2}))
	require.NoError(t, g.AddEdge(graph.Edge{From: 1, To: 2, Weight: 2.5}))

	out := Serialize(g, defaultOpts)
	assert.True(t, strings.HasPrefix(out, "graph g {\n"))
	assert.Contains(t, out, "1--2 [weight=2.5];\n")
}

func TestSerializeMixedDirection(t *testing.T) {
	g := sample(t)
	require.NoError(t, g.AddEdge(graph.Edge{From: 2, To: 1, Weight: 1}))

	out := Serialize(g, defaultOpts)
	assert.True(t, strings.HasPrefix(out, "digraph g {\n"))
	assert.Contains(t, out, "2->1 [dir=none, weight=1];\n")
}

func TestSerializeEmpty(t *testing.T) {
	out := Serialize(graph.New(), defaultOpts)
	assert.Equal(t, "graph g {\nlayout = \"dot\";\nrankdir = \"LR\";\noverlap = \"false\";\n}\n", out)
}

func TestSerializeEscapesLabels(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{`say "hi"`, `label="say \"hi\""`},
		{`C:\path`, `label="C:\\path"`},
		{"two\nlines", `label="two\nlines"`},
		{"tab\there", `label="tab here"`},
		{"ünïcødé", `label="ünïcødé"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			g := graph.New()
			require.NoError(t, g.AddNode(graph.Node{ID: 7, Label: tt.label}))
			assert.Contains(t, Serialize(g, defaultOpts), tt.want)
		})
	}
}

func TestSerializeEscapesOptions(t *testing.T) {
	out := Serialize(graph.New(), Options{Algorithm: `dot"; evil=1; x="`, RankDir: "LR", Overlap: "false"})
	assert.Contains(t, out, `layout = "dot\"; evil=1; x=\"";`)
}

func TestSerializeNonFinite(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: 1, X: math.NaN()}))
	require.NoError(t, g.AddNode(graph.Node{ID: 2, Y: math.Inf(1)}))

	out := Serialize(g, defaultOpts)
	assert.Contains(t, out, "1 [label=\"\"];\n")
	assert.Contains(t, out, "2 [label=\"\"];\n")
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "Inf")
}

func TestSerializeNoExponent(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.Node{ID: 1, X: 1e21, Y: -0.000001}))
	assert.Contains(t, Serialize(g, defaultOpts), `pos="1000000000000000000000,-0.000001"`)
}

// Each node and edge yields exactly one statement.
func TestSerializeStatementCounts(t *testing.T) {
	g := graph.New()
	for i := 0; i < 20; i++ {
		require.NoError(t, g.AddNode(graph.Node{ID: i, Label: "n"}))
	}
	for i := 1; i < 20; i++ {
		require.NoError(t, g.AddEdge(graph.Edge{From: i - 1, To: i, Directed: true, Weight: 1}))
	}

	out := Serialize(g, defaultOpts)
	assert.Equal(t, 20, strings.Count(out, "label="))
	assert.Equal(t, 19, strings.Count(out, "->"))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample(t), defaultOpts))
	assert.Equal(t, Serialize(sample(t), defaultOpts), buf.String())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "", escape(""))
	assert.Equal(t, `a\\b\"c\nd e`, escape("a\\b\"c\nd\x00e"))
}

type rawView struct {
	nodes []*graph.Node
	edges []graph.Edge
}

func (v rawView) Nodes() []*graph.Node { return v.nodes }
func (v rawView) Edges() []graph.Edge  { return v.edges }

func TestSerializeDropsDanglingEdges(t *testing.T) {
	v := rawView{
		nodes: []*graph.Node{{ID: 1}, {ID: 2}},
		edges: []graph.Edge{
			{From: 1, To: 2, Directed: true, Weight: 1},
			{From: 1, To: 9, Directed: true, Weight: 1},
			{From: 8, To: 2, Directed: true, Weight: 1},
		},
	}
	out := Serialize(v, defaultOpts)
	assert.Equal(t, 1, strings.Count(out, "->"))
	assert.NotContains(t, out, "9")
	assert.NotContains(t, out, "8")
}
