package layout

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gvlayout/pkg/graph"
)

func newGraph(t *testing.T, ids ...int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		require.NoError(t, g.AddNode(graph.Node{ID: id, Label: "n"}))
	}
	return g
}

func position(t *testing.T, g *graph.Graph, id int) (float64, float64) {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok)
	return n.X, n.Y
}

func TestApplyScientificNotation(t *testing.T) {
	g := newGraph(t, 5)
	report, err := Apply(g, strings.NewReader(`digraph { 5 [pos="1.2e3,-4.5e-2"]; }`))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	x, y := position(t, g, 5)
	assert.Equal(t, 1200.0, x)
	assert.InDelta(t, -0.045, y, 1e-12)
}

func TestApplyUnknownNode(t *testing.T) {
	g := newGraph(t, 1)
	report, err := Apply(g, strings.NewReader(`digraph { 999 [pos="1,2"]; }`))
	require.NoError(t, err)

	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 1, report.Records)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, Skip{Line: 1, NodeID: 999, Reason: SkipUnknownNode}, report.Skipped[0])

	x, y := position(t, g, 1)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestApplyAttributeOrder(t *testing.T) {
	for _, doc := range []string{
		`7 [label="x", pos="1,2", weight=3];`,
		`7 [pos="1,2", label="x"];`,
	} {
		g := newGraph(t, 7)
		report, err := Apply(g, strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 1, report.Updated, doc)

		x, y := position(t, g, 7)
		assert.Equal(t, 1.0, x, doc)
		assert.Equal(t, 2.0, y, doc)
	}
}

func TestApplyMalformedPos(t *testing.T) {
	g := newGraph(t, 3)
	g.Nodes()[0].X = 9

	report, err := Apply(g, strings.NewReader("digraph {\n3 [pos=\"3\"];\n}"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, SkipMalformedPos, report.Skipped[0].Reason)
	assert.Equal(t, 3, report.Skipped[0].NodeID)
	assert.Equal(t, 2, report.Skipped[0].Line)
	assert.Equal(t, `pos "3" has 1 components`, report.Skipped[0].Detail)

	x, _ := position(t, g, 3)
	assert.Equal(t, 9.0, x)
}

func TestApplyLastWriteWins(t *testing.T) {
	g := newGraph(t, 1, 2)
	report, err := Apply(g, strings.NewReader(`1 [pos="1,1"]; 2 [pos="5,5"]; 1 [pos="2,3"];`))
	require.NoError(t, err)

	assert.Equal(t, 3, report.Records)
	assert.Equal(t, 2, report.Updated)
	x, y := position(t, g, 1)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 3.0, y)
}

func TestApplyIgnoresNonRecords(t *testing.T) {
	g := newGraph(t, 1, 2)
	doc := `digraph g {
	graph [bb="0,0,100,100"];
	node [pos="9,9"];
	1 -> 2 [pos="e,1,1 2,2 3,3 4,4"];
	2 [label=b];
}`
	report, err := Apply(g, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Records)
	assert.Empty(t, report.Skipped)
}

func TestApplyReadError(t *testing.T) {
	g := newGraph(t, 1)
	boom := errors.New("boom")
	r := io.MultiReader(strings.NewReader(`digraph { 1 [pos="4,5"]; `), iotest.ErrReader(boom))

	report, err := Apply(g, r)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, report.Updated)

	x, y := position(t, g, 1)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, 5.0, y)
}
