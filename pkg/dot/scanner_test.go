package dot

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanned struct {
	records []Record
	errs    []error
}

func scanAll(t *testing.T, doc string) scanned {
	t.Helper()
	var out scanned
	sc := NewScanner(strings.NewReader(doc))
	for sc.Scan() {
		rec, err := sc.Record()
		if err != nil {
			out.errs = append(out.errs, err)
			continue
		}
		out.records = append(out.records, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func TestScannerEngineOutput(t *testing.T) {
	doc := `digraph g {
	graph [bb="0,0,162,36", layout=dot, overlap=false, rankdir=LR];
	node [label="\N"];
	1 [height=0.5, label=app, pos="27,18", width=0.75];
	2 [height=0.5,
		label=lib,
		pos="135,18",
		width=0.75];
	1 -> 2 [pos="e,99.08,18 54.4,18 64.7,18 76.7,18 88.8,18", weight=1];
}
`
	got := scanAll(t, doc)
	require.Empty(t, got.errs)
	assert.Equal(t, []Record{
		{ID: 1, X: 27, Y: 18, Line: 4},
		{ID: 2, X: 135, Y: 18, Line: 5},
	}, got.records)
}

func TestScannerAttributeOrder(t *testing.T) {
	got := scanAll(t, `graph { 3 [pos="1,2" label="x"]; 4 [label="y" pos="3,4"] }`)
	require.Len(t, got.records, 2)
	assert.Equal(t, 3, got.records[0].ID)
	assert.Equal(t, 4.0, got.records[1].Y)
}

func TestScannerLastPosWins(t *testing.T) {
	got := scanAll(t, `digraph { 1 [pos="1,1"][pos="2,2"]; 2 [pos="3,3", pos="4,4"] }`)
	require.Len(t, got.records, 2)
	assert.Equal(t, 2.0, got.records[0].X)
	assert.Equal(t, 4.0, got.records[1].X)
}

func TestScannerSkips(t *testing.T) {
	doc := `strict digraph "g" {
	// line comment with 1 [pos="9,9"]
	/* block 2 [pos="9,9"] */
	# 3 [pos="9,9"]
	node [pos="9,9"];
	edge [pos="9,9"];
	GRAPH [pos="9,9"];
	pos = "9,9";
	a [pos="9,9"];
	"b c" [pos="9,9"];
	1.5 [pos="9,9"];
	4 [label=x];
	5;
	5 -> 6 [pos="9,9"];
	7 -- 8 -> 9;
	subgraph cluster_0 { 10 [pos="1,2"] }
	{ rank=same; 11 [pos="3,4"] }
	12:port:n -> 13 [pos="9,9"];
	14:port [pos="5,6"];
}`
	got := scanAll(t, doc)
	require.Empty(t, got.errs)

	ids := make([]int, 0, len(got.records))
	for _, r := range got.records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{10, 11, 14}, ids)
}

func TestScannerQuotedIdentifiers(t *testing.T) {
	got := scanAll(t, `digraph { "7" [pos="1,2"]; -3 [pos="4,5"]; }`)
	require.Len(t, got.records, 2)
	assert.Equal(t, 7, got.records[0].ID)
	assert.Equal(t, -3, got.records[1].ID)
}

func TestScannerStringContinuations(t *testing.T) {
	doc := "digraph {\n1 [pos=\"12\\\n3,4\"];\n2 [pos=\"5,\" + \"6\"];\n3 [label=\"a \\\"quoted\\\" [pos=9,9]\", pos=\"7,8\"];\n}"
	got := scanAll(t, doc)
	require.Empty(t, got.errs)
	require.Len(t, got.records, 3)
	assert.Equal(t, Record{ID: 1, X: 123, Y: 4, Line: 2}, got.records[0])
	assert.Equal(t, Record{ID: 2, X: 5, Y: 6, Line: 4}, got.records[1])
	assert.Equal(t, Record{ID: 3, X: 7, Y: 8, Line: 5}, got.records[2])
}

func TestScannerHTMLLabel(t *testing.T) {
	got := scanAll(t, `digraph { 1 [label=<<b>pos="9,9"</b>>, pos="1,2"]; }`)
	require.Len(t, got.records, 1)
	assert.Equal(t, 1.0, got.records[0].X)
}

func TestScannerPinnedAndExponent(t *testing.T) {
	got := scanAll(t, `graph { 1 [pos="1e2,-2.5!"]; 2 [pos="3 4"] }`)
	require.Len(t, got.records, 2)
	assert.Equal(t, Record{ID: 1, X: 100, Y: -2.5, Line: 1}, got.records[0])
	assert.Equal(t, Record{ID: 2, X: 3, Y: 4, Line: 1}, got.records[1])
}

func TestScannerMalformedPos(t *testing.T) {
	got := scanAll(t, "digraph {\n1 [pos=\"3\"];\n2 [pos=\"1,2,3\"];\nx [pos=\"bad\"];\n4 [pos=\"1,2\"];\n}")
	require.Len(t, got.records, 1)
	assert.Equal(t, 4, got.records[0].ID)

	require.Len(t, got.errs, 2)
	var pe *PointError
	require.True(t, errors.As(got.errs[0], &pe))
	assert.Equal(t, 1, pe.NodeID)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 1, pe.Fields)
	require.True(t, errors.As(got.errs[1], &pe))
	assert.Equal(t, 2, pe.NodeID)
	assert.Equal(t, 3, pe.Fields)
}

func TestScannerMalformedRecordKeepsIdentity(t *testing.T) {
	sc := NewScanner(strings.NewReader(`digraph { 5 [pos="x"] }`))
	require.True(t, sc.Scan())
	rec, err := sc.Record()
	require.Error(t, err)
	assert.Equal(t, 5, rec.ID)
	assert.False(t, sc.Scan())
}

func TestScannerEmptyAndTruncated(t *testing.T) {
	for _, doc := range []string{"", "digraph {", `digraph { 1 [pos="1,2`, "digraph { 1 [", "/* open"} {
		sc := NewScanner(strings.NewReader(doc))
		for sc.Scan() {
		}
		assert.NoError(t, sc.Err(), doc)
	}
}

func TestScannerByteAtATime(t *testing.T) {
	doc := "digraph {\n1 [pos=\"27,18\"];\n2 [pos=\"5,\"\n + \"6\"];\n}"
	sc := NewScanner(iotest.OneByteReader(strings.NewReader(doc)))
	var ids []int
	for sc.Scan() {
		rec, err := sc.Record()
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []int{1, 2}, ids)
}

func TestScannerReadError(t *testing.T) {
	boom := errors.New("boom")
	r := iotest.ErrReader(boom)
	sc := NewScanner(r)
	assert.False(t, sc.Scan())
	assert.ErrorIs(t, sc.Err(), boom)
}

func TestScannerLargeDocument(t *testing.T) {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("\t")
		b.WriteString(strings.Repeat(" ", 10))
		b.WriteString(strconv.Itoa(i))
		b.WriteString(` [label="node with a fairly long label to fill the buffer", pos="1,2"];`)
		b.WriteString("\n")
	}
	b.WriteString("}\n")

	got := scanAll(t, b.String())
	assert.Len(t, got.records, 5000)
	assert.Equal(t, 4999, got.records[4999].ID)
}

