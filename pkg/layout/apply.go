package layout

import (
	"errors"
	"fmt"
	"io"

	"github.com/matzehuels/gvlayout/pkg/dot"
	"github.com/matzehuels/gvlayout/pkg/graph"
)

// SkipReason says why a position record was not applied.
type SkipReason string

const (
	SkipUnknownNode  SkipReason = "unknown node"
	SkipMalformedPos SkipReason = "malformed pos"
)

// Skip describes one position record that was not applied.
type Skip struct {
	Line   int        `json:"line"`
	NodeID int        `json:"node_id"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// Report summarizes one application of engine output.
type Report struct {
	Records int    `json:"records"` // Position records found
	Updated int    `json:"updated"` // Distinct nodes whose position was written
	Skipped []Skip `json:"skipped,omitempty"`
}

// Apply scans r for position records and writes each to the node of g with
// the same identifier. When the output holds several records for one node,
// the last one wins. Only a failure to read r is an error; the report is
// valid up to that point either way.
func Apply(g graph.View, r io.Reader) (*Report, error) {
	nodes := g.Nodes()
	index := make(map[int]*graph.Node, len(nodes))
	for _, n := range nodes {
		index[n.ID] = n
	}

	report := &Report{}
	touched := make(map[int]struct{})

	sc := dot.NewScanner(r)
	for sc.Scan() {
		rec, err := sc.Record()
		report.Records++
		if err != nil {
			var pe *dot.PointError
			detail := err.Error()
			if errors.As(err, &pe) {
				detail = fmt.Sprintf("pos %q has %d components", pe.Value, pe.Fields)
			}
			report.Skipped = append(report.Skipped, Skip{
				Line:   rec.Line,
				NodeID: rec.ID,
				Reason: SkipMalformedPos,
				Detail: detail,
			})
			continue
		}

		n, ok := index[rec.ID]
		if !ok {
			report.Skipped = append(report.Skipped, Skip{
				Line:   rec.Line,
				NodeID: rec.ID,
				Reason: SkipUnknownNode,
			})
			continue
		}
		n.X, n.Y = rec.X, rec.Y
		touched[rec.ID] = struct{}{}
	}
	report.Updated = len(touched)

	if err := sc.Err(); err != nil {
		return report, fmt.Errorf("read engine output: %w", err)
	}
	return report, nil
}
