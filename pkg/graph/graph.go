package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes.
// Nodes and edges keep the order reported by the view.
func MarshalGraph(g View) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g View, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g View, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
// Returns an error for malformed JSON, duplicate node IDs or dangling edges.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph decodes JSON bytes into a graph.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// =============================================================================
// Wire Types
// =============================================================================

// Document is the JSON shape of a graph file. It is exported so that API
// handlers can embed it in larger request bodies.
type Document struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
}

// NodeDoc is the JSON shape of a node.
type NodeDoc struct {
	ID    int     `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// EdgeDoc is the JSON shape of an edge. Directed defaults to true and Weight
// to 1 when omitted.
type EdgeDoc struct {
	From     int      `json:"from"`
	To       int      `json:"to"`
	Directed *bool    `json:"directed,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
}

// FromView converts any graph view to its serialization format.
func FromView(g View) Document {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Document{
		Nodes: make([]NodeDoc, len(nodes)),
		Edges: make([]EdgeDoc, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = NodeDoc{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y}
	}
	for i, e := range edges {
		ed := EdgeDoc{From: e.From, To: e.To}
		if !e.Directed {
			undirected := false
			ed.Directed = &undirected
		}
		if e.Weight != 1 {
			w := e.Weight
			ed.Weight = &w
		}
		out.Edges[i] = ed
	}
	return out
}

// ToGraph builds a Graph from its serialization format.
// Returns an error if node IDs repeat or an edge references a missing node.
func (d Document) ToGraph() (*Graph, error) {
	g := New()
	for _, nd := range d.Nodes {
		if err := g.AddNode(Node{ID: nd.ID, Label: nd.Label, X: nd.X, Y: nd.Y}); err != nil {
			return nil, fmt.Errorf("add node %d: %w", nd.ID, err)
		}
	}
	for _, ed := range d.Edges {
		e := Edge{From: ed.From, To: ed.To, Directed: true, Weight: 1}
		if ed.Directed != nil {
			e.Directed = *ed.Directed
		}
		if ed.Weight != nil {
			e.Weight = *ed.Weight
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %d→%d: %w", ed.From, ed.To, err)
		}
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g View, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromView(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.ToGraph()
}
