// Package pkg provides the core libraries for gvlayout, a bridge that lays out
// graphs with Graphviz.
//
// # Overview
//
// A layout pass serializes a graph into a Graphviz document, hands it to a
// layout engine, and writes the positions the engine reports back onto the
// graph's nodes. The pkg directory is organized as:
//
//  1. [graph] - Node/edge model and the JSON graph file format
//  2. [dot] - Document writer, result scanner and position grammar
//  3. [engine] - External process orchestration, in-process engine, caching decorator
//  4. [layout] - Configuration, the applier, and the Runner tying it all together
//  5. [cache] - Null, file and Redis backends for engine outputs
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow of a pass:
//
//	graph.View
//	    ↓
//	[dot] Write (document)
//	    ↓
//	[engine] Exec: <binary> -T<format>, stdin/stdout/stderr drained concurrently
//	    ↓
//	[dot] Scanner (id, pos records)
//	    ↓
//	[layout] Apply (index by id, write x/y)
//
// # Quick Start
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: 1, Label: "a"})
//	_ = g.AddNode(graph.Node{ID: 2, Label: "b"})
//	_ = g.AddEdge(graph.Edge{From: 1, To: 2, Directed: true, Weight: 1})
//
//	res, err := layout.Layout(ctx, g, layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Updated, "nodes positioned")
package pkg
