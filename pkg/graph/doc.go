// Package graph provides the graph model that layout passes read and write.
//
// # Overview
//
// A layout pass needs very little from its host: the set of nodes (with an
// integer identifier, a label and a mutable position) and the set of edges
// (endpoints, direction and weight). That contract is the [View] interface.
// [Graph] is the in-memory implementation used by the CLI, the HTTP API and
// tests; embedding hosts can implement [View] over their own storage.
//
// # Core Types
//
//   - [Node]: identifier, label and position; X and Y are written by layout passes
//   - [Edge]: source and target identifiers, direction flag and weight
//   - [View]: read access to nodes and edges
//   - [Graph]: insertion-ordered node set with an identifier index
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": 1, "label": "app", "x": 0, "y": 0}, {"id": 2, "label": "lib"}],
//	  "edges": [{"from": 1, "to": 2, "weight": 2}]
//	}
//
// Edges are directed unless "directed" is false, and weigh 1 unless "weight"
// is set. Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")  // File → Graph
//	graph.WriteGraphFile(g, "out.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Layout passes assume exclusive
// ownership of the graph for their duration; hosts running several passes
// against the same graph must serialize them.
package graph
