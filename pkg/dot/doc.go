// Package dot speaks the statement-list text format exchanged with Graphviz.
//
// # Overview
//
// The package has two halves that never share state:
//
//   - Writing: [Serialize] and [Write] turn a [graph.View] into a document the
//     engine can lay out, carrying current positions as hints.
//   - Reading: [Scanner] walks engine output and yields position records
//     (identifier, x, y) for node statements that carry a pos attribute.
//
// # Writing
//
// The document is a flat statement list:
//
//	digraph g {
//	layout = "dot";
//	rankdir = "LR";
//	overlap = "false";
//	1 [pos="0,0", label="app"];
//	2 [pos="27,18", label="lib"];
//	1->2 [weight=1];
//	}
//
// Labels and attribute values are escaped, so quotes, backslashes and
// control characters in host data cannot break the document. When no edge is
// directed the document is an undirected "graph" using "--"; otherwise it is
// a "digraph" and undirected edges carry dir=none.
//
// # Reading
//
// Engine output is tokenized rather than matched line by line: attribute
// lists may span lines, attributes arrive in any order, strings may be split
// with backslash-newline or joined with '+'. A statement is a position record
// when it is a node statement whose identifier is an integer and whose
// attribute lists contain pos. Everything else (graph attributes, default
// statements, edges, subgraph headers, comments) is skipped.
//
//	sc := dot.NewScanner(r)
//	for sc.Scan() {
//	    rec, err := sc.Record()
//	    if err != nil {
//	        // malformed pos value; rec.ID and rec.Line are still set
//	        continue
//	    }
//	    fmt.Println(rec.ID, rec.X, rec.Y)
//	}
//	if err := sc.Err(); err != nil {
//	    // read failure
//	}
//
// Coordinates accept an optional sign, optional fraction and optional
// exponent, separated by a comma or whitespace, optionally pinned with '!'.
//
// # Validation
//
// [Check] parses a document with the WASM build of Graphviz shipped by
// [github.com/goccy/go-graphviz], without launching any process.
package dot
