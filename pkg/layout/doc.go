// Package layout positions graph nodes with a Graphviz engine.
//
// A layout pass composes three steps:
//
//  1. Serialize the graph to a document (package dot).
//  2. Run the document through an engine (package engine).
//  3. Scan the engine output for position records and write each one back
//     to the node with the same identifier ([Apply]).
//
// # Usage
//
//	cfg := layout.DefaultConfig().
//	    WithAlgorithm("neato").
//	    WithTimeout(30 * time.Second)
//
//	res, err := layout.Layout(ctx, g, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Updated, "nodes positioned")
//
// A [Runner] adds a logger and an engine-output cache:
//
//	runner := layout.NewRunner(cache, logger)
//	res, err := runner.Layout(ctx, g, cfg)
//
// # Failure semantics
//
// Launch failures, timeouts and engine exits leave the graph unmodified. A
// stream failure (IO_ERROR) applies whatever output arrived before it and
// then returns the error together with the partial [Result].
//
// Records that do not resolve are never errors. A record for an identifier
// that is not in the graph, or with a pos that is not two numbers, is listed
// in [Report.Skipped] and the pass continues.
//
// # Concurrency
//
// A pass writes node positions without locking. Callers must not run two
// passes over the same graph at once; distinct graphs are independent.
package layout
