package engine

import (
	"context"
	"time"
)

// Engine lays out a serialized document.
type Engine interface {
	// Name identifies the engine and everything that changes its output.
	// It is part of the cache key.
	Name() string

	// Run feeds doc to the engine and returns what it produced. On IO_ERROR
	// the returned Output holds whatever was read before the failure.
	Run(ctx context.Context, doc []byte) (*Output, error)
}

// Output is the result of one engine run.
type Output struct {
	Stdout   []byte        // Native output, to be scanned for positions
	Stderr   []byte        // Diagnostics, never scanned
	ExitCode int           // Process exit status; -1 when killed by a signal
	Warnings []string      // Non-fatal problems, such as a tolerated non-zero exit
	Duration time.Duration // Wall time of the run
	Cached   bool          // Served from a cache without running the engine
}

// DefaultFormat is Graphviz's native, non-rendering output: the input
// statement list annotated with computed positions.
const DefaultFormat = "dot"
