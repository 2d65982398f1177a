// Package engine runs layout engines over serialized documents.
//
// An [Engine] takes a document and returns the engine's native output. The
// output is raw text; turning it into positions is the job of package dot's
// Scanner.
//
// # Exec
//
// [Exec] launches an external Graphviz binary as
//
//	<binary> -T<format>
//
// with the document on stdin. Writing stdin and draining stdout and stderr
// happen in three concurrent tasks joined before the process is reaped, so an
// engine that fills its output pipe before reading its input cannot
// deadlock the caller. Every pipe is closed and the process is killed and
// reaped on every return path.
//
// Failures map to coded errors from package errors:
//
//   - LAUNCH_FAILED: the binary is missing or not executable
//   - IO_ERROR: streaming failed mid-way; the partial output is still returned
//   - TIMEOUT: the context deadline expired; the process was killed
//   - CANCELED: the context was canceled
//   - ENGINE_EXIT: a non-zero exit with no output, or any non-zero exit when
//     StrictExit is set
//
// A non-zero exit that still produced output is a warning in
// [Output.Warnings], not an error.
//
// # Embedded
//
// [Embedded] lays documents out in process with the WASM build of Graphviz
// from [github.com/goccy/go-graphviz]. No binary needs to be installed.
//
// # Caching
//
// [Cached] wraps any engine with a [cache.Cache] keyed by engine name and
// document, so repeated passes over an unchanged graph skip the engine.
package engine
