package layout

import (
	"time"

	"github.com/matzehuels/gvlayout/pkg/dot"
	"github.com/matzehuels/gvlayout/pkg/engine"
	errs "github.com/matzehuels/gvlayout/pkg/errors"
)

// EngineKind selects how documents are laid out.
type EngineKind string

const (
	// EngineExec runs an external Graphviz binary.
	EngineExec EngineKind = "exec"
	// EngineEmbedded uses the in-process WASM build of Graphviz.
	EngineEmbedded EngineKind = "embedded"
)

// Defaults.
const (
	DefaultAlgorithm = "dot"
	DefaultBinary    = "dot"
	DefaultRankDir   = "LR"
	DefaultOverlap   = "false"
)

// Config describes one layout pass. It is an immutable value: the With
// methods return a modified copy and never affect the receiver.
type Config struct {
	algorithm   string
	binary      string
	rankDir     string
	overlap     string
	concentrate bool
	format      string
	engine      EngineKind
	timeout     time.Duration
	strictExit  bool
}

// DefaultConfig returns the configuration used when nothing is set:
// the dot algorithm run by the "dot" binary, left-to-right ranks,
// no overlap and no edge concentration.
func DefaultConfig() Config {
	return Config{
		algorithm: DefaultAlgorithm,
		binary:    DefaultBinary,
		rankDir:   DefaultRankDir,
		overlap:   DefaultOverlap,
		format:    engine.DefaultFormat,
		engine:    EngineExec,
	}
}

func (c Config) Algorithm() string      { return c.algorithm }
func (c Config) Binary() string         { return c.binary }
func (c Config) RankDir() string        { return c.rankDir }
func (c Config) Overlap() string        { return c.overlap }
func (c Config) Concentrate() bool      { return c.concentrate }
func (c Config) Format() string         { return c.format }
func (c Config) Engine() EngineKind     { return c.engine }
func (c Config) Timeout() time.Duration { return c.timeout }
func (c Config) StrictExit() bool       { return c.strictExit }

func (c Config) WithAlgorithm(s string) Config { c.algorithm = s; return c }
func (c Config) WithBinary(s string) Config    { c.binary = s; return c }
func (c Config) WithRankDir(s string) Config   { c.rankDir = s; return c }
func (c Config) WithOverlap(s string) Config   { c.overlap = s; return c }
func (c Config) WithConcentrate(b bool) Config { c.concentrate = b; return c }
func (c Config) WithFormat(s string) Config    { c.format = s; return c }
func (c Config) WithEngine(k EngineKind) Config {
	c.engine = k
	return c
}

// WithTimeout bounds the engine run. Zero means no deadline beyond the
// caller's context.
func (c Config) WithTimeout(d time.Duration) Config { c.timeout = d; return c }

// WithStrictExit makes every non-zero engine exit fail the pass, even when
// the engine produced output.
func (c Config) WithStrictExit(b bool) Config { c.strictExit = b; return c }

// Validate checks the configuration and returns an INVALID_CONFIG error
// describing the first problem found.
func (c Config) Validate() error {
	if c.algorithm == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "layout algorithm cannot be empty")
	}
	if c.timeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "timeout cannot be negative: %s", c.timeout)
	}
	switch c.engine {
	case EngineExec:
		if err := errs.ValidateBinary(c.binary); err != nil {
			return err
		}
		if err := errs.ValidateFormat(c.format); err != nil {
			return err
		}
	case EngineEmbedded:
		if c.format != engine.DefaultFormat {
			return errs.New(errs.ErrCodeInvalidConfig, "embedded engine only produces %q output, not %q", engine.DefaultFormat, c.format)
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown engine %q (want %q or %q)", c.engine, EngineExec, EngineEmbedded)
	}
	return nil
}

// DocumentOptions returns the graph attributes written into the document.
func (c Config) DocumentOptions() dot.Options {
	return dot.Options{
		Algorithm:   c.algorithm,
		RankDir:     c.rankDir,
		Overlap:     c.overlap,
		Concentrate: c.concentrate,
	}
}

// NewEngine builds the engine the configuration selects.
func (c Config) NewEngine() engine.Engine {
	if c.engine == EngineEmbedded {
		return &engine.Embedded{Algorithm: c.algorithm}
	}
	return &engine.Exec{
		Binary:     c.binary,
		Format:     c.format,
		StrictExit: c.strictExit,
	}
}
