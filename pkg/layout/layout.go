package layout

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gvlayout/pkg/cache"
	"github.com/matzehuels/gvlayout/pkg/dot"
	"github.com/matzehuels/gvlayout/pkg/engine"
	errs "github.com/matzehuels/gvlayout/pkg/errors"
	"github.com/matzehuels/gvlayout/pkg/graph"
	"github.com/matzehuels/gvlayout/pkg/observability"
)

// Result describes a finished (or partially finished) layout pass.
type Result struct {
	PassID      string        `json:"pass_id"`
	Updated     int           `json:"updated"`
	Report      *Report       `json:"report,omitempty"`
	Diagnostics string        `json:"diagnostics,omitempty"` // Engine stderr
	ExitCode    int           `json:"exit_code"`
	Warnings    []string      `json:"warnings,omitempty"`
	Duration    time.Duration `json:"duration"`
	Cached      bool          `json:"cached"`
}

// Runner runs layout passes with optional engine-output caching.
//
// The Runner holds no per-pass state; one Runner may serve concurrent passes
// over distinct graphs.
type Runner struct {
	Logger   *log.Logger
	Cache    cache.Cache   // nil disables caching
	CacheTTL time.Duration // zero keeps entries forever

	// Engine, when set, replaces the engine the Config selects.
	Engine engine.Engine
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	return &Runner{Cache: c, Logger: logger}
}

// Layout runs a single pass with no cache and no logging.
func Layout(ctx context.Context, g graph.View, cfg Config) (*Result, error) {
	return (&Runner{}).Layout(ctx, g, cfg)
}

// Layout serializes g, runs it through the configured engine and writes the
// resulting positions back into g.
//
// On error the returned Result, when non-nil, carries the engine
// diagnostics. Only IO_ERROR failures modify g.
func (r *Runner) Layout(ctx context.Context, g graph.View, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	passID := uuid.NewString()
	logger := r.logger().With("pass", passID)
	hooks := observability.Layout()
	start := time.Now()

	nodes, edges := g.Nodes(), g.Edges()
	hooks.OnLayoutStart(ctx, passID, len(nodes), len(edges))

	res, err := r.run(ctx, g, cfg, passID, logger)
	res.Duration = time.Since(start)
	hooks.OnLayoutComplete(ctx, passID, res.Updated, res.Duration, err)

	if err != nil {
		logger.Error("layout failed", "err", err, "duration", res.Duration)
		return res, err
	}
	logger.Info("layout complete",
		"nodes", len(nodes),
		"updated", res.Updated,
		"cached", res.Cached,
		"duration", res.Duration)
	return res, nil
}

func (r *Runner) run(ctx context.Context, g graph.View, cfg Config, passID string, logger *log.Logger) (*Result, error) {
	res := &Result{PassID: passID, ExitCode: -1}

	if cfg.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	var doc bytes.Buffer
	if err := dot.Write(&doc, g, cfg.DocumentOptions()); err != nil {
		return res, errs.Wrap(errs.ErrCodeInternal, err, "serialize graph")
	}

	eng := r.engine(cfg)
	logger.Debug("running engine", "engine", eng.Name(), "bytes", doc.Len())

	engineStart := time.Now()
	out, err := eng.Run(ctx, doc.Bytes())
	exitCode := -1
	if out != nil {
		exitCode = out.ExitCode
	}
	observability.Layout().OnEngineComplete(ctx, passID, eng.Name(), exitCode, time.Since(engineStart), err)

	if out != nil {
		res.ExitCode = out.ExitCode
		res.Diagnostics = string(out.Stderr)
		res.Warnings = append(res.Warnings, out.Warnings...)
		res.Cached = out.Cached
		if len(bytes.TrimSpace(out.Stderr)) > 0 {
			logger.Warn("engine diagnostics", "stderr", string(bytes.TrimSpace(out.Stderr)))
		}
		for _, w := range out.Warnings {
			logger.Warn(w)
		}
	}

	if err != nil {
		if errs.Is(err, errs.ErrCodeIO) && out != nil && len(out.Stdout) > 0 {
			r.apply(g, out.Stdout, res, logger)
			logger.Warn("applied partial engine output", "updated", res.Updated)
		}
		return res, err
	}

	r.apply(g, out.Stdout, res, logger)
	return res, nil
}

func (r *Runner) apply(g graph.View, output []byte, res *Result, logger *log.Logger) {
	// An in-memory reader cannot fail.
	report, _ := Apply(g, bytes.NewReader(output))
	res.Report = report
	res.Updated = report.Updated

	for _, s := range report.Skipped {
		logger.Debug("skipped position record", "line", s.Line, "node", s.NodeID, "reason", s.Reason, "detail", s.Detail)
	}
	if n := len(report.Skipped); n > 0 {
		logger.Warn("skipped position records", "count", n, "records", report.Records)
	}
}

func (r *Runner) engine(cfg Config) engine.Engine {
	eng := r.Engine
	if eng == nil {
		eng = cfg.NewEngine()
	}
	if r.Cache != nil {
		eng = engine.Cached(eng, r.Cache, r.CacheTTL)
	}
	return eng
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}
