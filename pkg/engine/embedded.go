package engine

import (
	"bytes"
	"context"
	"time"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/gvlayout/pkg/errors"
)

// Embedded lays documents out with the Graphviz build linked into this
// binary. The algorithm is normally taken from the document's layout
// attribute; a non-empty Algorithm overrides it.
type Embedded struct {
	Algorithm string
}

// Name returns "embedded:<algorithm>".
func (e *Embedded) Name() string {
	if e.Algorithm == "" {
		return "embedded"
	}
	return "embedded:" + e.Algorithm
}

// Run parses doc, lays it out and renders native dot output.
func (e *Embedded) Run(ctx context.Context, doc []byte) (*Output, error) {
	if err := contextError(ctx, e.Name()); err != nil {
		return nil, err
	}
	start := time.Now()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLaunch, err, "init embedded graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeEngineExit, err, "parse document")
	}
	defer g.Close()

	if e.Algorithm != "" {
		gv.SetLayout(graphviz.Layout(e.Algorithm))
	}

	var buf bytes.Buffer
	renderErr := gv.Render(ctx, g, graphviz.XDOT, &buf)
	out := &Output{Stdout: buf.Bytes(), Duration: time.Since(start)}
	if err := contextError(ctx, e.Name()); err != nil {
		return out, err
	}
	if renderErr != nil {
		out.ExitCode = 1
		return out, errs.Wrap(errs.ErrCodeEngineExit, renderErr, "embedded layout")
	}
	return out, nil
}

var _ Engine = (*Embedded)(nil)
