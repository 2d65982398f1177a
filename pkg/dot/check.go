package dot

import (
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// Check parses doc with the embedded Graphviz parser and reports syntax
// errors. No layout is performed.
func Check(ctx context.Context, doc []byte) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(doc)
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()
	return nil
}
