package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gvlayout/internal/config"
	"github.com/matzehuels/gvlayout/pkg/graph"
	"github.com/matzehuels/gvlayout/pkg/layout"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 200 * time.Millisecond

type layoutOptions struct {
	output string
	print  bool
	watch  bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph",
		Long: `Compute node positions for a graph.

The layout command reads a graph.json file, runs it through the configured
Graphviz engine and writes the graph back out with x/y set on every node the
engine positioned. Nodes the engine does not mention keep their coordinates.

Engine outputs are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "print a table of node positions")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run the layout whenever the input changes")
	addLayoutFlags(cmd.Flags())
	addCacheFlags(cmd.Flags())

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, s *config.Settings, opts layoutOptions) error {
	runner, err := c.newRunner(ctx, s)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	cfg := s.LayoutConfig()
	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutput(input)
	}

	if err := c.layoutOnce(ctx, runner, cfg, input, outputPath, opts.print); err != nil {
		return err
	}
	if !opts.watch {
		printNewline()
		printNextStep("Inspect", appName+" dot "+input)
		return nil
	}
	return c.watch(ctx, input, func() error {
		p := newProgress(c.Logger)
		if err := c.layoutOnce(ctx, runner, cfg, input, outputPath, opts.print); err != nil {
			return err
		}
		p.done("Re-laid out " + input)
		return nil
	})
}

func (c *CLI) layoutOnce(ctx context.Context, runner *layout.Runner, cfg layout.Config, input, outputPath string, showTable bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, os.Stderr, fmt.Sprintf("Running %s layout...", cfg.Algorithm()))
	spinner.Start()

	res, err := runner.Layout(ctx, g, cfg)
	if err != nil {
		spinner.StopWithError("Layout failed")
		if res != nil && res.Diagnostics != "" {
			printDetail("%s", strings.TrimSpace(res.Diagnostics))
		}
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), res)
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	printSkips(res.Report)
	if showTable {
		fmt.Println(renderPositions(g.Nodes()))
	}
	return nil
}

// watch calls fn each time path is written, until ctx is done. The parent
// directory is watched so that editors replacing the file are noticed.
func (c *CLI) watch(ctx context.Context, path string, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	printInfo("Watching %s (Ctrl+C to stop)", path)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			pending = timer.C
		case <-pending:
			pending = nil
			if err := fn(); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				c.Logger.Error("layout failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "err", err)
		}
	}
}

// defaultOutput derives "<input>.layout.json" from the input path.
func defaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
