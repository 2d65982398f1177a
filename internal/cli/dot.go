package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gvlayout/pkg/dot"
	"github.com/matzehuels/gvlayout/pkg/graph"
)

// dotCommand creates the dot command, which prints the document a layout
// pass would hand to the engine.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output string
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "dot [graph.json]",
		Short: "Print the Graphviz document for a graph",
		Long: `Print the Graphviz document for a graph.

The document is exactly what 'layout' writes to the engine's standard input.
With --check it is also parsed by the embedded Graphviz library first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(cmd)
			if err != nil {
				return err
			}
			cfg := s.LayoutConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			var buf bytes.Buffer
			if err := dot.Write(&buf, g, cfg.DocumentOptions()); err != nil {
				return err
			}
			if check {
				if err := dot.Check(cmd.Context(), buf.Bytes()); err != nil {
					return err
				}
				c.Logger.Debug("document parsed", "bytes", buf.Len())
			}

			if output == "" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Document written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "validate the document with the embedded Graphviz parser")
	addLayoutFlags(cmd.Flags())

	return cmd
}
