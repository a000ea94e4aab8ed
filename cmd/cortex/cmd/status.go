package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/graphidx"
	"github.com/peniel-r/cortex/internal/node"
	"github.com/peniel-r/cortex/internal/vector"
)

func newStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Report the cortex root and index state",
		RunE: func(c *cobra.Command, args []string) error {
			store := node.NewStore()
			nodes, err := store.Scan(cfg.NeuronasDir())
			if err != nil {
				return err
			}

			g, graphErr := graphidx.Load(cfg.GraphIndexPath())
			vec, header, vecErr := vector.Load(cfg.VectorIndexPath())

			out := c.OutOrStdout()
			plain := !isatty.IsTerminal(os.Stdout.Fd())

			row := func(label, value string) {
				if plain {
					fmt.Fprintf(out, "%s\t%s\n", label, value)
				} else {
					fmt.Fprintf(out, "%-10s %s\n", label+":", value)
				}
			}

			row("root", cfg.Root)
			row("nodes", fmt.Sprintf("%d", len(nodes)))

			if graphErr != nil {
				row("graph", "not built ("+graphErr.Error()+")")
			} else {
				row("graph", fmt.Sprintf("%d nodes, %d edges", g.NodeCount(), g.EdgeCount()))
			}

			if vecErr != nil {
				row("vectors", "not built ("+vecErr.Error()+")")
			} else {
				row("vectors", fmt.Sprintf("%d entries, dim %d, built %d", vec.Count(), header.Dim, header.Timestamp))
			}

			return nil
		},
	}
	return c
}
