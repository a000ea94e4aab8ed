package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/embedding"
	"github.com/peniel-r/cortex/internal/indexengine"
)

func newSyncCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "sync",
		Short: "Rebuild the graph and (conditionally) the vector index from neuronas/",
		RunE: func(c *cobra.Command, args []string) error {
			var table *embedding.Table
			if path := cfg.EmbeddingTablePath(); path != "" {
				t, err := embedding.LoadTable(path)
				if err != nil {
					return err
				}
				table = t
			}
			embedder := embedding.NewEmbedder(table)

			stats, err := indexengine.Sync(cfg, embedder, indexengine.Options{ForceRebuild: force}, logger)
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			fmt.Fprintf(out, "nodes:    %d\n", stats.NodeCount)
			fmt.Fprintf(out, "graph:    %d nodes, %d edges\n", stats.GraphNodes, stats.GraphEdges)
			fmt.Fprintf(out, "vectors:  %d\n", stats.VectorCount)
			fmt.Fprintf(out, "cache:    %d entries\n", stats.CacheEntries)
			fmt.Fprintf(out, "orphans:  %d\n", stats.Orphans)
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "rebuild the vector index even if nothing changed")
	return c
}
