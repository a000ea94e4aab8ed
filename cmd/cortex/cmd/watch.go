package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/embedding"
	"github.com/peniel-r/cortex/internal/indexengine"
	"github.com/peniel-r/cortex/internal/watch"
)

func newWatchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch",
		Short: "Watch neuronas/ and re-sync on change until interrupted",
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

			trigger := func() {
				stats, err := indexengine.Sync(cfg, embedder, indexengine.Options{}, logger)
				if err != nil {
					logger.Warn("watch: sync failed", slog.String("error", err.Error()))
					return
				}
				fmt.Fprintf(c.OutOrStdout(), "resynced: %d nodes, %d graph edges, %d vectors\n",
					stats.NodeCount, stats.GraphEdges, stats.VectorCount)
			}

			w, err := watch.New(cfg.NeuronasDir(), watch.DefaultDebounce, trigger, logger)
			if err != nil {
				return err
			}
			go w.Run()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			return w.Stop()
		},
	}
	return c
}
