package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peniel-r/cortex/internal/bm25"
	"github.com/peniel-r/cortex/internal/embedding"
	"github.com/peniel-r/cortex/internal/graph"
	"github.com/peniel-r/cortex/internal/graphidx"
	"github.com/peniel-r/cortex/internal/node"
	"github.com/peniel-r/cortex/internal/querylang"
	"github.com/peniel-r/cortex/internal/queryengine"
	"github.com/peniel-r/cortex/internal/vector"
)

func newQueryCmd() *cobra.Command {
	var mode string
	var limit int

	c := &cobra.Command{
		Use:   "query <expression>",
		Short: "Run a query against the knowledge graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			query := args[0]

			store := node.NewStore()
			nodes, err := store.Scan(cfg.NeuronasDir())
			if err != nil {
				return err
			}

			bm := bm25.New()
			for _, n := range nodes {
				bm.AddDocument(n.ID, n.Title+"\n"+n.Body)
			}
			bm.Build()

			g, err := graphidx.Load(cfg.GraphIndexPath())
			if err != nil {
				logger.Warn("query: graph index unavailable, falling back to empty graph", slog.String("error", err.Error()))
				g = graph.New()
			}

			vec, _, err := vector.Load(cfg.VectorIndexPath())
			if err != nil {
				logger.Warn("query: vector index unavailable, falling back to empty index", slog.String("error", err.Error()))
				vec = vector.New(0)
			}

			var table *embedding.Table
			if path := cfg.EmbeddingTablePath(); path != "" {
				if t, err := embedding.LoadTable(path); err == nil {
					table = t
				} else {
					logger.Warn("query: embedding table unavailable", slog.String("error", err.Error()))
				}
			}
			embedder := embedding.NewEmbedder(table)

			qcfg := queryengine.Config{
				HybridTextWeight:   cfg.Hybrid.TextWeight,
				HybridVectorWeight: cfg.Hybrid.VectorWeight,
				ActivationDepth:    cfg.Activation.Depth,
				ActivationDecay:    cfg.Activation.Decay,
			}
			engine, err := queryengine.New(qcfg, cfg.NeuronasDir(), store, nodes, g, bm, vec, embedder)
			if err != nil {
				return err
			}

			if limit <= 0 {
				limit = cfg.Search.Limit
			}

			selected := mode
			if selected == "" {
				if querylang.IsStructuredQuery(query) {
					selected = string(queryengine.ModeFilter)
				} else {
					selected = string(queryengine.ModeText)
				}
			}

			var results []queryengine.Result
			switch queryengine.Mode(selected) {
			case queryengine.ModeFilter:
				results, err = engine.Filter(query, limit)
			case queryengine.ModeText:
				results = engine.Text(query, limit)
			case queryengine.ModeVector:
				results = engine.Vector(query, limit)
			case queryengine.ModeHybrid:
				results, err = engine.Hybrid(context.Background(), query, limit)
			case queryengine.ModeActivation:
				results = engine.Activation(query, limit)
			default:
				return fmt.Errorf("unknown mode %q", selected)
			}
			if err != nil {
				return err
			}

			out := c.OutOrStdout()
			for _, r := range results {
				n, _ := engine.Hydrate(r.ID)
				title := ""
				if n != nil {
					title = n.Title
				}
				fmt.Fprintf(out, "%.4f  %-24s %s\n", r.Score, r.ID, title)
			}
			return nil
		},
	}

	c.Flags().StringVar(&mode, "mode", "", "query mode: filter, text, vector, hybrid, activation (default: auto-detect)")
	c.Flags().IntVar(&limit, "limit", 0, "maximum number of results (default: configured search.limit)")
	return c
}
