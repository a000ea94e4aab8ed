// Package indexengine implements the sync entry point (spec.md section
// 4.8): scans the node collection, rebuilds the Graph, conditionally
// rebuilds the Vector Index, and refreshes the LLM cache stubs. Failure
// of any sub-step must not corrupt earlier artifacts — every artifact is
// written via its own atomic temp-file-then-rename.
package indexengine

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peniel-r/cortex/internal/cache"
	"github.com/peniel-r/cortex/internal/cerr"
	"github.com/peniel-r/cortex/internal/config"
	"github.com/peniel-r/cortex/internal/embedding"
	"github.com/peniel-r/cortex/internal/graph"
	"github.com/peniel-r/cortex/internal/graphidx"
	"github.com/peniel-r/cortex/internal/node"
	"github.com/peniel-r/cortex/internal/validator"
	"github.com/peniel-r/cortex/internal/vector"
)

// IndexStats summarises one sync run (spec.md section 4.8 step 5).
type IndexStats struct {
	NodeCount    int
	GraphNodes   int
	GraphEdges   int
	VectorCount  int
	CacheEntries int
	Orphans      int
}

// Options tunes a single Sync call.
type Options struct {
	ForceRebuild bool
}

// Sync is the Index Engine's single entry point. It acquires the
// process-exclusion lock for the duration of the run (spec.md section 5)
// and fails fast, rather than blocking, if a sync is already in flight.
func Sync(cfg config.Config, embedder *embedding.Embedder, opts Options, logger *slog.Logger) (IndexStats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lock := newSyncLock(cfg.SyncLockPath())
	acquired, err := lock.TryLock()
	if err != nil {
		return IndexStats{}, err
	}
	if !acquired {
		return IndexStats{}, cerr.New(cerr.ErrCodeSyncInProgress, "a sync is already in progress", nil).
			WithSuggestion("wait for the in-flight sync to finish, then retry")
	}
	defer lock.Unlock()

	store := node.NewStore()

	// Step 1: scan.
	nodes, err := store.Scan(cfg.NeuronasDir())
	if err != nil {
		return IndexStats{}, err
	}
	logger.Info("sync: scanned nodes", slog.Int("count", len(nodes)))

	issues := validator.Validate(nodes)
	for _, issue := range issues {
		logger.Warn("sync: structural issue", slog.String("node", issue.NodeID), slog.String("detail", issue.Message))
	}
	orphans := validator.ConnectionsResolvable(nodes)

	// Steps 2 and 4: build+persist the Graph and conditionally rebuild the
	// Vector Index concurrently — the two artifacts are independent, each
	// persisted via its own atomic write, mirroring the teacher's
	// fan-out-then-join pattern (also used by queryengine.Hybrid's
	// text/vector legs).
	var g *graph.Graph
	var vectorCount int

	eg, _ := errgroup.WithContext(context.Background())
	eg.Go(func() error {
		built := graph.New()
		for _, n := range nodes {
			built.AddNode(n.ID)
			for _, kind := range n.ConnectionOrder {
				for _, c := range n.Connections[kind] {
					built.AddEdge(n.ID, c.TargetID, c.Weight)
				}
			}
		}
		if err := graphidx.Save(built, cfg.GraphIndexPath()); err != nil {
			return err
		}
		logger.Info("sync: persisted graph index", slog.Int("nodes", built.NodeCount()), slog.Int("edges", built.EdgeCount()))
		g = built
		return nil
	})
	eg.Go(func() error {
		count, err := syncVectorIndex(cfg, nodes, embedder, opts.ForceRebuild, logger)
		if err != nil {
			return err
		}
		vectorCount = count
		return nil
	})
	if err := eg.Wait(); err != nil {
		return IndexStats{}, err
	}

	// Step 3: refresh LLM cache stubs (best-effort).
	cacheEntries, err := refreshCaches(cfg, nodes)
	if err != nil {
		logger.Warn("sync: cache refresh failed", slog.String("error", err.Error()))
	}

	return IndexStats{
		NodeCount:    len(nodes),
		GraphNodes:   g.NodeCount(),
		GraphEdges:   g.EdgeCount(),
		VectorCount:  vectorCount,
		CacheEntries: cacheEntries,
		Orphans:      orphans,
	}, nil
}

// refreshCaches stamps a cache entry per node carrying `_llm` metadata:
// the short title into summaries.cache, the token count into
// tokens.cache. Missing `_llm` metadata leaves the node's entries alone
// (a stale entry from a prior sync is not evicted here; that is a
// separate cache-GC concern out of scope for this implementation).
func refreshCaches(cfg config.Config, nodes []*node.Node) (int, error) {
	summaries, err := cache.Load(cfg.CachePath("summaries.cache"))
	if err != nil {
		return 0, err
	}
	tokens, err := cache.Load(cfg.CachePath("tokens.cache"))
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for _, n := range nodes {
		if n.LLM == nil {
			continue
		}
		if n.LLM.ShortTitle != "" {
			summaries.Set(n.ID, cache.Entry{Value: n.LLM.ShortTitle, Timestamp: now})
		}
		if n.LLM.TokenCount > 0 {
			tokens.Set(n.ID, cache.Entry{Count: n.LLM.TokenCount, Timestamp: now})
		}
	}

	if err := summaries.Save(); err != nil {
		return 0, err
	}
	if err := tokens.Save(); err != nil {
		return 0, err
	}
	return summaries.Len() + tokens.Len(), nil
}

// syncVectorIndex rebuilds the Vector Index when the node tree's latest
// mtime is newer than the index's stamped build timestamp, or when
// forceRebuild is set (spec.md section 4.8 step 4).
func syncVectorIndex(cfg config.Config, nodes []*node.Node, embedder *embedding.Embedder, forceRebuild bool, logger *slog.Logger) (int, error) {
	latestMtime, err := latestSourceMtime(cfg.NeuronasDir())
	if err != nil {
		return 0, err
	}

	existing, header, loadErr := vector.Load(cfg.VectorIndexPath())
	needsRebuild := forceRebuild || loadErr != nil || latestMtime > header.Timestamp
	if !needsRebuild {
		return existing.Count(), nil
	}

	dim := embedder.Dim()
	if dim == 0 {
		logger.Warn("sync: no embedding table loaded, vector index will be empty")
	}
	idx := vector.New(dim)
	if dim > 0 {
		for _, n := range nodes {
			text := embedding.EmbedNodeText(n.Title, n.Tags)
			idx.Add(n.ID, embedder.Embed(text))
		}
	}

	if err := vector.Save(idx, cfg.VectorIndexPath(), latestMtime); err != nil {
		return 0, err
	}
	logger.Info("sync: rebuilt vector index", slog.Int("count", idx.Count()))
	return idx.Count(), nil
}

func latestSourceMtime(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	var latest int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mtime := info.ModTime().Unix(); mtime > latest {
			latest = mtime
		}
	}
	return latest, nil
}
