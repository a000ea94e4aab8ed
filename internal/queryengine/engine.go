// Package queryengine orchestrates the five query modes — filter, text,
// vector, hybrid, activation — over the Graph, BM25, and Vector indices
// (spec.md section 4.5). Queries never mutate any index.
package queryengine

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/peniel-r/cortex/internal/bm25"
	"github.com/peniel-r/cortex/internal/embedding"
	"github.com/peniel-r/cortex/internal/graph"
	"github.com/peniel-r/cortex/internal/node"
	"github.com/peniel-r/cortex/internal/querylang"
	"github.com/peniel-r/cortex/internal/vector"
)

// Mode selects one of the five query modes.
type Mode string

const (
	ModeFilter     Mode = "filter"
	ModeText       Mode = "text"
	ModeVector     Mode = "vector"
	ModeHybrid     Mode = "hybrid"
	ModeActivation Mode = "activation"
)

// Result is one scored match, returned by every mode (spec.md section
// 4.5's "all modes return [(id, score)]").
type Result struct {
	ID    string
	Score float64
}

// Config tunes the hybrid and activation modes' fusion weights, per
// SPEC_FULL.md section 1A / spec.md section 6.
type Config struct {
	HybridTextWeight   float64
	HybridVectorWeight float64
	ActivationDepth    int
	ActivationDecay    float64
}

// DefaultConfig mirrors spec.md section 4.5's defaults.
func DefaultConfig() Config {
	return Config{
		HybridTextWeight:   0.6,
		HybridVectorWeight: 0.4,
		ActivationDepth:    2,
		ActivationDecay:    0.7,
	}
}

// Engine holds the loaded indices and the node collection needed to
// evaluate every mode. It is read-only over all of them: a query never
// mutates an index (spec.md section 4.5's invariant).
type Engine struct {
	cfg      Config
	g        *graph.Graph
	bm       *bm25.Index
	vec      *vector.Index
	embedder *embedding.Embedder

	nodesDir  string
	store     *node.Store
	nodes     []*node.Node
	nodesByID map[string]*node.Node
	order     map[string]int

	hydrateCache *lru.Cache[string, *node.Node]
}

// New builds an Engine over an already-scanned node collection and its
// loaded indices. nodes is expected in Node Store scan order (used as
// the filter mode's result order; the ranked modes break ties by id).
func New(cfg Config, nodesDir string, store *node.Store, nodes []*node.Node, g *graph.Graph, bm *bm25.Index, vec *vector.Index, embedder *embedding.Embedder) (*Engine, error) {
	cache, err := lru.New[string, *node.Node](256)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*node.Node, len(nodes))
	order := make(map[string]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = n
		order[n.ID] = i
	}

	return &Engine{
		cfg:          cfg,
		g:            g,
		bm:           bm,
		vec:          vec,
		embedder:     embedder,
		nodesDir:     nodesDir,
		store:        store,
		nodes:        nodes,
		nodesByID:    byID,
		order:        order,
		hydrateCache: cache,
	}, nil
}

// Hydrate re-hydrates the full node for id, via the in-memory collection
// first and the Node Store (with LRU caching) otherwise — covers ids
// that appear only as a connection target and were not part of the
// initial scan (SPEC_FULL.md section 4.10).
func (e *Engine) Hydrate(id string) (*node.Node, bool) {
	if n, ok := e.nodesByID[id]; ok {
		return n, true
	}
	if n, ok := e.hydrateCache.Get(id); ok {
		return n, true
	}
	path, err := e.store.FindPath(e.nodesDir, id)
	if err != nil {
		return nil, false
	}
	n, err := e.store.Read(path)
	if err != nil {
		return nil, false
	}
	e.hydrateCache.Add(id, n)
	return n, true
}

// Lookup implements querylang.Resolver.
func (e *Engine) Lookup(id string) (*node.Node, bool) {
	return e.Hydrate(id)
}

func applyLimit(results []Result, limit int) []Result {
	if limit >= 0 && limit < len(results) {
		return results[:limit]
	}
	return results
}

// Filter evaluates query (parsed as a structured condition tree) against
// every scanned node; no scoring, result order is scan order, an
// optional limit truncates (spec.md section 4.5).
func (e *Engine) Filter(query string, limit int) ([]Result, error) {
	expr, err := querylang.Parse(query)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, n := range e.nodes {
		if querylang.Evaluate(expr, n, e) {
			results = append(results, Result{ID: n.ID, Score: 0})
		}
	}
	return applyLimit(results, limit), nil
}

// Text runs BM25 top-k over query (spec.md section 4.5).
func (e *Engine) Text(query string, limit int) []Result {
	hits := e.bm.Search(query, limit)
	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{ID: h.ID, Score: h.Score}
	}
	return out
}

// Vector embeds query via the Embedding Provider and runs cosine top-k
// (spec.md section 4.5).
func (e *Engine) Vector(query string, limit int) []Result {
	qvec := e.embedder.Embed(query)
	hits := e.vec.Search(qvec, limit)
	out := make([]Result, len(hits))
	for i, h := range hits {
		out[i] = Result{ID: h.ID, Score: float64(h.Score)}
	}
	return out
}
