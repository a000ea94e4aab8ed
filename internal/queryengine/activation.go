package queryengine

import "sort"

// Activation runs spreading activation over the Graph (spec.md section
// 4.5). Initial stimulus at each node is
// `0.6*BM25(node,query) + 0.4*cosine(query_vec,node_vec)` where both
// components exist (a component missing for a node contributes 0, same
// convention as Hybrid); stimuli greater than 0 seed the frontier. Over
// cfg.ActivationDepth steps, each activated node distributes
// `a_n * (edge_weight/100) * cfg.ActivationDecay` to each forward
// neighbour, accumulating. Final rank is descending activation, ties
// broken by ascending lexicographic id.
func (e *Engine) Activation(query string, limit int) []Result {
	qvec := e.embedder.Embed(query)

	activation := make(map[string]float64)
	for _, n := range e.nodes {
		var stimulus float64
		if score, ok := e.bm.ScoreFor(n.ID, query); ok {
			stimulus += e.cfg.HybridTextWeight * score
		}
		if qvec != nil {
			if cos, ok := e.vec.CosineFor(n.ID, qvec); ok {
				stimulus += e.cfg.HybridVectorWeight * float64(cos)
			}
		}
		if stimulus > 0 {
			activation[n.ID] = stimulus
		}
	}

	frontier := make(map[string]float64, len(activation))
	for id, a := range activation {
		frontier[id] = a
	}

	for step := 0; step < e.cfg.ActivationDepth; step++ {
		next := make(map[string]float64)
		for id, a := range frontier {
			for _, edge := range e.g.AdjacentWeighted(id) {
				delta := a * (float64(edge.Weight) / 100) * e.cfg.ActivationDecay
				if delta <= 0 {
					continue
				}
				next[edge.Target] += delta
				activation[edge.Target] += delta
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	results := make([]Result, 0, len(activation))
	for id, a := range activation {
		results = append(results, Result{ID: id, Score: a})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	return applyLimit(results, limit)
}
