package queryengine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Hybrid runs text and vector search independently (concurrently, via
// errgroup, mirroring the teacher's fan-out-then-fuse pattern), then
// fuses by weighted linear combination of min-max-normalised scores:
// `fused = textWeight*text_norm + vectorWeight*vector_norm`. The id sets
// are unioned; a result missing from one side contributes 0 for that
// side (spec.md section 4.5).
func (e *Engine) Hybrid(ctx context.Context, query string, limit int) ([]Result, error) {
	var textHits, vectorHits []Result

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		textHits = e.Text(query, -1)
		return nil
	})
	g.Go(func() error {
		vectorHits = e.Vector(query, -1)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	textNorm := minMaxNormalize(textHits)
	vectorNorm := minMaxNormalize(vectorHits)

	fused := make(map[string]float64)
	for id, v := range textNorm {
		fused[id] += e.cfg.HybridTextWeight * v
	}
	for id, v := range vectorNorm {
		fused[id] += e.cfg.HybridVectorWeight * v
	}

	results := make([]Result, 0, len(fused))
	for id, score := range fused {
		results = append(results, Result{ID: id, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	return applyLimit(results, limit), nil
}

// minMaxNormalize rescales each result's score into [0, 1] within its own
// set. A set with a zero range (all scores equal, including the
// single-element and empty cases) maps every score to 1 so that any hit
// still contributes its full weight to the fused score.
func minMaxNormalize(results []Result) map[string]float64 {
	out := make(map[string]float64, len(results))
	if len(results) == 0 {
		return out
	}

	min, max := results[0].Score, results[0].Score
	for _, r := range results {
		if r.Score < min {
			min = r.Score
		}
		if r.Score > max {
			max = r.Score
		}
	}

	span := max - min
	for _, r := range results {
		if span == 0 {
			out[r.ID] = 1
			continue
		}
		out[r.ID] = (r.Score - min) / span
	}
	return out
}
