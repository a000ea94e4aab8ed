// Package vector implements the exact (brute-force) cosine-similarity
// vector index and its on-disk "VECT" codec (spec.md section 4.4). A
// general approximate-nearest-neighbour library is the wrong shape here:
// the domain calls for exact top-k over a small corpus with a
// spec-defined checksummed format, not sub-linear search (see
// DESIGN.md).
package vector

import (
	"math"
	"sort"
)

// Entry pairs a stored vector with its precomputed L2 norm.
type Entry struct {
	Vector []float32
	Norm   float32
}

// Index holds one vector per node ID, insertion-ordered for stable
// iteration; Search breaks ties by id, not insertion order.
type Index struct {
	dim     int
	entries map[string]Entry
	order   []string
}

// New returns an empty Index for vectors of dimension dim.
func New(dim int) *Index {
	return &Index{dim: dim, entries: make(map[string]Entry)}
}

// Dim returns the configured vector dimension.
func (idx *Index) Dim() int { return idx.dim }

// Add stores vec under id, computing and caching its L2 norm. Adding an
// id already present replaces its entry in place (order preserved).
func (idx *Index) Add(id string, vec []float32) {
	norm := l2Norm(vec)
	if _, exists := idx.entries[id]; !exists {
		idx.order = append(idx.order, id)
	}
	idx.entries[id] = Entry{Vector: vec, Norm: norm}
}

// Delete removes id from the index, if present.
func (idx *Index) Delete(id string) {
	if _, exists := idx.entries[id]; !exists {
		return
	}
	delete(idx.entries, id)
	for i, existing := range idx.order {
		if existing == id {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether id is present.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Count returns the number of stored vectors.
func (idx *Index) Count() int { return len(idx.order) }

// AllIDs returns every stored ID, insertion order.
func (idx *Index) AllIDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// CosineFor computes the cosine similarity between id's stored vector
// and query directly, without ranking the whole index. Used by
// activation mode's initial stimulus (spec.md section 4.5). Returns
// false if id is not present.
func (idx *Index) CosineFor(id string, query []float32) (float32, bool) {
	e, ok := idx.entries[id]
	if !ok {
		return 0, false
	}
	return Cosine(query, l2Norm(query), e.Vector, e.Norm), true
}

func l2Norm(v []float32) float32 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	return float32(math.Sqrt(sumSquares))
}

// Cosine computes the cosine similarity between a and b given their
// precomputed norms; a zero norm on either side returns 0 (spec.md
// section 4.4).
func Cosine(a []float32, normA float32, b []float32, normB float32) float32 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot) / (normA * normB)
}

// Result is a single scored match.
type Result struct {
	ID    string
	Score float32
}

// Search returns the top-k entries by cosine similarity to query, ties
// broken by ascending lexicographic id (spec.md section 9's tie-break
// resolution).
func (idx *Index) Search(query []float32, k int) []Result {
	if len(idx.order) == 0 {
		return nil
	}
	queryNorm := l2Norm(query)

	results := make([]Result, len(idx.order))
	for i, id := range idx.order {
		e := idx.entries[id]
		results[i] = Result{ID: id, Score: Cosine(query, queryNorm, e.Vector, e.Norm)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if k >= 0 && k < len(results) {
		results = results[:k]
	}
	return results
}
