// Package bm25 implements Okapi BM25 scoring over an inverted index
// (spec.md section 4.3). Exact, independently verifiable arithmetic is a
// requirement of the domain, so this is a hand-rolled scorer rather than
// a general-purpose search engine (see DESIGN.md).
package bm25

import (
	"math"
	"sort"
	"strings"
)

const (
	k1 = 1.5
	b  = 0.75
)

type document struct {
	id     string
	order  int
	tokens []string
	// termFreq counts token occurrences within this document.
	termFreq map[string]int
	length   int
}

// Index is a BM25 inverted index. Documents are added with AddDocument,
// then Build computes IDFs and the average document length once; Search
// is only valid after Build.
type Index struct {
	docs       []*document
	docByID    map[string]int // index into docs
	df         map[string]int // document frequency per term
	idf        map[string]float64
	avgDocLen  float64
	built      bool
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		docByID: make(map[string]int),
		df:      make(map[string]int),
	}
}

// Tokenize lowercases text and splits on any run of non-alphanumeric
// runes; empty tokens are discarded (spec.md section 4.3).
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// AddDocument tokenizes text and registers it under id. Calling
// AddDocument again with an id already present replaces that document.
func (idx *Index) AddDocument(id, text string) {
	tokens := Tokenize(text)
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}

	d := &document{id: id, order: len(idx.docs), tokens: tokens, termFreq: tf, length: len(tokens)}
	if i, exists := idx.docByID[id]; exists {
		idx.docs[i] = d
	} else {
		idx.docByID[id] = len(idx.docs)
		idx.docs = append(idx.docs, d)
	}
	idx.built = false
}

// Build computes document frequencies, IDFs, and the average document
// length over all documents added so far. Must be called (once, or again
// after further AddDocument calls) before Search.
func (idx *Index) Build() {
	idx.df = make(map[string]int)
	var totalLen int
	for _, d := range idx.docs {
		seen := make(map[string]struct{}, len(d.termFreq))
		for t := range d.termFreq {
			seen[t] = struct{}{}
		}
		for t := range seen {
			idx.df[t]++
		}
		totalLen += d.length
	}

	n := len(idx.docs)
	idx.idf = make(map[string]float64, len(idx.df))
	for term, nt := range idx.df {
		idx.idf[term] = math.Log((float64(n)-float64(nt)+0.5)/(float64(nt)+0.5) + 1)
	}

	if n > 0 {
		idx.avgDocLen = float64(totalLen) / float64(n)
	}
	idx.built = true
}

// Result is a single scored document.
type Result struct {
	ID    string
	Score float64
}

// Search scores every document against query and returns the top k by
// descending score, ties broken by ascending lexicographic id (spec.md
// section 4.3 and section 9's tie-break resolution). Search before
// Build (or with no documents) returns nil.
func (idx *Index) Search(query string, k int) []Result {
	if !idx.built || len(idx.docs) == 0 {
		return nil
	}

	terms := Tokenize(query)
	results := make([]Result, len(idx.docs))
	for i, d := range idx.docs {
		results[i] = Result{ID: d.id, Score: idx.score(d, terms)}
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

// ScoreFor computes the BM25 score of id against query directly, without
// ranking the whole corpus. Used by activation mode's initial stimulus
// (spec.md section 4.5). Returns false if id or the built index is
// unknown.
func (idx *Index) ScoreFor(id, query string) (float64, bool) {
	if !idx.built {
		return 0, false
	}
	i, ok := idx.docByID[id]
	if !ok {
		return 0, false
	}
	return idx.score(idx.docs[i], Tokenize(query)), true
}

func (idx *Index) score(d *document, terms []string) float64 {
	var score float64
	for _, t := range terms {
		idfVal, ok := idx.idf[t]
		if !ok {
			continue
		}
		tf := float64(d.termFreq[t])
		if tf == 0 {
			continue
		}
		denom := tf + k1*(1-b+b*float64(d.length)/idx.avgDocLen)
		score += idfVal * (tf * (k1 + 1)) / denom
	}
	return score
}
