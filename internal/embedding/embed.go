package embedding

import "strings"

// Embedder maps text to a dense vector by mean-pooling word-vector table
// lookups (spec.md section 4.4).
type Embedder struct {
	table *Table
}

// NewEmbedder wraps table. A nil table makes every Embed call return a
// zero vector, which is the degraded mode spec.md section 4.4 step 5
// (and SPEC_FULL.md section 4.9) call for when no table is loaded.
func NewEmbedder(table *Table) *Embedder {
	return &Embedder{table: table}
}

// Dim returns the embedder's output dimension, or 0 if no table is
// loaded.
func (e *Embedder) Dim() int {
	if e.table == nil {
		return 0
	}
	return e.table.Dim()
}

// Tokenize splits text on whitespace and common punctuation, lowercasing
// each token (spec.md section 4.4 step 2).
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return true
		case strings.ContainsRune(".,;:!?()[]{}\"'`", r):
			return true
		default:
			return false
		}
	})
	return fields
}

// Embed tokenizes text, looks each token up in the table, and mean-pools
// the vectors found; tokens absent from the table are skipped. Text
// yielding zero recognised tokens gets the zero vector (spec.md section
// 4.4 step 5).
func (e *Embedder) Embed(text string) []float32 {
	if e.table == nil || e.table.Dim() == 0 {
		return nil
	}
	dim := e.table.Dim()
	sum := make([]float32, dim)
	var count int

	for _, tok := range Tokenize(text) {
		vec, ok := e.table.Lookup(tok)
		if !ok {
			continue
		}
		for i, v := range vec {
			sum[i] += v
		}
		count++
	}

	if count == 0 {
		return make([]float32, dim)
	}
	for i := range sum {
		sum[i] /= float32(count)
	}
	return sum
}

// EmbedNodeText builds the embedding text for a node: title followed by
// its space-joined tags (spec.md section 4.4 step 1).
func EmbedNodeText(title string, tags []string) string {
	if len(tags) == 0 {
		return title
	}
	return title + " " + strings.Join(tags, " ")
}
