// Package embedding implements the mean-pooled word-vector embedding
// provider (spec.md section 4.4): a word-vector table lookup plus
// tokenizer, not a learned or ONNX-hosted model — the spec's provider
// contract is satisfied entirely by table lookup and pooling.
package embedding

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/peniel-r/cortex/internal/cerr"
)

// Table is a pre-loaded, read-only word-vector table (GloVe/word2vec
// text format, SPEC_FULL.md section 4.9): one line per token, `token v1 v2
// ... vD`, space-separated. A first line of just `vocab_size dim` is
// accepted and skipped.
type Table struct {
	dim     int
	vectors map[string][]float32
}

// Dim returns the table's vector dimension.
func (t *Table) Dim() int { return t.dim }

// Lookup returns the vector for token, if present.
func (t *Table) Lookup(token string) ([]float32, bool) {
	v, ok := t.vectors[token]
	return v, ok
}

// Len returns the number of tokens in the table.
func (t *Table) Len() int { return len(t.vectors) }

// LoadTable reads a word-vector table from path. The table's dimension
// is inferred from the first data line's field count.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerr.New(cerr.ErrCodeFileNotFound, "embedding table not found: "+path, err)
		}
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	defer f.Close()

	t := &Table{vectors: make(map[string][]float32)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		if first {
			first = false
			if len(fields) == 2 {
				if _, err1 := strconv.Atoi(fields[0]); err1 == nil {
					if _, err2 := strconv.Atoi(fields[1]); err2 == nil {
						continue // vocab_size dim header line, skip
					}
				}
			}
		}

		if len(fields) < 2 {
			continue
		}
		token := fields[0]
		vals := fields[1:]
		if t.dim == 0 {
			t.dim = len(vals)
		}
		if len(vals) != t.dim {
			continue // malformed line: dimension mismatch, skip
		}
		vec := make([]float32, len(vals))
		ok := true
		for i, s := range vals {
			f64, err := strconv.ParseFloat(s, 32)
			if err != nil {
				ok = false
				break
			}
			vec[i] = float32(f64)
		}
		if ok {
			t.vectors[token] = vec
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return t, nil
}
