package node

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/peniel-r/cortex/internal/cerr"
)

// Store reads and writes node files on disk (spec.md section 4.1).
type Store struct{}

// NewStore creates a Store. Store is stateless; NewStore exists so
// callers can depend on an interface-shaped value consistently with the
// rest of the engine's components.
func NewStore() *Store {
	return &Store{}
}

// Read parses a single node file. A missing file or a structural parse
// error is returned verbatim (spec.md section 4.1 / section 7: "single-item
// operations surface errors verbatim").
func (s *Store) Read(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cerr.New(cerr.ErrCodeFileNotFound, "node file not found: "+path, err)
		}
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return Parse(data)
}

// Write serializes n to path. When preserveBody is false, the body
// currently on disk at path is re-read and kept verbatim (a
// read-modify-write of the front-matter only); when true, n.Body is used
// as supplied by the caller (spec.md section 4.1).
func (s *Store) Write(path string, n *Node, preserveBody bool) error {
	if !preserveBody {
		if existing, err := os.ReadFile(path); err == nil {
			_, _, body, perr := splitDelimiters(string(existing))
			if perr == nil {
				n.Body = body
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	data := Serialize(n)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

// UpdateBody rewrites only the body of the file at path, preserving the
// front-matter bytes verbatim (spec.md section 4.1 and section 8's
// universal invariant on update_body).
func (s *Store) UpdateBody(path, newBody string) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cerr.New(cerr.ErrCodeFileNotFound, "node file not found: "+path, err)
		}
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	_, frontEnd, _, perr := splitDelimiters(string(existing))
	if perr != nil {
		return perr
	}

	// frontEnd is the offset just past the front-matter content, before
	// the closing "---" delimiter line; advance past that line to find
	// where the body starts.
	text := string(existing)
	closingEnd := len(text)
	if nl := strings.IndexByte(text[frontEnd:], '\n'); nl != -1 {
		closingEnd = frontEnd + nl + 1
	}

	out := text[:closingEnd] + newBody
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	return nil
}

// Scan enumerates all *.md files under dir, parsing each. Invalid nodes
// are skipped, not fatal (spec.md section 4.1 / section 7: batch
// operations degrade gracefully per item).
func (s *Store) Scan(dir string) ([]*Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	var nodes []*Node
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		n, err := s.Read(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// FindPath resolves id to a file path within dir: a direct filename match
// (id.md) is tried first, then an exact stem match across the directory
// (spec.md section 4.1).
func (s *Store) FindPath(dir, id string) (string, error) {
	direct := filepath.Join(dir, id+".md")
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", cerr.Wrap(cerr.ErrCodeIOError, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".md")
		if stem == id {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", cerr.New(cerr.ErrCodePathNotFound, "no node file found for id: "+id, nil)
}
