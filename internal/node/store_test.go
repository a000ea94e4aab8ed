package node

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStore_ReadWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "n1.md", "---\nid: n1\ntitle: T\n---\nbody text\n")

	s := NewStore()
	n, err := s.Read(path)
	require.NoError(t, err)

	n.Title = "Updated"
	require.NoError(t, s.Write(path, n, false))

	n2, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "Updated", n2.Title)
	assert.Equal(t, "body text\n", n2.Body)
}

func TestStore_UpdateBody_PreservesFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "n1.md", "---\nid: n1\ntitle: T\n---\nold body\n")

	s := NewStore()
	require.NoError(t, s.UpdateBody(path, "new body\n"))

	n, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "T", n.Title)
	assert.Equal(t, "new body\n", n.Body)
}

func TestStore_Scan_SkipsInvalidNonFatally(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.md", "---\nid: good\ntitle: Good\n---\n")
	writeFile(t, dir, "bad.md", "not a valid node file\n")
	writeFile(t, dir, "ignore.txt", "irrelevant")

	s := NewStore()
	nodes, err := s.Scan(dir)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "good", nodes[0].ID)
}

func TestStore_FindPath_DirectMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "n-weird.md", "---\nid: n-weird\ntitle: Weird\n---\n")

	s := NewStore()
	path, err := s.FindPath(dir, "n-weird")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "n-weird.md"), path)

	_, err = s.FindPath(dir, "missing")
	assert.Error(t, err)
}
