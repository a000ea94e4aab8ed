package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot_FindsMarkerInCurrentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("{}"), 0o644))

	root, err := FindRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, root)
}

func TestFindRoot_SearchesAncestors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, MarkerFile), []byte("{}"), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestFindRoot_NotFound_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := FindRoot(dir)
	assert.Error(t, err)
}

func TestLoad_MissingMarker_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_AppliesDefaultsThenOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile),
		[]byte(`{"default_language": "fr", "search": {"limit": 50}}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "fr", cfg.DefaultLanguage)
	assert.Equal(t, 50, cfg.Search.Limit)
	assert.Equal(t, 0.6, cfg.Hybrid.TextWeight) // untouched default survives
	assert.Equal(t, dir, cfg.Root)
}

func TestLoad_OverlayMergesOnTopOfMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte(`{"default_language": "en"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cortex"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsOverlay),
		[]byte("activation:\n  depth: 4\n  decay: 0.5\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Activation.Depth)
	assert.Equal(t, 0.5, cfg.Activation.Decay)
}

func TestLoad_MissingOverlay_NotAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("{}"), 0o644))

	_, err := Load(dir)
	assert.NoError(t, err)
}

func TestLoad_InvalidMarkerJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte("not json"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestPathHelpers_ResolveUnderRoot(t *testing.T) {
	cfg := Config{Root: "/cortex-project"}

	assert.Equal(t, "/cortex-project/neuronas", cfg.NeuronasDir())
	assert.Equal(t, "/cortex-project/.activations", cfg.ActivationsDir())
	assert.Equal(t, "/cortex-project/.activations/graph.idx", cfg.GraphIndexPath())
	assert.Equal(t, "/cortex-project/.activations/vectors.bin", cfg.VectorIndexPath())
	assert.Equal(t, "/cortex-project/.activations/cache/summaries.cache", cfg.CachePath("summaries.cache"))
	assert.Equal(t, "/cortex-project/.activations/sync.lock", cfg.SyncLockPath())
}

func TestEmbeddingTablePath_Unconfigured_ReturnsEmpty(t *testing.T) {
	cfg := Config{Root: "/cortex-project"}
	assert.Equal(t, "", cfg.EmbeddingTablePath())
}

func TestEmbeddingTablePath_RelativeResolvesAgainstRoot(t *testing.T) {
	cfg := Config{Root: "/cortex-project", Embedding: EmbeddingConfig{TablePath: "vectors/glove.txt"}}
	assert.Equal(t, "/cortex-project/vectors/glove.txt", cfg.EmbeddingTablePath())
}

func TestEmbeddingTablePath_AbsoluteUnchanged(t *testing.T) {
	cfg := Config{Root: "/cortex-project", Embedding: EmbeddingConfig{TablePath: "/opt/models/glove.txt"}}
	assert.Equal(t, "/opt/models/glove.txt", cfg.EmbeddingTablePath())
}
