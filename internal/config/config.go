// Package config locates the cortex root and loads its capability flags.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/peniel-r/cortex/internal/cerr"
)

// MarkerFile is the file whose presence defines a cortex root.
const MarkerFile = "cortex.json"

// SettingsOverlay is an optional project-local YAML overlay.
const SettingsOverlay = ".cortex/settings.yaml"

// SearchConfig configures default query-engine parameters.
type SearchConfig struct {
	Limit int `json:"limit" yaml:"limit"`
}

// HybridConfig configures the hybrid fusion weights (spec.md section 4.5).
type HybridConfig struct {
	TextWeight   float64 `json:"text_weight" yaml:"text_weight"`
	VectorWeight float64 `json:"vector_weight" yaml:"vector_weight"`
}

// ActivationConfig configures spreading activation (spec.md section 4.5).
type ActivationConfig struct {
	Depth int     `json:"depth" yaml:"depth"`
	Decay float64 `json:"decay" yaml:"decay"`
}

// EmbeddingConfig configures the word-vector table backing the Embedding
// Provider (SPEC_FULL.md section 4.9). TablePath may be relative to Root.
type EmbeddingConfig struct {
	TablePath string `json:"table_path" yaml:"table_path"`
}

// Config is the set of capability flags read from cortex.json (and
// optionally overlaid by .cortex/settings.yaml).
type Config struct {
	DefaultLanguage string           `json:"default_language" yaml:"default_language"`
	Search          SearchConfig     `json:"search" yaml:"search"`
	Hybrid          HybridConfig     `json:"hybrid" yaml:"hybrid"`
	Activation      ActivationConfig `json:"activation" yaml:"activation"`
	Embedding       EmbeddingConfig  `json:"embedding" yaml:"embedding"`

	// Root is the directory containing cortex.json. Not part of the file
	// itself; populated by Load/FindRoot.
	Root string `json:"-" yaml:"-"`
}

// Default returns the spec-mandated defaults (spec.md section 4.5).
func Default() Config {
	return Config{
		DefaultLanguage: "en",
		Search:          SearchConfig{Limit: 20},
		Hybrid:          HybridConfig{TextWeight: 0.6, VectorWeight: 0.4},
		Activation:      ActivationConfig{Depth: 2, Decay: 0.7},
	}
}

// FindRoot searches dir and its ancestors for cortex.json, returning the
// directory that contains it (spec.md section 6).
func FindRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", cerr.Wrap(cerr.ErrCodeIOError, err)
	}

	for {
		candidate := filepath.Join(abs, MarkerFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", cerr.New(cerr.ErrCodeConfigNotFound, "cortex.json not found in any ancestor of "+dir, nil)
		}
		abs = parent
	}
}

// Load reads cortex.json from root and applies any .cortex/settings.yaml
// overlay found alongside it. Missing cortex.json is an error; a missing
// overlay is not.
func Load(root string) (Config, error) {
	cfg := Default()
	cfg.Root = root

	data, err := os.ReadFile(filepath.Join(root, MarkerFile))
	if err != nil {
		return Config{}, cerr.Wrap(cerr.ErrCodeConfigNotFound, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, cerr.Wrap(cerr.ErrCodeConfigInvalid, err)
	}
	cfg.Root = root

	overlayPath := filepath.Join(root, SettingsOverlay)
	if overlayData, err := os.ReadFile(overlayPath); err == nil {
		if err := yaml.Unmarshal(overlayData, &cfg); err != nil {
			return Config{}, cerr.Wrap(cerr.ErrCodeConfigInvalid, err).WithDetail("file", overlayPath)
		}
		cfg.Root = root
	}

	return cfg, nil
}

// NeuronasDir returns the directory holding node files.
func (c Config) NeuronasDir() string {
	return filepath.Join(c.Root, "neuronas")
}

// ActivationsDir returns the directory holding generated index artifacts.
func (c Config) ActivationsDir() string {
	return filepath.Join(c.Root, ".activations")
}

// GraphIndexPath is the path of the binary graph index (spec.md section 6).
func (c Config) GraphIndexPath() string {
	return filepath.Join(c.ActivationsDir(), "graph.idx")
}

// VectorIndexPath is the path of the binary vector index (spec.md section 6).
func (c Config) VectorIndexPath() string {
	return filepath.Join(c.ActivationsDir(), "vectors.bin")
}

// CachePath returns the path of a named LLM cache file.
func (c Config) CachePath(name string) string {
	return filepath.Join(c.ActivationsDir(), "cache", name)
}

// SyncLockPath is the process-exclusion lock file path (spec.md section 5).
func (c Config) SyncLockPath() string {
	return filepath.Join(c.ActivationsDir(), "sync.lock")
}

// EmbeddingTablePath resolves the configured word-vector table path
// against Root. Returns "" when unconfigured, in which case the
// Embedding Provider degrades to zero vectors (SPEC_FULL.md section 4.9).
func (c Config) EmbeddingTablePath() string {
	if c.Embedding.TablePath == "" {
		return ""
	}
	if filepath.IsAbs(c.Embedding.TablePath) {
		return c.Embedding.TablePath
	}
	return filepath.Join(c.Root, c.Embedding.TablePath)
}
