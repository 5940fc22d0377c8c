package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "hashing", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Hashing)
	assert.Equal(t, 768, cfg.Embedder.Hashing.Dimension)
	assert.Equal(t, filepath.Join("data", "vector_store"), cfg.Store.Dir)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 0.0, cfg.Retrieval.ScoreThreshold)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &AppConfig{
		Embedder: EmbedderConfig{
			Type: "openai",
			OpenAI: &OpenAIEmbedderConfig{
				BaseURL:     "https://api.openai.com/v1",
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "text-embedding-ada-002",
				Dimension:   1536,
				TimeoutSecs: 30,
				BatchSize:   100,
			},
		},
		Chunker:    ChunkerConfig{Type: "sentence", SentencesPerChunk: 3, OverlapSentences: 1},
		Store:      StoreConfig{Dir: "/var/lib/chancerag"},
		Retrieval:  RetrievalConfig{TopK: 7, ScoreThreshold: 0.25},
		Summarizer: SummarizerConfig{MaxSentences: 4},
		Logging:    LoggingConfig{Level: "debug"},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFillsPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("embedder:\n  type: openai\n  openai:\n    model: text-embedding-3-small\nretrieval:\n  score_threshold: 0.4\n")
	require.NoError(t, os.WriteFile(path, partial, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 1536, cfg.Embedder.OpenAI.Dimension)
	assert.Equal(t, 100, cfg.Embedder.OpenAI.BatchSize)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, 0.4, cfg.Retrieval.ScoreThreshold)
	assert.Equal(t, filepath.Join("data", "vector_store"), cfg.Store.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embedder: [not: a: map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
