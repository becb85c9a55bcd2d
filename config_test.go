package ingrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/ingrid/chunking"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ingrid.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfigFile(t, `
[storage]
path = "/var/lib/ingrid"

[ai]
embedding_host = "http://embed.internal:8080"
embedding_model = "text-embedding-3-small"

[search]
top_k = 25
threshold = 0.4
rerank = true
short_circuit_exact = false

[chunking]
max_chunk_size = 512
overlap = 64
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/var/lib/ingrid", cfg.Storage.Path)
		assert.Equal(t, "http://embed.internal:8080", cfg.AI.EmbeddingHost)
		assert.Equal(t, 25, cfg.Search.TopK)
		assert.Equal(t, float32(0.4), cfg.Search.Threshold)
		assert.True(t, cfg.Search.Rerank)
		assert.False(t, cfg.Search.ShortCircuitExact)
		assert.Equal(t, 512, cfg.Chunking.MaxChunkSize)
		assert.Equal(t, 64, cfg.Chunking.Overlap)
		require.NoError(t, cfg.Validate())
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
[storage]
path = "data"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		defaults := DefaultEngineConfig()
		assert.Equal(t, defaults.Search.TopK, cfg.Search.TopK)
		assert.Equal(t, defaults.Chunking.MaxChunkSize, cfg.Chunking.MaxChunkSize)
		assert.Equal(t, defaults.AI.EmbeddingModel, cfg.AI.EmbeddingModel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfigFile(t, `[storage`)
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultEngineConfig().Validate())
	})

	t.Run("rejects empty storage path", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Storage.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("in-memory does not need a path", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Storage.Path = ""
		cfg.Storage.InMemory = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects bad search weights", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Search.SemanticWeight = 1.5
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects bad chunking", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Chunking.Overlap = cfg.Chunking.MaxChunkSize
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_Conversions(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Search.TopK = 7
	cfg.Search.Rerank = true
	cfg.Chunking.MaxSplits = 5
	cfg.AI.EmbeddingModel = "custom-model"

	opts := cfg.SearchOptions()
	assert.Equal(t, 7, opts.TopK)
	assert.True(t, opts.Rerank)
	assert.True(t, opts.ExactEnabled)

	chunkCfg := cfg.ChunkConfig()
	assert.Equal(t, 5, chunkCfg.MaxSplits)

	// The priority table survives the TOML round trip untouched.
	defaults := chunking.DefaultConfig()
	require.NotEmpty(t, chunkCfg.Priorities)
	assert.Equal(t, defaults.Priorities, chunkCfg.Priorities)

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "custom-model", aiCfg.EmbeddingModel)
}
