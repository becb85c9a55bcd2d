// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingrid

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/poiesic/ingrid/ai"
	"github.com/poiesic/ingrid/chunking"
	"github.com/poiesic/ingrid/search"
)

// Config is the engine-level configuration, loadable from a TOML file.
// Zero values fall back to package defaults, so a partial file is fine.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	AI       AIConfig       `toml:"ai"`
	Search   SearchConfig   `toml:"search"`
	Chunking ChunkingConfig `toml:"chunking"`
}

type StorageConfig struct {
	// Path is the badger database directory.
	Path string `toml:"path"`
	// InMemory skips on-disk persistence entirely.
	InMemory bool `toml:"in_memory"`
}

type AIConfig struct {
	EmbeddingHost  string `toml:"embedding_host"`
	EmbeddingModel string `toml:"embedding_model"`
}

type SearchConfig struct {
	TopK              int     `toml:"top_k"`
	Threshold         float32 `toml:"threshold"`
	FuzzyThreshold    float32 `toml:"fuzzy_threshold"`
	SemanticWeight    float32 `toml:"semantic_weight"`
	KeywordWeight     float32 `toml:"keyword_weight"`
	Rerank            bool    `toml:"rerank"`
	ShortCircuitExact bool    `toml:"short_circuit_exact"`
}

type ChunkingConfig struct {
	MaxChunkSize int `toml:"max_chunk_size"`
	Overlap      int `toml:"overlap"`
	MaxSplits    int `toml:"max_splits"`
}

// DefaultEngineConfig returns a Config mirroring the package-level defaults.
func DefaultEngineConfig() *Config {
	searchDefaults := search.DefaultOptions()
	chunkDefaults := chunking.DefaultConfig()
	aiDefaults := ai.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Path: "ingrid.db",
		},
		AI: AIConfig{
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
		},
		Search: SearchConfig{
			TopK:              searchDefaults.TopK,
			Threshold:         searchDefaults.Threshold,
			FuzzyThreshold:    searchDefaults.FuzzyThreshold,
			SemanticWeight:    searchDefaults.SemanticWeight,
			KeywordWeight:     searchDefaults.KeywordWeight,
			Rerank:            searchDefaults.Rerank,
			ShortCircuitExact: searchDefaults.ShortCircuitExact,
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: chunkDefaults.MaxChunkSize,
			Overlap:      chunkDefaults.Overlap,
			MaxSplits:    chunkDefaults.MaxSplits,
		},
	}
}

// LoadConfig reads a TOML config file, layering it over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultEngineConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// AIConfig converts the TOML section into the provider configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
	)
}

// SearchOptions converts the TOML section into search options.
func (c *Config) SearchOptions() *search.Options {
	opts := search.DefaultOptions()
	opts.TopK = c.Search.TopK
	opts.Threshold = c.Search.Threshold
	opts.FuzzyThreshold = c.Search.FuzzyThreshold
	opts.SemanticWeight = c.Search.SemanticWeight
	opts.KeywordWeight = c.Search.KeywordWeight
	opts.Rerank = c.Search.Rerank
	opts.ShortCircuitExact = c.Search.ShortCircuitExact
	return &opts
}

// ChunkConfig converts the TOML section into a chunking configuration.
// The priority table is not part of the file format and always comes from
// the chunking defaults.
func (c *Config) ChunkConfig() *chunking.Config {
	chunkCfg := chunking.DefaultConfig()
	chunkCfg.MaxChunkSize = c.Chunking.MaxChunkSize
	chunkCfg.Overlap = c.Chunking.Overlap
	chunkCfg.MaxSplits = c.Chunking.MaxSplits
	return chunkCfg
}

// Validate checks the loaded configuration against the component rules.
func (c *Config) Validate() error {
	if c.Storage.Path == "" && !c.Storage.InMemory {
		return fmt.Errorf("config: storage.path is required")
	}
	if err := c.AIConfig().Validate(); err != nil {
		return err
	}
	if err := c.SearchOptions().Validate(); err != nil {
		return err
	}
	if err := c.ChunkConfig().Validate(); err != nil {
		return err
	}
	return nil
}
