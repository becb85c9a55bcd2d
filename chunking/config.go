package chunking

import (
	"errors"

	"github.com/poiesic/ingrid/core"
)

// Config holds the chunking parameters.
type Config struct {
	// MaxChunkSize is the maximum chunk length in runes. Longer fields are
	// split (details) or truncated (benefits, combined context).
	MaxChunkSize int

	// Overlap is the number of runes shared between consecutive split
	// windows, so sentences cut at a window edge still appear whole in one
	// of the neighbors.
	Overlap int

	// MaxSplits caps the number of windows emitted for a split field.
	// Together with the one-chunk-per-strategy rule this bounds the chunk
	// count per record regardless of field length.
	MaxSplits int

	// Priorities maps chunk types to their relative importance in [0,1].
	Priorities map[core.ChunkType]float32
}

// DefaultConfig returns the default chunking parameters.
func DefaultConfig() *Config {
	return &Config{
		MaxChunkSize: 1000,
		Overlap:      200,
		MaxSplits:    3,
		Priorities: map[core.ChunkType]float32{
			core.ChunkCodeExact:         1.0,
			core.ChunkPrimaryIdentifier: 1.0,
			core.ChunkTechnicalSpecs:    0.85,
			core.ChunkCombinedContext:   0.85,
			core.ChunkLocale:            0.8,
			core.ChunkCommercialInfo:    0.7,
			core.ChunkDescriptive:       0.6,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MaxChunkSize <= 0 {
		return errors.New("chunking config: MaxChunkSize must be positive")
	}
	if c.Overlap < 0 {
		return errors.New("chunking config: Overlap cannot be negative")
	}
	if c.Overlap >= c.MaxChunkSize {
		return errors.New("chunking config: Overlap must be smaller than MaxChunkSize")
	}
	if c.MaxSplits < 1 {
		return errors.New("chunking config: MaxSplits must be at least 1")
	}
	for chunkType, priority := range c.Priorities {
		if priority < 0 || priority > 1 {
			return errors.New("chunking config: priority for " + chunkType.String() + " outside [0,1]")
		}
	}
	return nil
}

// priority returns the configured priority for a chunk type, defaulting to
// the descriptive priority for unknown types.
func (c *Config) priority(chunkType core.ChunkType) float32 {
	if p, ok := c.Priorities[chunkType]; ok {
		return p
	}
	return c.Priorities[core.ChunkDescriptive]
}
