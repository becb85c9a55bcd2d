package ai

import "context"

// Embedder turns catalog text into vectors for semantic retrieval.
// Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds a single text, typically a search query.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch of texts, typically ingredient chunks
	// headed for the vector index. Results are returned in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider bundles the AI services behind one lifecycle. A provider
// owns its Embedder and releases shared resources on Close.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
