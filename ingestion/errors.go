package ingestion

import "errors"

var (
	// ErrIngredientRepositoryRequired is returned when an ingredient repository is not provided.
	ErrIngredientRepositoryRequired = errors.New("ingredient repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
