// Package mock provides deterministic test doubles for the ai interfaces.
// The default embedder derives a stable pseudo-random unit vector from the
// input text, so tests get repeatable similarity scores without a live
// embedding service.
package mock
