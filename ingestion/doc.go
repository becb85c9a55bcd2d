// Package ingestion provides pipeline orchestration for loading
// ingredient records into the knowledge base.
//
// The Pipeline type stores records synchronously, then chunks them,
// generates embeddings and replaces their vector-index entries on a
// worker pool. Errors during async indexing are logged but do not fail
// the ingestion operation; a reindex pass can rebuild missing chunks.
package ingestion
