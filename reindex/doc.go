// Package reindex rebuilds the vector index for an existing ingredient
// catalog, re-chunking and re-embedding every record.
//
// This package supports batch processing of ingredients, progress
// tracking, and retry logic with exponential backoff. Use it after
// switching embedding models or changing chunking parameters: chunks
// are replaced wholesale per ingredient, so a completed run leaves one
// coherent index generation.
package reindex
