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


// Package storage provides the storage abstraction layer for ingrid.
//
// This package defines repository interfaces that decouple storage
// implementation from retrieval logic. It allows different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := badger.NewIngredientRepository(backend) // returns storage.IngredientRepository
//
// Internal package constructors may return concrete types since they're
// only used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - IngredientRepository: the record collection behind the exact,
//     metadata and fuzzy strategies (find-by-predicate contract)
//   - ChunkRepository: the chunk/vector index behind the semantic strategy
//     (query-by-embedding contract)
//
// Both share transaction and lifecycle operations via Repository.
//
// # Serialization
//
// Records are stored as MUS-encoded binary values. The serializers are
// hand-written over mus-go primitives in serialization.go.
package storage
