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


// Package chunking builds indexable chunks from ingredient records.
//
// One record yields up to ten chunks, each targeting a retrieval purpose:
// exact code lookup, technical specification matching, commercial queries,
// free-text description recall, a broad combined-context chunk, and a
// second-language (Thai) rendering. Long description fields are split into
// overlapping fixed windows; everything else is truncated to the window,
// so the chunk count per record stays bounded no matter how long the
// source fields are.
//
// Chunk IDs are content-based (code, chunk type, split index), which makes
// chunking idempotent: re-chunking an unchanged record produces the same
// chunk set, and the upsert into the vector store replaces rather than
// duplicates.
package chunking
