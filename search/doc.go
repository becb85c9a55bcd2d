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


// Package search provides hybrid retrieval over the ingredient catalog.
//
// The Searcher type classifies a raw query, runs four independent
// strategies concurrently (exact, metadata, fuzzy, semantic), and feeds
// their candidates through a merge, rerank, personalize, rank and
// filter pipeline into one ordered result list:
//   - Exact and fuzzy matching over codes, trade names and INCI names
//   - Structured metadata filtering
//   - Semantic search using vector embeddings of expanded queries
//
// Each strategy is an independent failure domain: a backend outage
// degrades recall but never fails the search, unless every enabled
// strategy is down.
package search
