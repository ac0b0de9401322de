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


// Package storage provides the storage abstraction layer for matchmaker.
//
// This package defines repository interfaces that decouple the matching
// pipeline from the storage engines behind it. Two implementations exist:
//
//   - storage/badger: embedded BadgerDB store for every contract, including
//     the vector index and the durable cache tier
//   - storage/postgres: relational store for tasks, communities and memberships
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - TaskRepository: task state machine with compare-and-set transitions
//   - CommunityRepository: community catalog and structured location filter
//   - MembershipRepository: idempotent community joins
//   - ProfileRepository: latest sanitized profile per user
//   - ActivityLog: member activity and community messages
//   - VectorIndex: cosine similarity over fixed-dimension vectors
//
// # Usage
//
// Open an embedded store:
//
//	store, err := badger.Open("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
