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

package search

import "errors"

var (
	// ErrCommunityRepositoryRequired is returned when a community repository is not provided.
	ErrCommunityRepositoryRequired = errors.New("community repository required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrInvalidTopK is returned for a non-positive result count.
	ErrInvalidTopK = errors.New("top k must be positive")

	// ErrEmptyVector is returned when a query has no vector.
	ErrEmptyVector = errors.New("query vector is empty")
)
