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

package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// VectorDimensions is the fixed dimensionality of profile and community embeddings.
const VectorDimensions = 1536

// ContentHash returns a deterministic hex digest of the given parts using BLAKE2b.
// Parts are length-prefixed so ("ab", "c") and ("a", "bc") hash differently.
func ContentHash(parts ...string) string {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ProfileVectorKey returns the user-vector cache key for a sanitized bio and tag list.
func ProfileVectorKey(text string, tags []string) string {
	return ContentHash(append([]string{text}, tags...)...)
}

// Community is an interest-based group a user can be matched to.
// Communities are maintained by an administrative process and are read-only
// to the matching pipeline.
type Community struct {
	ID          string    `json:"community_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	MemberCount int       `json:"member_count"`
	City        string    `json:"city"`
	Timezone    string    `json:"timezone"`
	EmbeddingID string    `json:"embedding_id,omitempty"` // Names a vector in the vector index (same as ID when set)
	CreatedAt   time.Time `json:"created_at"`
}

// ProfileInput is a raw profile submitted for matching.
type ProfileInput struct {
	UserID       string   `json:"user_id"`
	Bio          string   `json:"bio"`
	InterestTags []string `json:"interest_tags"`
	City         string   `json:"city"`
	Timezone     string   `json:"timezone"`
}

// UserProfile is the sanitized, enriched profile derived from a ProfileInput.
// A new UserProfile supersedes the previous one for the same user.
type UserProfile struct {
	UserID       string    `json:"user_id"`
	SanitizedBio string    `json:"sanitized_bio"`
	Tags         []string  `json:"tags"`
	City         string    `json:"city"`
	Timezone     string    `json:"timezone"`
	PIIRemoved   []string  `json:"pii_removed,omitempty"`
	BioHash      string    `json:"bio_hash"`   // Cache key of the sanitized bio
	VectorKey    string    `json:"vector_key"` // Cache key of the profile vector
	UpdatedAt    time.Time `json:"updated_at"`
}

// RankedCommunity is one search hit with the community metadata needed downstream.
type RankedCommunity struct {
	CommunityID string  `json:"community_id"`
	Name        string  `json:"community_name"`
	Category    string  `json:"category"`
	MemberCount int     `json:"member_count"`
	Score       float64 `json:"match_score"`
}

// ScoredID is a raw vector index hit.
type ScoredID struct {
	ID    string
	Score float64
}

// Membership records that a user belongs to a community.
type Membership struct {
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	JoinedAt    time.Time `json:"joined_at"`
	AutoJoined  bool      `json:"auto_joined"`
	TaskID      TaskID    `json:"task_id,omitempty"`
}

// MessageKind identifies what produced a community message.
type MessageKind string

const (
	// MessageKindIntroduction is a generated introduction of a new member.
	MessageKindIntroduction MessageKind = "introduction"
	// MessageKindPost is a regular member post.
	MessageKindPost MessageKind = "post"
)

// Message is an entry in a community's activity channel.
type Message struct {
	ID          string      `json:"message_id"`
	CommunityID string      `json:"community_id"`
	AuthorID    string      `json:"author_id"`
	Kind        MessageKind `json:"kind"`
	Text        string      `json:"text"`
	Mentions    []string    `json:"mentions,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ActiveMember is a community member with their most recent activity.
type ActiveMember struct {
	UserID       string    `json:"user_id"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Checkpoint records how far a batch job has progressed so a rerun can resume.
type Checkpoint struct {
	Name      string    `json:"name"`
	LastID    string    `json:"last_id"`   // Last item id fully processed
	Processed int       `json:"processed"` // Items processed in the current run
	UpdatedAt time.Time `json:"updated_at"`
}
