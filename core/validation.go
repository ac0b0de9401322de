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

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinBioLength = 10
	MaxBioLength = 500
	MinTags      = 1
	MaxTags      = 20
)

// ValidateProfileInput validates and normalizes a submitted profile in place.
//
// Validation rules:
//   - UserID must not be empty
//   - Bio must be 10-500 characters after trimming
//   - 1-20 interest tags after normalization
//   - City must not be empty
//   - Timezone must be a loadable IANA zone
//
// Tags are lower-cased, trimmed and de-duplicated, keeping first occurrence order.
func ValidateProfileInput(in *ProfileInput) error {
	if in == nil {
		return fmt.Errorf("%w: profile is nil", ErrValidation)
	}

	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyUserID)
	}

	in.Bio = strings.TrimSpace(in.Bio)
	if n := utf8.RuneCountInString(in.Bio); n < MinBioLength || n > MaxBioLength {
		return fmt.Errorf("%w: %w (got %d)", ErrValidation, ErrBioLength, n)
	}

	in.InterestTags = NormalizeTags(in.InterestTags)
	if n := len(in.InterestTags); n < MinTags || n > MaxTags {
		return fmt.Errorf("%w: %w (got %d)", ErrValidation, ErrTagCount, n)
	}

	in.City = strings.TrimSpace(in.City)
	if in.City == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCity)
	}

	in.Timezone = strings.TrimSpace(in.Timezone)
	if err := ValidateTimezone(in.Timezone); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// ValidateTimezone checks that tz names a real IANA zone.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("%w: empty", ErrInvalidTimezone)
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return nil
}

// NormalizeTags lower-cases, trims and de-duplicates tags. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ValidateCommunity validates a Community before it is stored.
func ValidateCommunity(c *Community) error {
	if c == nil {
		return fmt.Errorf("%w: community is nil", ErrValidation)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyCommunityID)
	}
	if c.MemberCount < 0 {
		return fmt.Errorf("%w: member count cannot be negative", ErrValidation)
	}
	return nil
}
