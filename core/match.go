package core

import "time"

// Tier classifies a match outcome.
type Tier string

const (
	TierSoulmate Tier = "soulmate"
	TierExplorer Tier = "explorer"
	TierFallback Tier = "fallback"
)

// ActionKind is the side effect chosen for a tier.
type ActionKind string

const (
	ActionAutoJoinWithIntro ActionKind = "auto_join_with_intro"
	ActionAutoJoin          ActionKind = "auto_join"
	ActionPresentOptions    ActionKind = "present_options"
	ActionSuggestPopular    ActionKind = "suggest_popular"
)

// Action describes what the pipeline did (or offers) for a match.
type Action struct {
	Kind        ActionKind `json:"kind"`
	CommunityID string     `json:"community_id,omitempty"` // Join target for soulmate
	Options     []string   `json:"options,omitempty"`      // Community ids presented to the user
}

// ResultMetadata carries non-fatal conditions absorbed during processing.
type ResultMetadata struct {
	DiversityApplied bool                 `json:"diversity_applied"`
	SearchFallback   bool                 `json:"search_fallback"`
	CandidateCount   int                  `json:"candidate_count"`
	RosterEmpty      bool                 `json:"roster_empty,omitempty"`
	SafetyScore      *float64             `json:"safety_score,omitempty"`
	Steps            map[string]time.Time `json:"steps,omitempty"`
}

// MatchResult is the outcome of a matching task, copied into the task record on completion.
type MatchResult struct {
	TaskID                TaskID            `json:"task_id"`
	UserID                string            `json:"user_id"`
	Tier                  Tier              `json:"tier"`
	Matches               []RankedCommunity `json:"matches"`
	Action                Action            `json:"action"`
	AutoJoinedCommunity   string            `json:"auto_joined_community,omitempty"`
	IntroGenerated        bool              `json:"ai_intro_generated"`
	IntroDowngraded       bool              `json:"intro_downgraded"`
	RequiresProfileUpdate bool              `json:"requires_profile_update"`
	ProcessingTimeMS      int64             `json:"processing_time_ms"`
	Metadata              ResultMetadata    `json:"metadata"`
	CreatedAt             time.Time         `json:"created_at"`
}
