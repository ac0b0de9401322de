package decision

import "errors"

var (
	// ErrPopularSourceRequired is returned when no popular-community source is provided.
	ErrPopularSourceRequired = errors.New("popular community source required")

	// ErrInvalidTiers is returned for an empty tier table.
	ErrInvalidTiers = errors.New("tier table cannot be empty")

	// ErrInvalidLimit is returned for a non-positive list limit.
	ErrInvalidLimit = errors.New("limit must be positive")
)
