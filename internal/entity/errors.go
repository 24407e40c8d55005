package entity

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyVoted     = errors.New("user has already voted for this feature")
	ErrVoteNotFound     = errors.New("vote not found")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidStatus    = errors.New("invalid status")

	ErrFeatureNotFound = fmt.Errorf("feature %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
)

// StoreUnavailable wraps a persistence failure so callers can match both
// ErrStoreUnavailable and the underlying cause.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
