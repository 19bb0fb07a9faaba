package store

import "errors"

// RowStatus is the status of a row.
type RowStatus string

const (
	// Normal is the status for a normal row.
	Normal RowStatus = "NORMAL"
	// Archived is the status for an archived row.
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}

// ErrAlreadyExists is returned by drivers when an insert loses a uniqueness
// race (e.g. the one-group-conversation-per-group index). Callers should
// re-read the winning row instead of treating this as a hard failure.
var ErrAlreadyExists = errors.New("row already exists")

// ErrUserNotFound is returned when a lookup for a required user matches no
// row.
var ErrUserNotFound = errors.New("user not found")
