package contract

import "errors"

// ErrDuplicateRecord is returned when a create violates a unique constraint.
var ErrDuplicateRecord = errors.New("duplicate record")

// ErrRecordNotFound is returned by in-place updates that matched no row.
var ErrRecordNotFound = errors.New("record not found")
