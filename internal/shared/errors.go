package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAPIKey indicates tenant authentication failure.
	ErrInvalidAPIKey = errors.New("invalid api key")
	// ErrVersionConflict occurs when a stale version token is presented on update.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInvalidTransition occurs when a status change is not allowed by the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrLockTimeout occurs when a named lock was not acquired within the caller's timeout.
	ErrLockTimeout = errors.New("resource busy, retry later")
	// ErrBatchFailed indicates the import transaction aborted and no rows were committed.
	ErrBatchFailed = errors.New("import batch failed")
)
