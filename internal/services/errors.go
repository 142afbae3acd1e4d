package services

import (
	"errors"
	"fmt"
)

// ValidationError rejects a telemetry payload before anything is
// persisted. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError aborts the remaining pipeline steps for one request.
// Nothing past the failing step is committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

var (
	// ErrFarmNotFound covers both an unknown farm id and the analytics
	// "no farms for this user" case.
	ErrFarmNotFound = errors.New("farm not found")

	// ErrNotFarmOwner rejects a request for a farm the caller does not own.
	ErrNotFarmOwner = errors.New("farm does not belong to the user")

	// ErrDeviceConflict fires when a device external id is already bound
	// to a different farm.
	ErrDeviceConflict = errors.New("device is registered to a different farm")

	// ErrReadingNotFound marks an unknown soil data id.
	ErrReadingNotFound = errors.New("soil data not found")

	// ErrRecommendationNotFound means no recommendation has been
	// generated for the reading yet.
	ErrRecommendationNotFound = errors.New("recommendation not yet generated")

	// ErrAlertNotFound marks an unknown or foreign alert id.
	ErrAlertNotFound = errors.New("alert not found")
)
