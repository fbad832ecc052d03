package models

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogRequestFailed wraps every failure talking to the metadata provider
	ErrCatalogRequestFailed = errors.New("catalog request failed")
	// ErrInvalidIdentifier is returned before any network call when an id does not parse
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNoProfile is returned by profile-scoped operations when no profile is selected
	ErrNoProfile = errors.New("no profile selected")
	// ErrInvalidEpisode rejects non-positive season or episode numbers
	ErrInvalidEpisode = errors.New("invalid season or episode number")
)

// StoreErrorKind classifies profile store failures
type StoreErrorKind string

const (
	// StoreUnavailable means the store could not be reached
	StoreUnavailable StoreErrorKind = "StoreUnavailable"
	// StoreRequestFailed means the store answered with a non-2xx status or an unreadable body
	StoreRequestFailed StoreErrorKind = "StoreRequestFailed"
)

// StoreError is returned by every profile store operation that fails
type StoreError struct {
	Kind    StoreErrorKind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreUnavailable reports whether err is a StoreUnavailable store error
func IsStoreUnavailable(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == StoreUnavailable
}

// IsStoreRequestFailed reports whether err is a StoreRequestFailed store error
func IsStoreRequestFailed(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == StoreRequestFailed
}
