// Package faults defines the typed error taxonomy surfaced at the engine's
// API boundary. Every fault carries a stable machine-readable kind alongside
// the human-readable message; callers dispatch on Kind or errors.As, never on
// message text.
package faults

import (
	"errors"
	"fmt"
)

// Kind constants returned by KindOf. Stable across releases.
const (
	KindValidation        = "validation_error"
	KindInvalidTransition = "invalid_transition"
	KindNotFound          = "not_found"
	KindGeo               = "geo_error"
	KindConflict          = "conflict"
	KindInternal          = "internal"
)

// ValidationError rejects malformed or missing input. Field names the first
// offending field of the request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid or missing field: %s", e.Field)
}

// NewValidation creates a ValidationError for a field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InvalidTransitionError rejects a workflow call made out of order. From is
// the state the record was actually in, Attempted the state the caller tried
// to reach.
type InvalidTransitionError struct {
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.Attempted)
}

// NotFoundError reports an unknown id or locality key. Entity is the record
// kind ("report", "assignment", "group").
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// GeoError rejects coordinates outside the valid latitude/longitude range.
type GeoError struct {
	Lat float64
	Lon float64
}

func (e *GeoError) Error() string {
	return fmt.Sprintf("coordinates out of range: lat=%v lon=%v", e.Lat, e.Lon)
}

// ConflictError reports an optimistic-concurrency loss: the record changed
// between the caller's read and the attempted transition.
type ConflictError struct {
	Entity  string
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("conflict on %s %s: %s", e.Entity, e.ID, e.Message)
	}
	return fmt.Sprintf("conflict on %s %s: state changed concurrently", e.Entity, e.ID)
}

// KindOf returns the stable kind string for a fault, or KindInternal for any
// other error.
func KindOf(err error) string {
	var (
		ve *ValidationError
		te *InvalidTransitionError
		ne *NotFoundError
		ge *GeoError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &te):
		return KindInvalidTransition
	case errors.As(err, &ne):
		return KindNotFound
	case errors.As(err, &ge):
		return KindGeo
	case errors.As(err, &ce):
		return KindConflict
	default:
		return KindInternal
	}
}
