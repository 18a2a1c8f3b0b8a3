package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context. Audit failures must not
// fail the underlying operation.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogTransition logs a state machine transition for an entity.
	LogTransition(ctx context.Context, entityType, entityID, fromState, toState string) error
}
