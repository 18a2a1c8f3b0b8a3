// Package secondary defines the driven ports: repository and capability
// interfaces the application core depends on. Adapters implement these.
package secondary

import (
	"context"
	"errors"
)

// ErrDuplicateActiveAssignment is returned by AssignmentRepository.Create when
// the locality already has a non-terminal assignment. The unique constraint in
// the store is the last line of defense against double escalation races.
var ErrDuplicateActiveAssignment = errors.New("active assignment already exists for locality")

// ReportRecord is the persistence shape of a citizen report. Timestamps are
// RFC3339 strings at this boundary.
type ReportRecord struct {
	ID            string
	Problem       string
	SourceType    string
	SeverityHint  string
	PinCode       string
	LocalityName  string
	District      string
	Lat           *float64
	Lon           *float64
	Status        string
	SubmitterRole string
	Upvotes       int
	CreatedAt     string
}

// ReportFilters contains filter options for listing reports.
type ReportFilters struct {
	District   string
	PinCode    string
	Status     string
	ActiveOnly bool // status != resolved
}

// ReportRepository persists individual citizen reports. Reports are never
// deleted; they are retained for audit and statistics.
type ReportRepository interface {
	// Create persists a new report.
	Create(ctx context.Context, record *ReportRecord) error

	// GetByID retrieves a report by its ID.
	GetByID(ctx context.Context, id string) (*ReportRecord, error)

	// List retrieves reports matching the given filters, newest first.
	List(ctx context.Context, filters ReportFilters) ([]*ReportRecord, error)

	// Count returns the number of reports matching the filters.
	Count(ctx context.Context, filters ReportFilters) (int, error)

	// UpdateStatusBulk sets the status of every report in ids. Used only by
	// group-level transitions (assign on escalation, resolve on confirmation).
	UpdateStatusBulk(ctx context.Context, ids []string, status string) error

	// IncrementUpvotes bumps the upvote counter and returns the new value.
	IncrementUpvotes(ctx context.Context, id string) (int, error)
}

// AssignmentRecord is the persistence shape of an escalation assignment.
type AssignmentRecord struct {
	ID                  string
	PinCode             string
	District            string
	LocalityName        string
	Description         string
	PHCNotes            string
	LabNotes            string
	SolutionDescription string
	FinalNotes          string
	TestResultRef       string
	SolutionRef         string
	Status              string
	ReportCount         int
	ReportIDs           []string // snapshot of member report ids at send-to-lab time
	CreatedAt           string
	UpdatedAt           string
	ResolvedAt          string // set when the terminal state is reached
}

// AssignmentFilters contains filter options for listing assignments.
type AssignmentFilters struct {
	District   string
	PinCode    string
	Status     string
	ActiveOnly bool // status != confirmed_clean
}

// TransitionUpdate describes a conditional state advance. The update applies
// only if the stored status still equals FromStatus; a zero-row match means
// the caller raced another transition.
type TransitionUpdate struct {
	ID         string
	FromStatus string
	ToStatus   string

	// Optional fields written together with the status change. Empty strings
	// are not written.
	TestResultRef       string
	LabNotes            string
	SolutionRef         string
	SolutionDescription string
	PHCNotes            string
	FinalNotes          string

	// MarkResolved sets resolved_at alongside the status change.
	MarkResolved bool
}

// AssignmentRepository persists escalation assignments and their report
// snapshots. Assignments are archived at the terminal state, never deleted.
type AssignmentRepository interface {
	// Create persists a new assignment together with its report id snapshot.
	// Returns ErrDuplicateActiveAssignment if the locality already has an
	// active assignment.
	Create(ctx context.Context, record *AssignmentRecord) error

	// GetByID retrieves an assignment with its snapshot.
	GetByID(ctx context.Context, id string) (*AssignmentRecord, error)

	// List retrieves assignments matching the given filters, newest first.
	// Snapshots are not populated; use GetByID for the member set.
	List(ctx context.Context, filters AssignmentFilters) ([]*AssignmentRecord, error)

	// ActiveForLocality returns the active assignment for a locality, or nil
	// when none exists.
	ActiveForLocality(ctx context.Context, pinCode, district string) (*AssignmentRecord, error)

	// Transition applies a conditional status advance. It returns false with
	// a nil error when no row matched the (id, fromStatus) pair.
	Transition(ctx context.Context, update TransitionUpdate) (bool, error)

	// CountCleanLocalities returns the number of distinct localities whose
	// most recent assignment reached the terminal state. A locality that was
	// resolved and later re-escalated does not count until the new
	// assignment also terminates.
	CountCleanLocalities(ctx context.Context, district string) (int, error)

	// GetNextID returns the next available assignment ID.
	GetNextID(ctx context.Context) (string, error)
}

// AuditLogRecord is one row of the append-only audit trail.
type AuditLogRecord struct {
	ID         string
	ActorRole  string
	District   string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// AuditLogFilters contains filter options for listing audit entries.
type AuditLogFilters struct {
	EntityType string
	EntityID   string
}

// AuditLogRepository persists the append-only audit trail.
type AuditLogRepository interface {
	// Create appends an audit entry.
	Create(ctx context.Context, record *AuditLogRecord) error

	// List retrieves audit entries matching the filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// GetNextID returns the next available audit log ID.
	GetNextID(ctx context.Context) (string, error)
}
