package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// AssignmentRepository implements secondary.AssignmentRepository with SQLite.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists a new assignment together with its report id snapshot.
// The partial unique index on (pin_code, district) rejects a second active
// assignment for the same locality; that failure is surfaced as
// secondary.ErrDuplicateActiveAssignment.
func (r *AssignmentRepository) Create(ctx context.Context, record *secondary.AssignmentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assignments (id, pin_code, district, locality_name, description, phc_notes, status, report_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.PinCode,
		record.District,
		record.LocalityName,
		record.Description,
		record.PHCNotes,
		record.Status,
		record.ReportCount,
		record.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return secondary.ErrDuplicateActiveAssignment
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	for _, reportID := range record.ReportIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO assignment_reports (assignment_id, report_id) VALUES (?, ?)",
			record.ID, reportID)
		if err != nil {
			return fmt.Errorf("failed to snapshot report %s: %w", reportID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	return nil
}

const assignmentColumns = "id, pin_code, district, locality_name, description, phc_notes, lab_notes, solution_description, final_notes, test_result_ref, solution_ref, status, report_count, created_at, updated_at, resolved_at"

// GetByID retrieves an assignment with its report snapshot.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id)

	record, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, &faults.NotFoundError{Entity: "assignment", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT report_id FROM assignment_reports WHERE assignment_id = ? ORDER BY report_id", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load report snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reportID string
		if err := rows.Scan(&reportID); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		record.ReportIDs = append(record.ReportIDs, reportID)
	}

	return record, rows.Err()
}

// List retrieves assignments matching the given filters, newest first.
// Snapshots are not populated.
func (r *AssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE 1=1"
	args := []any{}

	if filters.District != "" {
		query += " AND district = ?"
		args = append(args, filters.District)
	}
	if filters.PinCode != "" {
		query += " AND pin_code = ?"
		args = append(args, filters.PinCode)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.ActiveOnly {
		query += " AND status != 'confirmed_clean'"
	}

	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*secondary.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, record)
	}

	return assignments, rows.Err()
}

// ActiveForLocality returns the active assignment for a locality, or nil when
// none exists. At most one can exist per locality.
func (r *AssignmentRepository) ActiveForLocality(ctx context.Context, pinCode, district string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE pin_code = ? AND district = ? AND status != 'confirmed_clean'",
		pinCode, district)

	record, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return record, nil
}

// Transition applies a conditional status advance. The WHERE clause re-checks
// the expected source status, so a raced or repeated call matches zero rows
// and returns false instead of overwriting a newer state.
func (r *AssignmentRepository) Transition(ctx context.Context, update secondary.TransitionUpdate) (bool, error) {
	query := "UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{update.ToStatus}

	if update.TestResultRef != "" {
		query += ", test_result_ref = ?"
		args = append(args, update.TestResultRef)
	}
	if update.LabNotes != "" {
		query += ", lab_notes = ?"
		args = append(args, update.LabNotes)
	}
	if update.SolutionRef != "" {
		query += ", solution_ref = ?"
		args = append(args, update.SolutionRef)
	}
	if update.SolutionDescription != "" {
		query += ", solution_description = ?"
		args = append(args, update.SolutionDescription)
	}
	if update.PHCNotes != "" {
		query += ", phc_notes = ?"
		args = append(args, update.PHCNotes)
	}
	if update.FinalNotes != "" {
		query += ", final_notes = ?"
		args = append(args, update.FinalNotes)
	}
	if update.MarkResolved {
		query += ", resolved_at = CURRENT_TIMESTAMP"
	}

	query += " WHERE id = ? AND status = ?"
	args = append(args, update.ID, update.FromStatus)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to apply transition: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// CountCleanLocalities returns the number of distinct localities whose most
// recent assignment reached the terminal state. Because at most one active
// assignment exists per locality, this is equivalent to "has assignments and
// none of them is active".
func (r *AssignmentRepository) CountCleanLocalities(ctx context.Context, district string) (int, error) {
	query := "SELECT COUNT(*) FROM (SELECT pin_code, district FROM assignments"
	args := []any{}

	if district != "" {
		query += " WHERE district = ?"
		args = append(args, district)
	}

	query += " GROUP BY pin_code, district HAVING SUM(CASE WHEN status != 'confirmed_clean' THEN 1 ELSE 0 END) = 0)"

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clean localities: %w", err)
	}
	return count, nil
}

// GetNextID returns the next available assignment ID.
func (r *AssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("ASG-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM assignments", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next assignment ID: %w", err)
	}

	return fmt.Sprintf("ASG-%03d", maxID+1), nil
}

func scanAssignment(row rowScanner) (*secondary.AssignmentRecord, error) {
	var (
		localityName        sql.NullString
		phcNotes            sql.NullString
		labNotes            sql.NullString
		solutionDescription sql.NullString
		finalNotes          sql.NullString
		testResultRef       sql.NullString
		solutionRef         sql.NullString
		createdAt           time.Time
		updatedAt           time.Time
		resolvedAt          sql.NullTime
	)

	record := &secondary.AssignmentRecord{}
	err := row.Scan(&record.ID, &record.PinCode, &record.District, &localityName,
		&record.Description, &phcNotes, &labNotes, &solutionDescription, &finalNotes,
		&testResultRef, &solutionRef, &record.Status, &record.ReportCount,
		&createdAt, &updatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	record.LocalityName = localityName.String
	record.PHCNotes = phcNotes.String
	record.LabNotes = labNotes.String
	record.SolutionDescription = solutionDescription.String
	record.FinalNotes = finalNotes.String
	record.TestResultRef = testResultRef.String
	record.SolutionRef = solutionRef.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if resolvedAt.Valid {
		record.ResolvedAt = resolvedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure AssignmentRepository implements the interface
var _ secondary.AssignmentRepository = (*AssignmentRepository)(nil)
