// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// ReportRepository implements secondary.ReportRepository with SQLite.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create persists a new report.
func (r *ReportRepository) Create(ctx context.Context, record *secondary.ReportRecord) error {
	var lat, lon sql.NullFloat64
	if record.Lat != nil {
		lat = sql.NullFloat64{Float64: *record.Lat, Valid: true}
	}
	if record.Lon != nil {
		lon = sql.NullFloat64{Float64: *record.Lon, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, problem, source_type, severity_hint, pin_code, locality_name, district, lat, lon, status, submitter_role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Problem,
		record.SourceType,
		record.SeverityHint,
		record.PinCode,
		record.LocalityName,
		record.District,
		lat,
		lon,
		record.Status,
		record.SubmitterRole,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

const reportColumns = "id, problem, source_type, severity_hint, pin_code, locality_name, district, lat, lon, upvotes, status, submitter_role, created_at"

// GetByID retrieves a report by its ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*secondary.ReportRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE id = ?", id)

	record, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, &faults.NotFoundError{Entity: "report", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return record, nil
}

// List retrieves reports matching the given filters, newest first.
func (r *ReportRepository) List(ctx context.Context, filters secondary.ReportFilters) ([]*secondary.ReportRecord, error) {
	query := "SELECT " + reportColumns + " FROM reports WHERE 1=1"
	args := []any{}

	query, args = appendReportFilters(query, args, filters)
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*secondary.ReportRecord
	for rows.Next() {
		record, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, record)
	}

	return reports, rows.Err()
}

// Count returns the number of reports matching the filters.
func (r *ReportRepository) Count(ctx context.Context, filters secondary.ReportFilters) (int, error) {
	query := "SELECT COUNT(*) FROM reports WHERE 1=1"
	args := []any{}

	query, args = appendReportFilters(query, args, filters)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// UpdateStatusBulk sets the status of every report in ids.
func (r *ReportRepository) UpdateStatusBulk(ctx context.Context, ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := []any{status}
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE reports SET status = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to update report statuses: %w", err)
	}
	return nil
}

// IncrementUpvotes bumps the upvote counter and returns the new value.
func (r *ReportRepository) IncrementUpvotes(ctx context.Context, id string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reports SET upvotes = upvotes + 1 WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to upvote report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return 0, &faults.NotFoundError{Entity: "report", ID: id}
	}

	var upvotes int
	if err := r.db.QueryRowContext(ctx, "SELECT upvotes FROM reports WHERE id = ?", id).Scan(&upvotes); err != nil {
		return 0, fmt.Errorf("failed to read upvotes: %w", err)
	}
	return upvotes, nil
}

func appendReportFilters(query string, args []any, filters secondary.ReportFilters) (string, []any) {
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
		query += " AND status != 'resolved'"
	}
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*secondary.ReportRecord, error) {
	var (
		localityName sql.NullString
		lat          sql.NullFloat64
		lon          sql.NullFloat64
		createdAt    time.Time
	)

	record := &secondary.ReportRecord{}
	err := row.Scan(&record.ID, &record.Problem, &record.SourceType, &record.SeverityHint,
		&record.PinCode, &localityName, &record.District, &lat, &lon,
		&record.Upvotes, &record.Status, &record.SubmitterRole, &createdAt)
	if err != nil {
		return nil, err
	}

	record.LocalityName = localityName.String
	if lat.Valid {
		record.Lat = &lat.Float64
	}
	if lon.Valid {
		record.Lon = &lon.Float64
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure ReportRepository implements the interface
var _ secondary.ReportRepository = (*ReportRepository)(nil)
