package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/waterwatch/internal/core/report"
	"github.com/example/waterwatch/internal/ctxutil"
	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	reportRepo     secondary.ReportRepository
	assignmentRepo secondary.AssignmentRepository
	logWriter      secondary.LogWriter
	now            func() time.Time
}

// NewReportService creates a new ReportService with injected dependencies.
func NewReportService(reportRepo secondary.ReportRepository, assignmentRepo secondary.AssignmentRepository, logWriter secondary.LogWriter) *ReportServiceImpl {
	return &ReportServiceImpl{
		reportRepo:     reportRepo,
		assignmentRepo: assignmentRepo,
		logWriter:      logWriter,
		now:            time.Now,
	}
}

// SubmitReport validates a draft and persists it with status "reported".
// Reports for localities that already have an active assignment are still
// accepted; they count toward the next escalation only.
func (s *ReportServiceImpl) SubmitReport(ctx context.Context, req primary.SubmitReportRequest) (*primary.Report, error) {
	draft := report.Draft{
		Problem:      req.Problem,
		SourceType:   req.SourceType,
		SeverityHint: req.SeverityHint,
		PinCode:      req.PinCode,
		LocalityName: req.LocalityName,
		District:     req.District,
		Lat:          req.Lat,
		Lon:          req.Lon,
	}
	if err := report.ValidateDraft(draft); err != nil {
		return nil, err
	}

	sourceType, _ := report.ParseSourceType(req.SourceType)
	hint, _ := report.ParseSeverityHint(req.SeverityHint)

	role := string(report.RoleCitizen)
	if actor := ctxutil.ActorFromContext(ctx); actor.Role == string(report.RolePHC) {
		role = actor.Role
	}

	record := &secondary.ReportRecord{
		ID:            uuid.NewString(),
		Problem:       strings.TrimSpace(req.Problem),
		SourceType:    string(sourceType),
		SeverityHint:  string(hint),
		PinCode:       strings.TrimSpace(req.PinCode),
		LocalityName:  strings.TrimSpace(req.LocalityName),
		District:      strings.TrimSpace(req.District),
		Lat:           req.Lat,
		Lon:           req.Lon,
		Status:        string(report.StatusReported),
		SubmitterRole: role,
		CreatedAt:     s.now().UTC().Format(time.RFC3339),
	}

	if err := s.reportRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	// Audit failures must not fail the submission.
	_ = s.logWriter.LogCreate(ctx, "report", record.ID)

	return recordToReport(record), nil
}

// GetReport retrieves a report by ID.
func (s *ReportServiceImpl) GetReport(ctx context.Context, reportID string) (*primary.Report, error) {
	record, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return recordToReport(record), nil
}

// ListActiveReports lists unresolved reports, optionally by district.
func (s *ReportServiceImpl) ListActiveReports(ctx context.Context, district string) ([]*primary.Report, error) {
	records, err := s.reportRepo.List(ctx, secondary.ReportFilters{
		District:   district,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]*primary.Report, len(records))
	for i, r := range records {
		reports[i] = recordToReport(r)
	}
	return reports, nil
}

// UpvoteReport bumps a report's upvote counter.
func (s *ReportServiceImpl) UpvoteReport(ctx context.Context, reportID string) (int, error) {
	upvotes, err := s.reportRepo.IncrementUpvotes(ctx, reportID)
	if err != nil {
		return 0, err
	}
	return upvotes, nil
}

// ListGroups recomputes the locality grouping from the active report set.
func (s *ReportServiceImpl) ListGroups(ctx context.Context, filters primary.GroupFilters) ([]*primary.LocalityGroup, error) {
	records, err := s.reportRepo.List(ctx, secondary.ReportFilters{
		District:   filters.District,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	activeAssignments, err := s.assignmentRepo.List(ctx, secondary.AssignmentFilters{
		District:   filters.District,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}
	activeSet := activeLocalitySet(activeAssignments)

	var groups []*primary.LocalityGroup
	for _, g := range buildGroups(records) {
		pg := toPortGroup(g, activeSet[g.Key])
		if filters.EligibleOnly && !pg.Eligible {
			continue
		}
		groups = append(groups, pg)
	}
	return groups, nil
}

// FormatSMS renders the canonical SMS body for an offline report. The engine
// only defines the text; delivery is a collaborator concern.
func (s *ReportServiceImpl) FormatSMS(req primary.SMSRequest) (string, error) {
	if strings.TrimSpace(req.Problem) == "" {
		return "", faults.NewValidation("problem", "must not be empty")
	}
	if strings.TrimSpace(req.PinCode) == "" {
		return "", faults.NewValidation("pinCode", "must not be empty")
	}
	if _, ok := report.ParseSeverityHint(req.SeverityHint); !ok {
		return "", faults.NewValidation("severityHint", "unrecognized severity")
	}
	if _, ok := report.ParseSourceType(req.SourceType); !ok {
		return "", faults.NewValidation("sourceType", "unrecognized source type")
	}
	return fmt.Sprintf("%s %s %s %s", strings.TrimSpace(req.Problem), strings.TrimSpace(req.PinCode),
		strings.ToLower(req.SeverityHint), strings.ToLower(req.SourceType)), nil
}

func recordToReport(r *secondary.ReportRecord) *primary.Report {
	return &primary.Report{
		ID:            r.ID,
		Problem:       r.Problem,
		SourceType:    r.SourceType,
		SeverityHint:  r.SeverityHint,
		PinCode:       r.PinCode,
		LocalityName:  r.LocalityName,
		District:      r.District,
		Lat:           r.Lat,
		Lon:           r.Lon,
		Status:        r.Status,
		SubmitterRole: r.SubmitterRole,
		Upvotes:       r.Upvotes,
		SubmittedAt:   r.CreatedAt,
	}
}

// Ensure ReportServiceImpl implements the interface
var _ primary.ReportService = (*ReportServiceImpl)(nil)
