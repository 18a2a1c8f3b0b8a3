package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/waterwatch/internal/core/escalation"
	"github.com/example/waterwatch/internal/core/report"
	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// EscalationServiceImpl implements the EscalationService interface. All
// transitions go through a conditional update keyed on the observed status;
// a zero-row match surfaces as a typed fault instead of a silent overwrite.
type EscalationServiceImpl struct {
	assignmentRepo secondary.AssignmentRepository
	reportRepo     secondary.ReportRepository
	logWriter      secondary.LogWriter
	now            func() time.Time
}

// NewEscalationService creates a new EscalationService with injected dependencies.
func NewEscalationService(assignmentRepo secondary.AssignmentRepository, reportRepo secondary.ReportRepository, logWriter secondary.LogWriter) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		assignmentRepo: assignmentRepo,
		reportRepo:     reportRepo,
		logWriter:      logWriter,
		now:            time.Now,
	}
}

// Escalate creates an assignment for an eligible locality group. The member
// report ids are snapshotted at this moment; reports arriving later count
// toward the next escalation only.
func (s *EscalationServiceImpl) Escalate(ctx context.Context, req primary.EscalateRequest) (*primary.Assignment, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, faults.NewValidation("description", "must not be empty")
	}

	members, err := s.reportRepo.List(ctx, secondary.ReportFilters{
		PinCode:    req.PinCode,
		District:   req.District,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locality reports: %w", err)
	}

	active, err := s.assignmentRepo.ActiveForLocality(ctx, req.PinCode, req.District)
	if err != nil {
		return nil, fmt.Errorf("failed to check active assignment: %w", err)
	}

	guard := escalation.CanEscalate(escalation.EscalateContext{
		PinCode:             req.PinCode,
		District:            req.District,
		ActiveReportCount:   len(members),
		HasActiveAssignment: active != nil,
		Description:         req.Description,
	})
	if !guard.Allowed {
		return nil, &faults.InvalidTransitionError{
			From:      "eligible",
			Attempted: string(escalation.StateSentToLab),
		}
	}

	id, err := s.assignmentRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate assignment ID: %w", err)
	}

	groups := buildGroups(members)
	localityName := ""
	if len(groups) > 0 {
		localityName = groups[0].LocalityName
	}

	reportIDs := make([]string, len(members))
	for i, m := range members {
		reportIDs[i] = m.ID
	}

	record := &secondary.AssignmentRecord{
		ID:           id,
		PinCode:      req.PinCode,
		District:     req.District,
		LocalityName: localityName,
		Description:  req.Description,
		PHCNotes:     req.PHCNotes,
		Status:       string(escalation.StateSentToLab),
		ReportCount:  len(reportIDs),
		ReportIDs:    reportIDs,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}

	if err := s.assignmentRepo.Create(ctx, record); err != nil {
		// The guard passed on a stale read; the store's uniqueness check is
		// the authoritative arbiter between concurrent escalations.
		if errors.Is(err, secondary.ErrDuplicateActiveAssignment) {
			return nil, &faults.ConflictError{
				Entity:  "assignment",
				ID:      req.PinCode + "/" + req.District,
				Message: "another escalation won the race for this locality",
			}
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := s.reportRepo.UpdateStatusBulk(ctx, reportIDs, string(report.StatusAssigned)); err != nil {
		return nil, fmt.Errorf("failed to mark reports assigned: %w", err)
	}

	_ = s.logWriter.LogCreate(ctx, "assignment", record.ID)
	_ = s.logWriter.LogTransition(ctx, "assignment", record.ID, "eligible", record.Status)

	return recordToAssignment(record), nil
}

// GetAssignment retrieves an assignment with its report snapshot.
func (s *EscalationServiceImpl) GetAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	record, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return recordToAssignment(record), nil
}

// ListAssignments lists assignments with optional filters.
func (s *EscalationServiceImpl) ListAssignments(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	records, err := s.assignmentRepo.List(ctx, secondary.AssignmentFilters{
		District:   filters.District,
		Status:     filters.Status,
		ActiveOnly: filters.ActiveOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments := make([]*primary.Assignment, len(records))
	for i, r := range records {
		assignments[i] = recordToAssignment(r)
	}
	return assignments, nil
}

// UploadTestResult advances sent_to_lab -> test_uploaded. The blob upload
// must already have completed; this call only records the stable ref.
func (s *EscalationServiceImpl) UploadTestResult(ctx context.Context, req primary.UploadTestResultRequest) (*primary.Assignment, error) {
	if req.TestResultRef == "" {
		return nil, faults.NewValidation("testResultRef", "must not be empty")
	}
	return s.advance(ctx, req.AssignmentID, escalation.StateSentToLab, escalation.StateTestUploaded, secondary.TransitionUpdate{
		TestResultRef: req.TestResultRef,
		LabNotes:      req.LabNotes,
	})
}

// UploadSolution advances test_uploaded -> solution_uploaded.
func (s *EscalationServiceImpl) UploadSolution(ctx context.Context, req primary.UploadSolutionRequest) (*primary.Assignment, error) {
	if req.SolutionRef == "" {
		return nil, faults.NewValidation("solutionRef", "must not be empty")
	}
	if req.SolutionDescription == "" {
		return nil, faults.NewValidation("solutionDescription", "must not be empty")
	}
	return s.advance(ctx, req.AssignmentID, escalation.StateTestUploaded, escalation.StateSolutionUploaded, secondary.TransitionUpdate{
		SolutionRef:         req.SolutionRef,
		SolutionDescription: req.SolutionDescription,
	})
}

// MarkCleanByPHC advances solution_uploaded -> phc_marked_clean.
func (s *EscalationServiceImpl) MarkCleanByPHC(ctx context.Context, req primary.MarkCleanRequest) (*primary.Assignment, error) {
	return s.advance(ctx, req.AssignmentID, escalation.StateSolutionUploaded, escalation.StatePHCMarkedClean, secondary.TransitionUpdate{
		PHCNotes: req.PHCNotes,
	})
}

// ConfirmClean advances phc_marked_clean -> confirmed_clean, resolves every
// snapshot report and retires the locality from the active set.
func (s *EscalationServiceImpl) ConfirmClean(ctx context.Context, req primary.ConfirmCleanRequest) (*primary.Assignment, error) {
	result, err := s.advance(ctx, req.AssignmentID, escalation.StatePHCMarkedClean, escalation.StateConfirmedClean, secondary.TransitionUpdate{
		FinalNotes:   req.FinalNotes,
		MarkResolved: true,
	})
	if err != nil {
		return nil, err
	}

	if len(result.ReportIDs) > 0 {
		if err := s.reportRepo.UpdateStatusBulk(ctx, result.ReportIDs, string(report.StatusResolved)); err != nil {
			return nil, fmt.Errorf("failed to resolve snapshot reports: %w", err)
		}
	}
	return result, nil
}

// ListSolutions lists terminal assignments, newest first.
func (s *EscalationServiceImpl) ListSolutions(ctx context.Context, district string) ([]*primary.Assignment, error) {
	return s.ListAssignments(ctx, primary.AssignmentFilters{
		District: district,
		Status:   string(escalation.StateConfirmedClean),
	})
}

// advance performs one guarded forward transition. The precondition is
// re-checked by the store: the update matches only while the status equals
// the expected source state, so a raced or repeated call fails rather than
// silently succeeding.
func (s *EscalationServiceImpl) advance(ctx context.Context, assignmentID string, from, to escalation.State, update secondary.TransitionUpdate) (*primary.Assignment, error) {
	current, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if guard := escalation.CanAdvance(escalation.State(current.Status), to); !guard.Allowed {
		return nil, &faults.InvalidTransitionError{
			From:      current.Status,
			Attempted: string(to),
		}
	}

	update.ID = assignmentID
	update.FromStatus = string(from)
	update.ToStatus = string(to)

	applied, err := s.assignmentRepo.Transition(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}
	if !applied {
		// Guard passed on a stale read but the conditional update matched
		// nothing: another caller advanced the assignment in between.
		return nil, &faults.ConflictError{Entity: "assignment", ID: assignmentID}
	}

	_ = s.logWriter.LogTransition(ctx, "assignment", assignmentID, string(from), string(to))

	updated, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return recordToAssignment(updated), nil
}

func recordToAssignment(r *secondary.AssignmentRecord) *primary.Assignment {
	return &primary.Assignment{
		ID:                  r.ID,
		PinCode:             r.PinCode,
		District:            r.District,
		LocalityName:        r.LocalityName,
		Description:         r.Description,
		PHCNotes:            r.PHCNotes,
		LabNotes:            r.LabNotes,
		SolutionDescription: r.SolutionDescription,
		FinalNotes:          r.FinalNotes,
		TestResultRef:       r.TestResultRef,
		SolutionRef:         r.SolutionRef,
		Status:              r.Status,
		ReportCount:         r.ReportCount,
		ReportIDs:           r.ReportIDs,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		ResolvedAt:          r.ResolvedAt,
	}
}

// Ensure EscalationServiceImpl implements the interface
var _ primary.EscalationService = (*EscalationServiceImpl)(nil)
