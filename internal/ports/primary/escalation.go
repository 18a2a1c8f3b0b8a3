package primary

import "context"

// EscalationService defines the primary port for the PHC-to-lab escalation
// workflow. Transitions are strictly forward; callers racing each other get
// a conflict, not silent idempotence.
type EscalationService interface {
	// Escalate creates an assignment for an eligible locality group and
	// marks the member reports assigned.
	Escalate(ctx context.Context, req EscalateRequest) (*Assignment, error)

	// GetAssignment retrieves an assignment with its report snapshot.
	GetAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// ListAssignments lists assignments with optional filters.
	ListAssignments(ctx context.Context, filters AssignmentFilters) ([]*Assignment, error)

	// UploadTestResult advances sent_to_lab -> test_uploaded with the blob
	// ref of the lab's test report.
	UploadTestResult(ctx context.Context, req UploadTestResultRequest) (*Assignment, error)

	// UploadSolution advances test_uploaded -> solution_uploaded.
	UploadSolution(ctx context.Context, req UploadSolutionRequest) (*Assignment, error)

	// MarkCleanByPHC advances solution_uploaded -> phc_marked_clean; the PHC
	// half of the two-phase confirmation.
	MarkCleanByPHC(ctx context.Context, req MarkCleanRequest) (*Assignment, error)

	// ConfirmClean advances phc_marked_clean -> confirmed_clean, resolves the
	// snapshot reports and retires the group from the active set; the lab
	// half of the two-phase confirmation.
	ConfirmClean(ctx context.Context, req ConfirmCleanRequest) (*Assignment, error)

	// ListSolutions lists terminal assignments (the solution archive),
	// optionally by district.
	ListSolutions(ctx context.Context, district string) ([]*Assignment, error)
}

// EscalateRequest identifies the locality group to escalate.
type EscalateRequest struct {
	PinCode     string
	District    string
	Description string
	PHCNotes    string
}

// UploadTestResultRequest carries the stable blob ref of an uploaded test
// result. The upload must have completed before this call.
type UploadTestResultRequest struct {
	AssignmentID  string
	TestResultRef string
	LabNotes      string
}

// UploadSolutionRequest carries the stable blob ref of an uploaded solution.
type UploadSolutionRequest struct {
	AssignmentID        string
	SolutionRef         string
	SolutionDescription string
}

// MarkCleanRequest is the PHC's tentative clean verdict.
type MarkCleanRequest struct {
	AssignmentID string
	PHCNotes     string
}

// ConfirmCleanRequest is the lab's final approval.
type ConfirmCleanRequest struct {
	AssignmentID string
	FinalNotes   string
}

// Assignment represents an escalation record at the port boundary.
type Assignment struct {
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
	ReportIDs           []string
	CreatedAt           string
	UpdatedAt           string
	ResolvedAt          string
}

// AssignmentFilters contains filter options for listing assignments.
type AssignmentFilters struct {
	District   string
	Status     string
	ActiveOnly bool
}
