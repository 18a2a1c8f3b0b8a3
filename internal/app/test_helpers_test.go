package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// mockReportRepository implements secondary.ReportRepository for testing.
type mockReportRepository struct {
	reports map[string]*secondary.ReportRecord
	seq     int
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{reports: make(map[string]*secondary.ReportRecord)}
}

func (m *mockReportRepository) Create(ctx context.Context, record *secondary.ReportRecord) error {
	m.seq++
	cp := *record
	m.reports[record.ID] = &cp
	return nil
}

func (m *mockReportRepository) GetByID(ctx context.Context, id string) (*secondary.ReportRecord, error) {
	if r, ok := m.reports[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, &faults.NotFoundError{Entity: "report", ID: id}
}

func (m *mockReportRepository) matches(r *secondary.ReportRecord, f secondary.ReportFilters) bool {
	if f.District != "" && r.District != f.District {
		return false
	}
	if f.PinCode != "" && r.PinCode != f.PinCode {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.ActiveOnly && r.Status == "resolved" {
		return false
	}
	return true
}

func (m *mockReportRepository) List(ctx context.Context, filters secondary.ReportFilters) ([]*secondary.ReportRecord, error) {
	var result []*secondary.ReportRecord
	for _, r := range m.reports {
		if m.matches(r, filters) {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockReportRepository) Count(ctx context.Context, filters secondary.ReportFilters) (int, error) {
	n := 0
	for _, r := range m.reports {
		if m.matches(r, filters) {
			n++
		}
	}
	return n, nil
}

func (m *mockReportRepository) UpdateStatusBulk(ctx context.Context, ids []string, status string) error {
	for _, id := range ids {
		if r, ok := m.reports[id]; ok {
			r.Status = status
		}
	}
	return nil
}

func (m *mockReportRepository) IncrementUpvotes(ctx context.Context, id string) (int, error) {
	r, ok := m.reports[id]
	if !ok {
		return 0, &faults.NotFoundError{Entity: "report", ID: id}
	}
	r.Upvotes++
	return r.Upvotes, nil
}

// seedReport inserts a report directly into the mock store.
func (m *mockReportRepository) seedReport(pinCode, district, status string, lat, lon *float64) *secondary.ReportRecord {
	m.seq++
	r := &secondary.ReportRecord{
		ID:            fmt.Sprintf("r-%03d", m.seq),
		Problem:       "foul smelling water",
		SourceType:    "domestic",
		SeverityHint:  "high",
		PinCode:       pinCode,
		LocalityName:  "Test Colony",
		District:      district,
		Lat:           lat,
		Lon:           lon,
		Status:        status,
		SubmitterRole: "citizen",
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	m.reports[r.ID] = r
	return r
}

// mockAssignmentRepository implements secondary.AssignmentRepository for testing.
type mockAssignmentRepository struct {
	assignments map[string]*secondary.AssignmentRecord
	nextID      int

	// transitionHook runs before Transition applies, letting tests simulate
	// a concurrent writer between the service's read and its update.
	transitionHook func()

	// staleActiveLookup makes ActiveForLocality report nothing, simulating an
	// eligibility read taken before a concurrent escalation committed.
	staleActiveLookup bool
}

func newMockAssignmentRepository() *mockAssignmentRepository {
	return &mockAssignmentRepository{
		assignments: make(map[string]*secondary.AssignmentRecord),
		nextID:      1,
	}
}

func (m *mockAssignmentRepository) Create(ctx context.Context, record *secondary.AssignmentRecord) error {
	for _, a := range m.assignments {
		if a.PinCode == record.PinCode && a.District == record.District && a.Status != "confirmed_clean" {
			return secondary.ErrDuplicateActiveAssignment
		}
	}
	cp := *record
	cp.ReportIDs = append([]string(nil), record.ReportIDs...)
	m.assignments[record.ID] = &cp
	return nil
}

func (m *mockAssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	if a, ok := m.assignments[id]; ok {
		cp := *a
		cp.ReportIDs = append([]string(nil), a.ReportIDs...)
		return &cp, nil
	}
	return nil, &faults.NotFoundError{Entity: "assignment", ID: id}
}

func (m *mockAssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	var result []*secondary.AssignmentRecord
	for _, a := range m.assignments {
		if filters.District != "" && a.District != filters.District {
			continue
		}
		if filters.PinCode != "" && a.PinCode != filters.PinCode {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.ActiveOnly && a.Status == "confirmed_clean" {
			continue
		}
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAssignmentRepository) ActiveForLocality(ctx context.Context, pinCode, district string) (*secondary.AssignmentRecord, error) {
	if m.staleActiveLookup {
		return nil, nil
	}
	for _, a := range m.assignments {
		if a.PinCode == pinCode && a.District == district && a.Status != "confirmed_clean" {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepository) Transition(ctx context.Context, update secondary.TransitionUpdate) (bool, error) {
	if m.transitionHook != nil {
		m.transitionHook()
	}
	a, ok := m.assignments[update.ID]
	if !ok || a.Status != update.FromStatus {
		return false, nil
	}
	a.Status = update.ToStatus
	if update.TestResultRef != "" {
		a.TestResultRef = update.TestResultRef
	}
	if update.LabNotes != "" {
		a.LabNotes = update.LabNotes
	}
	if update.SolutionRef != "" {
		a.SolutionRef = update.SolutionRef
	}
	if update.SolutionDescription != "" {
		a.SolutionDescription = update.SolutionDescription
	}
	if update.PHCNotes != "" {
		a.PHCNotes = update.PHCNotes
	}
	if update.FinalNotes != "" {
		a.FinalNotes = update.FinalNotes
	}
	if update.MarkResolved {
		a.ResolvedAt = time.Now().UTC().Format(time.RFC3339)
	}
	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return true, nil
}

func (m *mockAssignmentRepository) CountCleanLocalities(ctx context.Context, district string) (int, error) {
	// At most one active assignment exists per locality, so "most recent
	// assignment is terminal" is equivalent to "has assignments, none active".
	type key struct{ pin, dist string }
	hasAssignment := make(map[key]bool)
	hasActive := make(map[key]bool)
	for _, a := range m.assignments {
		if district != "" && a.District != district {
			continue
		}
		k := key{a.PinCode, a.District}
		hasAssignment[k] = true
		if a.Status != "confirmed_clean" {
			hasActive[k] = true
		}
	}
	n := 0
	for k := range hasAssignment {
		if !hasActive[k] {
			n++
		}
	}
	return n, nil
}

func (m *mockAssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("ASG-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// seedAssignment inserts an assignment directly into the mock store.
func (m *mockAssignmentRepository) seedAssignment(id, pinCode, district, status string, reportIDs ...string) *secondary.AssignmentRecord {
	a := &secondary.AssignmentRecord{
		ID:          id,
		PinCode:     pinCode,
		District:    district,
		Description: "escalated for testing",
		Status:      status,
		ReportCount: len(reportIDs),
		ReportIDs:   append([]string(nil), reportIDs...),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	m.assignments[id] = a
	return a
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []string
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	m.entries = append(m.entries, fmt.Sprintf("create %s %s", entityType, entityID))
	return nil
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	m.entries = append(m.entries, fmt.Sprintf("update %s %s %s", entityType, entityID, fieldName))
	return nil
}

func (m *mockLogWriter) LogTransition(ctx context.Context, entityType, entityID, fromState, toState string) error {
	m.entries = append(m.entries, fmt.Sprintf("transition %s %s %s->%s", entityType, entityID, fromState, toState))
	return nil
}

func ptr(f float64) *float64 { return &f }
