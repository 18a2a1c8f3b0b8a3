package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/waterwatch/internal/adapters/sqlite"
	"github.com/example/waterwatch/internal/faults"
	"github.com/example/waterwatch/internal/ports/secondary"
)

func newAssignmentRecord(id, pinCode, district string, reportIDs []string) *secondary.AssignmentRecord {
	return &secondary.AssignmentRecord{
		ID:           id,
		PinCode:      pinCode,
		District:     district,
		LocalityName: "Test Colony",
		Description:  "cluster of contamination reports",
		Status:       "sent_to_lab",
		ReportCount:  len(reportIDs),
		ReportIDs:    reportIDs,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

func TestAssignmentRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	r1 := seedReport(t, db, "781001", "Kamrup Metropolitan", "reported")
	r2 := seedReport(t, db, "781001", "Kamrup Metropolitan", "reported")

	record := newAssignmentRecord("ASG-001", "781001", "Kamrup Metropolitan", []string{r1, r2})
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	got, err := repo.GetByID(ctx, "ASG-001")
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if got.Status != "sent_to_lab" {
		t.Errorf("status = %q, want sent_to_lab", got.Status)
	}
	if got.ReportCount != 2 {
		t.Errorf("report count = %d, want 2", got.ReportCount)
	}
	if len(got.ReportIDs) != 2 {
		t.Errorf("snapshot size = %d, want 2", len(got.ReportIDs))
	}
	if got.ResolvedAt != "" {
		t.Errorf("resolved_at = %q, want empty", got.ResolvedAt)
	}
}

func TestAssignmentRepository_Create_DuplicateActiveLocality(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, newAssignmentRecord("ASG-001", "781001", "Kamrup Metropolitan", nil)); err != nil {
		t.Fatalf("failed to create first assignment: %v", err)
	}

	err := repo.Create(ctx, newAssignmentRecord("ASG-002", "781001", "Kamrup Metropolitan", nil))
	if !errors.Is(err, secondary.ErrDuplicateActiveAssignment) {
		t.Fatalf("expected ErrDuplicateActiveAssignment, got %v", err)
	}

	// A different locality is unaffected.
	if err := repo.Create(ctx, newAssignmentRecord("ASG-003", "781030", "Jorhat", nil)); err != nil {
		t.Errorf("different locality rejected: %v", err)
	}
}

func TestAssignmentRepository_Create_AllowedAfterTerminal(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "confirmed_clean")

	if err := repo.Create(ctx, newAssignmentRecord("ASG-002", "781001", "Kamrup Metropolitan", nil)); err != nil {
		t.Fatalf("re-escalation after terminal assignment rejected: %v", err)
	}
}

func TestAssignmentRepository_ActiveForLocality(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "confirmed_clean")
	seedAssignment(t, db, "ASG-002", "781001", "Kamrup Metropolitan", "test_uploaded")

	active, err := repo.ActiveForLocality(ctx, "781001", "Kamrup Metropolitan")
	if err != nil {
		t.Fatalf("failed to get active assignment: %v", err)
	}
	if active == nil || active.ID != "ASG-002" {
		t.Errorf("active = %+v, want ASG-002", active)
	}

	none, err := repo.ActiveForLocality(ctx, "781030", "Jorhat")
	if err != nil {
		t.Fatalf("failed to query empty locality: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for locality without assignments, got %+v", none)
	}
}

func TestAssignmentRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "confirmed_clean")
	seedAssignment(t, db, "ASG-002", "781005", "Kamrup Metropolitan", "sent_to_lab")
	seedAssignment(t, db, "ASG-003", "781030", "Jorhat", "test_uploaded")

	active, err := repo.List(ctx, secondary.AssignmentFilters{ActiveOnly: true})
	if err != nil {
		t.Fatalf("failed to list assignments: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("active assignments = %d, want 2", len(active))
	}

	district, err := repo.List(ctx, secondary.AssignmentFilters{District: "Jorhat"})
	if err != nil {
		t.Fatalf("failed to list district assignments: %v", err)
	}
	if len(district) != 1 || district[0].ID != "ASG-003" {
		t.Errorf("district assignments = %+v, want [ASG-003]", district)
	}

	terminal, err := repo.List(ctx, secondary.AssignmentFilters{Status: "confirmed_clean"})
	if err != nil {
		t.Fatalf("failed to list terminal assignments: %v", err)
	}
	if len(terminal) != 1 || terminal[0].ID != "ASG-001" {
		t.Errorf("terminal assignments = %+v, want [ASG-001]", terminal)
	}
}

func TestAssignmentRepository_Transition(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "sent_to_lab")

	applied, err := repo.Transition(ctx, secondary.TransitionUpdate{
		ID:            "ASG-001",
		FromStatus:    "sent_to_lab",
		ToStatus:      "test_uploaded",
		TestResultRef: "blob:abc123.pdf",
		LabNotes:      "coliform count above limit",
	})
	if err != nil {
		t.Fatalf("failed to transition: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}

	got, err := repo.GetByID(ctx, "ASG-001")
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if got.Status != "test_uploaded" {
		t.Errorf("status = %q, want test_uploaded", got.Status)
	}
	if got.TestResultRef != "blob:abc123.pdf" {
		t.Errorf("test result ref = %q", got.TestResultRef)
	}
	if got.LabNotes != "coliform count above limit" {
		t.Errorf("lab notes = %q", got.LabNotes)
	}
}

func TestAssignmentRepository_Transition_StaleFromStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "test_uploaded")

	// Caller observed sent_to_lab before another writer advanced the row.
	applied, err := repo.Transition(ctx, secondary.TransitionUpdate{
		ID:            "ASG-001",
		FromStatus:    "sent_to_lab",
		ToStatus:      "test_uploaded",
		TestResultRef: "blob:late.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("stale transition must match zero rows")
	}

	got, err := repo.GetByID(ctx, "ASG-001")
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if got.TestResultRef != "" {
		t.Errorf("stale transition wrote fields: ref = %q", got.TestResultRef)
	}
}

func TestAssignmentRepository_Transition_MarkResolved(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "phc_marked_clean")

	applied, err := repo.Transition(ctx, secondary.TransitionUpdate{
		ID:           "ASG-001",
		FromStatus:   "phc_marked_clean",
		ToStatus:     "confirmed_clean",
		FinalNotes:   "retested, within limits",
		MarkResolved: true,
	})
	if err != nil || !applied {
		t.Fatalf("transition failed: applied=%v err=%v", applied, err)
	}

	got, err := repo.GetByID(ctx, "ASG-001")
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if got.ResolvedAt == "" {
		t.Error("expected resolved_at to be set")
	}
	if got.FinalNotes != "retested, within limits" {
		t.Errorf("final notes = %q", got.FinalNotes)
	}
}

func TestAssignmentRepository_CountCleanLocalities(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	// 781001 resolved then re-escalated: not clean.
	seedAssignment(t, db, "ASG-001", "781001", "Kamrup Metropolitan", "confirmed_clean")
	seedAssignment(t, db, "ASG-002", "781001", "Kamrup Metropolitan", "sent_to_lab")
	// 781005 resolved: clean.
	seedAssignment(t, db, "ASG-003", "781005", "Kamrup Metropolitan", "confirmed_clean")
	// 781030 still in flight: not clean.
	seedAssignment(t, db, "ASG-004", "781030", "Jorhat", "solution_uploaded")

	count, err := repo.CountCleanLocalities(ctx, "")
	if err != nil {
		t.Fatalf("failed to count clean localities: %v", err)
	}
	if count != 1 {
		t.Errorf("clean localities = %d, want 1", count)
	}

	scoped, err := repo.CountCleanLocalities(ctx, "Jorhat")
	if err != nil {
		t.Fatalf("failed to count district clean localities: %v", err)
	}
	if scoped != 0 {
		t.Errorf("district clean localities = %d, want 0", scoped)
	}
}

func TestAssignmentRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("failed to get next ID: %v", err)
	}
	if id != "ASG-001" {
		t.Errorf("first ID = %q, want ASG-001", id)
	}

	seedAssignment(t, db, "ASG-007", "781001", "Kamrup Metropolitan", "sent_to_lab")

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("failed to get next ID: %v", err)
	}
	if id != "ASG-008" {
		t.Errorf("next ID = %q, want ASG-008", id)
	}
}

func TestAssignmentRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAssignmentRepository(db)

	_, err := repo.GetByID(context.Background(), "ASG-999")
	var ne *faults.NotFoundError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
