package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/waterwatch/internal/adapters/sqlite"
	"github.com/example/waterwatch/internal/ctxutil"
	"github.com/example/waterwatch/internal/ports/secondary"
)

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()

	entries := []*secondary.AuditLogRecord{
		{ID: "LOG-00001", ActorRole: "citizen", EntityType: "report", EntityID: "report-001", Action: "create"},
		{ID: "LOG-00002", ActorRole: "phc", District: "Kamrup Metropolitan", EntityType: "assignment", EntityID: "ASG-001", Action: "create"},
		{ID: "LOG-00003", ActorRole: "lab", EntityType: "assignment", EntityID: "ASG-001", Action: "transition", FieldName: "status", OldValue: "sent_to_lab", NewValue: "test_uploaded"},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("failed to create audit entry: %v", err)
		}
	}

	all, err := repo.List(ctx, secondary.AuditLogFilters{})
	if err != nil {
		t.Fatalf("failed to list audit entries: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("entries = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].ID != "LOG-00003" {
		t.Errorf("first entry = %s, want LOG-00003", all[0].ID)
	}
	if all[0].OldValue != "sent_to_lab" || all[0].NewValue != "test_uploaded" {
		t.Errorf("transition values = %q -> %q", all[0].OldValue, all[0].NewValue)
	}

	scoped, err := repo.List(ctx, secondary.AuditLogFilters{EntityType: "assignment", EntityID: "ASG-001"})
	if err != nil {
		t.Fatalf("failed to list scoped entries: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("scoped entries = %d, want 2", len(scoped))
	}
}

func TestAuditLogRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("failed to get next ID: %v", err)
	}
	if id != "LOG-00001" {
		t.Errorf("first ID = %q, want LOG-00001", id)
	}

	if err := repo.Create(ctx, &secondary.AuditLogRecord{ID: id, EntityType: "report", EntityID: "r1", Action: "create"}); err != nil {
		t.Fatalf("failed to create entry: %v", err)
	}

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("failed to get next ID: %v", err)
	}
	if id != "LOG-00002" {
		t.Errorf("next ID = %q, want LOG-00002", id)
	}
}

func TestLogWriterAdapter_RecordsActorFromContext(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditLogRepository(db)
	writer := sqlite.NewLogWriterAdapter(repo)

	ctx := ctxutil.WithActor(context.Background(), ctxutil.Actor{Role: "phc", District: "Kamrup Metropolitan"})

	if err := writer.LogCreate(ctx, "assignment", "ASG-001"); err != nil {
		t.Fatalf("failed to log create: %v", err)
	}
	if err := writer.LogTransition(ctx, "assignment", "ASG-001", "sent_to_lab", "test_uploaded"); err != nil {
		t.Fatalf("failed to log transition: %v", err)
	}

	entries, err := repo.List(ctx, secondary.AuditLogFilters{EntityID: "ASG-001"})
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ActorRole != "phc" || e.District != "Kamrup Metropolitan" {
			t.Errorf("actor = %s/%s, want phc/Kamrup Metropolitan", e.ActorRole, e.District)
		}
	}
	if entries[0].Action != "transition" || entries[0].FieldName != "status" {
		t.Errorf("newest entry = %+v, want status transition", entries[0])
	}
}
