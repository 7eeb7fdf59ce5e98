package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"approval-backend/internal/domain/approval"
)

func TestAuditRepository_AppendAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()
	ref := approval.EntityRef{Kind: "activity", ID: 1}

	pending := approval.StatusPending
	approved := approval.StatusApproved
	entries := []*approval.AuditLog{
		{EntityKind: "activity", EntityID: 1, Action: approval.ActionSubmitted, PerformedBy: strptr("u1"), NewStatus: &pending},
		{EntityKind: "activity", EntityID: 1, Action: approval.ActionApproved, PerformedBy: strptr("rev"), OldStatus: &pending, NewStatus: &approved, Notes: "ok"},
		{EntityKind: "activity", EntityID: 2, Action: approval.ActionSubmitted, PerformedBy: strptr("u2"), NewStatus: &pending},
	}
	for _, e := range entries {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.ListByEntity(ctx, ref)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries for %s = %d, want 2", ref, len(got))
	}
	// newest first
	if got[0].Action != approval.ActionApproved || got[1].Action != approval.ActionSubmitted {
		t.Errorf("order = %s, %s", got[0].Action, got[1].Action)
	}
	if got[0].Metadata != nil && len(got[0].Metadata) != 0 {
		t.Errorf("unexpected metadata %v", got[0].Metadata)
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 || recent[0].EntityID != 2 {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestAuditRepository_Aggregations(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Append(ctx, &approval.AuditLog{EntityKind: "activity", EntityID: uint64(i + 1), Action: approval.ActionApproved, PerformedBy: strptr("rev1")}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := repo.Append(ctx, &approval.AuditLog{EntityKind: "location", EntityID: 9, Action: approval.ActionRejected, PerformedBy: strptr("rev2")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	since := time.Now().UTC().Add(-time.Minute)

	byAction, err := repo.CountByActionSince(ctx, since)
	if err != nil {
		t.Fatalf("CountByActionSince: %v", err)
	}
	if byAction[approval.ActionApproved] != 3 || byAction[approval.ActionRejected] != 1 {
		t.Errorf("by action = %v", byAction)
	}

	byUser, err := repo.CountByUserSince(ctx, since, 10)
	if err != nil {
		t.Fatalf("CountByUserSince: %v", err)
	}
	if len(byUser) != 2 || byUser[0].User != "rev1" || byUser[0].Count != 3 {
		t.Errorf("by user = %+v, want rev1 first with 3", byUser)
	}

	byKind, err := repo.CountByKindSince(ctx, since)
	if err != nil {
		t.Fatalf("CountByKindSince: %v", err)
	}
	if byKind["activity"] != 3 || byKind["location"] != 1 {
		t.Errorf("by kind = %v", byKind)
	}

	// a future horizon counts nothing
	empty, err := repo.CountByActionSince(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("CountByActionSince future: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("future window = %v", empty)
	}
}

func TestAuditLog_Immutable(t *testing.T) {
	db := openTestDB(t)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	entry := &approval.AuditLog{EntityKind: "activity", EntityID: 1, Action: approval.ActionSubmitted}
	if err := repo.Append(ctx, entry); err != nil {
		t.Fatalf("Append: %v", err)
	}

	err := db.Model(entry).Update("notes", "rewritten history").Error
	if !errors.Is(err, approval.ErrImmutableLog) {
		t.Fatalf("update: want ErrImmutableLog, got %v", err)
	}
	err = db.Delete(entry).Error
	if !errors.Is(err, approval.ErrImmutableLog) {
		t.Fatalf("delete: want ErrImmutableLog, got %v", err)
	}

	var kept approval.AuditLog
	if err := db.First(&kept, entry.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if kept.Notes != "" {
		t.Errorf("entry mutated despite hook: %q", kept.Notes)
	}
}
