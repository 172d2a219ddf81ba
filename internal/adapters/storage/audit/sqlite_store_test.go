package audit_test

import (
	"context"
	"testing"
	"time"

	store "jrotc/internal/adapters/storage/audit"
	"jrotc/internal/adapters/storage/storagetest"
	domain "jrotc/internal/domain/audit"
)

// TestSQLiteStore_ListFilter verifies category filtering, ordering and limit.
func TestSQLiteStore_ListFilter(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.Open(t))
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	events := []domain.Event{
		domain.NewEvent("a1", "sai@school.edu", domain.CategoryImport, domain.ActionImport, base),
		domain.NewEvent("a1", "sai@school.edu", domain.CategoryCadet, domain.ActionUpdate, base.Add(time.Minute)).WithResource("cadet", "c1"),
		domain.NewEvent("a2", "ai@school.edu", domain.CategoryCadet, domain.ActionCreate, base.Add(2*time.Minute)).WithResource("cadet", "c2"),
	}
	for _, e := range events {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	cat := domain.CategoryCadet
	got, err := s.List(ctx, store.Filter{Category: &cat}, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ResourceID != "c2" || got[1].ResourceID != "c1" {
		t.Errorf("cadet events = %+v", got)
	}

	limited, _ := s.List(ctx, store.Filter{}, 1)
	if len(limited) != 1 || limited[0].Action != domain.ActionCreate {
		t.Errorf("limited = %+v", limited)
	}

	actor := "a1"
	byActor, _ := s.List(ctx, store.Filter{ActorID: &actor}, 10)
	if len(byActor) != 2 {
		t.Errorf("actor a1 events = %d, want 2", len(byActor))
	}
}
