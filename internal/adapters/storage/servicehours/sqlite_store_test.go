package servicehours_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	store "jrotc/internal/adapters/storage/servicehours"
	"jrotc/internal/adapters/storage/storagetest"
	domain "jrotc/internal/domain/servicehours"
)

func insertCadet(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO cadet (id, first_name, last_name, email, role_id) VALUES (?, 'A', 'B', ?, 'cadet')`, id, id+"@school.edu"); err != nil {
		t.Fatalf("insert cadet: %v", err)
	}
}

// TestSQLiteStore_DecimalHours verifies fractional hours round-trip exactly.
func TestSQLiteStore_DecimalHours(t *testing.T) {
	ctx := context.Background()
	db := storagetest.Open(t)
	insertCadet(t, db, "c1")
	s := store.NewSQLiteStore(db)
	day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	for i, h := range []string{"1.25", "2.5", "0.1"} {
		r := domain.Record{
			ID: string(rune('a' + i)), CadetID: "c1", ServiceDate: day.AddDate(0, 0, i),
			Organization: "Food bank", Hours: decimal.RequireFromString(h),
			Status: domain.StatusPending, CreatedAt: day,
		}
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.List(ctx, store.ListFilter{CadetID: "c1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" {
		t.Fatalf("unexpected list %+v", all)
	}
	totals := domain.Sum(all)
	if !totals.Pending.Equal(decimal.RequireFromString("3.85")) {
		t.Errorf("pending = %s, want 3.85", totals.Pending)
	}

	rec, _ := s.GetByID(ctx, "a")
	if err := rec.Review(domain.StatusApproved, "instructor", day); err != nil {
		t.Fatalf("Review: %v", err)
	}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save review: %v", err)
	}
	approved, _ := s.List(ctx, store.ListFilter{Status: domain.StatusApproved})
	if len(approved) != 1 || approved[0].ReviewedBy != "instructor" || approved[0].ReviewedAt.IsZero() {
		t.Errorf("approved = %+v", approved)
	}
}
