package cadet_test

import (
	"context"
	"errors"
	"testing"

	store "jrotc/internal/adapters/storage/cadet"
	"jrotc/internal/adapters/storage/storagetest"
	domain "jrotc/internal/domain/cadet"
)

func seedCadets(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	cadets := []domain.Cadet{
		{ID: "c1", FirstName: "Jane", LastName: "Doe", Email: "jane@school.edu", RoleID: "cadet", Grade: "10th", Flight: "Alpha", Status: domain.StatusActive},
		{ID: "c2", FirstName: "John", LastName: "Adams", Email: "john@school.edu", RoleID: "cadet", Grade: "11th", Flight: "Bravo", Status: domain.StatusActive},
		{ID: "c3", FirstName: "Ana", LastName: "Diaz", Email: "ana@school.edu", RoleID: "cadet_staff", Grade: "10th", Flight: "Alpha", Status: domain.StatusInactive, AccountID: "a3"},
	}
	for _, c := range cadets {
		if err := s.Save(context.Background(), c); err != nil {
			t.Fatalf("save %s: %v", c.ID, err)
		}
	}
}

// TestSQLiteStore_SaveAndGet verifies a cadet round-trips and upserts.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.Open(t))
	seedCadets(t, s)

	got, err := s.GetByEmail(ctx, "JANE@school.edu")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "c1" || got.Flight != "Alpha" || got.AccountID != "" {
		t.Errorf("unexpected cadet %+v", got)
	}

	got.Rank = "C/Amn"
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.GetByID(ctx, "c1")
	if again.Rank != "C/Amn" {
		t.Errorf("rank = %q, want C/Amn", again.Rank)
	}

	linked, err := s.GetByAccountID(ctx, "a3")
	if err != nil || linked.ID != "c3" {
		t.Errorf("GetByAccountID = %+v, %v", linked, err)
	}

	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestSQLiteStore_ListFilters verifies filter combinations and Count.
func TestSQLiteStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteStore(storagetest.Open(t))
	seedCadets(t, s)

	tests := []struct {
		name   string
		filter store.ListFilter
		want   []string
	}{
		{"all ordered by last name", store.ListFilter{}, []string{"c2", "c3", "c1"}},
		{"active", store.ListFilter{Status: domain.StatusActive}, []string{"c2", "c1"}},
		{"flight and grade", store.ListFilter{Flight: "Alpha", Grade: "10th"}, []string{"c3", "c1"}},
		{"search", store.ListFilter{Search: "jo"}, []string{"c2"}},
		{"paged", store.ListFilter{Limit: 1, Offset: 1}, []string{"c3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d cadets, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("cadet[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	n, err := s.Count(ctx, store.ListFilter{Flight: "Alpha", Limit: 1})
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
}

// TestSQLiteReferenceStore verifies roles and value lists feed References.
func TestSQLiteReferenceStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewSQLiteReferenceStore(storagetest.Open(t))

	refs, err := s.References(ctx)
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if refs.Flights != nil || refs.Roles != nil {
		t.Errorf("empty database should give nil lists, got %+v", refs)
	}

	for _, r := range domain.DefaultRoles {
		if err := s.SaveRole(ctx, r); err != nil {
			t.Fatalf("SaveRole: %v", err)
		}
	}
	if err := s.ReplaceValues(ctx, domain.KindFlight, []string{"Delta", "Alpha"}); err != nil {
		t.Fatalf("ReplaceValues: %v", err)
	}
	if err := s.ReplaceValues(ctx, domain.KindFlight, []string{"Charlie", "Alpha"}); err != nil {
		t.Fatalf("ReplaceValues: %v", err)
	}

	refs, err = s.References(ctx)
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs.Roles) != len(domain.DefaultRoles) {
		t.Errorf("roles = %d, want %d", len(refs.Roles), len(domain.DefaultRoles))
	}
	if len(refs.Flights) != 2 || refs.Flights[0] != "Charlie" || refs.Flights[1] != "Alpha" {
		t.Errorf("flights = %v, want [Charlie Alpha]", refs.Flights)
	}
	if r, ok := refs.FindRole("CADET STAFF"); !ok || r.ID != "cadet_staff" {
		t.Errorf("FindRole by label = %+v, %v", r, ok)
	}
}
