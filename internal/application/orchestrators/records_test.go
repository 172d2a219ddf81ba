package orchestrators

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"jrotc/internal/domain/account"
	"jrotc/internal/domain/cadet"
	"jrotc/internal/domain/equipment"
	"jrotc/internal/domain/pttest"
	"jrotc/internal/domain/servicehours"
)

func ptDeps(cadets *mockCadetStore, store *mockPTStore, rec *mockAudit) PTTestDeps {
	return PTTestDeps{Cadets: cadets, PTTestStore: store, Audit: rec, GenerateID: seqIDs("pt"), Now: fixedNow}
}

// TestRecordPTTest covers time parsing and validation.
func TestRecordPTTest(t *testing.T) {
	tests := []struct {
		name      string
		input     RecordPTTestInput
		wantErr   bool
		wantPlank int
		wantMile  int
	}{
		{"mm:ss and seconds", RecordPTTestInput{CadetID: "c1", TestDate: "2026-10-01", PushUps: 30, PlankTime: "2:05", MileTime: "480"}, false, 125, 480},
		{"events not taken", RecordPTTestInput{CadetID: "c1", TestDate: "2026-10-01", PlankTime: " ", MileTime: ""}, false, 0, 0},
		{"bad time", RecordPTTestInput{CadetID: "c1", TestDate: "2026-10-01", MileTime: "fast"}, true, 0, 0},
		{"bad date", RecordPTTestInput{CadetID: "c1", TestDate: "10/01/2026"}, true, 0, 0},
		{"negative reps", RecordPTTestInput{CadetID: "c1", TestDate: "2026-10-01", SitUps: -1}, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockPTStore{byID: map[string]pttest.Test{}}
			got, err := ExecuteRecordPTTest(context.Background(), tt.input, ptDeps(newMockCadetStore(cadet.Cadet{ID: "c1"}), store, nil))
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected *ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.PlankSeconds != tt.wantPlank || got.MileSeconds != tt.wantMile {
				t.Errorf("seconds = %d/%d, want %d/%d", got.PlankSeconds, got.MileSeconds, tt.wantPlank, tt.wantMile)
			}
			if _, ok := store.byID[got.ID]; !ok {
				t.Error("test not stored")
			}
		})
	}
}

// TestRecordPTTest_UnknownCadet verifies the cadet must exist.
func TestRecordPTTest_UnknownCadet(t *testing.T) {
	store := &mockPTStore{byID: map[string]pttest.Test{}}
	_, err := ExecuteRecordPTTest(context.Background(), RecordPTTestInput{CadetID: "ghost", TestDate: "2026-10-01"}, ptDeps(newMockCadetStore(), store, nil))
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestDeletePTTest verifies removal and audit.
func TestDeletePTTest(t *testing.T) {
	store := &mockPTStore{byID: map[string]pttest.Test{"pt-9": {ID: "pt-9", CadetID: "c1"}}}
	rec := &mockAudit{}
	deps := ptDeps(newMockCadetStore(), store, rec)
	if err := ExecuteDeletePTTest(context.Background(), DeletePTTestInput{TestID: "pt-9"}, deps); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.byID) != 0 || len(rec.events) != 1 {
		t.Errorf("store = %v, events = %d", store.byID, len(rec.events))
	}
	if err := ExecuteDeletePTTest(context.Background(), DeletePTTestInput{TestID: "pt-9"}, deps); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestRecordInspection verifies pass/fail grading.
func TestRecordInspection(t *testing.T) {
	store := &mockInspectionStore{}
	deps := RecordInspectionDeps{Cadets: newMockCadetStore(cadet.Cadet{ID: "c1"}), InspectionStore: store, GenerateID: seqIDs("insp")}
	for _, score := range []int{69, 70} {
		got, err := ExecuteRecordInspection(context.Background(), RecordInspectionInput{CadetID: "c1", InspectedAt: "2026-10-02", Score: score, Actor: Actor{Email: "sai@school.edu"}}, deps)
		if err != nil {
			t.Fatalf("record %d: %v", score, err)
		}
		if got.Passed != (score >= 70) || got.Inspector != "sai@school.edu" {
			t.Errorf("score %d: %+v", score, got)
		}
	}
	if _, err := ExecuteRecordInspection(context.Background(), RecordInspectionInput{CadetID: "c1", InspectedAt: "2026-10-02", Score: 101}, deps); err == nil {
		t.Error("score over 100 should fail")
	}
}

// TestEquipmentLifecycle covers create, assign and return.
func TestEquipmentLifecycle(t *testing.T) {
	store := &mockEquipmentStore{byID: map[string]equipment.Item{}}
	rec := &mockAudit{}
	deps := EquipmentDeps{EquipmentStore: store, Cadets: newMockCadetStore(cadet.Cadet{ID: "c1"}), Audit: rec, GenerateID: seqIDs("eq"), Now: fixedNow}

	if _, err := ExecuteCreateEquipment(context.Background(), CreateEquipmentInput{Name: " "}, deps); err == nil {
		t.Error("blank name should fail")
	}
	item, err := ExecuteCreateEquipment(context.Background(), CreateEquipmentInput{Name: "Service coat", Category: "Uniform", Size: "M"}, deps)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Condition != equipment.ConditionGood || item.Category != equipment.CategoryUniform {
		t.Errorf("defaults = %+v", item)
	}

	if _, err := ExecuteAssignEquipment(context.Background(), AssignEquipmentInput{ItemID: item.ID, CadetID: "ghost"}, deps); err == nil {
		t.Error("unknown cadet should fail")
	}
	item, err = ExecuteAssignEquipment(context.Background(), AssignEquipmentInput{ItemID: item.ID, CadetID: "c1"}, deps)
	if err != nil || item.AssignedCadetID != "c1" || !item.AssignedAt.Equal(testNow) {
		t.Fatalf("assign: %+v %v", item, err)
	}
	if _, err := ExecuteAssignEquipment(context.Background(), AssignEquipmentInput{ItemID: item.ID, CadetID: "c1"}, deps); err == nil {
		t.Error("double assignment should fail")
	}

	item, err = ExecuteReturnEquipment(context.Background(), ReturnEquipmentInput{ItemID: item.ID, Condition: "Fair"}, deps)
	if err != nil || item.IsAssigned() || item.Condition != equipment.ConditionFair {
		t.Fatalf("return: %+v %v", item, err)
	}
	if _, err := ExecuteReturnEquipment(context.Background(), ReturnEquipmentInput{ItemID: item.ID}, deps); err == nil {
		t.Error("returning an unassigned item should fail")
	}
	if len(rec.events) != 3 {
		t.Errorf("expected 3 audit events, got %d", len(rec.events))
	}
}

// TestServiceHours covers ownership, decimal parsing and review.
func TestServiceHours(t *testing.T) {
	store := &mockServiceStore{byID: map[string]servicehours.Record{}}
	cadets := newMockCadetStore(cadet.Cadet{ID: "c1", AccountID: "a1"}, cadet.Cadet{ID: "c2", AccountID: "a2"})
	deps := ServiceHoursDeps{ServiceStore: store, Cadets: cadets, GenerateID: seqIDs("svc"), Now: fixedNow}
	self := Actor{AccountID: "a1", Role: account.RoleCadet}

	_, err := ExecuteLogServiceHours(context.Background(), LogServiceHoursInput{CadetID: "c2", ServiceDate: "2026-10-03", Organization: "Food bank", Hours: "2", Actor: self}, deps)
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	for _, hours := range []string{"0", "24.5", "two"} {
		if _, err := ExecuteLogServiceHours(context.Background(), LogServiceHoursInput{CadetID: "c1", ServiceDate: "2026-10-03", Organization: "Food bank", Hours: hours, Actor: self}, deps); err == nil {
			t.Errorf("hours %q should fail", hours)
		}
	}
	r, err := ExecuteLogServiceHours(context.Background(), LogServiceHoursInput{CadetID: "c1", ServiceDate: "2026-10-03", Organization: "Food bank", Hours: "2.5", Actor: self}, deps)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if r.Status != servicehours.StatusPending || !r.Hours.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("record = %+v", r)
	}

	staff := Actor{AccountID: "i1", Email: "ai@school.edu", Role: account.RoleInstructor}
	r, err = ExecuteReviewServiceHours(context.Background(), ReviewServiceHoursInput{RecordID: r.ID, Decision: "Approved", Actor: staff}, deps)
	if err != nil || r.Status != servicehours.StatusApproved || r.ReviewedBy != "ai@school.edu" {
		t.Fatalf("review: %+v %v", r, err)
	}
	if _, err := ExecuteReviewServiceHours(context.Background(), ReviewServiceHoursInput{RecordID: r.ID, Decision: "rejected", Actor: staff}, deps); err == nil {
		t.Error("second review should fail")
	}
}
