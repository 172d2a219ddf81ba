package equipment_test

import (
	"testing"
	"time"

	"jrotc/internal/domain/equipment"
)

// TestItemValidation tests validation of Item.
func TestItemValidation(t *testing.T) {
	tests := []struct {
		name string
		item equipment.Item
		want error
	}{
		{"valid", equipment.Item{Name: "Service dress coat", Condition: equipment.ConditionGood}, nil},
		{"blank name", equipment.Item{Name: "  ", Condition: equipment.ConditionGood}, equipment.ErrNameRequired},
		{"bad condition", equipment.Item{Name: "Rifle", Condition: "broken"}, equipment.ErrInvalidCondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.item.Validate(); err != tt.want {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestItemAssignReturn verifies the assignment lifecycle.
func TestItemAssignReturn(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	item := equipment.Item{ID: "e1", Name: "Drill rifle", Condition: equipment.ConditionGood}

	if !item.IsAvailable() {
		t.Fatal("new item should be available")
	}
	if err := item.Assign("", now); err != equipment.ErrCadetRequired {
		t.Errorf("expected ErrCadetRequired, got %v", err)
	}
	if err := item.Assign("c1", now); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := item.Assign("c2", now); err != equipment.ErrAlreadyAssigned {
		t.Errorf("expected ErrAlreadyAssigned, got %v", err)
	}
	if err := item.Return("destroyed"); err != equipment.ErrInvalidCondition {
		t.Errorf("expected ErrInvalidCondition, got %v", err)
	}
	if item.Condition != equipment.ConditionGood || !item.IsAssigned() {
		t.Error("failed return must leave item unchanged")
	}
	if err := item.Return(equipment.ConditionFair); err != nil {
		t.Fatalf("return: %v", err)
	}
	if item.IsAssigned() || item.Condition != equipment.ConditionFair || !item.AssignedAt.IsZero() {
		t.Errorf("unexpected state after return: %+v", item)
	}
	if err := item.Return(""); err != equipment.ErrNotAssigned {
		t.Errorf("expected ErrNotAssigned, got %v", err)
	}
}

// TestItemAssign_Retired verifies retired items cannot be issued.
func TestItemAssign_Retired(t *testing.T) {
	item := equipment.Item{Name: "Old beret", Condition: equipment.ConditionRetired}
	if item.IsAvailable() {
		t.Error("retired item should not be available")
	}
	if err := item.Assign("c1", time.Now()); err != equipment.ErrRetired {
		t.Errorf("expected ErrRetired, got %v", err)
	}
}
