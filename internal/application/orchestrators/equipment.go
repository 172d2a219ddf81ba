package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/equipment"
)

// EquipmentStore defines the store interface needed by the equipment orchestrators.
type EquipmentStore interface {
	GetByID(ctx context.Context, id string) (equipment.Item, error)
	Save(ctx context.Context, i equipment.Item) error
}

// EquipmentDeps holds dependencies for the equipment orchestrators.
type EquipmentDeps struct {
	EquipmentStore EquipmentStore
	Cadets         CadetLookup
	Audit          AuditRecorder
	GenerateID     func() string
	Now            func() time.Time
}

// CreateEquipmentInput carries a new inventory item.
type CreateEquipmentInput struct {
	Name         string
	Category     string
	SerialNumber string
	Size         string
	Condition    string
	Notes        string
	Actor        Actor
}

// ExecuteCreateEquipment adds an item to the inventory.
// POST: Item stored unassigned; Condition defaults to good
func ExecuteCreateEquipment(ctx context.Context, input CreateEquipmentInput, deps EquipmentDeps) (equipment.Item, error) {
	item := equipment.Item{
		ID:           deps.GenerateID(),
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.ToLower(strings.TrimSpace(input.Category)),
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		Size:         strings.TrimSpace(input.Size),
		Condition:    strings.ToLower(strings.TrimSpace(input.Condition)),
		Notes:        input.Notes,
	}
	if item.Condition == "" {
		item.Condition = equipment.ConditionGood
	}
	if item.Category == "" {
		item.Category = equipment.CategoryOther
	}
	if err := item.Validate(); err != nil {
		return equipment.Item{}, invalid(err)
	}
	if err := deps.EquipmentStore.Save(ctx, item); err != nil {
		return equipment.Item{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryEquipment, audit.ActionCreate, deps.Now()).
		WithResource("equipment", item.ID).
		WithDescription(item.Name))
	return item, nil
}

// AssignEquipmentInput issues an item to a cadet.
type AssignEquipmentInput struct {
	ItemID  string
	CadetID string
	Actor   Actor
}

// ExecuteAssignEquipment issues an available item to an existing cadet.
// PRE: Item is available; cadet exists
// POST: AssignedCadetID and AssignedAt set
func ExecuteAssignEquipment(ctx context.Context, input AssignEquipmentInput, deps EquipmentDeps) (equipment.Item, error) {
	item, err := deps.EquipmentStore.GetByID(ctx, input.ItemID)
	if err != nil {
		return equipment.Item{}, ErrNotFound
	}
	if _, err := deps.Cadets.GetByID(ctx, input.CadetID); err != nil {
		return equipment.Item{}, &ValidationError{Message: "unknown cadet"}
	}
	now := deps.Now()
	if err := item.Assign(input.CadetID, now); err != nil {
		return equipment.Item{}, invalid(err)
	}
	if err := deps.EquipmentStore.Save(ctx, item); err != nil {
		return equipment.Item{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryEquipment, audit.ActionUpdate, now).
		WithResource("equipment", item.ID).
		WithDescription("assigned to cadet "+input.CadetID))
	slog.Info("equipment_assigned", "item_id", item.ID, "cadet_id", input.CadetID)
	return item, nil
}

// ReturnEquipmentInput takes an item back, optionally with a new condition.
type ReturnEquipmentInput struct {
	ItemID    string
	Condition string
	Actor     Actor
}

// ExecuteReturnEquipment clears an item's assignment.
// PRE: Item is assigned
func ExecuteReturnEquipment(ctx context.Context, input ReturnEquipmentInput, deps EquipmentDeps) (equipment.Item, error) {
	item, err := deps.EquipmentStore.GetByID(ctx, input.ItemID)
	if err != nil {
		return equipment.Item{}, ErrNotFound
	}
	from := item.AssignedCadetID
	if err := item.Return(strings.ToLower(strings.TrimSpace(input.Condition))); err != nil {
		return equipment.Item{}, invalid(err)
	}
	if err := deps.EquipmentStore.Save(ctx, item); err != nil {
		return equipment.Item{}, err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryEquipment, audit.ActionUpdate, deps.Now()).
		WithResource("equipment", item.ID).
		WithDescription("returned by cadet "+from))
	slog.Info("equipment_returned", "item_id", item.ID, "cadet_id", from, "condition", item.Condition)
	return item, nil
}
