package projections

import (
	"context"
	"time"

	cadetStore "jrotc/internal/adapters/storage/cadet"
	equipmentStore "jrotc/internal/adapters/storage/equipment"
	"jrotc/internal/application/listutil"
)

// EquipmentSortKeys are the sort keys accepted by QueryGetEquipmentList.
var EquipmentSortKeys = []string{"name", "category", "size", "condition", "assigned_to", "assigned_at"}

// GetEquipmentListQuery carries filters and sort parameters.
type GetEquipmentListQuery struct {
	Category      string
	AvailableOnly bool
	Sort          string
	Dir           string
}

// EquipmentRow is one inventory line with the holder's name resolved.
type EquipmentRow struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	SerialNumber    string     `json:"serial_number"`
	Size            string     `json:"size"`
	Condition       string     `json:"condition"`
	AssignedCadetID string     `json:"assigned_cadet_id,omitempty"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	Available       bool       `json:"available"`
}

// GetEquipmentListDeps holds dependencies for GetEquipmentList.
type GetEquipmentListDeps struct {
	EquipmentStore EquipmentStore
	CadetStore     CadetStore
}

// QueryGetEquipmentList returns inventory rows sorted by the requested key.
// POST: Unassigned items sort last on assigned_to and assigned_at in both directions
func QueryGetEquipmentList(ctx context.Context, query GetEquipmentListQuery, deps GetEquipmentListDeps) ([]EquipmentRow, error) {
	items, err := deps.EquipmentStore.List(ctx, equipmentStore.ListFilter{Category: query.Category, AvailableOnly: query.AvailableOnly})
	if err != nil {
		return nil, err
	}
	cadets, err := deps.CadetStore.List(ctx, cadetStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(cadets))
	for _, c := range cadets {
		names[c.ID] = c.FullName()
	}

	rows := make([]EquipmentRow, 0, len(items))
	for _, it := range items {
		row := EquipmentRow{
			ID:              it.ID,
			Name:            it.Name,
			Category:        it.Category,
			SerialNumber:    it.SerialNumber,
			Size:            it.Size,
			Condition:       it.Condition,
			AssignedCadetID: it.AssignedCadetID,
			AssignedTo:      names[it.AssignedCadetID],
			Available:       it.IsAvailable(),
		}
		if it.IsAssigned() && !it.AssignedAt.IsZero() {
			at := it.AssignedAt
			row.AssignedAt = &at
		}
		rows = append(rows, row)
	}

	var key func(EquipmentRow) any
	switch query.Sort {
	case "category":
		key = func(r EquipmentRow) any { return r.Category }
	case "size":
		key = func(r EquipmentRow) any { return optional(r.Size) }
	case "condition":
		key = func(r EquipmentRow) any { return r.Condition }
	case "assigned_to":
		key = func(r EquipmentRow) any { return optional(r.AssignedTo) }
	case "assigned_at":
		key = func(r EquipmentRow) any { return r.AssignedAt }
	default:
		key = func(r EquipmentRow) any { return r.Name }
	}
	return listutil.SortBy(rows, key, listutil.NormalizeDir(query.Dir)), nil
}
