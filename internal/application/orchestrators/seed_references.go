package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
)

// ReferenceStoreForSeed defines the store interface needed by SeedReferences.
type ReferenceStoreForSeed interface {
	ListRoles(ctx context.Context) ([]cadet.Role, error)
	SaveRole(ctx context.Context, role cadet.Role) error
	ListValues(ctx context.Context, kind string) ([]string, error)
	ReplaceValues(ctx context.Context, kind string, values []string) error
}

// ExecuteSeedReferences fills empty reference lists with the defaults.
// PRE: Database is initialized
// POST: Every reference kind and the role list are non-empty
// INVARIANT: Lists that already have entries are left untouched
func ExecuteSeedReferences(ctx context.Context, store ReferenceStoreForSeed) error {
	roles, err := store.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	if len(roles) == 0 {
		for _, r := range cadet.DefaultRoles {
			if err := store.SaveRole(ctx, r); err != nil {
				return fmt.Errorf("seed role %s: %w", r.ID, err)
			}
		}
		slog.Info("references_seeded", "kind", "role", "count", len(cadet.DefaultRoles))
	}

	for _, kind := range cadet.ValidKinds {
		values, err := store.ListValues(ctx, kind)
		if err != nil {
			return fmt.Errorf("list %s: %w", kind, err)
		}
		if len(values) > 0 {
			continue
		}
		defaults := cadet.DefaultReferenceValues(kind)
		if err := store.ReplaceValues(ctx, kind, defaults); err != nil {
			return fmt.Errorf("seed %s: %w", kind, err)
		}
		slog.Info("references_seeded", "kind", kind, "count", len(defaults))
	}
	return nil
}

// UpdateReferencesInput replaces one editable reference list.
type UpdateReferencesInput struct {
	Kind   string
	Values []string
	Actor  Actor
}

// UpdateReferencesDeps holds dependencies for UpdateReferences.
type UpdateReferencesDeps struct {
	ReferenceStore ReferenceStoreForSeed
	Audit          AuditRecorder
	Now            func() time.Time
}

// ExecuteUpdateReferences replaces a reference list in the given order.
// PRE: Kind is one of cadet.ValidKinds
// POST: Blank and duplicate values are dropped
func ExecuteUpdateReferences(ctx context.Context, input UpdateReferencesInput, deps UpdateReferencesDeps) error {
	if !cadet.IsValidKind(input.Kind) {
		return &ValidationError{Message: "unknown reference kind: " + input.Kind}
	}
	seen := make(map[string]bool, len(input.Values))
	values := make([]string, 0, len(input.Values))
	for _, v := range input.Values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	if len(values) == 0 {
		return &ValidationError{Message: "at least one value is required"}
	}
	if err := deps.ReferenceStore.ReplaceValues(ctx, input.Kind, values); err != nil {
		return err
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryCadet, audit.ActionUpdate, deps.Now()).
		WithResource("reference", input.Kind).
		WithDescription(strings.Join(values, ", ")))
	return nil
}
