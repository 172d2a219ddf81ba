package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"jrotc/internal/domain/audit"
)

// AuditRecorder is the audit store subset orchestrators write to.
type AuditRecorder interface {
	Save(ctx context.Context, event audit.Event) error
}

// Actor identifies who triggered an operation.
type Actor struct {
	AccountID string
	Email     string
	Role      string
	IP        string
}

// newAudit starts an event attributed to actor.
func newAudit(actor Actor, category audit.Category, action audit.Action, now time.Time) audit.Event {
	return audit.NewEvent(actor.AccountID, actor.Email, category, action, now).WithIP(actor.IP)
}

// recordAudit saves ev and logs, rather than returns, a failure.
// A nil recorder is allowed.
func recordAudit(ctx context.Context, rec AuditRecorder, ev audit.Event) {
	if rec == nil {
		return
	}
	if err := rec.Save(ctx, ev); err != nil {
		slog.Error("audit_save_failed", "category", ev.Category, "action", ev.Action, "err", err)
	}
}
