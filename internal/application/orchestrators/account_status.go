package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
)

// ToggleAccountStatusInput carries input for enabling or disabling an account.
type ToggleAccountStatusInput struct {
	AccountID string
	Disable   bool
	Actor     Actor
}

// ToggleAccountStatusDeps holds dependencies for ToggleAccountStatus.
type ToggleAccountStatusDeps struct {
	AccountStore interface {
		GetByID(ctx context.Context, id string) (account.Account, error)
		Save(ctx context.Context, a account.Account) error
	}
	CadetStore interface {
		GetByAccountID(ctx context.Context, accountID string) (cadet.Cadet, error)
		Save(ctx context.Context, c cadet.Cadet) error
	}
	Audit AuditRecorder
	Now   func() time.Time
}

var ErrCannotDisableSelf = errors.New("you cannot disable your own account")

// ExecuteToggleAccountStatus disables or re-enables an account.
// PRE: Actor is an admin; target is not the actor when disabling
// POST: Account status updated; a linked cadet follows (inactive when disabled, active when enabled)
func ExecuteToggleAccountStatus(ctx context.Context, input ToggleAccountStatusInput, deps ToggleAccountStatusDeps) (account.Account, error) {
	if input.Disable && input.AccountID == input.Actor.AccountID {
		return account.Account{}, ErrCannotDisableSelf
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return account.Account{}, ErrNotFound
	}

	if input.Disable {
		err = acct.Disable()
	} else {
		err = acct.Enable()
	}
	if err != nil {
		return account.Account{}, invalid(err)
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	if c, err := deps.CadetStore.GetByAccountID(ctx, acct.ID); err == nil {
		var changeErr error
		if input.Disable {
			changeErr = c.Deactivate()
		} else {
			changeErr = c.Reactivate()
		}
		if changeErr == nil {
			if err := deps.CadetStore.Save(ctx, c); err != nil {
				return account.Account{}, err
			}
		}
	}

	action := "enabled"
	if input.Disable {
		action = "disabled"
	}
	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryAccount, audit.ActionUpdate, deps.Now()).
		WithSeverity(audit.SeverityWarning).
		WithResource("account", acct.ID).
		WithDescription("account "+action+": "+acct.Email))

	slog.Info("auth_event", "event", "account_"+action, "account_id", acct.ID, "actor", input.Actor.AccountID)
	return acct, nil
}
