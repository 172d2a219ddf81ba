package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"jrotc/internal/adapters/metrics"
	accountStore "jrotc/internal/adapters/storage/account"
	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
)

// ChangePasswordInput carries the signed-in account's current and chosen passwords.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
	Actor           Actor
}

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
	Audit        AuditRecorder
	Now          func() time.Time
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword re-checks the current password and stores the new one.
// PRE: AccountID names an active account
// POST: Password replaced; PasswordChangeRequired and the failed-login count are cleared
// INVARIANT: A wrong current password counts toward the same lockout as a failed login
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.AccountID == "" || input.CurrentPassword == "" || input.NewPassword == "" {
		return &ValidationError{Message: "current and new password are required"}
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if errors.Is(err, accountStore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := deps.Now()
	switch {
	case acct.IsDisabled():
		return ErrAccountDisabled
	case acct.IsLocked(now):
		metrics.AuthEvents.WithLabelValues("blocked").Inc()
		return ErrAccountLocked
	}

	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event_save_failed", "account_id", acct.ID, "err", err)
		}
		slog.Info("auth_event", "event", "password_change_failed", "account_id", acct.ID, "failed_logins", acct.FailedLogins)
		metrics.AuthEvents.WithLabelValues("failure").Inc()
		if acct.IsLocked(now) {
			return ErrAccountLocked
		}
		return ErrCurrentPasswordWrong
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return invalid(err)
	}
	acct.PasswordChangeRequired = false
	acct.ResetFailedLogins()

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategorySecurity, audit.ActionUpdate, now).
		WithResource("account", acct.ID).
		WithDescription("changed own password"))

	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	return nil
}
