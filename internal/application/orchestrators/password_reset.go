package orchestrators

import (
	"context"
	"log/slog"
	"time"

	emailAdapter "jrotc/internal/adapters/email"
	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
)

// AccountStoreForReset defines the store interface needed by the password reset orchestrators.
type AccountStoreForReset interface {
	TokenStore
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// RequestPasswordResetInput carries input for an admin-initiated reset.
type RequestPasswordResetInput struct {
	AccountID string
	Actor     Actor
}

// RequestPasswordResetResult reports the reset link and whether it was emailed.
type RequestPasswordResetResult struct {
	ResetLink string
	EmailSent bool
}

// PasswordResetDeps holds dependencies for both reset orchestrators.
type PasswordResetDeps struct {
	AccountStore AccountStoreForReset
	Sender       emailAdapter.Sender
	Audit        AuditRecorder
	BaseURL      string
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRequestPasswordReset issues a one-hour reset token and emails the link.
// PRE: Account exists and is not disabled
// POST: Earlier reset tokens for the account are invalidated
func ExecuteRequestPasswordReset(ctx context.Context, input RequestPasswordResetInput, deps PasswordResetDeps) (RequestPasswordResetResult, error) {
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return RequestPasswordResetResult{}, ErrNotFound
	}
	if acct.IsDisabled() {
		return RequestPasswordResetResult{}, ErrAccountDisabled
	}

	now := deps.Now()
	tok, err := issueToken(ctx, deps.AccountStore, acct.ID, account.PurposePasswordReset, PasswordResetTokenTTL, deps.GenerateID, now)
	if err != nil {
		return RequestPasswordResetResult{}, err
	}

	result := RequestPasswordResetResult{ResetLink: tokenLink(deps.BaseURL, "/password-reset", tok.Token)}
	result.EmailSent = sendMessage(ctx, deps.Sender, func() (emailAdapter.SendRequest, error) {
		return emailAdapter.PasswordResetMessage(acct.Email, result.ResetLink)
	})

	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategorySecurity, audit.ActionUpdate, now).
		WithSeverity(audit.SeverityWarning).
		WithResource("account", acct.ID).
		WithDescription("password reset requested for "+acct.Email))

	slog.Info("auth_event", "event", "password_reset_requested", "account_id", acct.ID, "email_sent", result.EmailSent)
	return result, nil
}

// CompletePasswordResetInput carries the reset token and the new password.
type CompletePasswordResetInput struct {
	Token    string
	Password string
}

// ExecuteCompletePasswordReset redeems a reset token and sets the new password.
// PRE: Token is unused, unexpired and of password_reset purpose
// POST: Password replaced; lockout and forced-change flags cleared; token marked used
func ExecuteCompletePasswordReset(ctx context.Context, input CompletePasswordResetInput, deps PasswordResetDeps) error {
	now := deps.Now()
	tok, err := redeemToken(ctx, deps.AccountStore, input.Token, account.PurposePasswordReset, now)
	if err != nil {
		return err
	}

	acct, err := deps.AccountStore.GetByID(ctx, tok.AccountID)
	if err != nil {
		return ErrNotFound
	}
	if acct.IsDisabled() {
		return ErrAccountDisabled
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return invalid(err)
	}
	acct.ResetFailedLogins()
	acct.PasswordChangeRequired = false

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	if err := deps.AccountStore.MarkTokenUsed(ctx, tok.ID); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return nil
}
