package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "jrotc/internal/adapters/email"
	accountStore "jrotc/internal/adapters/storage/account"
	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
)

// AccountStoreForCadetAccount defines the account store interface needed to invite cadets.
type AccountStoreForCadetAccount interface {
	TokenStore
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
}

// CadetStoreForAccount defines the cadet store interface needed to link accounts.
type CadetStoreForAccount interface {
	GetByID(ctx context.Context, id string) (cadet.Cadet, error)
	Save(ctx context.Context, c cadet.Cadet) error
}

// CreateCadetAccountInput carries input for the orchestrator.
type CreateCadetAccountInput struct {
	CadetID string
	Actor   Actor
}

// CreateCadetAccountResult reports the new account and whether the invitation was sent.
type CreateCadetAccountResult struct {
	AccountID      string
	ActivationLink string
	EmailSent      bool
}

// CreateCadetAccountDeps holds dependencies for CreateCadetAccount.
type CreateCadetAccountDeps struct {
	AccountStore AccountStoreForCadetAccount
	CadetStore   CadetStoreForAccount
	Sender       emailAdapter.Sender
	Audit        AuditRecorder
	BaseURL      string
	GenerateID   func() string
	Now          func() time.Time
}

var ErrCadetHasAccount = errors.New("cadet already has a login account")

// ExecuteCreateCadetAccount creates a pending login account for a cadet and emails an activation link.
// PRE: Cadet exists and has no linked account
// POST: Account saved as pending_activation with a 72h activation token; cadet.AccountID set
// INVARIANT: A failed email send does not roll back the account; the link is returned instead
func ExecuteCreateCadetAccount(ctx context.Context, input CreateCadetAccountInput, deps CreateCadetAccountDeps) (CreateCadetAccountResult, error) {
	c, err := deps.CadetStore.GetByID(ctx, input.CadetID)
	if err != nil {
		return CreateCadetAccountResult{}, ErrNotFound
	}
	if c.AccountID != "" {
		return CreateCadetAccountResult{}, ErrCadetHasAccount
	}
	if _, err := deps.AccountStore.GetByEmail(ctx, c.Email); err == nil {
		return CreateCadetAccountResult{}, ErrEmailAlreadyExists
	} else if !errors.Is(err, accountStore.ErrNotFound) {
		return CreateCadetAccountResult{}, err
	}

	now := deps.Now()
	acct, tok, err := createPendingAccount(ctx, deps.AccountStore, &c, deps.GenerateID, now)
	if err != nil {
		return CreateCadetAccountResult{}, err
	}
	if err := deps.CadetStore.Save(ctx, c); err != nil {
		dropPendingAccount(ctx, deps.AccountStore, acct.ID)
		return CreateCadetAccountResult{}, fmt.Errorf("link cadet: %w", err)
	}

	result := CreateCadetAccountResult{
		AccountID:      acct.ID,
		ActivationLink: tokenLink(deps.BaseURL, "/activate", tok.Token),
	}
	result.EmailSent = sendMessage(ctx, deps.Sender, func() (emailAdapter.SendRequest, error) {
		return emailAdapter.ActivationMessage(c.Email, c.FirstName, result.ActivationLink)
	})

	recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryAccount, audit.ActionCreate, now).
		WithResource("account", acct.ID).
		WithDescription("invited cadet "+c.FullName()))

	slog.Info("auth_event", "event", "cadet_account_created", "cadet_id", c.ID, "account_id", acct.ID, "email_sent", result.EmailSent)
	return result, nil
}

// ActivateAccountInput carries the activation token and the chosen password.
type ActivateAccountInput struct {
	Token    string
	Password string
}

// ActivateAccountDeps holds dependencies for ActivateAccount.
type ActivateAccountDeps struct {
	AccountStore interface {
		TokenStore
		GetByID(ctx context.Context, id string) (account.Account, error)
		Save(ctx context.Context, a account.Account) error
	}
	Now func() time.Time
}

// ExecuteActivateAccount redeems an activation token and sets the first password.
// PRE: Token is unused, unexpired and of activation purpose
// POST: Account is active with the new password; token marked used
func ExecuteActivateAccount(ctx context.Context, input ActivateAccountInput, deps ActivateAccountDeps) (string, error) {
	now := deps.Now()
	tok, err := redeemToken(ctx, deps.AccountStore, input.Token, account.PurposeActivation, now)
	if err != nil {
		return "", err
	}

	acct, err := deps.AccountStore.GetByID(ctx, tok.AccountID)
	if err != nil {
		return "", ErrNotFound
	}
	if err := acct.Activate(); err != nil {
		return "", invalid(err)
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", invalid(err)
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}
	if err := deps.AccountStore.MarkTokenUsed(ctx, tok.ID); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_activated", "account_id", acct.ID)
	return acct.ID, nil
}

// createPendingAccount saves a pending cadet account for c and issues its activation token.
// POST: c.AccountID is set; the caller persists c
func createPendingAccount(ctx context.Context, store AccountStoreForCadetAccount, c *cadet.Cadet, generateID func() string, now time.Time) (account.Account, account.Token, error) {
	acct := account.Account{
		ID:        generateID(),
		Email:     c.Email,
		Role:      account.RoleCadet,
		Status:    account.StatusPendingActivation,
		CreatedAt: now,
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, account.Token{}, invalid(err)
	}
	if err := store.Save(ctx, acct); err != nil {
		return account.Account{}, account.Token{}, fmt.Errorf("save account: %w", err)
	}
	tok, err := issueToken(ctx, store, acct.ID, account.PurposeActivation, ActivationTokenTTL, generateID, now)
	if err != nil {
		return account.Account{}, account.Token{}, err
	}
	c.AccountID = acct.ID
	return acct, tok, nil
}

// dropPendingAccount removes an account whose cadet could not be linked.
func dropPendingAccount(ctx context.Context, store AccountStoreForCadetAccount, accountID string) {
	if err := store.Delete(ctx, accountID); err != nil {
		slog.Error("pending_account_cleanup_failed", "account_id", accountID, "err", err)
	}
}

// sendMessage builds and sends one message, logging rather than returning failures.
// A nil sender counts as not sent.
func sendMessage(ctx context.Context, sender emailAdapter.Sender, build func() (emailAdapter.SendRequest, error)) bool {
	if sender == nil {
		return false
	}
	req, err := build()
	if err != nil {
		slog.Error("email_render_failed", "err", err)
		return false
	}
	if _, err := sender.Send(ctx, req); err != nil {
		slog.Error("email_send_failed", "kind", req.Kind, "to", req.To, "err", err)
		return false
	}
	return true
}
