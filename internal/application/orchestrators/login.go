package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"jrotc/internal/adapters/metrics"
	"jrotc/internal/domain/account"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID              string
	Email                  string
	Role                   string
	PasswordChangeRequired bool
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrAccountDisabled    = errors.New("account has been disabled")
	ErrPendingActivation  = errors.New("account is pending activation; check your email for the activation link")
)

// ExecuteLogin validates credentials and returns account info for session creation.
// PRE: Valid email and password provided
// POST: Returns account info on success, records failed login on failure
// INVARIANT: Account must not be locked, disabled or pending activation
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		metrics.AuthEvents.WithLabelValues("failure").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		metrics.AuthEvents.WithLabelValues("failure").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	now := deps.Now()
	var blocked error
	switch {
	case acct.IsPendingActivation():
		blocked = ErrPendingActivation
	case acct.IsDisabled():
		blocked = ErrAccountDisabled
	case acct.IsLocked(now):
		blocked = ErrAccountLocked
	}
	if blocked != nil {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", acct.Status)
		metrics.AuthEvents.WithLabelValues("blocked").Inc()
		return LoginResult{}, blocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event_save_failed", "email", email, "err", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		metrics.AuthEvents.WithLabelValues("failure").Inc()
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event_save_failed", "email", email, "err", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "role", acct.Role)
	metrics.AuthEvents.WithLabelValues("success").Inc()

	return LoginResult{
		AccountID:              acct.ID,
		Email:                  acct.Email,
		Role:                   acct.Role,
		PasswordChangeRequired: acct.PasswordChangeRequired,
	}, nil
}
