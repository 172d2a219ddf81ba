package orchestrators

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jrotc/internal/domain/account"
)

// Token lifetimes.
const (
	ActivationTokenTTL    = 72 * time.Hour
	PasswordResetTokenTTL = time.Hour
)

// TokenStore is the account store subset used to issue and redeem tokens.
type TokenStore interface {
	SaveToken(ctx context.Context, token account.Token) error
	GetToken(ctx context.Context, token string) (account.Token, error)
	MarkTokenUsed(ctx context.Context, id string) error
	InvalidateTokens(ctx context.Context, accountID, purpose string) error
}

// issueToken replaces any outstanding token of purpose for accountID with a fresh one.
// POST: exactly one unused token of purpose exists for the account
func issueToken(ctx context.Context, store TokenStore, accountID, purpose string, ttl time.Duration, generateID func() string, now time.Time) (account.Token, error) {
	if err := store.InvalidateTokens(ctx, accountID, purpose); err != nil {
		return account.Token{}, fmt.Errorf("invalidate tokens: %w", err)
	}
	tok := account.Token{
		ID:        generateID(),
		AccountID: accountID,
		Token:     generateID(),
		Purpose:   purpose,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := store.SaveToken(ctx, tok); err != nil {
		return account.Token{}, fmt.Errorf("save token: %w", err)
	}
	return tok, nil
}

// redeemToken looks up value and checks it may be used for purpose at now.
func redeemToken(ctx context.Context, store TokenStore, value, purpose string, now time.Time) (account.Token, error) {
	if strings.TrimSpace(value) == "" {
		return account.Token{}, invalid(account.ErrTokenInvalid)
	}
	tok, err := store.GetToken(ctx, value)
	if err != nil {
		return account.Token{}, invalid(account.ErrTokenInvalid)
	}
	if err := tok.Check(purpose, now); err != nil {
		return account.Token{}, invalid(err)
	}
	return tok, nil
}

// tokenLink builds baseURL + path + ?token=value.
func tokenLink(baseURL, path, value string) string {
	return strings.TrimRight(baseURL, "/") + path + "?token=" + url.QueryEscape(value)
}
