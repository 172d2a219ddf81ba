package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MinPasswordLength = 12
	bcryptCost        = 12
)

// Role constants
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleCadet      = "cadet"
)

// Account status constants
const (
	StatusActive            = "active"
	StatusDisabled          = "disabled"
	StatusPendingActivation = "pending_activation"
)

// Token purposes
const (
	PurposeActivation    = "activation"
	PurposePasswordReset = "password_reset"
)

// Lockout policy
const (
	MaxFailedLogins = 5
	LockoutDuration = 15 * time.Minute
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleInstructor, RoleCadet}

// Domain errors
var (
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: admin, instructor, cadet")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrTokenExpired     = errors.New("link has expired")
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrAlreadyActivated = errors.New("account is already activated")
	ErrNotPending       = errors.New("account is not pending activation")
	ErrAlreadyDisabled  = errors.New("account is already disabled")
	ErrAlreadyEnabled   = errors.New("account is already enabled")
)

// Account is a login identity.
type Account struct {
	ID                     string
	Email                  string
	PasswordHash           string
	Role                   string
	Status                 string
	CreatedAt              time.Time
	FailedLogins           int
	LockedUntil            time.Time
	PasswordChangeRequired bool
}

// Token is a single-use, time-limited secret for activation or password reset.
type Token struct {
	ID        string
	AccountID string
	Token     string
	Purpose   string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if !IsValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is at least MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
func (a *Account) IsLocked(now time.Time) bool {
	return !a.LockedUntil.IsZero() && now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after MaxFailedLogins.
// POST: FailedLogins incremented; LockedUntil set once the limit is reached
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// IsStaff returns true for admins and instructors.
func (a *Account) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleInstructor
}

// IsDisabled returns true if an admin has disabled the account.
func (a *Account) IsDisabled() bool {
	return a.Status == StatusDisabled
}

// IsPendingActivation returns true if the account has not been activated yet.
func (a *Account) IsPendingActivation() bool {
	return a.Status == StatusPendingActivation
}

// Disable blocks further logins.
// PRE: Account is not disabled
// POST: Status is disabled
func (a *Account) Disable() error {
	if a.Status == StatusDisabled {
		return ErrAlreadyDisabled
	}
	a.Status = StatusDisabled
	return nil
}

// Enable re-allows logins for a disabled account.
// PRE: Account is disabled
// POST: Status is active
func (a *Account) Enable() error {
	if a.Status != StatusDisabled {
		return ErrAlreadyEnabled
	}
	a.Status = StatusActive
	a.ResetFailedLogins()
	return nil
}

// Activate transitions the account from pending to active.
// PRE: Account is in pending_activation status
// POST: Status is set to active
func (a *Account) Activate() error {
	if a.Status == StatusActive {
		return ErrAlreadyActivated
	}
	if a.Status != StatusPendingActivation {
		return ErrNotPending
	}
	a.Status = StatusActive
	return nil
}

// Check reports why the token cannot be redeemed for purpose, or nil.
func (t *Token) Check(purpose string, now time.Time) error {
	if t.Used || t.Purpose != purpose {
		return ErrTokenInvalid
	}
	if now.After(t.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// IsValidRole reports whether role is a known account role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
