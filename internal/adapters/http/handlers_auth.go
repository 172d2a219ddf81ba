package web

import (
	"errors"
	"log/slog"
	"net/http"

	"jrotc/internal/adapters/http/middleware"
	accountStore "jrotc/internal/adapters/storage/account"
	"jrotc/internal/application/orchestrators"
	domainAccount "jrotc/internal/domain/account"
)

// sessionView is the JSON shape returned after login and by GET /api/session.
type sessionView struct {
	AccountID              string `json:"account_id"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	PasswordChangeRequired bool   `json:"password_change_required"`
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role, result.PasswordChangeRequired)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionView{
		AccountID:              result.AccountID,
		Email:                  result.Email,
		Role:                   result.Role,
		PasswordChangeRequired: result.PasswordChangeRequired,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession handles GET /api/session
func handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView{
		AccountID:              sess.AccountID,
		Email:                  sess.Email,
		Role:                   sess.Role,
		PasswordChangeRequired: sess.PasswordChangeRequired,
	})
}

// handleChangePassword handles POST /api/password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		writeErrorMessage(w, http.StatusBadRequest, "new passwords do not match")
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
		Actor:           actorFrom(r, sess),
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore, Audit: auditRecorder(), Now: timeNow})
	if errors.Is(err, orchestrators.ErrAccountLocked) {
		n := sessions.DeleteAccount(sess.AccountID)
		slog.Warn("auth_event", "event", "sessions_revoked", "account_id", sess.AccountID, "reason", "locked", "count", n)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sess.PasswordChangeRequired = false
		sessions.Update(cookie.Value, sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleActivate handles POST /api/activate
func handleActivate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	accountID, err := orchestrators.ExecuteActivateAccount(r.Context(), orchestrators.ActivateAccountInput{
		Token:    input.Token,
		Password: input.Password,
	}, orchestrators.ActivateAccountDeps{
		AccountStore: stores.AccountStore,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"account_id": accountID})
}

// handleCompletePasswordReset handles POST /api/password-reset
func handleCompletePasswordReset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	err := orchestrators.ExecuteCompletePasswordReset(r.Context(), orchestrators.CompletePasswordResetInput{
		Token:    input.Token,
		Password: input.Password,
	}, passwordResetDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func passwordResetDeps() orchestrators.PasswordResetDeps {
	return orchestrators.PasswordResetDeps{
		AccountStore: stores.AccountStore,
		Sender:       config.Sender,
		Audit:        auditRecorder(),
		BaseURL:      config.BaseURL,
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

// accountView strips the password hash from an account.
type accountView struct {
	ID                     string `json:"id"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	Status                 string `json:"status"`
	PasswordChangeRequired bool   `json:"password_change_required"`
	Locked                 bool   `json:"locked"`
}

func toAccountView(a domainAccount.Account) accountView {
	return accountView{
		ID:                     a.ID,
		Email:                  a.Email,
		Role:                   a.Role,
		Status:                 a.Status,
		PasswordChangeRequired: a.PasswordChangeRequired,
		Locked:                 a.IsLocked(timeNow()),
	}
}

// handleListAccounts handles GET /api/accounts
func handleListAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	filter := accountStore.ListFilter{
		Limit:  1000,
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
	}
	accounts, err := stores.AccountStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountView(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateAccount handles POST /api/accounts.
// With cadet_id set it creates a pending cadet login and sends the activation email;
// otherwise it creates a staff account that must change its password on first login.
func handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var input struct {
		CadetID  string `json:"cadet_id"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ctx := r.Context()

	if input.CadetID != "" {
		result, err := orchestrators.ExecuteCreateCadetAccount(ctx, orchestrators.CreateCadetAccountInput{
			CadetID: input.CadetID,
			Actor:   actorFrom(r, sess),
		}, orchestrators.CreateCadetAccountDeps{
			AccountStore: stores.AccountStore,
			CadetStore:   stores.CadetStore,
			Sender:       config.Sender,
			Audit:        auditRecorder(),
			BaseURL:      config.BaseURL,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"account_id":      result.AccountID,
			"status":          domainAccount.StatusPendingActivation,
			"activation_link": result.ActivationLink,
			"email_sent":      result.EmailSent,
		})
		return
	}

	if input.Role == domainAccount.RoleCadet {
		writeErrorMessage(w, http.StatusBadRequest, "cadet logins are created from the cadet record (cadet_id)")
		return
	}
	id, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:                  input.Email,
		Password:               input.Password,
		Role:                   input.Role,
		PasswordChangeRequired: true,
	}, orchestrators.CreateAccountDeps{
		AccountStore: stores.AccountStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", input.Role, "by", sess.Email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"account_id": id,
		"status":     domainAccount.StatusActive,
	})
}

// handleAdminResetPassword handles POST /api/accounts/{id}/reset-password
func handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	result, err := orchestrators.ExecuteRequestPasswordReset(r.Context(), orchestrators.RequestPasswordResetInput{
		AccountID: r.PathValue("id"),
		Actor:     actorFrom(r, sess),
	}, passwordResetDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reset_link": result.ResetLink,
		"email_sent": result.EmailSent,
	})
}

// handleAccountStatus handles POST /api/accounts/{id}/status.
// Disabling revokes the account's live sessions.
func handleAccountStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	var input struct {
		Disabled bool `json:"disabled"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	acct, err := orchestrators.ExecuteToggleAccountStatus(r.Context(), orchestrators.ToggleAccountStatusInput{
		AccountID: r.PathValue("id"),
		Disable:   input.Disabled,
		Actor:     actorFrom(r, sess),
	}, orchestrators.ToggleAccountStatusDeps{
		AccountStore: stores.AccountStore,
		CadetStore:   stores.CadetStore,
		Audit:        auditRecorder(),
		Now:          timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if acct.IsDisabled() {
		if n := sessions.DeleteAccount(acct.ID); n > 0 {
			slog.Info("auth_event", "event", "sessions_revoked", "account_id", acct.ID, "count", n)
		}
	}
	writeJSON(w, http.StatusOK, toAccountView(acct))
}
