package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"jrotc/internal/adapters/http/middleware"
	"jrotc/internal/application/orchestrators"
	"jrotc/internal/application/projections"
	domainAccount "jrotc/internal/domain/account"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 4<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// errorBody is the JSON shape of every client-visible error.
type errorBody struct {
	Error    string `json:"error"`
	Problems any    `json:"problems,omitempty"`
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps orchestrator and projection errors to HTTP statuses.
// Anything unrecognised is logged and reported as a 500.
func writeError(w http.ResponseWriter, err error) {
	var ve *orchestrators.ValidationError
	switch {
	case errors.As(err, &ve):
		body := errorBody{Error: ve.Error()}
		if len(ve.Problems) > 0 {
			body.Problems = ve.Problems
		}
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, orchestrators.ErrNotFound), errors.Is(err, projections.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, orchestrators.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists), errors.Is(err, orchestrators.ErrCadetHasAccount):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, orchestrators.ErrAccountLocked),
		errors.Is(err, orchestrators.ErrAccountDisabled),
		errors.Is(err, orchestrators.ErrPendingActivation):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, orchestrators.ErrCurrentPasswordWrong),
		errors.Is(err, orchestrators.ErrNewPasswordSame),
		errors.Is(err, orchestrators.ErrCannotDisableSelf):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}

// requireSession returns the session or writes 401.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		slog.Warn("auth_denied", "path", r.URL.Path, "reason", "no session")
		writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
		return middleware.Session{}, false
	}
	return sess, true
}

// requireRole checks the session for one of roles and returns the session.
// Returns false if the request should not proceed.
func requireRole(w http.ResponseWriter, r *http.Request, roles ...string) (middleware.Session, bool) {
	sess, ok := requireSession(w, r)
	if !ok {
		return sess, false
	}
	for _, role := range roles {
		if sess.Role == role {
			return sess, true
		}
	}
	slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "role", sess.Role, "required", roles)
	writeErrorMessage(w, http.StatusForbidden, "Forbidden")
	return middleware.Session{}, false
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return requireRole(w, r, domainAccount.RoleAdmin)
}

func requireStaff(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	return requireRole(w, r, domainAccount.RoleAdmin, domainAccount.RoleInstructor)
}

// actorFrom builds the audit actor for the session behind r.
func actorFrom(r *http.Request, sess middleware.Session) orchestrators.Actor {
	return orchestrators.Actor{
		AccountID: sess.AccountID,
		Email:     sess.Email,
		Role:      sess.Role,
		IP:        middleware.ClientIP(r),
	}
}

// auditRecorder returns the audit store, or nil so recording is skipped.
func auditRecorder() orchestrators.AuditRecorder {
	if stores.AuditStore == nil {
		return nil
	}
	return stores.AuditStore
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseDateParam(s string) (time.Time, error) {
	return time.Parse(orchestrators.DateLayout, s)
}

// handleHealthz reports liveness.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
