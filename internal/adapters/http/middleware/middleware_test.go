package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestSessionStore_Expiry verifies sessions expire after SessionTTL.
func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	ss := NewSessionStore()
	ss.now = func() time.Time { return now }

	token, err := ss.Create("a1", "sai@school.edu", "admin", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := ss.Get(token); !ok {
		t.Fatal("expected live session")
	}
	now = now.Add(SessionTTL + time.Minute)
	if _, ok := ss.Get(token); ok {
		t.Error("expected session to expire")
	}
}

// TestSessionStore_DeleteAccount verifies every session of an account is revoked.
func TestSessionStore_DeleteAccount(t *testing.T) {
	ss := NewSessionStore()
	t1, _ := ss.Create("a1", "x@school.edu", "cadet", false)
	t2, _ := ss.Create("a1", "x@school.edu", "cadet", false)
	t3, _ := ss.Create("a2", "y@school.edu", "cadet", false)

	if n := ss.DeleteAccount("a1"); n != 2 {
		t.Errorf("DeleteAccount = %d, want 2", n)
	}
	for _, tok := range []string{t1, t2} {
		if _, ok := ss.Get(tok); ok {
			t.Error("a1 session survived")
		}
	}
	if _, ok := ss.Get(t3); !ok {
		t.Error("a2 session was removed")
	}
}

// TestAuthAndRequireRole verifies the cookie is resolved and roles are enforced.
func TestAuthAndRequireRole(t *testing.T) {
	ss := NewSessionStore()
	adminToken, _ := ss.Create("a1", "sai@school.edu", "admin", false)
	cadetToken, _ := ss.Create("c1", "cadet@school.edu", "cadet", false)
	handler := Auth(ss)(RequireRole("admin", "instructor")(okHandler()))

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no cookie", "", http.StatusUnauthorized},
		{"unknown token", "bogus", http.StatusUnauthorized},
		{"wrong role", cadetToken, http.StatusForbidden},
		{"allowed", adminToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/audit", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// TestRateLimiter_Refill verifies the bucket empties and refills per interval.
func TestRateLimiter_Refill(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: make(map[string]*visitor), rate: 2, interval: time.Second, now: func() time.Time { return now }}

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}
	now = now.Add(1500 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("bucket should refill after the interval")
	}
}

// TestRateLimiter_Sweep verifies idle visitors are forgotten.
func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	rl := &RateLimiter{visitors: make(map[string]*visitor), rate: 1, interval: time.Second, now: func() time.Time { return now }}
	rl.Allow("10.0.0.1")
	now = now.Add(10 * time.Minute)
	rl.sweep(5 * time.Minute)
	if len(rl.visitors) != 0 {
		t.Errorf("visitors = %d, want 0", len(rl.visitors))
	}
}

// TestClientIP verifies the port is stripped from RemoteAddr.
func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Errorf("ClientIP = %q", got)
	}
	req.RemoteAddr = "pipe"
	if got := ClientIP(req); got != "pipe" {
		t.Errorf("ClientIP = %q", got)
	}
}

// TestCSRF_JSONExempt verifies JSON posts bypass the token check while form posts are rejected.
func TestCSRF_JSONExempt(t *testing.T) {
	key := []byte(strings.Repeat("k", 32))
	handler := CSRF(key, false, []string{"localhost:8080"})(okHandler())

	jsonReq := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{}`))
	jsonReq.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, jsonReq)
	if rr.Code != http.StatusOK {
		t.Errorf("json status = %d, want 200", rr.Code)
	}

	formReq := httptest.NewRequest("POST", "/api/login", strings.NewReader("a=b"))
	formReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, formReq)
	if rr.Code != http.StatusForbidden {
		t.Errorf("form status = %d, want 403", rr.Code)
	}
}

// TestSecurityHeaders verifies headers are set on every response.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}
