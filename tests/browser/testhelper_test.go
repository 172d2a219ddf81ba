package browser_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	_ "modernc.org/sqlite"

	web "jrotc/internal/adapters/http"
	"jrotc/internal/adapters/email"
	"jrotc/internal/adapters/storage"
	accountStore "jrotc/internal/adapters/storage/account"
	auditStore "jrotc/internal/adapters/storage/audit"
	cadetStore "jrotc/internal/adapters/storage/cadet"
	competitionStore "jrotc/internal/adapters/storage/competition"
	equipmentStore "jrotc/internal/adapters/storage/equipment"
	inspectionStore "jrotc/internal/adapters/storage/inspection"
	ptTestStore "jrotc/internal/adapters/storage/pttest"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	"jrotc/internal/application/orchestrators"
	accountDomain "jrotc/internal/domain/account"
)

const (
	adminEmail    = "admin@test.com"
	adminPassword = "TestPass123!"
)

// testApp holds the running test server and Playwright handles.
type testApp struct {
	BaseURL string
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
	Stores  *web.Stores
	Sender  *email.NoopSender
}

// newTestApp creates a fully wired app with a temp SQLite DB and starts an HTTP server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to migrate test DB: %v", err)
	}

	acctStore := accountStore.NewSQLiteStore(db)
	refStore := cadetStore.NewSQLiteReferenceStore(db)
	stores := &web.Stores{
		AccountStore:     acctStore,
		AuditStore:       auditStore.NewSQLiteStore(db),
		CadetStore:       cadetStore.NewSQLiteStore(db),
		ReferenceStore:   refStore,
		PTTestStore:      ptTestStore.NewSQLiteStore(db),
		InspectionStore:  inspectionStore.NewSQLiteStore(db),
		EquipmentStore:   equipmentStore.NewSQLiteStore(db),
		ServiceStore:     serviceStore.NewSQLiteStore(db),
		CompetitionStore: competitionStore.NewSQLiteStore(db),
	}

	// Seed admin without PasswordChangeRequired so the API is usable straight after login
	ctx := context.Background()
	if _, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     accountDomain.RoleAdmin,
	}, orchestrators.CreateAccountDeps{
		AccountStore: acctStore,
		GenerateID:   uuid.NewString,
		Now:          time.Now,
	}); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	if err := orchestrators.ExecuteSeedReferences(ctx, refStore); err != nil {
		t.Fatalf("failed to seed references: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	web.RateLimitPerSecond = 1000
	sender := email.NewNoopSender()
	mux := web.NewMux(stores, web.Config{
		BaseURL:        baseURL,
		TrustedOrigins: []string{fmt.Sprintf("127.0.0.1:%d", port)},
		Sender:         sender,
	})
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
		Stores:  stores,
		Sender:  sender,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newAPI creates a request context that keeps cookies between calls.
func (a *testApp) newAPI(t *testing.T) playwright.APIRequestContext {
	t.Helper()
	api, err := a.PW.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(a.BaseURL),
	})
	if err != nil {
		t.Fatalf("failed to create request context: %v", err)
	}
	t.Cleanup(func() { api.Dispose() })
	return api
}

// login signs in as admin on api; the session cookie stays on the context.
func (a *testApp) login(t *testing.T, api playwright.APIRequestContext) {
	t.Helper()
	resp := postJSON(t, api, "/api/login", map[string]any{"email": adminEmail, "password": adminPassword})
	if resp.Status() != http.StatusOK {
		body, _ := resp.Text()
		t.Fatalf("login failed: %d %s", resp.Status(), body)
	}
}

func postJSON(t *testing.T, api playwright.APIRequestContext, path string, body any) playwright.APIResponse {
	t.Helper()
	resp, err := api.Post(path, playwright.APIRequestContextPostOptions{
		Headers: map[string]string{"Content-Type": "application/json"},
		Data:    body,
	})
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, api playwright.APIRequestContext, path string, v any) int {
	t.Helper()
	resp, err := api.Get(path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	if v != nil && resp.Status() == http.StatusOK {
		if err := resp.JSON(v); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
	return resp.Status()
}
