package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "jrotc/internal/adapters/email"
	web "jrotc/internal/adapters/http"
	"jrotc/internal/adapters/metrics"
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
	domainCadet "jrotc/internal/domain/cadet"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	env := envOrDefault("JROTC_ENV", "development")

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("JROTC_DB_PATH", "jrotc.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	timedDB := storage.NewTimedDB(db, metrics.QueryDuration, metrics.SlowQueryCounter)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	refStore := cadetStore.NewSQLiteReferenceStore(timedDB)
	stores := &web.Stores{
		AccountStore:     acctStore,
		AuditStore:       auditStore.NewSQLiteStore(timedDB),
		CadetStore:       cadetStore.NewSQLiteStore(timedDB),
		ReferenceStore:   refStore,
		PTTestStore:      ptTestStore.NewSQLiteStore(timedDB),
		InspectionStore:  inspectionStore.NewSQLiteStore(timedDB),
		EquipmentStore:   equipmentStore.NewSQLiteStore(timedDB),
		ServiceStore:     serviceStore.NewSQLiteStore(timedDB),
		CompetitionStore: competitionStore.NewSQLiteStore(timedDB),
	}

	ctx := context.Background()

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("JROTC_ADMIN_EMAIL", "sai@jrotc.local")
	adminPassword := envOrDefault("JROTC_ADMIN_PASSWORD", "Aim high fly fight")
	seedDeps := orchestrators.CreateAccountDeps{
		AccountStore: acctStore,
		GenerateID:   func() string { return uuid.New().String() },
		Now:          time.Now,
	}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed roles, flights, ranks, cadet years and grades on first start
	if err := orchestrators.ExecuteSeedReferences(ctx, refStore); err != nil {
		log.Fatalf("failed to seed references: %v", err)
	}

	// Configure email sender
	var sender emailPkg.Sender
	resendKey := os.Getenv("JROTC_RESEND_KEY")
	if resendKey != "" {
		from := envOrDefault("JROTC_RESEND_FROM", "JROTC Admin <noreply@jrotc.local>")
		sender = emailPkg.NewResendSender(resendKey, from)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if env == "production" {
			log.Println("WARNING: JROTC_RESEND_KEY is not set, email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set JROTC_RESEND_KEY for real delivery)")
		}
	}

	baseURL := envOrDefault("JROTC_BASE_URL", "http://localhost:8080")
	gradeCfg := domainCadet.DefaultGradeConfig()
	if m := envInt("JROTC_GRADE_ROLLOVER_MONTH", int(gradeCfg.RolloverMonth)); m >= 1 && m <= 12 {
		gradeCfg.RolloverMonth = time.Month(m)
	}
	if n := envInt("JROTC_GRADE_WINDOW_YEARS", gradeCfg.WindowYears); n > 0 {
		gradeCfg.WindowYears = n
	}

	handler := web.NewMux(stores, web.Config{
		Env:            env,
		BaseURL:        baseURL,
		CSRFKey:        os.Getenv("JROTC_CSRF_KEY"),
		TrustedOrigins: trustedOrigins(baseURL),
		SlowRequest:    time.Duration(envInt("JROTC_SLOW_REQUEST_MS", 200)) * time.Millisecond,
		GradeConfig:    gradeCfg,
		Sender:         sender,
	})

	addr := envOrDefault("JROTC_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("JROTC %s starting on %s (env=%s, schema=%d)", version, addr, env, storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("WARNING: %s=%q is not a number, using %d", key, v, fallback)
	}
	return fallback
}

// trustedOrigins allows form posts from the public host.
func trustedOrigins(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
