package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jrotc/internal/adapters/email"
	"jrotc/internal/adapters/http/middleware"
	"jrotc/internal/adapters/metrics"
	accountStore "jrotc/internal/adapters/storage/account"
	auditStore "jrotc/internal/adapters/storage/audit"
	cadetStore "jrotc/internal/adapters/storage/cadet"
	competitionStore "jrotc/internal/adapters/storage/competition"
	equipmentStore "jrotc/internal/adapters/storage/equipment"
	inspectionStore "jrotc/internal/adapters/storage/inspection"
	ptTestStore "jrotc/internal/adapters/storage/pttest"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	domainCadet "jrotc/internal/domain/cadet"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore     accountStore.Store
	AuditStore       auditStore.Store
	CadetStore       cadetStore.Store
	ReferenceStore   cadetStore.ReferenceStore
	PTTestStore      ptTestStore.Store
	InspectionStore  inspectionStore.Store
	EquipmentStore   equipmentStore.Store
	ServiceStore     serviceStore.Store
	CompetitionStore competitionStore.Store
}

// Config carries runtime settings for the handlers.
type Config struct {
	Env            string        // "production" enables secure cookies and requires CSRFKey
	BaseURL        string        // prefix for activation and reset links
	CSRFKey        string        // hex-encoded, 32 bytes
	TrustedOrigins []string      // hosts allowed to post forms
	SlowRequest    time.Duration // slow_request threshold
	GradeConfig    domainCadet.GradeConfig
	Sender         email.Sender
}

// loadCSRFKey decodes the CSRF secret (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey(keyHex, env string) []byte {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("JROTC_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if env == "production" {
		log.Fatal("JROTC_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set JROTC_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global runtime configuration (set by NewMux)
var config Config

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, cfg Config) http.Handler {
	stores = s
	if cfg.Sender == nil {
		cfg.Sender = email.NewNoopSender()
	}
	if len(cfg.GradeConfig.Labels) == 0 {
		cfg.GradeConfig = domainCadet.DefaultGradeConfig()
	}
	config = cfg
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.Env == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	csrfKey := loadCSRFKey(cfg.CSRFKey, cfg.Env)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outermost last: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> RoutePattern -> Mux
	return middleware.Chain(mux,
		middleware.RoutePattern,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, middleware.SecureCookies, cfg.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(metrics.RequestDuration, metrics.ResponseCounter, cfg.SlowRequest),
	)
}
