package web

import "net/http"

// registerRoutes maps every API endpoint. Role checks happen inside the handlers.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealthz)

	// Auth
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)
	mux.HandleFunc("GET /api/session", handleSession)
	mux.HandleFunc("POST /api/password", handleChangePassword)
	mux.HandleFunc("POST /api/activate", handleActivate)
	mux.HandleFunc("POST /api/password-reset", handleCompletePasswordReset)

	// Accounts (admin)
	mux.HandleFunc("GET /api/accounts", handleListAccounts)
	mux.HandleFunc("POST /api/accounts", handleCreateAccount)
	mux.HandleFunc("POST /api/accounts/{id}/reset-password", handleAdminResetPassword)
	mux.HandleFunc("POST /api/accounts/{id}/status", handleAccountStatus)

	// Cadets
	mux.HandleFunc("GET /api/cadets", handleListCadets)
	mux.HandleFunc("POST /api/cadets", handleCreateCadet)
	mux.HandleFunc("POST /api/cadets/import", handleImportCadets)
	mux.HandleFunc("POST /api/cadets/validate", handleValidateCadet)
	mux.HandleFunc("GET /api/cadets/{id}", handleGetCadet)
	mux.HandleFunc("PUT /api/cadets/{id}", handleUpdateCadet)
	mux.HandleFunc("POST /api/cadets/{id}/status", handleCadetStatus)
	mux.HandleFunc("GET /api/cadets/{id}/profile", handleCadetProfile)
	mux.HandleFunc("POST /api/cadets/{id}/pt-tests", handleRecordPTTest)
	mux.HandleFunc("POST /api/cadets/{id}/inspections", handleRecordInspection)
	mux.HandleFunc("GET /api/grade", handleGrade)
	mux.HandleFunc("GET /api/references", handleGetReferences)
	mux.HandleFunc("PUT /api/references/{kind}", handleUpdateReferences)

	// Fitness
	mux.HandleFunc("DELETE /api/pt-tests/{id}", handleDeletePTTest)

	// Equipment
	mux.HandleFunc("GET /api/equipment", handleListEquipment)
	mux.HandleFunc("POST /api/equipment", handleCreateEquipment)
	mux.HandleFunc("POST /api/equipment/{id}/assign", handleAssignEquipment)
	mux.HandleFunc("POST /api/equipment/{id}/return", handleReturnEquipment)

	// Service hours
	mux.HandleFunc("GET /api/service-hours", handleListServiceHours)
	mux.HandleFunc("POST /api/service-hours", handleLogServiceHours)
	mux.HandleFunc("GET /api/service-hours/summary", handleServiceSummary)
	mux.HandleFunc("POST /api/service-hours/{id}/review", handleReviewServiceHours)

	// Competitions
	mux.HandleFunc("GET /api/competitions", handleListCompetitions)
	mux.HandleFunc("POST /api/competitions", handleCreateCompetition)
	mux.HandleFunc("POST /api/competitions/{id}/events", handleCreateEvent)
	mux.HandleFunc("GET /api/templates", handleListTemplates)
	mux.HandleFunc("POST /api/templates", handleSaveTemplate)
	mux.HandleFunc("POST /api/events/{id}/score-sheets", handleSubmitScoreSheet)
	mux.HandleFunc("GET /api/events/{id}/results", handleEventResults)

	// Audit (admin)
	mux.HandleFunc("GET /api/audit", handleAuditTrail)
}
