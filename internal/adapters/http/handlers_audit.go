package web

import (
	"net/http"

	auditStore "jrotc/internal/adapters/storage/audit"
	auditDomain "jrotc/internal/domain/audit"
)

// handleAuditTrail handles GET /api/audit
// PRE: User must be authenticated as admin
// POST: Returns audit events, newest first, with optional filters
func handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := auditStore.Filter{}
	if category := q.Get("category"); category != "" {
		cat := auditDomain.Category(category)
		filter.Category = &cat
	}
	if action := q.Get("action"); action != "" {
		act := auditDomain.Action(action)
		filter.Action = &act
	}
	if actorID := q.Get("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if resourceID := q.Get("resource_id"); resourceID != "" {
		filter.ResourceID = &resourceID
	}
	if fromDate := q.Get("from"); fromDate != "" {
		filter.FromDate = &fromDate
	}
	if toDate := q.Get("to"); toDate != "" {
		filter.ToDate = &toDate
	}

	limit := queryInt(r, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	if events == nil {
		events = []auditDomain.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}
