package projections

import (
	"context"

	"github.com/shopspring/decimal"

	cadetStore "jrotc/internal/adapters/storage/cadet"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	"jrotc/internal/application/listutil"
	domainCadet "jrotc/internal/domain/cadet"
	domainService "jrotc/internal/domain/servicehours"
)

// ServiceSortKeys are the sort keys accepted by QueryGetServiceSummary.
var ServiceSortKeys = []string{"name", "flight", "approved", "pending"}

// GetServiceSummaryQuery carries sort parameters and an optional flight filter.
type GetServiceSummaryQuery struct {
	Flight string
	Sort   string
	Dir    string
}

// ServiceSummaryRow is one cadet's service totals.
type ServiceSummaryRow struct {
	CadetID  string          `json:"cadet_id"`
	Name     string          `json:"name"`
	Flight   string          `json:"flight"`
	Approved decimal.Decimal `json:"approved"`
	Pending  decimal.Decimal `json:"pending"`
}

// GetServiceSummaryDeps holds dependencies for GetServiceSummary.
type GetServiceSummaryDeps struct {
	CadetStore   CadetStore
	ServiceStore ServiceStore
}

// QueryGetServiceSummary totals approved and pending hours for every active cadet.
// PRE: none
// POST: One row per active cadet, including cadets with no hours; sorted by the requested key
func QueryGetServiceSummary(ctx context.Context, query GetServiceSummaryQuery, deps GetServiceSummaryDeps) ([]ServiceSummaryRow, error) {
	cadets, err := deps.CadetStore.List(ctx, cadetStore.ListFilter{Status: domainCadet.StatusActive, Flight: query.Flight})
	if err != nil {
		return nil, err
	}
	records, err := deps.ServiceStore.List(ctx, serviceStore.ListFilter{})
	if err != nil {
		return nil, err
	}
	byCadet := make(map[string][]domainService.Record)
	for _, r := range records {
		byCadet[r.CadetID] = append(byCadet[r.CadetID], r)
	}

	rows := make([]ServiceSummaryRow, 0, len(cadets))
	for _, c := range cadets {
		totals := domainService.Sum(byCadet[c.ID])
		rows = append(rows, ServiceSummaryRow{
			CadetID:  c.ID,
			Name:     c.FullName(),
			Flight:   c.Flight,
			Approved: totals.Approved,
			Pending:  totals.Pending,
		})
	}

	var key func(ServiceSummaryRow) any
	switch query.Sort {
	case "flight":
		key = func(r ServiceSummaryRow) any { return optional(r.Flight) }
	case "approved":
		key = func(r ServiceSummaryRow) any { return r.Approved }
	case "pending":
		key = func(r ServiceSummaryRow) any { return r.Pending }
	default:
		key = func(r ServiceSummaryRow) any { return r.Name }
	}
	return listutil.SortBy(rows, key, listutil.NormalizeDir(query.Dir)), nil
}
