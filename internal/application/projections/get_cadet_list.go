package projections

import (
	"context"

	cadetStore "jrotc/internal/adapters/storage/cadet"
	"jrotc/internal/application/listutil"
	domainCadet "jrotc/internal/domain/cadet"
)

// CadetSortKeys are the sort keys accepted by QueryGetCadetList.
var CadetSortKeys = []string{"name", "email", "grade", "rank", "cadet_year", "flight", "status"}

// GetCadetListQuery carries filter, sort and page parameters.
type GetCadetListQuery struct {
	Status  string
	Flight  string
	Grade   string
	Search  string
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

// CadetRow is one line of the roster.
type CadetRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	RoleID     string `json:"role_id"`
	Role       string `json:"role"`
	Grade      string `json:"grade"`
	Flight     string `json:"flight"`
	Rank       string `json:"rank"`
	CadetYear  string `json:"cadet_year"`
	StartYear  int    `json:"start_year,omitempty"`
	Status     string `json:"status"`
	HasAccount bool   `json:"has_account"`
}

// GetCadetListResult carries one page of the roster.
type GetCadetListResult struct {
	Cadets []CadetRow          `json:"cadets"`
	Page   listutil.PageInfo   `json:"page"`
	Sort   listutil.SortParams `json:"sort"`
}

// GetCadetListDeps holds dependencies for GetCadetList.
type GetCadetListDeps struct {
	CadetStore CadetStore
	References ReferenceLoader
}

// QueryGetCadetList returns a filtered, sorted page of cadets.
// PRE: none
// POST: Rows are sorted by the requested key before pagination; unknown keys sort by name
// INVARIANT: Grade and rank sort by reference-list position; values missing from the list sort last
func QueryGetCadetList(ctx context.Context, query GetCadetListQuery, deps GetCadetListDeps) (GetCadetListResult, error) {
	cadets, err := deps.CadetStore.List(ctx, cadetStore.ListFilter{
		Status: query.Status,
		Flight: query.Flight,
		Grade:  query.Grade,
		Search: query.Search,
	})
	if err != nil {
		return GetCadetListResult{}, err
	}
	refs, err := deps.References.References(ctx)
	if err != nil {
		return GetCadetListResult{}, err
	}

	sortKey := query.Sort
	if !contains(CadetSortKeys, sortKey) {
		sortKey = "name"
	}
	dir := listutil.NormalizeDir(query.Dir)
	sorted := listutil.SortBy(cadets, cadetSortKey(sortKey, refs), dir)

	perPage := query.PerPage
	if perPage <= 0 {
		perPage = listutil.DefaultPerPage
	}
	page := listutil.NewPageInfo(query.Page, perPage, len(sorted))

	rows := make([]CadetRow, 0, page.PerPage)
	for _, c := range listutil.Paginate(sorted, page) {
		rows = append(rows, toCadetRow(c, refs))
	}
	return GetCadetListResult{
		Cadets: rows,
		Page:   page,
		Sort:   listutil.SortParams{Sort: sortKey, Dir: dir},
	}, nil
}

// cadetSortKey returns the key extractor for a sort column.
func cadetSortKey(key string, refs domainCadet.References) func(domainCadet.Cadet) any {
	switch key {
	case "email":
		return func(c domainCadet.Cadet) any { return optional(c.Email) }
	case "grade":
		return func(c domainCadet.Cadet) any { return ordinal(refs.Grades, c.Grade) }
	case "rank":
		return func(c domainCadet.Cadet) any { return ordinal(refs.Ranks, c.Rank) }
	case "cadet_year":
		return func(c domainCadet.Cadet) any { return ordinal(refs.CadetYears, c.CadetYear) }
	case "flight":
		return func(c domainCadet.Cadet) any { return optional(c.Flight) }
	case "status":
		return func(c domainCadet.Cadet) any { return c.Status }
	}
	return func(c domainCadet.Cadet) any { return c.FullName() }
}

func toCadetRow(c domainCadet.Cadet, refs domainCadet.References) CadetRow {
	role := c.RoleID
	if r, ok := refs.FindRole(c.RoleID); ok {
		role = r.Label
	}
	return CadetRow{
		ID:         c.ID,
		Name:       c.FullName(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		RoleID:     c.RoleID,
		Role:       role,
		Grade:      c.Grade,
		Flight:     c.Flight,
		Rank:       c.Rank,
		CadetYear:  c.CadetYear,
		StartYear:  c.StartYear,
		Status:     c.Status,
		HasAccount: c.AccountID != "",
	}
}

// ordinal returns the position of value in list, or nil when it is blank or unlisted.
func ordinal(list []string, value string) any {
	if i := domainCadet.Ordinal(list, value); i >= 0 {
		return i
	}
	return nil
}

// optional maps a blank string to nil so it sorts last.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
