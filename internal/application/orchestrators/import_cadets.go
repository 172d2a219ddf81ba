package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	emailAdapter "jrotc/internal/adapters/email"
	"jrotc/internal/adapters/metrics"
	accountStore "jrotc/internal/adapters/storage/account"
	cadetStore "jrotc/internal/adapters/storage/cadet"
	"jrotc/internal/application/csvrows"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
)

// Import columns, keyed by canonical field name.
const (
	colFirstName = "first_name"
	colLastName  = "last_name"
	colEmail     = "email"
	colRole      = "role"
	colGrade     = "grade"
	colFlight    = "flight"
	colRank      = "rank"
	colCadetYear = "cadet_year"
	colStartYear = "start_year"
	colStatus    = "status"
)

// headerAliases maps a squashed header (lower case, no spaces, underscores or dashes) to its column.
var headerAliases = map[string]string{
	"firstname": colFirstName, "first": colFirstName, "givenname": colFirstName,
	"lastname": colLastName, "last": colLastName, "surname": colLastName, "familyname": colLastName,
	"email": colEmail, "emailaddress": colEmail,
	"role": colRole, "roleid": colRole,
	"grade": colGrade,
	"flight": colFlight,
	"rank": colRank,
	"cadetyear": colCadetYear, "let": colCadetYear, "letyear": colCadetYear,
	"startyear": colStartYear, "enrollmentyear": colStartYear,
	"status": colStatus,
}

var requiredImportColumns = []string{colFirstName, colLastName, colEmail}

// ImportCadetsInput carries the uploaded CSV text and import options.
// PRE: CSV has a header row naming at least first name, last name and email.
// POST: Returns aggregate counts and per-row problems; writes are skipped when DryRun=true.
// INVARIANT: Existing cadets are never deleted; IDs and linked accounts are preserved on update.
type ImportCadetsInput struct {
	CSV            string
	DryRun         bool
	UpdateMode     bool
	CreateAccounts bool
	DefaultRole    string
	Actor          Actor
}

// ImportCadetsResult holds aggregate counts and per-row errors from an import run.
type ImportCadetsResult struct {
	Total           int
	Created         int
	Updated         int
	Skipped         int
	AccountsCreated int
	EmailsSent      int
	Errors          []ImportCadetsRowError
	DryRun          bool
	Unknown         []string
}

// ImportCadetsRowError describes the problems found on a single CSV row.
// Row counts the header as row 1.
type ImportCadetsRowError struct {
	Row      int
	Email    string
	Message  string
	Problems cadet.Problems
}

// ImportCadetsDeps holds external dependencies for the import orchestrator.
type ImportCadetsDeps struct {
	CadetStore   CadetStoreForSave
	AccountStore AccountStoreForCadetAccount
	References   ReferenceLoader
	Sender       emailAdapter.Sender
	Audit        AuditRecorder
	GradeConfig  cadet.GradeConfig
	BaseURL      string
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteImportCadets parses CSV text and creates or updates cadet records.
// PRE: Input.CSV has a header line.
// POST: Cadets are created/updated/skipped according to DryRun and UpdateMode;
//
//	with CreateAccounts, new cadets get pending accounts and one batched activation send.
//
// INVARIANT: When DryRun=true no writes occur and no email is sent.
func ExecuteImportCadets(ctx context.Context, input ImportCadetsInput, deps ImportCadetsDeps) (ImportCadetsResult, error) {
	columns, unknown := mapImportHeaders(csvrows.Headers(input.CSV))
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	for _, col := range requiredImportColumns {
		if !present[col] {
			return ImportCadetsResult{}, &ValidationError{Message: "CSV missing required column: " + col}
		}
	}

	refs, err := deps.References.References(ctx)
	if err != nil {
		return ImportCadetsResult{}, err
	}

	now := deps.Now()
	result := ImportCadetsResult{DryRun: input.DryRun, Unknown: unknown}
	seen := make(map[string]int)
	var invites []emailAdapter.SendRequest

	for i, raw := range csvrows.Parse(input.CSV) {
		rowNum := i + 2
		result.Total++

		row := make(map[string]string, len(raw))
		for header, value := range raw {
			if col, ok := columns[header]; ok {
				row[col] = value
			}
		}

		c, rowErr := cadetFromRow(row, input.DefaultRole)
		if rowErr != "" {
			result.Errors = append(result.Errors, ImportCadetsRowError{Row: rowNum, Email: c.Email, Message: rowErr})
			continue
		}
		c.Normalize()
		c.ApplyAutoGrade(now, deps.GradeConfig)

		if first, dup := seen[c.Email]; dup && c.Email != "" {
			result.Errors = append(result.Errors, ImportCadetsRowError{
				Row: rowNum, Email: c.Email,
				Message: "email already appears on row " + strconv.Itoa(first),
			})
			continue
		}
		seen[c.Email] = rowNum

		if problems := c.Validate(refs); !problems.Valid() {
			result.Errors = append(result.Errors, ImportCadetsRowError{
				Row: rowNum, Email: c.Email,
				Message:  strings.Join(problems.Messages(), "; "),
				Problems: problems,
			})
			continue
		}
		if role, ok := refs.FindRole(c.RoleID); ok {
			c.RoleID = role.ID
		}

		existing, lookupErr := deps.CadetStore.GetByEmail(ctx, c.Email)
		if lookupErr != nil && !errors.Is(lookupErr, cadetStore.ErrNotFound) {
			slog.Error("cadets_import_lookup_failed", "row", rowNum, "email", c.Email, "err", lookupErr)
			result.Errors = append(result.Errors, ImportCadetsRowError{Row: rowNum, Email: c.Email, Message: "lookup failed (see server log)"})
			continue
		}
		exists := lookupErr == nil

		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}

		if exists {
			mergeImported(&existing, c, present)
			if err := deps.CadetStore.Save(ctx, existing); err != nil {
				slog.Error("cadets_import_save_failed", "row", rowNum, "email", c.Email, "err", err)
				result.Errors = append(result.Errors, ImportCadetsRowError{Row: rowNum, Email: c.Email, Message: "save failed (see server log)"})
				continue
			}
			result.Updated++
			continue
		}

		c.ID = deps.GenerateID()
		if err := deps.CadetStore.Save(ctx, c); err != nil {
			slog.Error("cadets_import_save_failed", "row", rowNum, "email", c.Email, "err", err)
			result.Errors = append(result.Errors, ImportCadetsRowError{Row: rowNum, Email: c.Email, Message: "save failed (see server log)"})
			continue
		}
		result.Created++

		if input.CreateAccounts && deps.AccountStore != nil {
			if req, ok := inviteImported(ctx, deps, &c, rowNum, now); ok {
				result.AccountsCreated++
				invites = append(invites, req)
			}
		}
	}

	if len(invites) > 0 && deps.Sender != nil {
		sent, err := deps.Sender.SendBatch(ctx, invites)
		if err != nil {
			slog.Error("cadets_import_invites_failed", "count", len(invites), "err", err)
		}
		result.EmailsSent = len(sent)
	}

	if !input.DryRun {
		metrics.CadetsImported.WithLabelValues("created").Add(float64(result.Created))
		metrics.CadetsImported.WithLabelValues("updated").Add(float64(result.Updated))
		metrics.CadetsImported.WithLabelValues("skipped").Add(float64(result.Skipped))
		metrics.CadetsImported.WithLabelValues("error").Add(float64(len(result.Errors)))

		recordAudit(ctx, deps.Audit, newAudit(input.Actor, audit.CategoryImport, audit.ActionImport, now).
			WithDescription("imported cadets: "+strconv.Itoa(result.Created)+" created, "+
				strconv.Itoa(result.Updated)+" updated, "+strconv.Itoa(len(result.Errors))+" errors"))
	}

	slog.Info("cadets_import",
		"actor", input.Actor.AccountID,
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"accounts_created", result.AccountsCreated,
	)

	return result, nil
}

// inviteImported gives a saved cadet a pending account and links it.
// Cadets whose email already has a login are left unlinked.
// A failure is logged and leaves the cadet without an account.
func inviteImported(ctx context.Context, deps ImportCadetsDeps, c *cadet.Cadet, rowNum int, now time.Time) (emailAdapter.SendRequest, bool) {
	_, err := deps.AccountStore.GetByEmail(ctx, c.Email)
	if err == nil {
		return emailAdapter.SendRequest{}, false
	}
	if !errors.Is(err, accountStore.ErrNotFound) {
		slog.Error("cadets_import_account_failed", "row", rowNum, "email", c.Email, "err", err)
		return emailAdapter.SendRequest{}, false
	}

	acct, tok, err := createPendingAccount(ctx, deps.AccountStore, c, deps.GenerateID, now)
	if err != nil {
		slog.Error("cadets_import_account_failed", "row", rowNum, "email", c.Email, "err", err)
		return emailAdapter.SendRequest{}, false
	}
	if err := deps.CadetStore.Save(ctx, *c); err != nil {
		// An unlinked pending account would block a later import from inviting this cadet.
		slog.Error("cadets_import_link_failed", "row", rowNum, "email", c.Email, "err", err)
		dropPendingAccount(ctx, deps.AccountStore, acct.ID)
		c.AccountID = ""
		return emailAdapter.SendRequest{}, false
	}

	req, err := emailAdapter.ActivationMessage(c.Email, c.FirstName, tokenLink(deps.BaseURL, "/activate", tok.Token))
	if err != nil {
		slog.Error("email_render_failed", "row", rowNum, "err", err)
		return emailAdapter.SendRequest{}, false
	}
	return req, true
}

// mapImportHeaders resolves raw headers to columns. Unrecognised headers are returned separately.
// The first header mapping to a column wins.
func mapImportHeaders(headers []string) (map[string]string, []string) {
	columns := make(map[string]string, len(headers))
	taken := make(map[string]bool, len(headers))
	var unknown []string
	for _, h := range headers {
		col, ok := headerAliases[squashHeader(h)]
		if !ok || taken[col] {
			unknown = append(unknown, h)
			continue
		}
		taken[col] = true
		columns[h] = col
	}
	return columns, unknown
}

func squashHeader(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

// cadetFromRow builds a cadet from canonical columns. A non-empty string reports a row-level error.
func cadetFromRow(row map[string]string, defaultRole string) (cadet.Cadet, string) {
	c := cadet.Cadet{
		FirstName: row[colFirstName],
		LastName:  row[colLastName],
		Email:     row[colEmail],
		RoleID:    row[colRole],
		Grade:     row[colGrade],
		Flight:    row[colFlight],
		Rank:      row[colRank],
		CadetYear: row[colCadetYear],
		Status:    strings.ToLower(strings.TrimSpace(row[colStatus])),
	}
	if strings.TrimSpace(c.RoleID) == "" {
		c.RoleID = defaultRole
	}
	if v := strings.TrimSpace(row[colStartYear]); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1900 || year > 9999 {
			return c, "invalid start year: " + v
		}
		c.StartYear = year
	}
	return c, ""
}

// mergeImported copies imported values onto an existing cadet.
// Names and email always overwrite; other columns only when the file has them and the value is non-empty.
func mergeImported(existing *cadet.Cadet, imported cadet.Cadet, present map[string]bool) {
	existing.FirstName = imported.FirstName
	existing.LastName = imported.LastName
	existing.Email = imported.Email
	set := func(col string, dst *string, v string) {
		if present[col] && v != "" {
			*dst = v
		}
	}
	set(colRole, &existing.RoleID, imported.RoleID)
	if imported.Grade != "" && (present[colGrade] || present[colStartYear]) {
		existing.Grade = imported.Grade
	}
	set(colFlight, &existing.Flight, imported.Flight)
	set(colRank, &existing.Rank, imported.Rank)
	set(colCadetYear, &existing.CadetYear, imported.CadetYear)
	if present[colStatus] && imported.Status != "" {
		existing.Status = imported.Status
	}
	if imported.StartYear > 0 {
		existing.StartYear = imported.StartYear
	}
}
