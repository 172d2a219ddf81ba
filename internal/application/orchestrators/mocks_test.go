package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	emailAdapter "jrotc/internal/adapters/email"
	accountStore "jrotc/internal/adapters/storage/account"
	cadetStore "jrotc/internal/adapters/storage/cadet"
	competitionStore "jrotc/internal/adapters/storage/competition"
	equipmentStore "jrotc/internal/adapters/storage/equipment"
	ptTestStore "jrotc/internal/adapters/storage/pttest"
	serviceStore "jrotc/internal/adapters/storage/servicehours"
	"jrotc/internal/domain/account"
	"jrotc/internal/domain/audit"
	"jrotc/internal/domain/cadet"
	"jrotc/internal/domain/competition"
	"jrotc/internal/domain/equipment"
	"jrotc/internal/domain/inspection"
	"jrotc/internal/domain/pttest"
	"jrotc/internal/domain/servicehours"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// seqIDs returns a generator yielding prefix-1, prefix-2, ...
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// mockAccountStore is a map-backed account store with tokens.
type mockAccountStore struct {
	byID    map[string]account.Account
	tokens  map[string]account.Token
	saveErr error
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{byID: make(map[string]account.Account), tokens: make(map[string]account.Token)}
}

// GetByID implements AccountStoreForReset.
func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return account.Account{}, accountStore.ErrNotFound
	}
	return a, nil
}

// GetByEmail matches case-insensitively like the SQLite store.
func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return account.Account{}, accountStore.ErrNotFound
}

// Save implements AccountStoreForCreate.
// POST: account is persisted by ID unless saveErr is set
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.byID[a.ID] = a
	return nil
}

// Delete implements AccountStoreForCadetAccount.
func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	for k, t := range m.tokens {
		if t.AccountID == id {
			delete(m.tokens, k)
		}
	}
	return nil
}

// Count implements AccountStoreForCreate.
func (m *mockAccountStore) Count(_ context.Context) (int, error) { return len(m.byID), nil }

// SaveToken implements TokenStore.
func (m *mockAccountStore) SaveToken(_ context.Context, t account.Token) error {
	m.tokens[t.Token] = t
	return nil
}

// GetToken implements TokenStore.
func (m *mockAccountStore) GetToken(_ context.Context, value string) (account.Token, error) {
	t, ok := m.tokens[value]
	if !ok {
		return account.Token{}, accountStore.ErrNotFound
	}
	return t, nil
}

// MarkTokenUsed implements TokenStore.
func (m *mockAccountStore) MarkTokenUsed(_ context.Context, id string) error {
	for k, t := range m.tokens {
		if t.ID == id {
			t.Used = true
			m.tokens[k] = t
			return nil
		}
	}
	return accountStore.ErrNotFound
}

// InvalidateTokens implements TokenStore.
// POST: every unused token of purpose for accountID is marked used
func (m *mockAccountStore) InvalidateTokens(_ context.Context, accountID, purpose string) error {
	for k, t := range m.tokens {
		if t.AccountID == accountID && t.Purpose == purpose {
			t.Used = true
			m.tokens[k] = t
		}
	}
	return nil
}

// tokenFor returns the unused token of purpose for accountID.
func (m *mockAccountStore) tokenFor(accountID, purpose string) (account.Token, bool) {
	for _, t := range m.tokens {
		if t.AccountID == accountID && t.Purpose == purpose && !t.Used {
			return t, true
		}
	}
	return account.Token{}, false
}

// mockCadetStore is a map-backed cadet store.
type mockCadetStore struct {
	byID    map[string]cadet.Cadet
	saveErr error
	// failLinked fails saves of cadets that carry an account.
	failLinked bool
	saves      int
}

func newMockCadetStore(cadets ...cadet.Cadet) *mockCadetStore {
	m := &mockCadetStore{byID: make(map[string]cadet.Cadet)}
	for _, c := range cadets {
		m.byID[c.ID] = c
	}
	return m
}

// GetByID implements CadetLookup.
func (m *mockCadetStore) GetByID(_ context.Context, id string) (cadet.Cadet, error) {
	c, ok := m.byID[id]
	if !ok {
		return cadet.Cadet{}, cadetStore.ErrNotFound
	}
	return c, nil
}

// GetByEmail implements CadetStoreForSave.
func (m *mockCadetStore) GetByEmail(_ context.Context, email string) (cadet.Cadet, error) {
	for _, c := range m.byID {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return cadet.Cadet{}, cadetStore.ErrNotFound
}

// GetByAccountID implements ToggleAccountStatusDeps.CadetStore.
func (m *mockCadetStore) GetByAccountID(_ context.Context, accountID string) (cadet.Cadet, error) {
	for _, c := range m.byID {
		if c.AccountID != "" && c.AccountID == accountID {
			return c, nil
		}
	}
	return cadet.Cadet{}, cadetStore.ErrNotFound
}

// Save implements CadetStoreForSave.
func (m *mockCadetStore) Save(_ context.Context, c cadet.Cadet) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.failLinked && c.AccountID != "" {
		return errors.New("link rejected")
	}
	m.saves++
	m.byID[c.ID] = c
	return nil
}

// staticReferences implements ReferenceLoader with fixed lists.
type staticReferences struct{ refs cadet.References }

func (s staticReferences) References(context.Context) (cadet.References, error) { return s.refs, nil }

func defaultRefs() staticReferences {
	return staticReferences{refs: cadet.References{
		Roles:      cadet.DefaultRoles,
		Grades:     cadet.DefaultGradeLabels,
		Flights:    cadet.DefaultFlights,
		Ranks:      cadet.DefaultRanks,
		CadetYears: cadet.DefaultCadetYears,
	}}
}

// mockReferenceStore is an in-memory reference store.
type mockReferenceStore struct {
	roles  []cadet.Role
	values map[string][]string
}

func newMockReferenceStore() *mockReferenceStore {
	return &mockReferenceStore{values: make(map[string][]string)}
}

func (m *mockReferenceStore) ListRoles(context.Context) ([]cadet.Role, error) { return m.roles, nil }

func (m *mockReferenceStore) SaveRole(_ context.Context, r cadet.Role) error {
	m.roles = append(m.roles, r)
	return nil
}

func (m *mockReferenceStore) ListValues(_ context.Context, kind string) ([]string, error) {
	return m.values[kind], nil
}

func (m *mockReferenceStore) ReplaceValues(_ context.Context, kind string, values []string) error {
	m.values[kind] = append([]string(nil), values...)
	return nil
}

// mockAudit records saved events. A nil *mockAudit discards them.
type mockAudit struct{ events []audit.Event }

func (m *mockAudit) Save(_ context.Context, e audit.Event) error {
	if m == nil {
		return nil
	}
	m.events = append(m.events, e)
	return nil
}

// failingSender rejects every send.
type failingSender struct{}

func (failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errors.New("provider unavailable")
}

func (failingSender) SendBatch(context.Context, []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	return nil, errors.New("provider unavailable")
}

// mockPTStore is a map-backed PT test store.
type mockPTStore struct{ byID map[string]pttest.Test }

func (m *mockPTStore) GetByID(_ context.Context, id string) (pttest.Test, error) {
	t, ok := m.byID[id]
	if !ok {
		return pttest.Test{}, ptTestStore.ErrNotFound
	}
	return t, nil
}

func (m *mockPTStore) Save(_ context.Context, t pttest.Test) error {
	m.byID[t.ID] = t
	return nil
}

func (m *mockPTStore) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// mockInspectionStore appends saved inspections.
type mockInspectionStore struct{ saved []inspection.Inspection }

func (m *mockInspectionStore) Save(_ context.Context, i inspection.Inspection) error {
	m.saved = append(m.saved, i)
	return nil
}

// mockEquipmentStore is a map-backed equipment store.
type mockEquipmentStore struct{ byID map[string]equipment.Item }

func (m *mockEquipmentStore) GetByID(_ context.Context, id string) (equipment.Item, error) {
	i, ok := m.byID[id]
	if !ok {
		return equipment.Item{}, equipmentStore.ErrNotFound
	}
	return i, nil
}

func (m *mockEquipmentStore) Save(_ context.Context, i equipment.Item) error {
	m.byID[i.ID] = i
	return nil
}

// mockServiceStore is a map-backed service-hours store.
type mockServiceStore struct{ byID map[string]servicehours.Record }

func (m *mockServiceStore) GetByID(_ context.Context, id string) (servicehours.Record, error) {
	r, ok := m.byID[id]
	if !ok {
		return servicehours.Record{}, serviceStore.ErrNotFound
	}
	return r, nil
}

func (m *mockServiceStore) Save(_ context.Context, r servicehours.Record) error {
	m.byID[r.ID] = r
	return nil
}

// mockCompetitionStore keeps competitions, events, templates and sheets in maps.
type mockCompetitionStore struct {
	competitions map[string]competition.Competition
	events       map[string]competition.Event
	templates    map[string]competition.Template
	sheets       []competition.ScoreSheet
}

func newMockCompetitionStore() *mockCompetitionStore {
	return &mockCompetitionStore{
		competitions: make(map[string]competition.Competition),
		events:       make(map[string]competition.Event),
		templates:    make(map[string]competition.Template),
	}
}

func (m *mockCompetitionStore) SaveCompetition(_ context.Context, c competition.Competition) error {
	m.competitions[c.ID] = c
	return nil
}

func (m *mockCompetitionStore) GetCompetition(_ context.Context, id string) (competition.Competition, error) {
	c, ok := m.competitions[id]
	if !ok {
		return competition.Competition{}, competitionStore.ErrNotFound
	}
	return c, nil
}

func (m *mockCompetitionStore) SaveEvent(_ context.Context, e competition.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockCompetitionStore) GetEvent(_ context.Context, id string) (competition.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return competition.Event{}, competitionStore.ErrNotFound
	}
	return e, nil
}

func (m *mockCompetitionStore) SaveTemplate(_ context.Context, t competition.Template) error {
	m.templates[t.ID] = t
	return nil
}

func (m *mockCompetitionStore) GetTemplate(_ context.Context, id string) (competition.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return competition.Template{}, competitionStore.ErrNotFound
	}
	return t, nil
}

func (m *mockCompetitionStore) SaveSheet(_ context.Context, s competition.ScoreSheet) error {
	m.sheets = append(m.sheets, s)
	return nil
}
