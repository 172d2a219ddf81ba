package cadet_test

import (
	"strings"
	"testing"
	"time"

	"jrotc/internal/domain/cadet"
)

func validCadet() cadet.Cadet {
	return cadet.Cadet{
		ID:        "c1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@school.edu",
		RoleID:    "cadet",
		Grade:     "10th",
		Flight:    "Alpha",
		Rank:      "C/Amn",
		CadetYear: "LET 2",
		Status:    cadet.StatusActive,
	}
}

func defaultRefs() cadet.References {
	return cadet.References{
		Roles:      cadet.DefaultRoles,
		Grades:     cadet.DefaultGradeLabels,
		Flights:    cadet.DefaultFlights,
		Ranks:      cadet.DefaultRanks,
		CadetYears: cadet.DefaultCadetYears,
	}
}

// TestValidateRecord_SpecExample verifies the three expected problems for an empty record.
func TestValidateRecord_SpecExample(t *testing.T) {
	problems := cadet.ValidateRecord(cadet.Record{FirstName: "", LastName: "Doe", Email: "bad", RoleID: ""}, cadet.References{})
	msgs := problems.Messages()
	if len(msgs) < 3 {
		t.Fatalf("expected at least 3 problems, got %v", msgs)
	}
	want := []string{"First name is required", "Valid email is required", "Role is required"}
	for i, w := range want {
		if msgs[i] != w {
			t.Errorf("problem[%d] = %q, want %q", i, msgs[i], w)
		}
	}
}

// TestValidateRecord_Valid verifies a fully valid record yields no problems.
func TestValidateRecord_Valid(t *testing.T) {
	c := validCadet()
	if problems := cadet.ValidateRecord(c.Record(), defaultRefs()); !problems.Valid() {
		t.Errorf("expected valid, got %v", problems.Messages())
	}
}

// TestValidateRecord_Cases covers role matching and reference membership.
func TestValidateRecord_Cases(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *cadet.Record)
		refs      cadet.References
		wantField string
	}{
		{"role by label", func(r *cadet.Record) { r.RoleID = "cadet staff" }, defaultRefs(), ""},
		{"role by name upper", func(r *cadet.Record) { r.RoleID = "CADET_COMMANDER" }, defaultRefs(), ""},
		{"unknown role", func(r *cadet.Record) { r.RoleID = "general" }, defaultRefs(), cadet.FieldRole},
		{"unknown role without list", func(r *cadet.Record) { r.RoleID = "general" }, cadet.References{}, ""},
		{"bad grade", func(r *cadet.Record) { r.Grade = "13th" }, defaultRefs(), cadet.FieldGrade},
		{"bad flight", func(r *cadet.Record) { r.Flight = "Echo" }, defaultRefs(), cadet.FieldFlight},
		{"bad rank", func(r *cadet.Record) { r.Rank = "General" }, defaultRefs(), cadet.FieldRank},
		{"bad cadet year", func(r *cadet.Record) { r.CadetYear = "LET 9" }, defaultRefs(), cadet.FieldCadetYear},
		{"blank optional fields", func(r *cadet.Record) { r.Grade, r.Flight, r.Rank, r.CadetYear = "", "", "", "" }, defaultRefs(), ""},
		{"email without tld", func(r *cadet.Record) { r.Email = "jane@school" }, defaultRefs(), cadet.FieldEmail},
		{"email with space", func(r *cadet.Record) { r.Email = "ja ne@school.edu" }, defaultRefs(), cadet.FieldEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCadet()
			rec := c.Record()
			tt.mutate(&rec)
			problems := cadet.ValidateRecord(rec, tt.refs)
			if tt.wantField == "" {
				if !problems.Valid() {
					t.Fatalf("expected valid, got %v", problems.Messages())
				}
				return
			}
			if len(problems) != 1 || problems[0].Field != tt.wantField {
				t.Fatalf("expected one problem on %s, got %+v", tt.wantField, problems)
			}
		})
	}
}

// TestCadetValidate_LengthAndStatus verifies rules layered on top of ValidateRecord.
func TestCadetValidate_LengthAndStatus(t *testing.T) {
	c := validCadet()
	c.FirstName = strings.Repeat("a", cadet.MaxNameLength+1)
	c.Status = "graduated"
	problems := c.Validate(defaultRefs())
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems.Messages())
	}
	if problems[0].Code != cadet.CodeTooLong || problems[1].Field != cadet.FieldStatus {
		t.Errorf("unexpected problems: %+v", problems)
	}
}

// TestCadetStatusTransitions verifies deactivate and reactivate guards.
func TestCadetStatusTransitions(t *testing.T) {
	c := validCadet()
	if err := c.Deactivate(); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := c.Deactivate(); err != cadet.ErrAlreadyInactive {
		t.Errorf("expected ErrAlreadyInactive, got %v", err)
	}
	if err := c.Reactivate(); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if !c.IsActive() {
		t.Error("expected active")
	}
	if err := c.Reactivate(); err != cadet.ErrAlreadyActive {
		t.Errorf("expected ErrAlreadyActive, got %v", err)
	}
}

// TestNormalizeAndFullName verifies trimming and roster name formatting.
func TestNormalizeAndFullName(t *testing.T) {
	c := cadet.Cadet{FirstName: "  Jane ", LastName: " Doe", Email: " Jane@School.EDU "}
	c.Normalize()
	if c.Email != "jane@school.edu" {
		t.Errorf("email = %q", c.Email)
	}
	if c.Status != cadet.StatusActive {
		t.Errorf("status = %q, want active default", c.Status)
	}
	if got := c.FullName(); got != "Doe, Jane" {
		t.Errorf("FullName = %q", got)
	}
	c.LastName = ""
	if got := c.FullName(); got != "Jane" {
		t.Errorf("FullName without last = %q", got)
	}
}

// TestCalculateGrade verifies the academic-year offset and the window.
func TestCalculateGrade(t *testing.T) {
	cfg := cadet.DefaultGradeConfig()
	tests := []struct {
		name      string
		startYear int
		now       time.Time
		want      string
		wantOK    bool
	}{
		{"first year after rollover", 2026, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), "9th", true},
		{"first year before rollover next spring", 2026, time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC), "9th", true},
		{"second year", 2025, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), "10th", true},
		{"fourth year", 2023, time.Date(2027, time.May, 1, 0, 0, 0, 0, time.UTC), "12th", true},
		{"graduated", 2022, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), "", false},
		{"future enrollment", 2027, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), "", false},
		{"unset start year", 0, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cadet.CalculateGrade(tt.startYear, tt.now, cfg)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CalculateGrade(%d) = (%q, %v), want (%q, %v)", tt.startYear, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestCalculateGrade_NarrowWindow verifies a configured window shorter than the label list.
func TestCalculateGrade_NarrowWindow(t *testing.T) {
	cfg := cadet.DefaultGradeConfig()
	cfg.WindowYears = 2
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := cadet.CalculateGrade(2024, now, cfg); ok {
		t.Error("expected no value outside a two-year window")
	}
	if got, ok := cadet.CalculateGrade(2025, now, cfg); !ok || got != "10th" {
		t.Errorf("got (%q, %v), want (10th, true)", got, ok)
	}
}

// TestApplyAutoGrade verifies manual grades are left alone.
func TestApplyAutoGrade(t *testing.T) {
	now := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	c := cadet.Cadet{StartYear: 2026}
	if !c.ApplyAutoGrade(now, cadet.DefaultGradeConfig()) || c.Grade != "9th" {
		t.Errorf("expected auto grade 9th, got %q", c.Grade)
	}
	c.Grade = "11th"
	if c.ApplyAutoGrade(now, cadet.DefaultGradeConfig()) {
		t.Error("expected manual grade to be preserved")
	}
}
