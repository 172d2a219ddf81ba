package cadet

import (
	"regexp"
	"strings"
)

// Field names reported in problems.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldRole      = "role_id"
	FieldGrade     = "grade"
	FieldFlight    = "flight"
	FieldRank      = "rank"
	FieldCadetYear = "cadet_year"
	FieldStatus    = "status"
)

// Problem codes.
const (
	CodeRequired = "required"
	CodeInvalid  = "invalid"
	CodeTooLong  = "too_long"
)

// emailPattern accepts the local@domain.tld shape and nothing stricter.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Record is the candidate data checked by ValidateRecord.
type Record struct {
	FirstName string
	LastName  string
	Email     string
	RoleID    string
	Grade     string
	Flight    string
	Rank      string
	CadetYear string
}

// Role is an entry of the role reference list.
type Role struct {
	ID    string
	Name  string
	Label string
}

// Matches reports whether value names this role by ID, label or internal name, ignoring case.
func (r Role) Matches(value string) bool {
	v := strings.TrimSpace(value)
	return strings.EqualFold(v, r.ID) || strings.EqualFold(v, r.Label) || strings.EqualFold(v, r.Name)
}

// References carries the optional reference lists. A nil list disables its membership check.
type References struct {
	Roles      []Role
	Grades     []string
	Flights    []string
	Ranks      []string
	CadetYears []string
}

// FindRole returns the role matching value by ID, label or name.
func (r References) FindRole(value string) (Role, bool) {
	for _, role := range r.Roles {
		if role.Matches(value) {
			return role, true
		}
	}
	return Role{}, false
}

// Problem is a single validation failure.
type Problem struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Problems is an ordered list of validation failures. Empty means valid.
type Problems []Problem

// Messages returns the human-readable message of every problem, in order.
func (p Problems) Messages() []string {
	out := make([]string, 0, len(p))
	for _, pr := range p {
		out = append(out, pr.Message)
	}
	return out
}

// Valid reports whether there are no problems.
func (p Problems) Valid() bool {
	return len(p) == 0
}

// ValidateRecord checks required fields, email shape and reference list membership.
// PRE: none
// POST: Returns problems in field order; never panics
func ValidateRecord(rec Record, refs References) Problems {
	var problems Problems

	if strings.TrimSpace(rec.FirstName) == "" {
		problems = append(problems, Problem{Field: FieldFirstName, Code: CodeRequired, Message: "First name is required"})
	}
	if strings.TrimSpace(rec.LastName) == "" {
		problems = append(problems, Problem{Field: FieldLastName, Code: CodeRequired, Message: "Last name is required"})
	}
	if !emailPattern.MatchString(strings.TrimSpace(rec.Email)) {
		problems = append(problems, Problem{Field: FieldEmail, Code: CodeInvalid, Message: "Valid email is required"})
	}

	role := strings.TrimSpace(rec.RoleID)
	switch {
	case role == "":
		problems = append(problems, Problem{Field: FieldRole, Code: CodeRequired, Message: "Role is required"})
	case refs.Roles != nil:
		if _, ok := refs.FindRole(role); !ok {
			problems = append(problems, Problem{Field: FieldRole, Code: CodeInvalid, Message: "Invalid role: " + role})
		}
	}

	problems = checkMember(problems, FieldGrade, "grade", rec.Grade, refs.Grades)
	problems = checkMember(problems, FieldFlight, "flight", rec.Flight, refs.Flights)
	problems = checkMember(problems, FieldRank, "rank", rec.Rank, refs.Ranks)
	problems = checkMember(problems, FieldCadetYear, "cadet year", rec.CadetYear, refs.CadetYears)

	return problems
}

// checkMember appends a problem when a non-empty value is missing from a supplied list.
func checkMember(problems Problems, field, label, value string, list []string) Problems {
	v := strings.TrimSpace(value)
	if v == "" || list == nil {
		return problems
	}
	for _, item := range list {
		if item == v {
			return problems
		}
	}
	return append(problems, Problem{Field: field, Code: CodeInvalid, Message: "Invalid " + label + ": " + v})
}
