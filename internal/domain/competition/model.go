package competition

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrNameRequired        = errors.New("name is required")
	ErrDateRequired        = errors.New("competition date is required")
	ErrCompetitionRequired = errors.New("competition is required")
	ErrTemplateRequired    = errors.New("score sheet template is required")
	ErrNoCriteria          = errors.New("template must define at least one criterion")
	ErrJudgeRequired       = errors.New("judge name is required")
	ErrEntrantRequired     = errors.New("entrant is required")
	ErrEventRequired       = errors.New("event is required")
)

// Competition is a drill meet attended by the unit.
type Competition struct {
	ID       string
	Name     string
	Date     time.Time
	Location string
}

// Validate checks if the Competition has valid data.
func (c *Competition) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if c.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

// Event is a scored category within a competition, e.g. "Armed Exhibition".
type Event struct {
	ID            string
	CompetitionID string
	Name          string
	TemplateID    string
}

// Validate checks if the Event has valid data.
func (e *Event) Validate() error {
	if e.CompetitionID == "" {
		return ErrCompetitionRequired
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if e.TemplateID == "" {
		return ErrTemplateRequired
	}
	return nil
}

// Criterion maps one score-sheet field to its label and maximum points.
type Criterion struct {
	Field     string          `json:"field"`
	Label     string          `json:"label"`
	MaxPoints decimal.Decimal `json:"max_points"`
}

// Template defines the fields a judge scores for an event.
type Template struct {
	ID       string
	Name     string
	Criteria []Criterion
}

// Validate checks the template has a name and uniquely named, positively capped criteria.
// PRE: Template struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameRequired
	}
	if len(t.Criteria) == 0 {
		return ErrNoCriteria
	}
	seen := make(map[string]bool, len(t.Criteria))
	for _, c := range t.Criteria {
		if strings.TrimSpace(c.Field) == "" {
			return errors.New("criterion field cannot be empty")
		}
		if seen[c.Field] {
			return fmt.Errorf("duplicate criterion field: %s", c.Field)
		}
		seen[c.Field] = true
		if !c.MaxPoints.IsPositive() {
			return fmt.Errorf("criterion %s must have positive max points", c.Field)
		}
	}
	return nil
}

// Fields returns the criterion field names in template order.
func (t *Template) Fields() []string {
	out := make([]string, 0, len(t.Criteria))
	for _, c := range t.Criteria {
		out = append(out, c.Field)
	}
	return out
}

// Criterion returns the criterion for field.
func (t *Template) Criterion(field string) (Criterion, bool) {
	for _, c := range t.Criteria {
		if c.Field == field {
			return c, true
		}
	}
	return Criterion{}, false
}

// ScoreSheet is one judge's scores for one entrant in an event.
// Scores holds raw values as submitted; Total is computed once at submission.
type ScoreSheet struct {
	ID          string
	EventID     string
	JudgeName   string
	Entrant     string
	Scores      map[string]string
	Total       decimal.Decimal
	SubmittedBy string
	SubmittedAt time.Time
}

// Check validates the sheet against its template.
// Blank values are allowed (criterion not scored); present values must be numeric and within range.
// PRE: tpl is the event's template
// POST: Returns nil if the sheet may be stored
func (s *ScoreSheet) Check(tpl Template) error {
	if s.EventID == "" {
		return ErrEventRequired
	}
	if strings.TrimSpace(s.JudgeName) == "" {
		return ErrJudgeRequired
	}
	if strings.TrimSpace(s.Entrant) == "" {
		return ErrEntrantRequired
	}
	for field, raw := range s.Scores {
		crit, ok := tpl.Criterion(field)
		if !ok {
			return fmt.Errorf("unknown score field: %s", field)
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		v, ok := ParseScore(raw)
		if !ok {
			return fmt.Errorf("score for %s is not a number", field)
		}
		if v.IsNegative() || v.GreaterThan(crit.MaxPoints) {
			return fmt.Errorf("score for %s must be between 0 and %s", field, crit.MaxPoints.String())
		}
	}
	return nil
}

// ComputeTotal sums the sheet's numeric values and stores the result in Total.
// POST: Total equals the sum of every parseable value; others are ignored
func (s *ScoreSheet) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, raw := range s.Scores {
		if v, ok := ParseScore(raw); ok {
			total = total.Add(v)
		}
	}
	s.Total = total
	return total
}

// ParseScore parses a numeric or numeric-string score value.
func ParseScore(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return v, true
}
