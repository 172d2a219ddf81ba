package audit

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the area of the system an audit event belongs to.
type Category string

const (
	CategoryAccount     Category = "account"
	CategoryCadet       Category = "cadet"
	CategoryImport      Category = "import"
	CategoryFitness     Category = "fitness"
	CategoryEquipment   Category = "equipment"
	CategoryService     Category = "service"
	CategoryCompetition Category = "competition"
	CategorySecurity    Category = "security"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionLogin  Action = "login"
	ActionImport Action = "import"
	ActionReview Action = "review"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event represents a single audit log entry.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	ActorID      string    `json:"actor_id"`
	ActorEmail   string    `json:"actor_email"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Description  string    `json:"description"`
	IPAddress    string    `json:"ip_address"`
}

// NewEvent creates a new info-level audit event stamped with now.
// PRE: category and action are non-empty
// POST: Returns an Event with a fresh ID
func NewEvent(actorID, actorEmail string, category Category, action Action, now time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Timestamp:  now,
		Category:   category,
		Action:     action,
		Severity:   SeverityInfo,
		ActorID:    actorID,
		ActorEmail: actorEmail,
	}
}

// WithSeverity sets the severity level.
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource sets resource information.
// PRE: resourceType and resourceID are non-empty
// POST: Event resource fields are populated
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithIP records the client address.
func (e Event) WithIP(ip string) Event {
	e.IPAddress = ip
	return e
}
