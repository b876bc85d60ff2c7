package event

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

const (
	TypeOneTime   = "one_time"
	TypeRecurring = "recurring"

	FreqDaily   = "daily"
	FreqWeekly  = "weekly"
	FreqMonthly = "monthly"
)

type RecurrenceRule struct {
	Frequency string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	Interval  int    `json:"interval" validate:"gte=1"`
}

// Event is a calendar entry. A recurring event materializes into multiple
// independent rows sharing ParentEventID (the first inserted occurrence's id);
// there is no series entity.
type Event struct {
	ID                  uuid.UUID   `json:"id" db:"id"`
	Title               string      `json:"title" db:"title"`
	Description         null.String `json:"description" db:"description"`
	GymID               uuid.UUID   `json:"gym_id" db:"gym_id"` // uuid.Nil when unset
	StartDate           time.Time   `json:"start_date" db:"start_date"`
	EndDate             time.Time   `json:"end_date" db:"end_date"`
	EventType           string      `json:"event_type" db:"event_type"`
	RecurrenceFrequency null.String `json:"recurrence_frequency,omitempty" db:"recurrence_frequency"`
	RecurrenceInterval  null.Int    `json:"recurrence_interval,omitempty" db:"recurrence_interval"`
	RecurrenceEndDate   null.Time   `json:"recurrence_end_date,omitempty" db:"recurrence_end_date"`
	ParentEventID       uuid.UUID   `json:"parent_event_id" db:"parent_event_id"` // uuid.Nil for one-time events
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`

	// TeamIDs is filled in batch when listing; not a column.
	TeamIDs []uuid.UUID `json:"team_ids" db:"-"`
}

// Rule reassembles the recurrence rule from its columns, nil for one-time events.
func (e *Event) Rule() *RecurrenceRule {
	if !e.RecurrenceFrequency.Valid {
		return nil
	}
	return &RecurrenceRule{
		Frequency: e.RecurrenceFrequency.String,
		Interval:  e.RecurrenceInterval.Int,
	}
}

// Requests

type NewEvent struct {
	Title             string          `json:"title" validate:"required"`
	Description       string          `json:"description"`
	GymID             uuid.UUID       `json:"gym_id"`
	StartDate         time.Time       `json:"start_date" validate:"required"`
	EndDate           time.Time       `json:"end_date" validate:"required,gtefield=StartDate"`
	EventType         string          `json:"event_type" validate:"required,oneof=one_time recurring"`
	RecurrenceRule    *RecurrenceRule `json:"recurrence_rule" validate:"omitempty"`
	RecurrenceEndDate null.Time       `json:"recurrence_end_date"`
	TeamIDs           []uuid.UUID     `json:"team_ids"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	if err := validate.Struct(ne); err != nil {
		return err
	}
	if ne.EventType == TypeRecurring {
		if ne.RecurrenceRule == nil {
			return core.NewValidationError(nil, core.FieldError{Field: "recurrence_rule", Error: "campo obbligatorio"})
		}
		if err := validate.Struct(ne.RecurrenceRule); err != nil {
			return err
		}
	}
	return nil
}

type UpdateEvent struct {
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	GymID       *uuid.UUID  `json:"gym_id"`
	StartDate   *time.Time  `json:"start_date"`
	EndDate     *time.Time  `json:"end_date"`
	TeamIDs     []uuid.UUID `json:"team_ids"`
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	return validate.Struct(ue)
}

type QueryFilter struct {
	TeamID    uuid.UUID `query:"team_id"`
	GymID     uuid.UUID `query:"gym_id"`
	EventType string    `query:"event_type"`
	From      time.Time `query:"from"`
	To        time.Time `query:"to"`
	Limit     int       `query:"limit"`
	Offset    int       `query:"offset"`
}

// Page is the paginated listing shape.
type Page struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
