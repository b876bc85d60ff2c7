package balance

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

// Expense is a season cost entry (gym rental, coach fee, equipment...).
// Optional dimension ids are uuid.Nil when unset.
type Expense struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	SeasonID    uuid.UUID   `json:"season_id" db:"season_id"`
	ActivityID  uuid.UUID   `json:"activity_id" db:"activity_id"`
	TeamID      uuid.UUID   `json:"team_id" db:"team_id"`
	GymID       uuid.UUID   `json:"gym_id" db:"gym_id"`
	CoachID     uuid.UUID   `json:"coach_id" db:"coach_id"`
	Description string      `json:"description" db:"description"`
	Category    null.String `json:"category" db:"category"`
	Amount      float64     `json:"amount" db:"amount"`
	Date        time.Time   `json:"date" db:"date"`
	Paid        bool        `json:"paid" db:"paid"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

type NewExpense struct {
	SeasonID    uuid.UUID `json:"season_id" validate:"required"`
	ActivityID  uuid.UUID `json:"activity_id"`
	TeamID      uuid.UUID `json:"team_id"`
	GymID       uuid.UUID `json:"gym_id"`
	CoachID     uuid.UUID `json:"coach_id"`
	Description string    `json:"description" validate:"required"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount" validate:"gte=0"`
	Date        time.Time `json:"date" validate:"required"`
	Paid        bool      `json:"paid"`
}

func (ne *NewExpense) Validate(validate *validator.Validate) error {
	ne.Description = core.CleanString(ne.Description)
	ne.Category = core.CleanString(ne.Category)
	return validate.Struct(ne)
}

// Filter narrows the balance to a season slice.
type Filter struct {
	SeasonID   uuid.UUID `query:"season_id"`
	ActivityID uuid.UUID `query:"activity_id"`
	TeamID     uuid.UUID `query:"team_id"`
	GymID      uuid.UUID `query:"gym_id"`
	CoachID    uuid.UUID `query:"coach_id"`
	From       time.Time `query:"from"`
	To         time.Time `query:"to"`
}

type (
	IncomeSummary struct {
		Actual      float64 `json:"actual"`      // paid installments
		Forecast    float64 `json:"forecast"`    // every installment
		Outstanding float64 `json:"outstanding"` // forecast - actual
	}

	ExpenseSummary struct {
		Actual   float64 `json:"actual"`   // paid expenses
		Forecast float64 `json:"forecast"` // every expense
	}

	Summary struct {
		SeasonID uuid.UUID      `json:"season_id"`
		Income   IncomeSummary  `json:"income"`
		Expenses ExpenseSummary `json:"expenses"`
		Net      float64        `json:"net"` // actual income - actual expenses
	}
)
