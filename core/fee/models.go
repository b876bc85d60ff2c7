package fee

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

// Installment payment statuses.
const (
	StatusNotDue  = "not_due"
	StatusDueSoon = "due_soon"
	StatusOverdue = "overdue"
	// StatusPartiallyPaid is reserved: accepted on manual updates,
	// never produced by derivation or the recalculation sweep.
	StatusPartiallyPaid = "partially_paid"
	// StatusPaid is only ever set by an explicit payment action.
	StatusPaid = "paid"
)

// DeriveStatus classifies an unpaid installment from its due date.
// windowDays is the due_soon lookahead (30 days in production).
func DeriveStatus(dueDate, today time.Time, windowDays int) string {
	due := core.Date(dueDate)
	now := core.Date(today)
	switch {
	case due.Before(now):
		return StatusOverdue
	case !due.After(now.AddDate(0, 0, windowDays)):
		return StatusDueSoon
	default:
		return StatusNotDue
	}
}

// MembershipFee is a fee template attached to a team. TotalAmount is always
// derived from its inputs, never accepted from the outside.
type MembershipFee struct {
	ID                uuid.UUID `json:"id" db:"id"`
	TeamID            uuid.UUID `json:"team_id" db:"team_id"`
	Name              string    `json:"name" db:"name"`
	EnrollmentFee     float64   `json:"enrollment_fee" db:"enrollment_fee"`
	InsuranceFee      float64   `json:"insurance_fee" db:"insurance_fee"`
	MonthlyFee        float64   `json:"monthly_fee" db:"monthly_fee"`
	MonthsCount       int       `json:"months_count" db:"months_count"`
	InstallmentsCount int       `json:"installments_count" db:"installments_count"`
	TotalAmount       float64   `json:"total_amount" db:"total_amount"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ComputeTotal recomputes TotalAmount; called on every create and update.
func (f *MembershipFee) ComputeTotal() {
	f.TotalAmount = f.EnrollmentFee + f.InsuranceFee + f.MonthlyFee*float64(f.MonthsCount)
}

// PredefinedInstallment is a blueprint row scoped to one MembershipFee.
// It does not represent money owed by anyone.
type PredefinedInstallment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	MembershipFeeID   uuid.UUID `json:"membership_fee_id" db:"membership_fee_id"`
	InstallmentNumber int       `json:"installment_number" db:"installment_number"`
	DueDate           time.Time `json:"due_date" db:"due_date"`
	Amount            float64   `json:"amount" db:"amount"`
}

// FeeInstallment is one athlete's installment, copied from a predefined
// installment at generation time. Unique on (profile, fee, number).
type FeeInstallment struct {
	ID                uuid.UUID `json:"id" db:"id"`
	MembershipFeeID   uuid.UUID `json:"membership_fee_id" db:"membership_fee_id"`
	ProfileID         uuid.UUID `json:"profile_id" db:"profile_id"`
	InstallmentNumber int       `json:"installment_number" db:"installment_number"`
	DueDate           time.Time `json:"due_date" db:"due_date"`
	Amount            float64   `json:"amount" db:"amount"`
	Status            string    `json:"status" db:"status"`
	PaidAt            null.Time `json:"paid_at" db:"paid_at"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Requests

type NewPredefinedInstallment struct {
	InstallmentNumber int       `json:"installment_number" validate:"gte=1"`
	DueDate           time.Time `json:"due_date" validate:"required"`
	Amount            float64   `json:"amount" validate:"gte=0"`
}

type NewMembershipFee struct {
	TeamID        uuid.UUID                  `json:"team_id" validate:"required"`
	Name          string                     `json:"name" validate:"required"`
	EnrollmentFee float64                    `json:"enrollment_fee" validate:"gte=0"`
	InsuranceFee  float64                    `json:"insurance_fee" validate:"gte=0"`
	MonthlyFee    float64                    `json:"monthly_fee" validate:"gte=0"`
	MonthsCount   int                        `json:"months_count" validate:"gte=0"`
	Installments  []NewPredefinedInstallment `json:"installments" validate:"omitempty,dive"`
}

func (nf *NewMembershipFee) Validate(validate *validator.Validate) error {
	nf.Name = core.CleanString(nf.Name)
	if err := validate.Struct(nf); err != nil {
		return err
	}
	return validateInstallmentNumbers(nf.Installments)
}

type UpdateMembershipFee struct {
	Name          string   `json:"name"`
	EnrollmentFee *float64 `json:"enrollment_fee" validate:"omitempty,gte=0"`
	InsuranceFee  *float64 `json:"insurance_fee" validate:"omitempty,gte=0"`
	MonthlyFee    *float64 `json:"monthly_fee" validate:"omitempty,gte=0"`
	MonthsCount   *int     `json:"months_count" validate:"omitempty,gte=0"`
}

func (uf *UpdateMembershipFee) Validate(validate *validator.Validate) error {
	uf.Name = core.CleanString(uf.Name)
	return validate.Struct(uf)
}

type BulkStatusUpdate struct {
	InstallmentIDs []uuid.UUID `json:"installment_ids" validate:"required,min=1"`
	Status         string      `json:"status" validate:"required,oneof=not_due due_soon overdue partially_paid paid"`
}

func (bu *BulkStatusUpdate) Validate(validate *validator.Validate) error {
	return validate.Struct(bu)
}

// validateInstallmentNumbers requires 1-based, sequential installment numbers.
func validateInstallmentNumbers(insts []NewPredefinedInstallment) error {
	seen := make(map[int]bool, len(insts))
	for _, inst := range insts {
		if inst.InstallmentNumber < 1 || inst.InstallmentNumber > len(insts) || seen[inst.InstallmentNumber] {
			return core.NewValidationError(nil, core.FieldError{
				Field: "installments",
				Error: "i numeri delle rate devono essere sequenziali a partire da 1",
			})
		}
		seen[inst.InstallmentNumber] = true
	}
	return nil
}
