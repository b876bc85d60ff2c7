package club

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

type Season struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Activity struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	SeasonID    uuid.UUID   `json:"season_id" db:"season_id"`
	Name        string      `json:"name" db:"name"`
	Description null.String `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

type Gym struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Address   null.String `json:"address" db:"address"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

type Team struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	ActivityID uuid.UUID   `json:"activity_id" db:"activity_id"`
	GymID      uuid.UUID   `json:"gym_id" db:"gym_id"` // uuid.Nil when unset
	Name       string      `json:"name" db:"name"`
	Category   null.String `json:"category" db:"category"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// TeamMember is the team<->athlete join row.
type TeamMember struct {
	TeamID       uuid.UUID `json:"team_id" db:"team_id"`
	ProfileID    uuid.UUID `json:"profile_id" db:"profile_id"`
	JerseyNumber null.Int  `json:"jersey_number" db:"jersey_number"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TeamCoach is the team<->coach join row.
type TeamCoach struct {
	TeamID    uuid.UUID `json:"team_id" db:"team_id"`
	CoachID   uuid.UUID `json:"coach_id" db:"coach_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Requests

type NewSeason struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	IsActive  bool      `json:"is_active"`
}

func (ns *NewSeason) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type NewActivity struct {
	SeasonID    uuid.UUID `json:"season_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.Name = core.CleanString(na.Name)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

type NewGym struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

func (ng *NewGym) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Address = core.CleanString(ng.Address)
	return validate.Struct(ng)
}

type NewTeam struct {
	ActivityID uuid.UUID `json:"activity_id" validate:"required"`
	GymID      uuid.UUID `json:"gym_id"`
	Name       string    `json:"name" validate:"required"`
	Category   string    `json:"category"`
}

func (nt *NewTeam) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Category = core.CleanString(nt.Category)
	return validate.Struct(nt)
}

// Bulk athlete operations

const (
	BulkOpAssign        = "assign"
	BulkOpRemove        = "remove"
	BulkOpUpdateJersey  = "update_jersey"
	BulkOpUpdateMedical = "update_medical"
)

// BulkAthletesRequest drives the admin bulk flow; DryRun previews the
// affected count without persisting anything.
type BulkAthletesRequest struct {
	Operation         string      `json:"operation" validate:"required,oneof=assign remove update_jersey update_medical"`
	TeamID            uuid.UUID   `json:"team_id"`
	ProfileIDs        []uuid.UUID `json:"profile_ids" validate:"required,min=1"`
	JerseyNumbers     map[string]int `json:"jersey_numbers"` // profile id -> number
	MedicalCertExpiry null.Time   `json:"medical_cert_expiry"`
	DryRun            bool        `json:"dryRun"`
}

func (br *BulkAthletesRequest) Validate(validate *validator.Validate) error {
	if err := validate.Struct(br); err != nil {
		return err
	}
	switch br.Operation {
	case BulkOpAssign, BulkOpRemove, BulkOpUpdateJersey:
		if br.TeamID == uuid.Nil {
			return core.NewValidationError(nil, core.FieldError{Field: "team_id", Error: "campo obbligatorio"})
		}
	case BulkOpUpdateMedical:
		if !br.MedicalCertExpiry.Valid {
			return core.NewValidationError(nil, core.FieldError{Field: "medical_cert_expiry", Error: "campo obbligatorio"})
		}
	}
	return nil
}

type BulkResult struct {
	Affected int    `json:"affected"`
	DryRun   bool   `json:"dry_run"`
	Message  string `json:"message"`
}
