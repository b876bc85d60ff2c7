package message

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core"
)

// Message is an announcement sent to a team's members.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SenderID  uuid.UUID `json:"sender_id" db:"sender_id"`
	TeamID    uuid.UUID `json:"team_id" db:"team_id"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Recipient is the message<->profile fan-out row.
type Recipient struct {
	MessageID uuid.UUID `json:"message_id" db:"message_id"`
	ProfileID uuid.UUID `json:"profile_id" db:"profile_id"`
	ReadAt    null.Time `json:"read_at" db:"read_at"`
}

type NewMessage struct {
	TeamID  uuid.UUID `json:"team_id" validate:"required"`
	Subject string    `json:"subject" validate:"required"`
	Body    string    `json:"body" validate:"required"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Subject = core.CleanString(nm.Subject)
	nm.Body = core.CleanString(nm.Body)
	return validate.Struct(nm)
}
