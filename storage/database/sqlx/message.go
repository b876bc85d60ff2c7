package sqlxrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/testxbusiness/csromawebapp/core/message"
)

type messageRepository struct {
	db *sqlx.DB
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *sqlx.DB) *messageRepository {
	return &messageRepository{db: db}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	q := `INSERT INTO messages (id, sender_id, team_id, subject, body, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := repo.db.Exec(q, msg.ID, msg.SenderID, msg.TeamID, msg.Subject, msg.Body, msg.CreatedAt)
	return msg, err
}

func (repo *messageRepository) CreateRecipients(rcpts ...message.Recipient) error {
	if len(rcpts) == 0 {
		return nil
	}
	q := `INSERT INTO message_recipients (message_id, profile_id, read_at)
	      VALUES (:message_id, :profile_id, :read_at)`
	_, err := repo.db.NamedExec(q, rcpts)
	return err
}

func (repo *messageRepository) QueryMessages(teamID uuid.UUID) ([]message.Message, error) {
	q := `SELECT * FROM messages`
	args := []interface{}{}
	if teamID != uuid.Nil {
		q += ` WHERE team_id = $1`
		args = append(args, teamID)
	}
	q += ` ORDER BY created_at DESC`

	var msgs []message.Message
	err := repo.db.Select(&msgs, q, args...)
	return msgs, err
}

func (repo *messageRepository) GetMessageByID(id uuid.UUID) (message.Message, error) {
	var msg message.Message
	err := repo.db.Get(&msg, `SELECT * FROM messages WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return message.Message{}, message.ErrNotFound
	}
	return msg, err
}

func (repo *messageRepository) QueryRecipients(messageID uuid.UUID) ([]message.Recipient, error) {
	q := `SELECT * FROM message_recipients WHERE message_id = $1 ORDER BY profile_id`
	var rcpts []message.Recipient
	err := repo.db.Select(&rcpts, q, messageID)
	return rcpts, err
}

func (repo *messageRepository) MarkRead(messageID, profileID uuid.UUID) error {
	q := `UPDATE message_recipients SET read_at = NOW()
	      WHERE message_id = $1 AND profile_id = $2 AND read_at IS NULL`
	// already-read rows are left alone; a non-recipient is a no-op
	_, err := repo.db.Exec(q, messageID, profileID)
	return err
}
