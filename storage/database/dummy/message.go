package dummydb

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/testxbusiness/csromawebapp/core/message"
)

type messageRepository struct {
	db *messageTable
}

var _ message.Repository = (*messageRepository)(nil) // interface compliance check

func NewMessageRepository(db *DB) message.Repository {
	return &messageRepository{db: db.message}
}

func (repo *messageRepository) CreateMessage(msg message.Message) (message.Message, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.messages[msg.ID] = &msg
	return msg, nil
}

func (repo *messageRepository) CreateRecipients(rcpts ...message.Recipient) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range rcpts {
		rcpt := rcpts[i]
		repo.db.recipients[pairKey{rcpt.MessageID, rcpt.ProfileID}] = &rcpt
	}
	return nil
}

func (repo *messageRepository) QueryMessages(teamID uuid.UUID) ([]message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	msgs := make([]message.Message, 0, len(repo.db.messages))
	for _, msg := range repo.db.messages {
		if teamID != uuid.Nil && msg.TeamID != teamID {
			continue
		}
		msgs = append(msgs, *msg)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

func (repo *messageRepository) GetMessageByID(id uuid.UUID) (message.Message, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if msg, ok := repo.db.messages[id]; ok {
		return *msg, nil
	}
	return message.Message{}, message.ErrNotFound
}

func (repo *messageRepository) QueryRecipients(messageID uuid.UUID) ([]message.Recipient, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var rcpts []message.Recipient
	for _, rcpt := range repo.db.recipients {
		if rcpt.MessageID == messageID {
			rcpts = append(rcpts, *rcpt)
		}
	}
	sort.Slice(rcpts, func(i, j int) bool { return rcpts[i].ProfileID.String() < rcpts[j].ProfileID.String() })
	return rcpts, nil
}

func (repo *messageRepository) MarkRead(messageID, profileID uuid.UUID) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if rcpt, ok := repo.db.recipients[pairKey{messageID, profileID}]; ok && !rcpt.ReadAt.Valid {
		rcpt.ReadAt = null.TimeFrom(time.Now().UTC())
	}
	return nil
}
