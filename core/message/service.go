package message

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core"
	"github.com/testxbusiness/csromawebapp/core/user"
)

var (
	// errors
	ErrNotFound     = errors.New("messaggio non trovato")
	ErrNoRecipients = errors.New("nessun destinatario per questa squadra")
)

type (
	Repository interface {
		CreateMessage(msg Message) (Message, error)
		CreateRecipients(rcpts ...Recipient) error
		QueryMessages(teamID uuid.UUID) ([]Message, error)
		GetMessageByID(id uuid.UUID) (Message, error)
		QueryRecipients(messageID uuid.UUID) ([]Recipient, error)
		MarkRead(messageID, profileID uuid.UUID) error
	}

	// ProfileLister yields a team's member profiles; satisfied by the club repository.
	ProfileLister interface {
		QueryTeamMemberProfiles(teamID uuid.UUID) ([]user.User, error)
	}

	Service struct {
		repo    Repository
		members ProfileLister
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, members ProfileLister, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, members: members, mailSvc: mailSvc, logger: logger}
}

// Send persists the message, fans it out to the team's members and dispatches
// the email copies. Email delivery is best-effort: failures are logged by the
// mail service, never surfaced to the caller.
func (svc *Service) Send(senderID uuid.UUID, nm NewMessage) (Message, error) {
	profiles, err := svc.members.QueryTeamMemberProfiles(nm.TeamID)
	if err != nil {
		return Message{}, err
	}
	if len(profiles) == 0 {
		return Message{}, ErrNoRecipients
	}

	msg, err := svc.repo.CreateMessage(Message{
		ID:        uuid.New(),
		SenderID:  senderID,
		TeamID:    nm.TeamID,
		Subject:   nm.Subject,
		Body:      nm.Body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Message{}, err
	}

	rcpts := make([]Recipient, 0, len(profiles))
	addrs := make([]mail.Address, 0, len(profiles))
	for _, p := range profiles {
		rcpts = append(rcpts, Recipient{MessageID: msg.ID, ProfileID: p.ID})
		if p.Email != "" {
			addrs = append(addrs, mail.Address{Name: p.Name, Address: p.Email})
		}
	}
	if err = svc.repo.CreateRecipients(rcpts...); err != nil {
		// message stays committed; recipients are gone. No rollback.
		return msg, errors.Wrap(err, "creating recipients")
	}

	if missing := len(profiles) - len(addrs); missing > 0 {
		svc.logger.Warn(fmt.Sprintf("message %s: %d of %d recipients have no email address", msg.ID, missing, len(profiles)))
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      addrs,
		Subject: msg.Subject,
		BodyStr: msg.Body,
	})
	return msg, nil
}

func (svc *Service) Query(teamID uuid.UUID) ([]Message, error) {
	return svc.repo.QueryMessages(teamID)
}

func (svc *Service) GetByID(id uuid.UUID) (Message, error) {
	return svc.repo.GetMessageByID(id)
}

func (svc *Service) Recipients(messageID uuid.UUID) ([]Recipient, error) {
	return svc.repo.QueryRecipients(messageID)
}

func (svc *Service) MarkRead(messageID, profileID uuid.UUID) error {
	return svc.repo.MarkRead(messageID, profileID)
}
