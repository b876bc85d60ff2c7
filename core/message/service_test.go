package message_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/testxbusiness/csromawebapp/core/message"
	"github.com/testxbusiness/csromawebapp/core/user"
	emailsvc "github.com/testxbusiness/csromawebapp/services/email"
	dummydb "github.com/testxbusiness/csromawebapp/storage/database/dummy"
	testutil "github.com/testxbusiness/csromawebapp/tests"
)

// recordingLogger captures warnings so tests can assert on them.
type recordingLogger struct {
	warns []string
}

func (l *recordingLogger) Enable(bool)                  {}
func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(msg string, _ ...interface{}) {
	l.warns = append(l.warns, msg)
}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Fatal(string, ...interface{}) {}

func Test_messageService_Send(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	repo := dummydb.NewMessageRepository(db)
	clubRepo := dummydb.NewClubRepository(db)
	usrRepo := dummydb.NewUserRepository(db)
	logger := &recordingLogger{}
	svc := message.NewService(repo, clubRepo, emailsvc.NewConsoleServiceMock(testutil.NewConfig()), logger)

	team := testutil.CreateTeam(t, clubRepo, "Under 14")
	withMail := testutil.CreateUser(t, usrRepo, "Anna", "anna01", "anna@test.it", "secret", user.AthleteRoles, true)
	noMail, err := usrRepo.CreateUser(user.User{
		ID:        uuid.New(),
		Name:      "Bruno",
		Username:  "bruno01",
		Roles:     user.AthleteRoles,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	testutil.AddMember(t, clubRepo, team.ID, withMail.ID)
	testutil.AddMember(t, clubRepo, team.ID, noMail.ID)

	sender := uuid.New()
	msg, err := svc.Send(sender, message.NewMessage{TeamID: team.ID, Subject: "Avviso", Body: "Palestra chiusa."})
	if err != nil {
		t.Fatalf("Send(): %v", err)
	}
	if msg.SenderID != sender {
		t.Errorf("sender = %v; want %v", msg.SenderID, sender)
	}

	rcpts, err := svc.Recipients(msg.ID)
	if err != nil {
		t.Fatalf("Recipients(): %v", err)
	}
	if len(rcpts) != 2 {
		t.Errorf("len(recipients) = %v; want 2", len(rcpts))
	}

	// the member without an email address is logged, not dropped
	if len(logger.warns) != 1 {
		t.Errorf("warns = %v; want exactly one missing-address warning", logger.warns)
	}
}

func Test_messageService_Send_noRecipients(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	clubRepo := dummydb.NewClubRepository(db)
	logger := &recordingLogger{}
	svc := message.NewService(dummydb.NewMessageRepository(db), clubRepo, emailsvc.NewConsoleServiceMock(testutil.NewConfig()), logger)

	team := testutil.CreateTeam(t, clubRepo, "Under 14")
	_, err = svc.Send(uuid.New(), message.NewMessage{TeamID: team.ID, Subject: "Avviso", Body: "Testo."})
	if errors.Cause(err) != message.ErrNoRecipients {
		t.Errorf("Send() error = %v; want ErrNoRecipients", err)
	}
}
