package emailsvc

import (
	"fmt"
	"net/mail"

	"gopkg.in/gomail.v2"

	"github.com/testxbusiness/csromawebapp/core"
)

// smtpService delivers through a plain SMTP relay; the default for
// self-hosted deployments where Sendgrid is not configured.
type smtpService struct {
	conf       *core.Config
	dialer     *gomail.Dialer
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) *smtpService {
	return &smtpService{
		conf:       conf,
		dialer:     gomail.NewDialer(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.User, conf.SMTP.Password),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc smtpService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(svc.conf); err != nil {
				svc.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
			}
			if msg.HasRecipients() && msg.HasContent() {
				svc.send(*msg)
			}
		}()
	}
}

func (svc smtpService) send(msg core.EmailMessage) {
	m := gomail.NewMessage()
	from := svc.conf.DefaultFrom()
	m.SetHeader("From", from.String())
	m.SetHeader("To", addresses(msg.To)...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", addresses(msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", addresses(msg.Bcc)...)
	}
	m.SetHeader("Subject", svc.subjPrefix+msg.Subject)

	m.SetBody("text/plain", msg.TextContent)
	if msg.HTMLContent != "" {
		m.AddAlternative("text/html", msg.HTMLContent)
	}

	if err := svc.dialer.DialAndSend(m); err != nil {
		svc.logger.Error(fmt.Sprintf("sending email: %v", err), err)
	}
}

func addresses(addrs []mail.Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}
