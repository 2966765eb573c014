package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer sends assignment notifications to the administrator mailbox.
type Mailer struct {
	host      string
	port      string
	from      string
	password  string
	adminCopy string
	log       *zerolog.Logger
}

func New(host, port, from, password, adminCopy string, log *zerolog.Logger) *Mailer {
	return &Mailer{
		host:      host,
		port:      port,
		from:      from,
		password:  password,
		adminCopy: adminCopy,
		log:       log,
	}
}

// Enabled reports whether enough configuration is present to send mail.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.from != "" && m.adminCopy != ""
}

func (m *Mailer) SendAssignmentEmail(staffName, eventName, eventDate, role string) error {
	subject := fmt.Sprintf("New assignment: %s", eventName)
	body := fmt.Sprintf(
		"%s has been assigned as %s to the event \"%s\" on %s.",
		staffName, role, eventName, eventDate,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, m.adminCopy, subject, body,
	)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{m.adminCopy}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send assignment email to %s: %v", m.adminCopy, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("assignment email sent to %s (event: %s)", m.adminCopy, eventName)
	return nil
}
