package notify

import (
	"net/smtp" // SMTP client
	"strings"  // Message assembly
)

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Addr     string // host:port of the relay
	From     string // Sender address
	Username string // Optional auth username
	Password string // Optional auth password
}

// Send delivers one message. PLAIN auth is used when a username is configured.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(m.Addr, auth, m.From, []string{to}, []byte(msg))
}
