// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message. TextBody is required; HTMLBody is
// optional and, when present, the message goes out multipart/alternative.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends mail over SMTP with plain auth. A zero Host disables
// sending, which keeps local dev and tests quiet without a fake server.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	log      *zap.Logger
}

func New(host string, port int, username, password, from string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		log:      logger,
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers one message. Disabled mailers log and drop instead of
// failing the surrounding operation.
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		m.log.Info("mailer disabled, dropping email",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	msg := m.assemble(e)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{e.To}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", e.To, err)
	}
	m.log.Info("email sent",
		zap.String("to", e.To),
		zap.String("subject", e.Subject))
	return nil
}

const altBoundary = "=_menucasa_alt_boundary"

func (m *Mailer) assemble(e Email) []byte {
	var b strings.Builder

	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + e.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", e.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	b.WriteString(`Content-Type: multipart/alternative; boundary="` + altBoundary + `"` + "\r\n\r\n")

	b.WriteString("--" + altBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(e.TextBody)
	b.WriteString("\r\n")

	b.WriteString("--" + altBoundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(e.HTMLBody)
	b.WriteString("\r\n")

	b.WriteString("--" + altBoundary + "--\r\n")
	return []byte(b.String())
}
