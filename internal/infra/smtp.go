package infra

import (
	"fmt"
	"net/smtp"

	"tpv/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends receipt emails over SMTP with an optional PDF attachment.
type Mailer struct {
	from string
	addr string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &Mailer{
		from: cfg.SMTPUser,
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.addr != "" && m.addr[0] != ':' }

// EnviarTicket mails the receipt at pdfPath to the customer.
func (m *Mailer) EnviarTicket(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return e.Send(m.addr, m.auth)
}
