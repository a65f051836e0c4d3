package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"furnistore/config"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// Mailer sends plain-text notification mail over an SMTP relay. With no
// host configured it logs the message and drops it, so development runs
// don't need a relay.
type Mailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *zap.Logger
}

func New(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{
		from:   cfg.From,
		logger: util.GetLogger(),
	}
	if cfg.Host != "" {
		m.addr = cfg.Host + ":" + cfg.Port
		if cfg.Username != "" {
			m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		}
	}
	return m
}

// Send delivers one message. Failures are returned for the caller to
// log; nothing here retries into the order flow.
func (m *Mailer) Send(to, subject, body string) error {
	if m.addr == "" {
		m.logger.Info("SMTP disabled, dropping mail",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", m.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
