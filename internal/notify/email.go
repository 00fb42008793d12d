package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const senderName = "Sitewatch"

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// EmailNotifier sends one HTML message addressed to every recipient.
type EmailNotifier struct {
	from   string
	logger *zap.Logger
	send   func(m *gomail.Message) error
}

func NewEmail(conf SMTPConfig, log *zap.Logger) (*EmailNotifier, error) {
	if conf.Host == "" {
		return nil, errors.Wrap(errInvalidConfig, "SMTP host must not be empty")
	}
	if conf.Port == 0 {
		return nil, errors.Wrap(errInvalidConfig, "SMTP port must not be zero")
	}
	if conf.From == "" {
		return nil, errors.Wrap(errInvalidConfig, "SMTP from address must not be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password)
	return &EmailNotifier{
		from:   conf.From,
		logger: log,
		send:   func(m *gomail.Message) error { return d.DialAndSend(m) },
	}, nil
}

func (e *EmailNotifier) Notify(ctx context.Context, siteName, siteURL string, recipients []string) bool {
	to := cleanRecipients(recipients)
	if len(to) == 0 {
		e.logger.Warn("notify_no_recipients", zap.String("site", siteName))
		return false
	}
	if err := ctx.Err(); err != nil {
		e.logger.Warn("notify_cancelled", zap.String("site", siteName), zap.Error(err))
		return false
	}

	m := e.buildMessage(siteName, siteURL, to)
	if err := e.send(m); err != nil {
		e.logger.Error("notify_email_failed",
			zap.String("site", siteName),
			zap.Strings("to", to),
			zap.Error(err),
		)
		return false
	}
	e.logger.Info("notify_email_sent", zap.String("site", siteName), zap.Int("recipients", len(to)))
	return true
}

func (e *EmailNotifier) buildMessage(siteName, siteURL string, to []string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.from, senderName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", offlineSubject(siteName))
	m.SetBody("text/html", offlineBody(siteName, siteURL))
	return m
}

func offlineSubject(siteName string) string {
	return fmt.Sprintf("Notification: site %s is OFFLINE", siteName)
}

const offlineTemplate = `
<p>Dear administrator,</p>
<p>The site <b>%s</b> (<a href="%s">%s</a>) is <font color="red">OFFLINE</font>.</p>
<p>Please check it and take the necessary action.</p>
<p>Regards,<br>Your monitoring team</p>
`

func offlineBody(siteName, siteURL string) string {
	u := html.EscapeString(siteURL)
	return fmt.Sprintf(offlineTemplate, html.EscapeString(siteName), u, u)
}
