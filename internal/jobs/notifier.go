package jobs

import (
	"fmt"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Notifier delivers operator alerts
type Notifier interface {
	Notify(subject, body string) error
}

// sendFunc matches (*email.Email).Send
type sendFunc func(e *email.Email, addr string) error

// EmailNotifier sends alerts through an unauthenticated SMTP relay
type EmailNotifier struct {
	addr   string
	from   string
	to     []string
	logger logrus.FieldLogger
	send   sendFunc
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(addr, from string, to []string, logger logrus.FieldLogger) *EmailNotifier {
	return &EmailNotifier{
		addr:   addr,
		from:   from,
		to:     to,
		logger: logger,
		send: func(e *email.Email, addr string) error {
			return e.Send(addr, nil)
		},
	}
}

// Notify sends a plain text alert to every recipient
func (n *EmailNotifier) Notify(subject, body string) error {
	e := email.NewEmail()
	e.From = n.from
	e.To = n.to
	e.Subject = subject
	e.Text = []byte(body + "\n\nwealthdash")

	if err := n.send(e, n.addr); err != nil {
		n.logger.Errorf("Failed to send alert to %v: %v", n.to, err)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	n.logger.Infof("Alert sent to %v: %s", n.to, subject)
	return nil
}
