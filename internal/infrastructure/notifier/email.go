package notifier

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/price-watcher/config"
	"github.com/yourusername/price-watcher/internal/domain/entity"
	"github.com/yourusername/price-watcher/internal/domain/repository"
	"gopkg.in/gomail.v2"
)

type emailNotifier struct {
	host string
	port int
	user string
	pass string
	to   string
	log  *logrus.Logger
	send func(m *gomail.Message) error
}

// NewEmailNotifier builds the SMTP alert channel. Without credentials it
// stays a no-op that reports OutcomeSkipped.
func NewEmailNotifier(cfg *config.Config, log *logrus.Logger) repository.Notifier {
	n := &emailNotifier{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		to:   cfg.SMTPTo,
		log:  log,
	}
	if n.to == "" {
		n.to = n.user
	}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(n.host, n.port, n.user, n.pass)
		return d.DialAndSend(m)
	}
	return n
}

func (n *emailNotifier) Name() string { return "email" }

// Send submits the alert over SMTP with STARTTLS.
func (n *emailNotifier) Send(ctx context.Context, alert entity.Alert) (entity.Outcome, error) {
	if n.user == "" || n.pass == "" {
		return entity.OutcomeSkipped, nil
	}

	p := alert.Product
	m := gomail.NewMessage()
	m.SetHeader("From", n.user)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("Price Alert: %s at $%.2f", truncate(p.Name, 50), p.Price))
	m.SetBody("text/plain", formatAlertText(alert))

	n.log.WithField("to", n.to).Debug("sending email alert")
	if err := n.send(m); err != nil {
		return entity.OutcomeFailed, fmt.Errorf("smtp send failed: %w", err)
	}
	return entity.OutcomeSent, nil
}

// formatAlertText renders the plain-text mail body.
func formatAlertText(alert entity.Alert) string {
	p := alert.Product
	body := fmt.Sprintf(`Price Watcher - Price Alert

Product: %s
Current Price: $%.2f
Target Price: $%.2f
Source: %s
`, p.Name, p.Price, alert.TargetPrice, p.Source)
	if alert.IsNewLow {
		body += "This is the lowest recorded price.\n"
	}
	body += fmt.Sprintf("\nURL: %s\n\nGet it before it's gone!\n", p.URL)
	return body
}
