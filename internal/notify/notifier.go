package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/luisscruza/variantbox/internal/common/config"
	"github.com/luisscruza/variantbox/internal/common/logger"
)

// OperatorNotifier delivers the operator-facing summary of a fresh request.
// Delivery is best-effort: callers log failures and never surface them to
// the submitting user.
type OperatorNotifier interface {
	Notify(ctx context.Context, req *NotificationRequest, productName string) error
	Provider() string
}

// operatorSubject and operatorBody build the message the operator receives.
func operatorSubject() string {
	return "New back-in-stock notification request"
}

func operatorBody(req *NotificationRequest, productName string) string {
	var b strings.Builder
	b.WriteString("A customer asked to be notified when a product is back in stock:\n\n")
	b.WriteString(fmt.Sprintf("Customer email: %s\n", req.Email))
	b.WriteString(fmt.Sprintf("Product: %s\n", productName))
	if req.Label != "" {
		b.WriteString(fmt.Sprintf("Variant: %s\n", req.Label))
	}
	b.WriteString(fmt.Sprintf("Product ID: %d\n", req.ProductID))
	if req.VariationID != 0 {
		b.WriteString(fmt.Sprintf("Variation ID: %d\n", req.VariationID))
	}
	if req.Attribute != "" {
		b.WriteString(fmt.Sprintf("Attribute: %s = %s\n", req.Attribute, req.Value))
	}
	b.WriteString("\nReview all requests in the stock notifications admin panel.\n")
	return b.String()
}

// SMTPNotifier sends the operator email over SMTP.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	from     string
	operator string
	logger   logger.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, from, operator string, log logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		from:     from,
		operator: operator,
		logger:   log.WithFields(map[string]interface{}{"component": "notify.smtp"}),
	}
}

func (n *SMTPNotifier) Provider() string { return "smtp" }

func (n *SMTPNotifier) Notify(ctx context.Context, req *NotificationRequest, productName string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	message := n.buildMessage(req, productName)
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if n.cfg.UseTLS {
		return n.sendWithTLS(addr, auth, []byte(message))
	}
	return smtp.SendMail(addr, auth, n.from, []string{n.operator}, []byte(message))
}

func (n *SMTPNotifier) buildMessage(req *NotificationRequest, productName string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", n.from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", n.operator))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", operatorSubject()))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(operatorBody(req, productName))
	return b.String()
}

func (n *SMTPNotifier) sendWithTLS(addr string, auth smtp.Auth, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: n.cfg.Host,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(n.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(n.operator); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", n.operator, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
