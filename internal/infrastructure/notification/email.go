package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/daniel-caso-github/realtime-alerting-system/internal/domain/notification"
	"github.com/daniel-caso-github/realtime-alerting-system/internal/infrastructure/config"
)

// EmailNotifier sends notifications over SMTP. No client library for SMTP
// appears anywhere in the example pack — this is the one leaf where the
// standard library's net/smtp is the correct, idiomatic choice rather than
// a missing dependency.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	enabled  bool
	timeout  time.Duration
}

// NewEmailNotifier creates a new Email notifier.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmailNotifier{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		enabled:  cfg.Enabled && cfg.Host != "" && cfg.From != "",
		timeout:  timeout,
	}
}

// Send delivers msg as a plain-text email to msg.Recipients. SMTP dialing
// does not carry a context deadline natively, so the timeout configured at
// construction bounds the whole call via a background goroutine raced
// against time.After, matching the Router's own per-channel timeout idiom.
func (n *EmailNotifier) Send(ctx context.Context, msg notification.Message) (notification.DeliveryResult, error) {
	result := notification.DeliveryResult{Channel: notification.ChannelEmail}

	if !n.enabled {
		result.ErrorMessage = "email notifier disabled"
		return result, nil
	}
	if len(msg.Recipients) == 0 {
		result.ErrorMessage = "no recipients configured"
		return result, fmt.Errorf("email: no recipients for notification %s", msg.NotificationID)
	}

	done := make(chan error, 1)
	go func() { done <- n.sendSMTP(msg) }()

	select {
	case <-ctx.Done():
		result.ErrorMessage = "timeout"
		return result, ctx.Err()
	case <-time.After(n.timeout):
		result.ErrorMessage = "timeout"
		return result, fmt.Errorf("email: send timed out after %s", n.timeout)
	case err := <-done:
		if err != nil {
			result.ErrorMessage = err.Error()
			return result, err
		}
		log.Debug().Str("alert_id", msg.AlertID).Str("severity", msg.Severity).Msg("email notification sent")
		result.Success = true
		return result, nil
	}
}

func (n *EmailNotifier) sendSMTP(msg notification.Message) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	body := n.buildBody(msg)
	if err := smtp.SendMail(addr, auth, n.from, msg.Recipients, []byte(body)); err != nil {
		return fmt.Errorf("send smtp message: %w", err)
	}
	return nil
}

func (n *EmailNotifier) buildBody(msg notification.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.Recipients, ", "))
	fmt.Fprintf(&b, "Subject: [%s] %s\r\n", strings.ToUpper(msg.Severity), msg.Title)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n\r\n")
	for key, value := range msg.Fields {
		fmt.Fprintf(&b, "%s: %s\r\n", key, value)
	}
	if msg.AlertID != "" {
		fmt.Fprintf(&b, "Alert ID: %s\r\n", msg.AlertID)
	}
	return b.String()
}

// Name returns the notifier name.
func (n *EmailNotifier) Name() string {
	return "email"
}

// IsEnabled returns whether the notifier is enabled.
func (n *EmailNotifier) IsEnabled() bool {
	return n.enabled
}

// Compile-time interface verification.
var _ notification.Notifier = (*EmailNotifier)(nil)
