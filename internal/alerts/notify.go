package alerts

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// Notifier delivers a batch of alerts to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alerts []contracts.QualityAlert) error
}

// NotifiersFromConfig builds the notifier set for a notifications
// config. The log notifier is always present; webhook and email are
// added when configured and enabled.
func NotifiersFromConfig(cfg qualityconfig.Notifications, log *logger.Logger) []Notifier {
	notifiers := []Notifier{NewLogNotifier(log)}
	if !cfg.Enabled {
		return notifiers
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, NewWebhookNotifier(cfg.WebhookURL, log))
	}
	if cfg.Email.SMTPHost != "" && len(cfg.Email.Recipients) > 0 {
		notifiers = append(notifiers, NewEmailNotifier(cfg.Email))
	}
	return notifiers
}

// LogNotifier writes alerts to the structured log. Always active so
// every alert is observable even with no external channel configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("alert_log")}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, alerts []contracts.QualityAlert) error {
	for _, a := range alerts {
		event := n.log.WithFields(map[string]interface{}{
			"alert_id":   a.ID,
			"alert_type": a.AlertType,
			"severity":   string(a.Severity),
			"region":     a.Region,
		})
		switch a.Severity {
		case contracts.SeverityCritical, contracts.SeverityHigh:
			event.Error(a.Message)
		default:
			event.Warn(a.Message)
		}
	}
	return nil
}

// WebhookNotifier POSTs alert batches as JSON to a configured endpoint.
// Deliveries are rate limited so an alert storm cannot flood the
// receiver, and transient failures are retried by the client.
type WebhookNotifier struct {
	url     string
	client  *resty.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewWebhookNotifier(url string, log *logger.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookNotifier{
		url:     url,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		log:     log.WithComponent("alert_webhook"),
	}
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Notify(ctx context.Context, alerts []contracts.QualityAlert) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("webhook rate limit wait: %w", err)
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"source": "sensylate-quality-monitor",
			"alerts": alerts,
		}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook delivery: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook delivery: unexpected status %d", resp.StatusCode())
	}
	n.log.Debugf("delivered %d alerts to webhook", len(alerts))
	return nil
}

// EmailNotifier sends one plain-text summary mail per alert batch.
type EmailNotifier struct {
	cfg qualityconfig.EmailConfig
}

func NewEmailNotifier(cfg qualityconfig.EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(_ context.Context, alerts []contracts.QualityAlert) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)
	msg := buildEmailBody(n.cfg.From, n.cfg.Recipients, alerts)
	if err := smtp.SendMail(addr, nil, n.cfg.From, n.cfg.Recipients, msg); err != nil {
		return fmt.Errorf("send alert mail: %w", err)
	}
	return nil
}

func buildEmailBody(from string, to []string, alerts []contracts.QualityAlert) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: [sensylate] %d quality alert(s)\r\n", len(alerts))
	b.WriteString("\r\n")
	for _, a := range alerts {
		fmt.Fprintf(&b, "[%s] %s (%s, region %s)\r\n",
			strings.ToUpper(string(a.Severity)), a.Message, a.AlertType, a.Region)
	}
	return []byte(b.String())
}
