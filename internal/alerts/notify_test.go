package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

func sampleAlerts() []contracts.QualityAlert {
	return []contracts.QualityAlert{
		{
			ID:        "a1",
			AlertType: "gate_failure",
			Severity:  contracts.SeverityCritical,
			Message:   "gate_failure: institutional_quality (score 0.877, threshold 0.900)",
			Timestamp: time.Now(),
			Region:    "US",
		},
	}
}

func TestWebhookNotifierPostsBatch(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, logger.Nop())
	require.NoError(t, n.Notify(context.Background(), sampleAlerts()))

	assert.Equal(t, "sensylate-quality-monitor", received["source"])
	batch, ok := received["alerts"].([]interface{})
	require.True(t, ok)
	require.Len(t, batch, 1)
}

func TestWebhookNotifierRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, logger.Nop())
	err := n.Notify(context.Background(), sampleAlerts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestNotifiersFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   qualityconfig.Notifications
		wants []string
	}{
		{
			name:  "disabled keeps only the log channel",
			cfg:   qualityconfig.Notifications{Enabled: false, WebhookURL: "https://example.com/hook"},
			wants: []string{"log"},
		},
		{
			name:  "webhook enabled",
			cfg:   qualityconfig.Notifications{Enabled: true, WebhookURL: "https://example.com/hook"},
			wants: []string{"log", "webhook"},
		},
		{
			name: "webhook and email enabled",
			cfg: qualityconfig.Notifications{
				Enabled:    true,
				WebhookURL: "https://example.com/hook",
				Email: qualityconfig.EmailConfig{
					SMTPHost:   "smtp.example.com",
					SMTPPort:   587,
					From:       "quality@example.com",
					Recipients: []string{"oncall@example.com"},
				},
			},
			wants: []string{"log", "webhook", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifiers := NotifiersFromConfig(tt.cfg, logger.Nop())
			var names []string
			for _, n := range notifiers {
				names = append(names, n.Name())
			}
			assert.Equal(t, tt.wants, names)
		})
	}
}

func TestBuildEmailBody(t *testing.T) {
	body := string(buildEmailBody("quality@example.com", []string{"a@example.com", "b@example.com"}, sampleAlerts()))

	assert.Contains(t, body, "From: quality@example.com")
	assert.Contains(t, body, "To: a@example.com, b@example.com")
	assert.Contains(t, body, "Subject: [sensylate] 1 quality alert(s)")
	assert.Contains(t, body, "[CRITICAL]")
	assert.Contains(t, body, "institutional_quality")
}
