package qualityconfig

import (
	"time"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// Config는 품질 검증/모니터링 임계값의 전체 설정
// ⭐ SSOT: 임계값 기본값은 여기서만 정의
type Config struct {
	VarianceThreshold     float64 `yaml:"variance_threshold" json:"variance_threshold"`
	StalenessHours        float64 `yaml:"staleness_hours" json:"staleness_hours"`
	MinInstitutionalScore float64 `yaml:"min_institutional_score" json:"min_institutional_score"`
	MinConfidenceScore    float64 `yaml:"min_confidence_score" json:"min_confidence_score"`
	CheckIntervalMinutes  int     `yaml:"check_interval_minutes" json:"check_interval_minutes"`
	AlertFrequencyMinutes int     `yaml:"alert_frequency_minutes" json:"alert_frequency_minutes"`

	RegionsToMonitor []string `yaml:"regions_to_monitor" json:"regions_to_monitor"`

	Gates []GateConfig `yaml:"gates,omitempty" json:"gates,omitempty"`

	Notifications Notifications `yaml:"notifications" json:"notifications"`
}

// GateConfig overrides or extends the default gate table.
type GateConfig struct {
	Name        string  `yaml:"name" json:"name"`
	Threshold   float64 `yaml:"threshold" json:"threshold"`
	Blocking    bool    `yaml:"blocking" json:"blocking"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Notifications configures optional alert delivery channels.
// The log channel is always active and needs no configuration.
type Notifications struct {
	Enabled    bool        `yaml:"enabled" json:"enabled"`
	WebhookURL string      `yaml:"webhook_url,omitempty" json:"webhook_url,omitempty"`
	Email      EmailConfig `yaml:"email,omitempty" json:"email,omitempty"`
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	SMTPHost   string   `yaml:"smtp_host,omitempty" json:"smtp_host,omitempty"`
	SMTPPort   int      `yaml:"smtp_port,omitempty" json:"smtp_port,omitempty"`
	From       string   `yaml:"from,omitempty" json:"from,omitempty"`
	Recipients []string `yaml:"recipients,omitempty" json:"recipients,omitempty"`
}

// Default returns the configuration used when no YAML file is given.
func Default() *Config {
	return &Config{
		VarianceThreshold:     0.02,
		StalenessHours:        6,
		MinInstitutionalScore: 0.90,
		MinConfidenceScore:    0.85,
		CheckIntervalMinutes:  15,
		AlertFrequencyMinutes: 60,
		RegionsToMonitor:      []string{"US"},
	}
}

// CheckInterval returns the monitoring cycle interval as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalMinutes) * time.Minute
}

// AlertFrequency returns the alert deduplication window as a duration.
func (c *Config) AlertFrequency() time.Duration {
	return time.Duration(c.AlertFrequencyMinutes) * time.Minute
}

// Staleness returns the freshness threshold as a duration.
func (c *Config) Staleness() time.Duration {
	return time.Duration(c.StalenessHours * float64(time.Hour))
}

// Thresholds converts the config into the threshold snapshot recorded in
// report metadata.
func (c *Config) Thresholds() contracts.Thresholds {
	return contracts.Thresholds{
		VarianceThreshold:     c.VarianceThreshold,
		StalenessHours:        c.StalenessHours,
		MinInstitutionalScore: c.MinInstitutionalScore,
		MinConfidenceScore:    c.MinConfidenceScore,
	}
}
