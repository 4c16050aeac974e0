package contracts

import "time"

// Severity grades a quality alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// QualityAlert is an immutable event derived from a violation. Persisted
// to the alert history, never mutated after creation.
type QualityAlert struct {
	ID        string                 `json:"id"`
	AlertType string                 `json:"alert_type"`
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Region    string                 `json:"region,omitempty"`
	Indicator string                 `json:"indicator,omitempty"`
}

// DedupKey identifies alerts considered duplicates within the alert
// frequency window: same region, type and message.
func (a QualityAlert) DedupKey() string {
	return a.Region + "|" + a.AlertType + "|" + a.Message
}

// QualityMetricsSnapshot is one monitoring-cycle measurement for a region.
// Persisted to the metrics history with 30-day retention.
type QualityMetricsSnapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	OverallScore    float64   `json:"overall_score"`
	FreshnessScore  float64   `json:"freshness_score"`
	VarianceScore   float64   `json:"variance_score"`
	ValidationScore float64   `json:"validation_score"`
	AlertsCount     int       `json:"alerts_count"`
	CriticalAlerts  int       `json:"critical_alerts"`
	Region          string    `json:"region,omitempty"`
}
