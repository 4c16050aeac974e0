package qualityconfig

import "fmt"

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	if cfg.VarianceThreshold <= 0 || cfg.VarianceThreshold > 0.5 {
		return ValidationError{"variance_threshold", "must be in (0, 0.5]"}
	}
	if cfg.StalenessHours <= 0 {
		return ValidationError{"staleness_hours", "must be > 0"}
	}
	if cfg.MinInstitutionalScore <= 0 || cfg.MinInstitutionalScore > 1 {
		return ValidationError{"min_institutional_score", "must be in (0, 1]"}
	}
	if cfg.MinConfidenceScore <= 0 || cfg.MinConfidenceScore > 1 {
		return ValidationError{"min_confidence_score", "must be in (0, 1]"}
	}
	if cfg.MinConfidenceScore > cfg.MinInstitutionalScore {
		return ValidationError{"min_confidence_score", "must not exceed min_institutional_score"}
	}
	if cfg.CheckIntervalMinutes <= 0 {
		return ValidationError{"check_interval_minutes", "must be > 0"}
	}
	if cfg.AlertFrequencyMinutes <= 0 {
		return ValidationError{"alert_frequency_minutes", "must be > 0"}
	}
	if len(cfg.RegionsToMonitor) == 0 {
		return ValidationError{"regions_to_monitor", "at least one region required"}
	}

	for i, g := range cfg.Gates {
		if g.Name == "" {
			return ValidationError{fmt.Sprintf("gates[%d].name", i), "required"}
		}
		if g.Threshold < 0 || g.Threshold > 1 {
			return ValidationError{fmt.Sprintf("gates[%d].threshold", i), "must be in [0, 1]"}
		}
	}

	if cfg.Notifications.Enabled {
		hasWebhook := cfg.Notifications.WebhookURL != ""
		hasEmail := cfg.Notifications.Email.SMTPHost != "" && len(cfg.Notifications.Email.Recipients) > 0
		if !hasWebhook && !hasEmail {
			return ValidationError{"notifications", "enabled but no webhook_url or email transport configured"}
		}
	}

	return nil
}
