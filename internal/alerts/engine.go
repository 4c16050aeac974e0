package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// Engine turns failed validation reports into alerts: triage severity,
// suppress duplicates within the alert frequency window, persist the
// rest and fan them out to notifiers.
type Engine struct {
	store     *history.Store
	cfg       *qualityconfig.Config
	log       *logger.Logger
	notifiers []Notifier
	now       func() time.Time
}

// NewEngine wires an alert engine. Notifier failures are logged, never
// propagated: a dead webhook must not break the monitoring cycle.
func NewEngine(store *history.Store, cfg *qualityconfig.Config, log *logger.Logger, notifiers ...Notifier) *Engine {
	return &Engine{
		store:     store,
		cfg:       cfg,
		log:       log.WithComponent("alerts"),
		notifiers: notifiers,
		now:       time.Now,
	}
}

// ProcessReport derives alerts from a finalized report, deduplicates
// them against recent history, persists and dispatches the new ones.
// Returns the alerts that survived deduplication.
func (e *Engine) ProcessReport(ctx context.Context, report *contracts.CrossValidationReport) ([]contracts.QualityAlert, error) {
	candidates := e.buildAlerts(report)
	if len(candidates) == 0 {
		return nil, nil
	}

	recent, err := e.store.AlertsSince(e.now().Add(-e.cfg.AlertFrequency()))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(recent))
	for _, a := range recent {
		seen[a.DedupKey()] = struct{}{}
	}

	var fresh []contracts.QualityAlert
	for _, a := range candidates {
		key := a.DedupKey()
		if _, dup := seen[key]; dup {
			e.log.Debugf("suppressing duplicate alert: %s", a.Message)
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, a)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	if err := e.store.AppendAlerts(fresh...); err != nil {
		return nil, err
	}

	for _, n := range e.notifiers {
		if err := n.Notify(ctx, fresh); err != nil {
			e.log.WithError(err).Errorf("notifier %s failed", n.Name())
		}
	}
	return fresh, nil
}

// buildAlerts maps report failures to alert events. A passing report
// with no violations produces nothing.
func (e *Engine) buildAlerts(report *contracts.CrossValidationReport) []contracts.QualityAlert {
	now := e.now()
	region := report.Metadata.Region
	var out []contracts.QualityAlert

	for _, issue := range report.BlockingIssues {
		out = append(out, contracts.QualityAlert{
			ID:        uuid.NewString(),
			AlertType: "gate_failure",
			Severity:  contracts.SeverityCritical,
			Message:   issue,
			Details: map[string]interface{}{
				"overall_score": report.OverallScore,
			},
			Timestamp: now,
			Region:    region,
		})
	}

	for phase, res := range report.PhaseResults {
		for _, v := range res.Violations {
			out = append(out, contracts.QualityAlert{
				ID:        uuid.NewString(),
				AlertType: violationType(v),
				Severity:  triage(report, phase),
				Message:   v,
				Details: map[string]interface{}{
					"phase":       phase,
					"phase_score": res.Score,
				},
				Timestamp: now,
				Region:    region,
			})
		}
	}
	return out
}

// violationType extracts the category prefix of a violation string.
func violationType(v string) string {
	if i := strings.Index(v, ":"); i > 0 {
		return v[:i]
	}
	return "validation"
}

// triage grades a violation's severity from the report it came from.
// Blocking state and deep score collapse are critical; a degraded run
// or a customer-facing synthesis defect is high; the rest is medium.
func triage(report *contracts.CrossValidationReport, phase string) contracts.Severity {
	switch {
	case report.OverallScore < 0.7:
		return contracts.SeverityCritical
	case report.OverallScore < 0.85, phase == string(contracts.PhaseSynthesis):
		return contracts.SeverityHigh
	default:
		return contracts.SeverityMedium
	}
}
