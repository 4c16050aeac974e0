package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"

	"github.com/ColeMorton/sensylate-sub000/internal/alerts"
	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/gates"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/internal/validation"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// Monitor runs validation cycles: on demand for one region/date, or
// continuously on a cron schedule for every configured region.
type Monitor struct {
	loader     *artifacts.Loader
	cfg        *qualityconfig.Config
	configHash string
	gates      *gates.Engine
	alerts     *alerts.Engine
	store      *history.Store
	log        *logger.Logger
	now        func() time.Time
}

// New wires a monitor. The alert engine may be nil for one-shot
// validation paths that only need a report.
func New(loader *artifacts.Loader, cfg *qualityconfig.Config, configHash string,
	gateEngine *gates.Engine, alertEngine *alerts.Engine, store *history.Store, log *logger.Logger) *Monitor {
	return &Monitor{
		loader:     loader,
		cfg:        cfg,
		configHash: configHash,
		gates:      gateEngine,
		alerts:     alertEngine,
		store:      store,
		log:        log.WithComponent("monitor"),
		now:        time.Now,
	}
}

// RunValidation validates one region's pipeline artifacts and returns
// the gated report. An empty date selects the latest artifacts on disk.
func (m *Monitor) RunValidation(_ context.Context, region, date string) *contracts.CrossValidationReport {
	var arts map[contracts.Phase]*artifacts.Artifact
	if date == "" {
		arts = m.loader.LoadLatest(region)
	} else {
		arts = m.loader.LoadForDate(region, date)
	}

	vctx := validation.Context{Now: m.now(), Config: m.cfg}
	report := validation.BuildReport(region, date, arts, vctx, m.configHash)
	m.gates.Apply(report)

	m.log.WithFields(map[string]interface{}{
		"region":        region,
		"overall_score": report.OverallScore,
		"passed":        report.OverallPassed,
	}).Info("validation run complete")
	return report
}

// CheckRegion runs one full monitoring cycle for a region: validate the
// latest artifacts, raise alerts for failures and record a metrics
// snapshot. Alerting and persistence failures degrade to log entries so
// one broken channel cannot halt monitoring.
func (m *Monitor) CheckRegion(ctx context.Context, region string) (*contracts.CrossValidationReport, error) {
	report := m.RunValidation(ctx, region, "")

	raised, err := m.alerts.ProcessReport(ctx, report)
	if err != nil {
		m.log.WithError(err).Errorf("alert processing failed for %s", region)
	}

	snap := m.buildSnapshot(region, report, raised)
	if err := m.store.AppendMetrics(snap); err != nil {
		m.log.WithError(err).Errorf("metrics persistence failed for %s", region)
	}
	return report, nil
}

// Run starts the continuous monitoring loop. An immediate cycle runs at
// startup, then the cron schedule takes over until the context is
// cancelled. In-flight cycles finish before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	m.cycle(ctx)

	c := cron.New()
	spec := fmt.Sprintf("@every %dm", m.cfg.CheckIntervalMinutes)
	if _, err := c.AddFunc(spec, func() { m.cycle(ctx) }); err != nil {
		return fmt.Errorf("schedule monitoring cycle: %w", err)
	}

	m.log.Infof("monitoring started: regions=%v interval=%s", m.cfg.RegionsToMonitor, m.cfg.CheckInterval())
	c.Start()

	<-ctx.Done()
	m.log.Info("monitoring stopping, waiting for in-flight cycle")
	<-c.Stop().Done()
	m.log.Info("monitoring stopped")
	return nil
}

// cycle runs CheckRegion for every configured region.
func (m *Monitor) cycle(ctx context.Context) {
	for _, region := range m.cfg.RegionsToMonitor {
		if ctx.Err() != nil {
			return
		}
		if _, err := m.CheckRegion(ctx, region); err != nil {
			m.log.WithError(err).Errorf("monitoring cycle failed for %s", region)
		}
	}
}

// buildSnapshot condenses one cycle's report into the metrics record.
func (m *Monitor) buildSnapshot(region string, report *contracts.CrossValidationReport, raised []contracts.QualityAlert) contracts.QualityMetricsSnapshot {
	critical := 0
	for _, a := range raised {
		if a.Severity == contracts.SeverityCritical {
			critical++
		}
	}
	cross := report.PhaseResults[contracts.CrossPhaseKey]
	return contracts.QualityMetricsSnapshot{
		Timestamp:       m.now(),
		OverallScore:    report.OverallScore,
		FreshnessScore:  minPhaseDetail(report, "freshness"),
		VarianceScore:   detailFloat(cross.Details, "variance_score"),
		ValidationScore: cross.Score,
		AlertsCount:     len(raised),
		CriticalAlerts:  critical,
		Region:          region,
	}
}

func minPhaseDetail(report *contracts.CrossValidationReport, key string) float64 {
	min := 1.0
	for _, phase := range []contracts.Phase{contracts.PhaseDiscovery, contracts.PhaseAnalysis, contracts.PhaseSynthesis} {
		res, ok := report.PhaseResults[string(phase)]
		if !ok {
			return 0
		}
		v, found := res.Details[key]
		if !found {
			return 0
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0
		}
		if f < min {
			min = f
		}
	}
	return min
}

func detailFloat(details map[string]interface{}, key string) float64 {
	v, ok := details[key]
	if !ok {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return f
}
