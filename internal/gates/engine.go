package gates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
)

// DefaultGates is the standard gate table applied to every report.
// Config may override thresholds or blocking flags by gate name.
// ⭐ SSOT: 기본 게이트 테이블은 여기서만 정의
func DefaultGates() []contracts.QualityGate {
	return []contracts.QualityGate{
		{Name: "data_freshness", Threshold: 0.9, Blocking: true,
			Description: "All phase artifacts fresh within the staleness window"},
		{Name: "variance_compliance", Threshold: 0.02, Blocking: true,
			Description: "Cross-phase indicator drift within the variance threshold"},
		{Name: "cross_validation", Threshold: 0.85, Blocking: true,
			Description: "Discovery and analysis artifacts mutually consistent"},
		{Name: "institutional_quality", Threshold: 0.9, Blocking: true,
			Description: "Overall score meets institutional grade"},
	}
}

// Engine evaluates a gate table against validation reports.
type Engine struct {
	gates []contracts.QualityGate
	cfg   *qualityconfig.Config
}

// NewEngine builds an engine from the default table with config
// overrides merged in by name. Unknown names from config are appended
// as extra score-threshold gates.
func NewEngine(cfg *qualityconfig.Config) *Engine {
	gates := DefaultGates()
	for _, override := range cfg.Gates {
		merged := false
		for i := range gates {
			if gates[i].Name == override.Name {
				gates[i].Threshold = override.Threshold
				gates[i].Blocking = override.Blocking
				if override.Description != "" {
					gates[i].Description = override.Description
				}
				merged = true
				break
			}
		}
		if !merged {
			gates = append(gates, contracts.QualityGate{
				Name:        override.Name,
				Threshold:   override.Threshold,
				Blocking:    override.Blocking,
				Description: override.Description,
			})
		}
	}
	return &Engine{gates: gates, cfg: cfg}
}

// Gates returns the merged gate table in evaluation order.
func (e *Engine) Gates() []contracts.QualityGate {
	return e.gates
}

// Apply evaluates every gate against the report, records per-gate
// results, folds failing blocking gates into BlockingIssues and then
// finalizes the verdict. Apply is the only path that sets
// overall_passed on a report.
func (e *Engine) Apply(report *contracts.CrossValidationReport) {
	if report.GateResults == nil {
		report.GateResults = make(map[string]contracts.GateResult, len(e.gates))
	}

	for _, gate := range e.gates {
		result := e.evaluate(gate, report)
		report.GateResults[gate.Name] = result
		if !result.Passed && gate.Blocking {
			report.BlockingIssues = append(report.BlockingIssues,
				fmt.Sprintf("gate_failure: %s (score %.3f, threshold %.3f)",
					gate.Name, result.Score, gate.Threshold))
		}
	}
	sort.Strings(report.BlockingIssues)

	report.Finalize(e.cfg.MinInstitutionalScore)
}

func (e *Engine) evaluate(gate contracts.QualityGate, report *contracts.CrossValidationReport) contracts.GateResult {
	var passed bool
	var score float64

	switch gate.Name {
	case "data_freshness":
		score = minPhaseDetail(report, "freshness")
		passed = score >= gate.Threshold && !anyViolation(report, "freshness:", "stale")

	case "variance_compliance":
		score = crossDetail(report, "variance_score")
		passed = !anyViolation(report, "variance:")

	case "cross_validation":
		score = report.PhaseResults[contracts.CrossPhaseKey].Score
		passed = score >= gate.Threshold

	default:
		// institutional_quality and any configured extras gate on the
		// overall score.
		score = report.OverallScore
		passed = score >= gate.Threshold
	}

	return contracts.GateResult{
		Passed:    passed,
		Score:     contracts.ClampScore(score),
		Threshold: gate.Threshold,
		Blocking:  gate.Blocking,
	}
}

// minPhaseDetail returns the minimum value of a per-rule detail across
// the three pipeline phases. Phases without the detail count as 0.
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

// crossDetail reads a numeric detail off the cross-phase result.
func crossDetail(report *contracts.CrossValidationReport, key string) float64 {
	res, ok := report.PhaseResults[contracts.CrossPhaseKey]
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
	return f
}

// anyViolation reports whether any phase or cross-phase violation
// contains one of the given substrings.
func anyViolation(report *contracts.CrossValidationReport, substrings ...string) bool {
	for _, res := range report.PhaseResults {
		for _, v := range res.Violations {
			for _, s := range substrings {
				if strings.Contains(v, s) {
					return true
				}
			}
		}
	}
	return false
}
