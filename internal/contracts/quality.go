package contracts

import "time"

// ValidationResult is the outcome of validating a single phase artifact
// (or the cross-phase check). Validators are total: internal failures are
// folded into a violation with score 0, never surfaced as an error.
// ⭐ SSOT: 검증 결과 스키마는 여기서만 정의
type ValidationResult struct {
	Passed          bool                   `json:"passed"`
	Score           float64                `json:"score"` // clamped to [0, 1]
	Details         map[string]interface{} `json:"details,omitempty"`
	Violations      []string               `json:"violations,omitempty"`
	Recommendations []string               `json:"recommendations,omitempty"`
}

// FailedResult builds a score-0 result carrying a single violation.
// Used at validator boundaries when an artifact cannot be evaluated at all.
func FailedResult(violation string) ValidationResult {
	return ValidationResult{
		Passed:     false,
		Score:      0,
		Details:    map[string]interface{}{},
		Violations: []string{violation},
	}
}

// Thresholds are the numeric knobs a validation run was executed with.
// Recorded in report metadata for reproducibility.
type Thresholds struct {
	VarianceThreshold     float64 `json:"variance_threshold"`
	StalenessHours        float64 `json:"staleness_hours"`
	MinInstitutionalScore float64 `json:"min_institutional_score"`
	MinConfidenceScore    float64 `json:"min_confidence_score"`
}

// ReportMetadata describes the context of one validation run.
type ReportMetadata struct {
	Region      string     `json:"region"`
	Date        string     `json:"date,omitempty"` // YYYYMMDD, empty when "latest"
	Thresholds  Thresholds `json:"thresholds"`
	ConfigHash  string     `json:"config_hash,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// QualityGate is a declarative, named threshold check evaluated against a
// report, not against raw artifacts. A failing blocking gate forces the
// final verdict to fail regardless of the numeric score.
type QualityGate struct {
	Name        string  `json:"name"`
	Threshold   float64 `json:"threshold"`
	Blocking    bool    `json:"blocking"`
	Description string  `json:"description"`
}

// GateResult is the evaluation of one gate against a report.
type GateResult struct {
	Passed    bool    `json:"passed"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	Blocking  bool    `json:"blocking"`
}

// CrossValidationReport aggregates all phase results, the cross-phase
// check and gate evaluations for one region/date into a gated verdict.
type CrossValidationReport struct {
	OverallPassed   bool                        `json:"overall_passed"`
	OverallScore    float64                     `json:"overall_score"`
	PhaseResults    map[string]ValidationResult `json:"phase_results"`
	GateResults     map[string]GateResult       `json:"gate_results,omitempty"`
	CriticalIssues  []string                    `json:"critical_issues,omitempty"`
	BlockingIssues  []string                    `json:"blocking_issues,omitempty"`
	Recommendations []string                    `json:"recommendations,omitempty"`
	Metadata        ReportMetadata              `json:"metadata"`
}

// Finalize derives OverallPassed from the score and blocking issues.
// ⭐ overall_passed는 항상 여기서 파생 (직접 설정 금지)
func (r *CrossValidationReport) Finalize(minInstitutionalScore float64) {
	r.OverallScore = ClampScore(r.OverallScore)
	r.OverallPassed = r.OverallScore >= minInstitutionalScore && len(r.BlockingIssues) == 0
}

// Certified reports whether the run earns institutional certification:
// overall pass at or above 0.9 with no blocking issues.
func (r *CrossValidationReport) Certified() bool {
	return r.OverallPassed && r.OverallScore >= 0.9
}

// ClampScore restricts a score to [0, 1].
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
