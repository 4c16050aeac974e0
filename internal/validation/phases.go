package validation

import (
	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// Required top-level sections per phase.
// ⭐ SSOT: 단계별 필수 섹션은 여기서만 정의
var (
	discoveryRequiredSections = []string{
		"economic_indicators",
		"business_cycle_data",
		"monetary_policy_context",
	}

	analysisRequiredSections = []string{
		"business_cycle_modeling",
		"economic_forecasting",
		"risk_assessment",
	}

	synthesisRequiredSections = []string{
		"Executive Summary",
		"Economic Positioning",
		"Risk Assessment",
	}
)

// DiscoveryRules is the rule table for discovery artifacts.
func DiscoveryRules() []Rule {
	return []Rule{
		freshnessRule(contracts.PhaseDiscovery),
		completenessRule(contracts.PhaseDiscovery, discoveryRequiredSections),
		cyclePhaseRule(contracts.PhaseDiscovery),
		confidenceRule(contracts.PhaseDiscovery),
	}
}

// AnalysisRules is the rule table for analysis artifacts.
func AnalysisRules() []Rule {
	return []Rule{
		freshnessRule(contracts.PhaseAnalysis),
		completenessRule(contracts.PhaseAnalysis, analysisRequiredSections),
		cyclePhaseRule(contracts.PhaseAnalysis),
		confidenceRule(contracts.PhaseAnalysis),
	}
}

// SynthesisRules is the rule table for rendered synthesis documents.
// Synthesis is customer-facing, so it additionally scans for literal
// values that should be template references.
func SynthesisRules() []Rule {
	return []Rule{
		freshnessRule(contracts.PhaseSynthesis),
		completenessRule(contracts.PhaseSynthesis, synthesisRequiredSections),
		hardcodedValueRule(),
	}
}

// ValidateDiscovery scores one discovery artifact. Total function:
// a nil artifact yields a score-0 result, never an error.
func ValidateDiscovery(a *artifacts.Artifact, ctx Context) contracts.ValidationResult {
	return Evaluate(contracts.PhaseDiscovery, DiscoveryRules(), a, ctx)
}

// ValidateAnalysis scores one analysis artifact.
func ValidateAnalysis(a *artifacts.Artifact, ctx Context) contracts.ValidationResult {
	return Evaluate(contracts.PhaseAnalysis, AnalysisRules(), a, ctx)
}

// ValidateSynthesis scores one synthesis document.
func ValidateSynthesis(a *artifacts.Artifact, ctx Context) contracts.ValidationResult {
	return Evaluate(contracts.PhaseSynthesis, SynthesisRules(), a, ctx)
}
