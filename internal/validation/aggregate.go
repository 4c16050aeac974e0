package validation

import (
	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// BuildReport runs every phase validator plus the cross-phase check and
// folds the results into a report. The overall score is the mean of the
// discovery, analysis and synthesis scores; the cross-phase result is
// recorded alongside them but enforced through gates rather than the
// average, so a consistency failure blocks without diluting the score.
//
// The returned report is not yet finalized: gate evaluation owns the
// blocking issues and the overall verdict.
func BuildReport(region, date string, arts map[contracts.Phase]*artifacts.Artifact, ctx Context, configHash string) *contracts.CrossValidationReport {
	discovery := ValidateDiscovery(arts[contracts.PhaseDiscovery], ctx)
	analysis := ValidateAnalysis(arts[contracts.PhaseAnalysis], ctx)
	synthesis := ValidateSynthesis(arts[contracts.PhaseSynthesis], ctx)
	cross := CheckCrossPhase(arts, ctx)

	report := &contracts.CrossValidationReport{
		OverallScore: (discovery.Score + analysis.Score + synthesis.Score) / 3,
		PhaseResults: map[string]contracts.ValidationResult{
			string(contracts.PhaseDiscovery): discovery,
			string(contracts.PhaseAnalysis):  analysis,
			string(contracts.PhaseSynthesis): synthesis,
			contracts.CrossPhaseKey:          cross,
		},
		Metadata: contracts.ReportMetadata{
			Region:      region,
			Date:        date,
			Thresholds:  ctx.Config.Thresholds(),
			ConfigHash:  configHash,
			GeneratedAt: ctx.Now,
		},
	}

	report.CriticalIssues = append(report.CriticalIssues, cross.Violations...)
	for _, phase := range contracts.Phases() {
		res, ok := report.PhaseResults[string(phase)]
		if !ok {
			continue
		}
		if res.Score < 0.7 {
			report.CriticalIssues = append(report.CriticalIssues, res.Violations...)
		}
	}

	report.Recommendations = dedupe(
		discovery.Recommendations,
		analysis.Recommendations,
		synthesis.Recommendations,
		cross.Recommendations,
	)
	return report
}

// dedupe merges recommendation lists preserving first-seen order.
func dedupe(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
