package validation

import (
	"fmt"
	"math"

	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// maxConfidenceDrift is the tolerated confidence divergence between
// discovery and analysis for the same region/date.
const maxConfidenceDrift = 0.1

// CheckCrossPhase verifies that discovery and analysis artifacts agree
// with each other: same region, same business-cycle phase, confidence
// within drift tolerance, and recession probability within the variance
// threshold. Each violated category costs 0.25.
func CheckCrossPhase(arts map[contracts.Phase]*artifacts.Artifact, ctx Context) contracts.ValidationResult {
	disc := arts[contracts.PhaseDiscovery]
	anal := arts[contracts.PhaseAnalysis]

	if disc == nil || anal == nil {
		missing := string(contracts.PhaseDiscovery)
		if disc != nil {
			missing = string(contracts.PhaseAnalysis)
		}
		return contracts.FailedResult(violation(CategoryCrossPhase,
			"cannot cross-validate: %s artifact missing", missing))
	}

	var violations, recs []string
	categories := 0

	if dr, ar := disc.RegionValue(), anal.RegionValue(); dr != "" && ar != "" && dr != ar {
		categories++
		violations = append(violations, violation(CategoryCrossPhase,
			"region mismatch: discovery=%s analysis=%s", dr, ar))
		recs = append(recs, "Verify the pipeline ran both phases against the same region")
	}

	if dp, ap := disc.CyclePhase(), anal.CyclePhase(); dp != "" && ap != "" && dp != ap {
		categories++
		violations = append(violations, violation(CategoryCrossPhase,
			"business cycle phase mismatch: discovery=%s analysis=%s", dp, ap))
		recs = append(recs, "Re-run analysis so cycle positioning reflects the latest discovery data")
	}

	if dc, dok := disc.Confidence(); dok {
		if ac, aok := anal.Confidence(); aok {
			if drift := math.Abs(dc - ac); drift > maxConfidenceDrift {
				categories++
				violations = append(violations, violation(CategoryCrossPhase,
					"confidence drift %.3f exceeds %.2f tolerance (discovery=%.3f analysis=%.3f)",
					drift, maxConfidenceDrift, dc, ac))
			}
		}
	}

	varianceScore := 1.0
	if dp, dok := disc.RecessionProbability(); dok {
		if ap, aok := anal.RecessionProbability(); aok {
			drift := math.Abs(dp - ap)
			varianceScore = contracts.ClampScore(1.0 - drift)
			if drift > ctx.Config.VarianceThreshold {
				categories++
				violations = append(violations, violation(CategoryVariance,
					"recession probability drift %.4f exceeds %.4f threshold (discovery=%.4f analysis=%.4f)",
					drift, ctx.Config.VarianceThreshold, dp, ap))
				recs = append(recs, "Reconcile recession probability sources between discovery and analysis")
			}
		}
	}

	score := contracts.ClampScore(1.0 - 0.25*float64(categories))
	return contracts.ValidationResult{
		Passed: score >= ctx.Config.MinConfidenceScore && len(violations) == 0,
		Score:  score,
		Details: map[string]interface{}{
			"violated_categories": categories,
			"variance_score":      varianceScore,
			"compared":            fmt.Sprintf("%s/%s", disc.Date, anal.Date),
		},
		Violations:      violations,
		Recommendations: recs,
	}
}
