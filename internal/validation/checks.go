package validation

import (
	"fmt"

	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// freshnessRule scores artifact age against the staleness threshold.
// Within the threshold the data is considered fully fresh. Beyond it the
// score decays linearly over a grace window of twice the threshold, so a
// barely-stale artifact still scores higher than a day-old one.
func freshnessRule(phase contracts.Phase) Rule {
	return Rule{
		Name:     "freshness",
		Category: CategoryFreshness,
		Severity: contracts.SeverityHigh,
		Check: func(a *artifacts.Artifact, ctx Context) Outcome {
			age := a.Age(ctx.Now)
			staleness := ctx.Config.Staleness()

			if age <= staleness {
				return Outcome{Score: 1.0}
			}

			score := 1.0 - age.Hours()/(2*staleness.Hours())
			return Outcome{
				Score: score,
				Violations: []string{violation(CategoryFreshness,
					"%s artifact is stale (age %.1fh exceeds %.1fh threshold)",
					phase, age.Hours(), staleness.Hours())},
				Recommendations: []string{fmt.Sprintf("Re-run the %s phase to refresh %s data", phase, a.Region)},
			}
		},
	}
}

// completenessRule checks required top-level sections. Each missing
// section costs 0.2, floored at zero.
func completenessRule(phase contracts.Phase, required []string) Rule {
	return Rule{
		Name:     "completeness",
		Category: CategoryCompleteness,
		Severity: contracts.SeverityMedium,
		Check: func(a *artifacts.Artifact, ctx Context) Outcome {
			outcome := Outcome{Score: 1.0}

			for _, section := range required {
				if a.HasSection(section) {
					continue
				}
				outcome.Score -= 0.2
				outcome.Violations = append(outcome.Violations, violation(CategoryCompleteness,
					"%s artifact missing required section '%s'", phase, section))
			}

			return outcome
		},
	}
}

// cyclePhaseRule verifies the business-cycle phase enum when present.
// Absence is a completeness concern, not a consistency one.
func cyclePhaseRule(phase contracts.Phase) Rule {
	return Rule{
		Name:     "cycle_phase",
		Category: CategoryConsistency,
		Severity: contracts.SeverityHigh,
		Check: func(a *artifacts.Artifact, ctx Context) Outcome {
			value := a.CyclePhase()
			if value == "" {
				return Outcome{
					Score:           1.0,
					Recommendations: []string{fmt.Sprintf("Populate the business cycle phase in the %s artifact", phase)},
				}
			}

			if !contracts.ValidBusinessCyclePhase(value) {
				return Outcome{
					Score: 0,
					Violations: []string{violation(CategoryConsistency,
						"%s artifact has invalid business cycle phase '%s' (expected one of expansion/peak/contraction/trough)",
						phase, value)},
				}
			}

			return Outcome{Score: 1.0}
		},
	}
}

// confidenceRule checks the confidence field lies in [min_confidence, 1].
func confidenceRule(phase contracts.Phase) Rule {
	return Rule{
		Name:     "confidence",
		Category: CategoryConsistency,
		Severity: contracts.SeverityMedium,
		Check: func(a *artifacts.Artifact, ctx Context) Outcome {
			c, ok := a.Confidence()
			if !ok {
				return Outcome{
					Score:           1.0,
					Recommendations: []string{fmt.Sprintf("Record a confidence score in the %s artifact", phase)},
				}
			}

			if c < 0 || c > 1 {
				return Outcome{
					Score: 0,
					Violations: []string{violation(CategoryConsistency,
						"%s artifact confidence %.2f outside [0, 1]", phase, c)},
				}
			}

			if c < ctx.Config.MinConfidenceScore {
				return Outcome{
					Score: c,
					Violations: []string{violation(CategoryConsistency,
						"%s artifact confidence %.2f below minimum %.2f", phase, c, ctx.Config.MinConfidenceScore)},
				}
			}

			return Outcome{Score: 1.0}
		},
	}
}
