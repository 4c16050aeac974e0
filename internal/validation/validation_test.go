package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
)

func fptr(v float64) *float64 { return &v }

func testContext(now time.Time) Context {
	return Context{Now: now, Config: qualityconfig.Default()}
}

func freshDiscovery(now time.Time) *artifacts.Artifact {
	return &artifacts.Artifact{
		Phase:   contracts.PhaseDiscovery,
		Region:  "US",
		Date:    "20260831",
		ModTime: now.Add(-1 * time.Hour),
		Discovery: &artifacts.DiscoveryArtifact{
			Metadata: &artifacts.Metadata{Region: "US", Confidence: fptr(0.92)},
			BusinessCycleData: &artifacts.BusinessCycleData{
				CurrentPhase:         "expansion",
				RecessionProbability: fptr(0.15),
			},
		},
		Raw: map[string]interface{}{
			"economic_indicators":     map[string]interface{}{"gdp": 2.1},
			"business_cycle_data":     map[string]interface{}{"current_phase": "expansion"},
			"monetary_policy_context": map[string]interface{}{"stance": "neutral"},
		},
	}
}

func freshAnalysis(now time.Time) *artifacts.Artifact {
	return &artifacts.Artifact{
		Phase:   contracts.PhaseAnalysis,
		Region:  "US",
		Date:    "20260831",
		ModTime: now.Add(-30 * time.Minute),
		Analysis: &artifacts.AnalysisArtifact{
			Metadata: &artifacts.Metadata{Region: "US", Confidence: fptr(0.90)},
			BusinessCycleModeling: &artifacts.BusinessCycleModeling{
				CurrentPhase:         "expansion",
				RecessionProbability: fptr(0.16),
			},
		},
		Raw: map[string]interface{}{
			"business_cycle_modeling": map[string]interface{}{"current_phase": "expansion"},
			"economic_forecasting":    map[string]interface{}{"gdp_growth": 2.0},
			"risk_assessment":         map[string]interface{}{"matrix": []interface{}{}},
		},
	}
}

func freshSynthesis(now time.Time, text string) *artifacts.Artifact {
	var sections []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "## ") {
			sections = append(sections, strings.TrimPrefix(line, "## "))
		}
	}
	return &artifacts.Artifact{
		Phase:     contracts.PhaseSynthesis,
		Region:    "US",
		Date:      "20260831",
		ModTime:   now.Add(-15 * time.Minute),
		Synthesis: &artifacts.SynthesisArtifact{Text: text, Sections: sections},
	}
}

const cleanSynthesisText = `# US Macro Outlook

## Executive Summary
Growth remains on trend with policy at {{ fed_funds_rate }}.

## Economic Positioning
Expansion phase, mid-cycle.

## Risk Assessment
Recession probability contained.
`

func TestFreshnessScoring(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)
	rule := freshnessRule(contracts.PhaseDiscovery)

	t.Run("within threshold is fully fresh", func(t *testing.T) {
		a := freshDiscovery(now)
		out := rule.Check(a, ctx)
		assert.Equal(t, 1.0, out.Score)
		assert.Empty(t, out.Violations)
	})

	t.Run("stale artifact flagged with category prefix", func(t *testing.T) {
		a := freshDiscovery(now)
		a.ModTime = now.Add(-8 * time.Hour)
		out := rule.Check(a, ctx)
		assert.Less(t, out.Score, 1.0)
		require.Len(t, out.Violations, 1)
		assert.True(t, strings.HasPrefix(out.Violations[0], "freshness:"))
		assert.Contains(t, out.Violations[0], "stale")
	})

	t.Run("score strictly decreases with age past threshold", func(t *testing.T) {
		prev := 1.0
		for _, age := range []time.Duration{7 * time.Hour, 9 * time.Hour, 12 * time.Hour, 24 * time.Hour} {
			a := freshDiscovery(now)
			a.ModTime = now.Add(-age)
			out := rule.Check(a, ctx)
			assert.Less(t, out.Score, prev, "age %v", age)
			prev = out.Score
		}
	})
}

func TestCompletenessScoring(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)
	rule := completenessRule(contracts.PhaseDiscovery, discoveryRequiredSections)

	t.Run("all sections present", func(t *testing.T) {
		out := rule.Check(freshDiscovery(now), ctx)
		assert.Equal(t, 1.0, out.Score)
	})

	t.Run("each missing section costs 0.2", func(t *testing.T) {
		a := freshDiscovery(now)
		delete(a.Raw, "monetary_policy_context")
		out := rule.Check(a, ctx)
		assert.InDelta(t, 0.8, out.Score, 1e-9)
		require.Len(t, out.Violations, 1)
		assert.True(t, strings.HasPrefix(out.Violations[0], "completeness:"))
		assert.Contains(t, out.Violations[0], "monetary_policy_context")
	})
}

func TestValidateDiscovery(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)

	t.Run("valid artifact scores 1.0 with no violations", func(t *testing.T) {
		res := ValidateDiscovery(freshDiscovery(now), ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, 1.0, res.Score)
		assert.Empty(t, res.Violations)
	})

	t.Run("nil artifact is a total failure, not a panic", func(t *testing.T) {
		res := ValidateDiscovery(nil, ctx)
		assert.False(t, res.Passed)
		assert.Equal(t, 0.0, res.Score)
		require.Len(t, res.Violations, 1)
		assert.Contains(t, res.Violations[0], "missing")
	})

	t.Run("invalid cycle phase fails the consistency rule", func(t *testing.T) {
		a := freshDiscovery(now)
		a.Discovery.BusinessCycleData.CurrentPhase = "sideways"
		res := ValidateDiscovery(a, ctx)
		assert.False(t, res.Passed)
		assert.NotEmpty(t, res.Violations)
	})

	t.Run("shape violations fold into the result", func(t *testing.T) {
		a := freshDiscovery(now)
		a.ShapeViolations = []string{"consistency: confidence must be a number"}
		res := ValidateDiscovery(a, ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, res.Violations, "consistency: confidence must be a number")
	})
}

func TestValidateSynthesis(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)

	t.Run("clean document passes", func(t *testing.T) {
		res := ValidateSynthesis(freshSynthesis(now, cleanSynthesisText), ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, 1.0, res.Score)
	})

	t.Run("missing heading is a completeness violation", func(t *testing.T) {
		text := strings.Replace(cleanSynthesisText, "## Risk Assessment", "## Appendix", 1)
		res := ValidateSynthesis(freshSynthesis(now, text), ctx)
		assert.False(t, res.Passed)
		assert.Contains(t, strings.Join(res.Violations, "\n"), "Risk Assessment")
	})
}

func TestDetectHardcodedValues(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		findings int
	}{
		{
			name:     "literal fed funds range is flagged",
			text:     "Current policy: Fed Funds: 5.25-5.50% held steady.",
			findings: 1,
		},
		{
			name:     "template reference is clean",
			text:     "Current policy: {{ fed_funds_rate }} held steady.",
			findings: 0,
		},
		{
			name:     "template span never leaks into surrounding scan",
			text:     "Rates at {{ fed_funds_rate | default('5.25-5.50%') }} today.",
			findings: 0,
		},
		{
			name:     "historical context is allowed",
			text:     "Historically the range sat at 5.25-5.50 % before cuts.",
			findings: 0,
		},
		{
			name:     "policy rate literal is flagged",
			text:     "The policy rate of 4.75 anchors the curve.",
			findings: 1,
		},
		{
			name:     "overlapping patterns report once",
			text:     "Fed Funds: 5.25-5.50% unchanged.",
			findings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, DetectHardcodedValues(tt.text), tt.findings)
		})
	}
}

func TestCheckCrossPhase(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)

	t.Run("consistent artifacts score 1.0", func(t *testing.T) {
		arts := map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: freshDiscovery(now),
			contracts.PhaseAnalysis:  freshAnalysis(now),
		}
		res := CheckCrossPhase(arts, ctx)
		assert.True(t, res.Passed)
		assert.Equal(t, 1.0, res.Score)
		assert.Empty(t, res.Violations)
	})

	t.Run("missing analysis is a zero-score failure", func(t *testing.T) {
		arts := map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: freshDiscovery(now),
		}
		res := CheckCrossPhase(arts, ctx)
		assert.False(t, res.Passed)
		assert.Equal(t, 0.0, res.Score)
	})

	t.Run("region mismatch names both regions", func(t *testing.T) {
		disc := freshDiscovery(now)
		anal := freshAnalysis(now)
		anal.Analysis.Metadata.Region = "EU"
		res := CheckCrossPhase(map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: disc,
			contracts.PhaseAnalysis:  anal,
		}, ctx)
		assert.False(t, res.Passed)
		joined := strings.Join(res.Violations, "\n")
		assert.Contains(t, joined, "US")
		assert.Contains(t, joined, "EU")
	})

	t.Run("cycle phase disagreement is flagged", func(t *testing.T) {
		disc := freshDiscovery(now)
		anal := freshAnalysis(now)
		anal.Analysis.BusinessCycleModeling.CurrentPhase = "peak"
		res := CheckCrossPhase(map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: disc,
			contracts.PhaseAnalysis:  anal,
		}, ctx)
		assert.Contains(t, strings.Join(res.Violations, "\n"), "cycle phase mismatch")
	})

	t.Run("recession probability drift beyond threshold is a variance violation", func(t *testing.T) {
		disc := freshDiscovery(now)
		anal := freshAnalysis(now)
		anal.Analysis.BusinessCycleModeling.RecessionProbability = fptr(0.25)
		res := CheckCrossPhase(map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: disc,
			contracts.PhaseAnalysis:  anal,
		}, ctx)
		require.NotEmpty(t, res.Violations)
		assert.True(t, strings.HasPrefix(res.Violations[0], "variance:"))
		vs, ok := res.Details["variance_score"].(float64)
		require.True(t, ok)
		assert.Less(t, vs, 1.0)
	})

	t.Run("confidence drift beyond tolerance is flagged", func(t *testing.T) {
		disc := freshDiscovery(now)
		anal := freshAnalysis(now)
		anal.Analysis.Metadata.Confidence = fptr(0.70)
		res := CheckCrossPhase(map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: disc,
			contracts.PhaseAnalysis:  anal,
		}, ctx)
		assert.Contains(t, strings.Join(res.Violations, "\n"), "confidence drift")
	})
}

func TestBuildReport(t *testing.T) {
	now := time.Now()
	ctx := testContext(now)

	fullSet := func() map[contracts.Phase]*artifacts.Artifact {
		return map[contracts.Phase]*artifacts.Artifact{
			contracts.PhaseDiscovery: freshDiscovery(now),
			contracts.PhaseAnalysis:  freshAnalysis(now),
			contracts.PhaseSynthesis: freshSynthesis(now, cleanSynthesisText),
		}
	}

	t.Run("healthy pipeline averages to 1.0", func(t *testing.T) {
		report := BuildReport("US", "20260831", fullSet(), ctx, "abc123")
		assert.Equal(t, 1.0, report.OverallScore)
		assert.Empty(t, report.CriticalIssues)
		assert.Len(t, report.PhaseResults, 4)
		assert.Equal(t, "abc123", report.Metadata.ConfigHash)
		assert.Equal(t, "US", report.Metadata.Region)
	})

	t.Run("cross-phase score is excluded from the overall average", func(t *testing.T) {
		arts := fullSet()
		arts[contracts.PhaseAnalysis].Analysis.Metadata.Region = "EU"
		report := BuildReport("US", "20260831", arts, ctx, "")
		// Region mismatch tanks the cross-phase result but the three
		// phase scores still average cleanly.
		assert.Equal(t, 1.0, report.OverallScore)
		assert.NotEmpty(t, report.CriticalIssues)
	})

	t.Run("missing synthesis drags the average and surfaces critical issues", func(t *testing.T) {
		arts := fullSet()
		delete(arts, contracts.PhaseSynthesis)
		report := BuildReport("US", "20260831", arts, ctx, "")
		assert.InDelta(t, 2.0/3.0, report.OverallScore, 1e-9)
		assert.Contains(t, strings.Join(report.CriticalIssues, "\n"), "synthesis")
	})

	t.Run("recommendations are deduplicated", func(t *testing.T) {
		arts := fullSet()
		arts[contracts.PhaseDiscovery].ModTime = now.Add(-10 * time.Hour)
		report := BuildReport("US", "20260831", arts, ctx, "")
		seen := make(map[string]int)
		for _, r := range report.Recommendations {
			seen[r]++
			assert.Equal(t, 1, seen[r])
		}
	})
}
