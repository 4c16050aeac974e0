package contracts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"negative", -0.5, 0},
		{"zero", 0, 0},
		{"in range", 0.85, 0.85},
		{"one", 1, 1},
		{"above one", 1.7, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampScore(tt.input))
		})
	}
}

// Finalize must derive overall_passed from score and blocking issues for
// every combination, never from anything else.
func TestCrossValidationReport_Finalize_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		score := rng.Float64()*1.4 - 0.2 // exercise the clamp too
		blocking := []string{}
		if rng.Intn(2) == 1 {
			blocking = append(blocking, "gate:institutional_quality below threshold")
		}

		report := &CrossValidationReport{
			OverallScore:   score,
			BlockingIssues: blocking,
		}
		report.Finalize(0.9)

		assert.GreaterOrEqual(t, report.OverallScore, 0.0)
		assert.LessOrEqual(t, report.OverallScore, 1.0)

		want := report.OverallScore >= 0.9 && len(blocking) == 0
		assert.Equal(t, want, report.OverallPassed,
			"score=%.4f blocking=%d", report.OverallScore, len(blocking))
	}
}

func TestCrossValidationReport_Certified(t *testing.T) {
	report := &CrossValidationReport{OverallScore: 0.95}
	report.Finalize(0.9)
	assert.True(t, report.Certified())

	report = &CrossValidationReport{
		OverallScore:   0.95,
		BlockingIssues: []string{"gate:data_freshness"},
	}
	report.Finalize(0.9)
	assert.False(t, report.Certified())
}

func TestValidBusinessCyclePhase(t *testing.T) {
	for _, p := range []string{"expansion", "peak", "contraction", "trough"} {
		assert.True(t, ValidBusinessCyclePhase(p))
	}
	assert.False(t, ValidBusinessCyclePhase("recovery"))
	assert.False(t, ValidBusinessCyclePhase(""))
}

func TestQualityAlert_DedupKey(t *testing.T) {
	a := QualityAlert{Region: "US", AlertType: "freshness", Message: "stale discovery artifact", Timestamp: time.Now()}
	b := QualityAlert{Region: "US", AlertType: "freshness", Message: "stale discovery artifact", Timestamp: time.Now().Add(time.Minute)}
	c := QualityAlert{Region: "EU", AlertType: "freshness", Message: "stale discovery artifact"}

	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
}
