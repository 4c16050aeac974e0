package validation

import (
	"fmt"
	"time"

	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
)

// Category tags a violation's origin. Violation strings are prefixed
// with their category so downstream gate predicates and alert triage can
// key on them without re-parsing artifacts.
type Category string

const (
	CategoryFreshness    Category = "freshness"
	CategoryCompleteness Category = "completeness"
	CategoryConsistency  Category = "consistency"
	CategoryHardcoded    Category = "hardcoded_value"
	CategoryVariance     Category = "variance"
	CategoryCrossPhase   Category = "cross_phase"
)

// Context carries the clock and thresholds into rule evaluation.
// 주입식 설계: 전역 상태 없이 명시적으로 전달 (no singletons)
type Context struct {
	Now    time.Time
	Config *qualityconfig.Config
}

// NewContext builds an evaluation context for the current wall clock.
func NewContext(cfg *qualityconfig.Config) Context {
	return Context{Now: time.Now(), Config: cfg}
}

// Outcome is one rule's contribution to a phase result.
type Outcome struct {
	Score           float64
	Violations      []string
	Recommendations []string
}

// Rule is a data-driven validation check. Each phase validator is a
// table of rules evaluated uniformly by Evaluate.
type Rule struct {
	Name     string
	Category Category
	Severity contracts.Severity
	Check    func(a *artifacts.Artifact, ctx Context) Outcome
}

// Evaluate runs a rule table against one artifact and folds the
// outcomes into a ValidationResult. Validators are total: panics are
// trapped at this boundary and become a score-0 violation.
func Evaluate(phase contracts.Phase, rules []Rule, a *artifacts.Artifact, ctx Context) (result contracts.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = contracts.FailedResult(fmt.Sprintf("%s: internal validation failure for %s artifact: %v", CategoryConsistency, phase, r))
		}
	}()

	if a == nil {
		return contracts.FailedResult(fmt.Sprintf("%s: %s artifact missing", CategoryCompleteness, phase))
	}

	result = contracts.ValidationResult{
		Details: make(map[string]interface{}, len(rules)+1),
	}

	// Shape violations from the loader degrade the verdict but carry no
	// score component of their own.
	result.Violations = append(result.Violations, a.ShapeViolations...)

	var total float64
	for _, rule := range rules {
		outcome := rule.Check(a, ctx)
		outcome.Score = contracts.ClampScore(outcome.Score)

		total += outcome.Score
		result.Details[rule.Name] = outcome.Score
		result.Violations = append(result.Violations, outcome.Violations...)
		result.Recommendations = append(result.Recommendations, outcome.Recommendations...)
	}

	if len(rules) > 0 {
		result.Score = contracts.ClampScore(total / float64(len(rules)))
	}
	result.Passed = result.Score >= ctx.Config.MinConfidenceScore && len(result.Violations) == 0

	return result
}

// violation formats a category-prefixed violation string.
func violation(cat Category, format string, args ...interface{}) string {
	return string(cat) + ": " + fmt.Sprintf(format, args...)
}
