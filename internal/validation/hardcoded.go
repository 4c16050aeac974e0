package validation

import (
	"regexp"
	"strings"

	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// Patterns for literal economic values that should be template
// references. Template spans are blanked before scanning so that
// "{{ fed_funds_rate }}" never trips the detector.
var (
	templateSpanRE = regexp.MustCompile(`\{\{[^}]*\}\}`)

	hardcodedPatterns = []struct {
		label string
		re    *regexp.Regexp
	}{
		{"rate range", regexp.MustCompile(`\d+\.\d{2}\s*-\s*\d+\.\d{2}\s*%`)},
		{"fed funds rate", regexp.MustCompile(`(?i)fed\s+funds[^\n]{0,40}?\d+\.\d{2}`)},
		{"policy rate", regexp.MustCompile(`(?i)policy\s+rate[^\n]{0,40}?\d+\.\d{2}`)},
	}

	// Literal values are acceptable in explicitly historical prose.
	allowContextRE = regexp.MustCompile(`(?i)\b(historical(ly)?|previous(ly)?|prior|past)\b`)
)

// DetectHardcodedValues scans rendered synthesis text for literal
// monetary-policy values. Returns one finding per matched span, in
// document order, with overlapping matches deduplicated.
func DetectHardcodedValues(text string) []string {
	masked := templateSpanRE.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat(" ", len(m))
	})

	type span struct{ start, end int }
	var claimed []span
	overlaps := func(start, end int) bool {
		for _, s := range claimed {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	var findings []string
	for _, p := range hardcodedPatterns {
		for _, loc := range p.re.FindAllStringIndex(masked, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			if allowedContext(masked, loc[0]) {
				continue
			}
			claimed = append(claimed, span{loc[0], loc[1]})
			findings = append(findings, p.label+" '"+strings.TrimSpace(masked[loc[0]:loc[1]])+"'")
		}
	}
	return findings
}

// allowedContext reports whether the 80 characters preceding the match
// mark it as historical commentary rather than a current value.
func allowedContext(text string, start int) bool {
	from := start - 80
	if from < 0 {
		from = 0
	}
	return allowContextRE.MatchString(text[from:start])
}

// hardcodedValueRule flags literal values in synthesis documents that
// should come from template substitution. Each finding costs 0.25.
func hardcodedValueRule() Rule {
	return Rule{
		Name:     "hardcoded_values",
		Category: CategoryHardcoded,
		Severity: contracts.SeverityHigh,
		Check: func(a *artifacts.Artifact, ctx Context) Outcome {
			if a.Synthesis == nil {
				return Outcome{Score: 1.0}
			}

			findings := DetectHardcodedValues(a.Synthesis.Text)
			if len(findings) == 0 {
				return Outcome{Score: 1.0}
			}

			out := Outcome{Score: 1.0 - 0.25*float64(len(findings))}
			if out.Score < 0 {
				out.Score = 0
			}
			for _, f := range findings {
				out.Violations = append(out.Violations,
					violation(CategoryHardcoded, "synthesis contains literal %s; use a template reference", f))
			}
			out.Recommendations = append(out.Recommendations,
				"Replace literal economic values in synthesis templates with {{ }} substitutions")
			return out
		},
	}
}
