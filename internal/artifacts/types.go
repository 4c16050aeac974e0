package artifacts

import (
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
)

// Metadata is the envelope block shared by JSON phase artifacts.
type Metadata struct {
	Region     string   `json:"region,omitempty"`
	Date       string   `json:"date,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// BusinessCycleData is the discovery view of the business cycle.
type BusinessCycleData struct {
	CurrentPhase         string   `json:"current_phase,omitempty"`
	RecessionProbability *float64 `json:"recession_probability,omitempty"`
	Confidence           *float64 `json:"confidence,omitempty"`
}

// BusinessCycleModeling is the analysis view of the business cycle.
type BusinessCycleModeling struct {
	CurrentPhase         string   `json:"current_phase,omitempty"`
	RecessionProbability *float64 `json:"recession_probability,omitempty"`
	Confidence           *float64 `json:"confidence,omitempty"`
}

// DiscoveryArtifact is the typed shape of a discovery JSON payload.
// All fields are optional; completeness rules report what is missing.
type DiscoveryArtifact struct {
	Metadata              *Metadata              `json:"metadata,omitempty"`
	EconomicIndicators    map[string]interface{} `json:"economic_indicators,omitempty"`
	BusinessCycleData     *BusinessCycleData     `json:"business_cycle_data,omitempty"`
	MonetaryPolicyContext map[string]interface{} `json:"monetary_policy_context,omitempty"`
}

// AnalysisArtifact is the typed shape of an analysis JSON payload.
type AnalysisArtifact struct {
	Metadata              *Metadata              `json:"metadata,omitempty"`
	BusinessCycleModeling *BusinessCycleModeling `json:"business_cycle_modeling,omitempty"`
	EconomicForecasting   map[string]interface{} `json:"economic_forecasting,omitempty"`
	RiskAssessment        map[string]interface{} `json:"risk_assessment,omitempty"`
}

// SynthesisArtifact wraps a rendered markdown document.
type SynthesisArtifact struct {
	Text     string
	Sections []string // "## " headings in document order
}

// Artifact is one loaded pipeline output, read-only to this subsystem.
// Exactly one of the typed variants is set for its phase; Raw carries the
// full parsed payload for JSON phases.
type Artifact struct {
	Phase   contracts.Phase
	Region  string // from the file name
	Date    string // YYYYMMDD, from the file name
	Path    string
	ModTime time.Time

	// ShapeViolations records minimal shape-check failures. The phase
	// validator folds these into its result; the artifact stays loaded.
	ShapeViolations []string

	Discovery *DiscoveryArtifact
	Analysis  *AnalysisArtifact
	Synthesis *SynthesisArtifact

	Raw map[string]interface{}
}

// Age returns how old the artifact is relative to now.
func (a *Artifact) Age(now time.Time) time.Duration {
	return now.Sub(a.ModTime)
}

// HasSection reports whether a required top-level section is present:
// a top-level key for JSON phases, a "## " heading for synthesis.
func (a *Artifact) HasSection(name string) bool {
	if a.Synthesis != nil {
		for _, s := range a.Synthesis.Sections {
			if strings.EqualFold(s, name) {
				return true
			}
		}
		return false
	}
	_, ok := a.Raw[name]
	return ok
}

// RegionValue extracts the region recorded inside the payload, falling
// back to the file-name region when the payload does not carry one.
func (a *Artifact) RegionValue() string {
	if m := a.metadata(); m != nil && m.Region != "" {
		return m.Region
	}
	if v := probeString(a.Raw, "metadata", "region"); v != "" {
		return v
	}
	return a.Region
}

// CyclePhase extracts the business-cycle phase field, empty when absent.
func (a *Artifact) CyclePhase() string {
	switch {
	case a.Discovery != nil && a.Discovery.BusinessCycleData != nil:
		return a.Discovery.BusinessCycleData.CurrentPhase
	case a.Analysis != nil && a.Analysis.BusinessCycleModeling != nil:
		return a.Analysis.BusinessCycleModeling.CurrentPhase
	}
	return ""
}

// Confidence extracts the artifact confidence score. The second return
// is false when no confidence field is present anywhere in the payload.
func (a *Artifact) Confidence() (float64, bool) {
	if m := a.metadata(); m != nil && m.Confidence != nil {
		return *m.Confidence, true
	}
	if a.Discovery != nil && a.Discovery.BusinessCycleData != nil && a.Discovery.BusinessCycleData.Confidence != nil {
		return *a.Discovery.BusinessCycleData.Confidence, true
	}
	if a.Analysis != nil && a.Analysis.BusinessCycleModeling != nil && a.Analysis.BusinessCycleModeling.Confidence != nil {
		return *a.Analysis.BusinessCycleModeling.Confidence, true
	}
	return probeFloat(a.Raw, "confidence")
}

// RecessionProbability extracts the recession-probability indicator used
// for cross-phase variance checks.
func (a *Artifact) RecessionProbability() (float64, bool) {
	if a.Discovery != nil && a.Discovery.BusinessCycleData != nil && a.Discovery.BusinessCycleData.RecessionProbability != nil {
		return *a.Discovery.BusinessCycleData.RecessionProbability, true
	}
	if a.Analysis != nil && a.Analysis.BusinessCycleModeling != nil && a.Analysis.BusinessCycleModeling.RecessionProbability != nil {
		return *a.Analysis.BusinessCycleModeling.RecessionProbability, true
	}
	return probeFloat(a.Raw, "recession_probability")
}

func (a *Artifact) metadata() *Metadata {
	switch {
	case a.Discovery != nil:
		return a.Discovery.Metadata
	case a.Analysis != nil:
		return a.Analysis.Metadata
	}
	return nil
}

// probeString walks nested maps by key path, tolerant of value types.
func probeString(m map[string]interface{}, path ...string) string {
	v, ok := probe(m, path...)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// probeFloat probes a top-level key first, then metadata.<key>.
func probeFloat(m map[string]interface{}, key string) (float64, bool) {
	if v, ok := probe(m, key); ok {
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
	if v, ok := probe(m, "metadata", key); ok {
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	}
	return 0, false
}

func probe(m map[string]interface{}, path ...string) (interface{}, bool) {
	var current interface{} = m
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}
