package contracts

// Phase identifies one stage of the DASV pipeline
// ⭐ SSOT: 파이프라인 단계 이름은 여기서만 정의
type Phase string

const (
	PhaseDiscovery  Phase = "discovery"
	PhaseAnalysis   Phase = "analysis"
	PhaseSynthesis  Phase = "synthesis"
	PhaseValidation Phase = "validation"
)

// CrossPhaseKey is the pseudo-phase under which the cross-phase check
// result is stored in a report. It never contributes to the overall score.
const CrossPhaseKey = "cross_phase"

// Phases lists the artifact-producing phases in pipeline order.
func Phases() []Phase {
	return []Phase{PhaseDiscovery, PhaseAnalysis, PhaseSynthesis, PhaseValidation}
}

// ValidPhase reports whether p names a known pipeline phase.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseDiscovery, PhaseAnalysis, PhaseSynthesis, PhaseValidation:
		return true
	}
	return false
}

// BusinessCyclePhases are the accepted values for a "current phase" field
// inside discovery/analysis artifacts.
var BusinessCyclePhases = []string{"expansion", "peak", "contraction", "trough"}

// ValidBusinessCyclePhase reports whether v is a recognized cycle phase.
func ValidBusinessCyclePhase(v string) bool {
	for _, p := range BusinessCyclePhases {
		if v == p {
			return true
		}
	}
	return false
}
