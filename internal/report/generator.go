package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

const bannerWidth = 60

// RenderJSON serializes a report for machine consumers.
func RenderJSON(r *contracts.CrossValidationReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// RenderText renders the human-readable console report.
func RenderText(r *contracts.CrossValidationReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", bannerWidth)

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "📊 Data Quality Report — %s", r.Metadata.Region)
	if r.Metadata.Date != "" {
		fmt.Fprintf(&b, " (%s)", r.Metadata.Date)
	}
	b.WriteString("\n" + rule + "\n")

	fmt.Fprintf(&b, "Overall: %s  score %.3f\n\n", passMark(r.OverallPassed), r.OverallScore)

	for _, name := range orderedPhaseKeys(r) {
		res := r.PhaseResults[name]
		fmt.Fprintf(&b, "  %s %-12s %.3f\n", passMark(res.Passed), name, res.Score)
		for _, v := range res.Violations {
			fmt.Fprintf(&b, "      • %s\n", v)
		}
	}

	if len(r.GateResults) > 0 {
		b.WriteString("\nGates:\n")
		for _, name := range orderedGateKeys(r) {
			g := r.GateResults[name]
			marker := ""
			if g.Blocking {
				marker = " [blocking]"
			}
			fmt.Fprintf(&b, "  %s %-22s %.3f / %.3f%s\n", passMark(g.Passed), name, g.Score, g.Threshold, marker)
		}
	}

	if len(r.BlockingIssues) > 0 {
		b.WriteString("\n⛔ Blocking issues:\n")
		for _, issue := range r.BlockingIssues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}
	if len(r.CriticalIssues) > 0 {
		b.WriteString("\n🚨 Critical issues:\n")
		for _, issue := range r.CriticalIssues {
			fmt.Fprintf(&b, "  - %s\n", issue)
		}
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\n💡 Recommendations:\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	b.WriteString("\n" + rule + "\n")
	if r.Certified() {
		b.WriteString("🏆 CERTIFIED — institutional grade\n")
	} else {
		b.WriteString("❌ NOT CERTIFIED\n")
	}
	fmt.Fprintf(&b, "generated %s  config %s\n",
		r.Metadata.GeneratedAt.Format(time.RFC3339), shortHash(r.Metadata.ConfigHash))
	return b.String()
}

func passMark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	if h == "" {
		return "(default)"
	}
	return h
}

// orderedPhaseKeys returns phase result keys in pipeline order with the
// cross-phase entry last.
func orderedPhaseKeys(r *contracts.CrossValidationReport) []string {
	var keys []string
	for _, p := range contracts.Phases() {
		if _, ok := r.PhaseResults[string(p)]; ok {
			keys = append(keys, string(p))
		}
	}
	if _, ok := r.PhaseResults[contracts.CrossPhaseKey]; ok {
		keys = append(keys, contracts.CrossPhaseKey)
	}
	return keys
}

func orderedGateKeys(r *contracts.CrossValidationReport) []string {
	keys := make([]string, 0, len(r.GateResults))
	for name := range r.GateResults {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}

// TrendSummary condenses a region's metrics history window.
type TrendSummary struct {
	Region         string    `json:"region"`
	WindowDays     int       `json:"window_days"`
	Samples        int       `json:"samples"`
	AverageScore   float64   `json:"average_score"`
	BestScore      float64   `json:"best_score"`
	WorstScore     float64   `json:"worst_score"`
	Direction      string    `json:"direction"` // improving | degrading | stable
	TotalAlerts    int       `json:"total_alerts"`
	CriticalAlerts int       `json:"critical_alerts"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
}

// Generator builds trend summaries from persisted metrics history.
type Generator struct {
	store *history.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewGenerator(store *history.Store, log *logger.Logger) *Generator {
	return &Generator{store: store, log: log.WithComponent("report"), now: time.Now}
}

// Trend summarizes the last N days of snapshots for one region. A nil
// summary with nil error means the window holds no samples.
func (g *Generator) Trend(region string, days int) (*TrendSummary, error) {
	to := g.now()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)

	snaps, err := g.store.MetricsSince(from)
	if err != nil {
		return nil, err
	}

	var scores []float64
	summary := &TrendSummary{
		Region:     region,
		WindowDays: days,
		BestScore:  0,
		WorstScore: 1,
		From:       from,
		To:         to,
	}
	for _, s := range snaps {
		if s.Region != region {
			continue
		}
		summary.Samples++
		scores = append(scores, s.OverallScore)
		summary.AverageScore += s.OverallScore
		if s.OverallScore > summary.BestScore {
			summary.BestScore = s.OverallScore
		}
		if s.OverallScore < summary.WorstScore {
			summary.WorstScore = s.OverallScore
		}
		summary.TotalAlerts += s.AlertsCount
		summary.CriticalAlerts += s.CriticalAlerts
	}
	if summary.Samples == 0 {
		return nil, nil
	}
	summary.AverageScore /= float64(summary.Samples)
	summary.Direction = direction(scores)
	return summary, nil
}

// direction compares the first and second half of the score series.
// Fewer than two samples is always stable.
func direction(scores []float64) string {
	if len(scores) < 2 {
		return "stable"
	}
	mid := len(scores) / 2
	early := mean(scores[:mid])
	late := mean(scores[mid:])
	switch {
	case late-early > 0.01:
		return "improving"
	case early-late > 0.01:
		return "degrading"
	default:
		return "stable"
	}
}

func mean(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// RenderTrendText renders a trend summary for the console.
func RenderTrendText(s *TrendSummary) string {
	if s == nil {
		return "No quality history recorded for the requested window.\n"
	}
	var b strings.Builder
	rule := strings.Repeat("-", bannerWidth)

	fmt.Fprintf(&b, "📈 Quality Trend — %s (last %d days, %d samples)\n", s.Region, s.WindowDays, s.Samples)
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "  average %.3f  best %.3f  worst %.3f\n", s.AverageScore, s.BestScore, s.WorstScore)
	fmt.Fprintf(&b, "  direction: %s\n", s.Direction)
	fmt.Fprintf(&b, "  alerts: %d total, %d critical\n", s.TotalAlerts, s.CriticalAlerts)
	return b.String()
}
