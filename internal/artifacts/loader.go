package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// dateRE matches the YYYYMMDD segment of artifact file names.
var dateRE = regexp.MustCompile(`_(\d{8})`)

// Loader locates and parses pipeline artifacts under a data directory.
// Missing files are absent from the result set, not errors; malformed
// content is logged and treated as absent.
// ⭐ SSOT: 아티팩트 파일 접근은 이 로더를 통해서만
type Loader struct {
	dataDir string
	schemas *SchemaSet
	logger  *logger.Logger
}

// NewLoader creates a Loader rooted at dataDir.
func NewLoader(dataDir string, log *logger.Logger) (*Loader, error) {
	schemas, err := CompileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile artifact schemas: %w", err)
	}

	return &Loader{
		dataDir: dataDir,
		schemas: schemas,
		logger:  log.WithComponent("artifact_loader"),
	}, nil
}

// DataDir returns the loader's root directory.
func (l *Loader) DataDir() string {
	return l.dataDir
}

// LoadLatest loads the most recently created artifact per phase for a
// region, across all dates present on disk.
func (l *Loader) LoadLatest(region string) map[contracts.Phase]*Artifact {
	return l.load(region, "*")
}

// LoadForDate loads the artifacts of one region/date (date = YYYYMMDD).
func (l *Loader) LoadForDate(region, date string) map[contracts.Phase]*Artifact {
	return l.load(region, date)
}

func (l *Loader) load(region, date string) map[contracts.Phase]*Artifact {
	result := make(map[contracts.Phase]*Artifact)

	for _, phase := range contracts.Phases() {
		pattern := filepath.Join(l.dataDir, patternFor(phase, region, date))
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			continue
		}

		path := l.newestPath(matches)
		if path == "" {
			continue
		}

		artifact, err := l.loadOne(phase, region, path)
		if err != nil {
			l.logger.WithError(err).WithFields(map[string]interface{}{
				"phase": string(phase),
				"path":  path,
			}).Warn("Skipping malformed artifact")
			continue
		}

		result[phase] = artifact
	}

	return result
}

// patternFor returns the per-phase naming pattern relative to the data dir.
func patternFor(phase contracts.Phase, region, date string) string {
	switch phase {
	case contracts.PhaseDiscovery:
		return filepath.Join("discovery", fmt.Sprintf("%s_%s_discovery.json", region, date))
	case contracts.PhaseAnalysis:
		return filepath.Join("analysis", fmt.Sprintf("%s_%s_analysis.json", region, date))
	case contracts.PhaseSynthesis:
		return fmt.Sprintf("%s_%s.md", region, date)
	case contracts.PhaseValidation:
		return filepath.Join("validation", fmt.Sprintf("%s_%s_validation.json", region, date))
	}
	return ""
}

// newestPath selects the most recently modified existing file.
func (l *Loader) newestPath(paths []string) string {
	var newest string
	var newestMod int64

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = p
			newestMod = mod
		}
	}

	return newest
}

func (l *Loader) loadOne(phase contracts.Phase, region, path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	artifact := &Artifact{
		Phase:   phase,
		Region:  region,
		Date:    dateFromName(filepath.Base(path)),
		Path:    path,
		ModTime: info.ModTime(),
	}

	if phase == contracts.PhaseSynthesis {
		artifact.Synthesis = parseSynthesis(string(data))
		return artifact, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse artifact JSON: %w", err)
	}
	artifact.Raw = raw

	var payload interface{}
	_ = json.Unmarshal(data, &payload)
	artifact.ShapeViolations = l.schemas.Check(phase, payload)

	switch phase {
	case contracts.PhaseDiscovery:
		var typed DiscoveryArtifact
		if err := json.Unmarshal(data, &typed); err == nil {
			artifact.Discovery = &typed
		}
	case contracts.PhaseAnalysis:
		var typed AnalysisArtifact
		if err := json.Unmarshal(data, &typed); err == nil {
			artifact.Analysis = &typed
		}
	}

	return artifact, nil
}

// parseSynthesis extracts "## " headings from a markdown document.
func parseSynthesis(text string) *SynthesisArtifact {
	var sections []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			sections = append(sections, strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
		}
	}

	return &SynthesisArtifact{Text: text, Sections: sections}
}

// dateFromName extracts the YYYYMMDD segment of an artifact file name.
func dateFromName(name string) string {
	m := dateRE.FindStringSubmatch(name)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
