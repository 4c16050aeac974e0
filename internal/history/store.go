package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// Retention windows. Entries older than these are pruned on every write.
const (
	AlertRetention   = 7 * 24 * time.Hour
	MetricsRetention = 30 * 24 * time.Hour
)

const (
	alertsFile  = "alerts.json"
	metricsFile = "metrics.json"
)

// Store persists alert and metrics history as flat JSON arrays under a
// single directory. Writes go through a temp file and rename so a crash
// never leaves a truncated file behind.
//
// The store assumes a single writing process. Concurrent goroutines in
// one process are safe; two processes sharing one history directory are
// not.
type Store struct {
	dir string
	log *logger.Logger
	mu  sync.Mutex
	now func() time.Time
}

// NewStore opens (creating if needed) a history directory.
func NewStore(dir string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &Store{dir: dir, log: log.WithComponent("history"), now: time.Now}, nil
}

// Dir returns the history directory.
func (s *Store) Dir() string {
	return s.dir
}

// AppendAlerts appends alerts to the alert history, pruning entries
// older than the alert retention window.
func (s *Store) AppendAlerts(alerts ...contracts.QualityAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readArray[contracts.QualityAlert](filepath.Join(s.dir, alertsFile))
	if err != nil {
		return err
	}
	cutoff := s.now().Add(-AlertRetention)
	kept := existing[:0]
	for _, a := range existing {
		if a.Timestamp.After(cutoff) {
			kept = append(kept, a)
		}
	}
	if pruned := len(existing) - len(kept); pruned > 0 {
		s.log.Debugf("pruned %d expired alerts", pruned)
	}
	kept = append(kept, alerts...)
	return s.writeArray(alertsFile, kept)
}

// AppendMetrics appends snapshots to the metrics history, pruning
// entries older than the metrics retention window.
func (s *Store) AppendMetrics(snaps ...contracts.QualityMetricsSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readArray[contracts.QualityMetricsSnapshot](filepath.Join(s.dir, metricsFile))
	if err != nil {
		return err
	}
	cutoff := s.now().Add(-MetricsRetention)
	kept := existing[:0]
	for _, m := range existing {
		if m.Timestamp.After(cutoff) {
			kept = append(kept, m)
		}
	}
	if pruned := len(existing) - len(kept); pruned > 0 {
		s.log.Debugf("pruned %d expired metric snapshots", pruned)
	}
	kept = append(kept, snaps...)
	return s.writeArray(metricsFile, kept)
}

// AlertsSince returns stored alerts with a timestamp at or after since,
// oldest first. A missing history file is an empty result.
func (s *Store) AlertsSince(since time.Time) ([]contracts.QualityAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := readArray[contracts.QualityAlert](filepath.Join(s.dir, alertsFile))
	if err != nil {
		return nil, err
	}
	var out []contracts.QualityAlert
	for _, a := range all {
		if !a.Timestamp.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

// MetricsSince returns stored snapshots with a timestamp at or after
// since, oldest first.
func (s *Store) MetricsSince(since time.Time) ([]contracts.QualityMetricsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := readArray[contracts.QualityMetricsSnapshot](filepath.Join(s.dir, metricsFile))
	if err != nil {
		return nil, err
	}
	var out []contracts.QualityMetricsSnapshot
	for _, m := range all {
		if !m.Timestamp.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func readArray[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file %s: %w", filepath.Base(path), err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse history file %s: %w", filepath.Base(path), err)
	}
	return out, nil
}

func (s *Store) writeArray(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history file %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history file %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close history file %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history file %s: %w", name, err)
	}
	return nil
}
