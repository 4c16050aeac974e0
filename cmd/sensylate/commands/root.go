package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ColeMorton/sensylate-sub000/internal/alerts"
	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/gates"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/internal/monitor"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/internal/report"
	"github.com/ColeMorton/sensylate-sub000/pkg/config"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// ErrQualityCheckFailed marks a run where validation completed but the
// data failed its quality gates. main maps it to exit code 1; every
// other error exits 2.
var ErrQualityCheckFailed = errors.New("quality checks failed")

var (
	// Global flags
	configFile string
	jsonOutput bool
	outputFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sensylate",
	Short: "Sensylate - DASV 파이프라인 데이터 품질 엔진",
	Long: `Sensylate Data Quality CLI

Discovery → Analysis → Synthesis → Validation 파이프라인의
산출물을 검증하고 품질을 상시 모니터링합니다.

Usage:
  go run ./cmd/sensylate [command]

Examples:
  go run ./cmd/sensylate validate-region US
  go run ./cmd/sensylate full-pipeline-check
  go run ./cmd/sensylate start-monitoring --duration-hours 8
  go run ./cmd/sensylate generate-report --days 7`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "quality config YAML (default from QUALITY_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// deps bundles the wired subsystems every command starts from.
type deps struct {
	cfg        *config.Config
	quality    *qualityconfig.Config
	configHash string
	log        *logger.Logger
	loader     *artifacts.Loader
	store      *history.Store
	monitor    *monitor.Monitor
	generator  *report.Generator
}

// initDeps loads configuration and wires the validation stack. Every
// command goes through here so flag overrides apply uniformly.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	qualityPath := configFile
	if qualityPath == "" {
		qualityPath = cfg.QualityConfigPath
	}
	quality, err := qualityconfig.LoadOrDefault(qualityPath)
	if err != nil {
		return nil, fmt.Errorf("load quality config: %w", err)
	}
	hash, err := qualityconfig.Hash(quality)
	if err != nil {
		return nil, fmt.Errorf("hash quality config: %w", err)
	}

	loader, err := artifacts.NewLoader(cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("init artifact loader: %w", err)
	}
	store, err := history.NewStore(cfg.HistoryDir, log)
	if err != nil {
		return nil, fmt.Errorf("init history store: %w", err)
	}

	gateEngine := gates.NewEngine(quality)
	notifiers := alerts.NotifiersFromConfig(quality.Notifications, log)
	alertEngine := alerts.NewEngine(store, quality, log, notifiers...)
	mon := monitor.New(loader, quality, hash, gateEngine, alertEngine, store, log)

	return &deps{
		cfg:        cfg,
		quality:    quality,
		configHash: hash,
		log:        log,
		loader:     loader,
		store:      store,
		monitor:    mon,
		generator:  report.NewGenerator(store, log),
	}, nil
}
