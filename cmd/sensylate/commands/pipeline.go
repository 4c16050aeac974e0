package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/gates"
)

// fullPipelineCheckCmd represents the full-pipeline-check command
var fullPipelineCheckCmd = &cobra.Command{
	Use:   "full-pipeline-check",
	Short: "설정된 모든 지역의 파이프라인 점검",
	Long: `설정 파일의 regions_to_monitor 전체에 대해 검증을 실행하고
지역별 요약을 출력합니다. 한 지역이라도 실패하면 실패로 끝납니다.

Example:
  go run ./cmd/sensylate full-pipeline-check
  go run ./cmd/sensylate full-pipeline-check --json`,
	RunE: runFullPipelineCheck,
}

// checkInstallationCmd represents the check-installation command
var checkInstallationCmd = &cobra.Command{
	Use:   "check-installation",
	Short: "설치/설정 상태 점검",
	Long: `데이터 디렉터리, 히스토리 디렉터리, 품질 설정을 점검하고
현재 적용 중인 임계값과 게이트 테이블을 출력합니다.

Example:
  go run ./cmd/sensylate check-installation`,
	RunE: runCheckInstallation,
}

func init() {
	rootCmd.AddCommand(fullPipelineCheckCmd)
	rootCmd.AddCommand(checkInstallationCmd)
}

func runFullPipelineCheck(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	regions := d.quality.RegionsToMonitor
	if len(regions) == 0 {
		regions = []string{"US"}
	}

	fmt.Println("=== Full Pipeline Check ===")
	fmt.Printf("Regions: %v\n\n", regions)

	failed := 0
	reports := make(map[string]*contracts.CrossValidationReport, len(regions))
	for _, region := range regions {
		result := d.monitor.RunValidation(cmd.Context(), region, "")
		reports[region] = result
		if !result.OverallPassed {
			failed++
		}
	}

	if jsonOutput {
		for _, region := range regions {
			if err := printReport(reports[region]); err != nil {
				return err
			}
		}
	} else {
		for _, region := range regions {
			r := reports[region]
			mark := "✅"
			if !r.OverallPassed {
				mark = "❌"
			}
			fmt.Printf("%s %-4s score %.3f  blocking %d  critical %d\n",
				mark, region, r.OverallScore, len(r.BlockingIssues), len(r.CriticalIssues))
		}
		fmt.Println()
		if failed == 0 {
			fmt.Printf("✅ All %d region(s) passed\n", len(regions))
		} else {
			fmt.Printf("❌ %d of %d region(s) failed\n", failed, len(regions))
		}
	}

	if failed > 0 {
		return ErrQualityCheckFailed
	}
	return nil
}

func runCheckInstallation(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	fmt.Println("=== Installation Check ===")
	fmt.Println()

	checkDir := func(label, path string) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			fmt.Printf("  ✅ %-18s %s\n", label, path)
		} else {
			fmt.Printf("  ❌ %-18s %s (missing)\n", label, path)
		}
	}

	fmt.Println("📁 Directories")
	checkDir("data dir", d.cfg.DataDir)
	checkDir("history dir", d.store.Dir())
	fmt.Println()

	// initDeps compiles the artifact schemas; reaching this point means
	// they parsed.
	fmt.Println("🧪 Artifact Schemas")
	fmt.Println("  ✅ discovery/analysis shape schemas compiled")
	fmt.Println()

	fmt.Println("⚙️  Quality Config")
	if d.cfg.QualityConfigPath != "" || configFile != "" {
		path := configFile
		if path == "" {
			path = d.cfg.QualityConfigPath
		}
		fmt.Printf("  source: %s\n", path)
	} else {
		fmt.Println("  source: built-in defaults")
	}
	fmt.Printf("  hash:   %s\n", d.configHash)
	fmt.Printf("  variance_threshold:      %.4f\n", d.quality.VarianceThreshold)
	fmt.Printf("  staleness_hours:         %.1f\n", d.quality.StalenessHours)
	fmt.Printf("  min_institutional_score: %.2f\n", d.quality.MinInstitutionalScore)
	fmt.Printf("  min_confidence_score:    %.2f\n", d.quality.MinConfidenceScore)
	fmt.Printf("  check_interval:          %s\n", d.quality.CheckInterval())
	fmt.Printf("  regions:                 %v\n", d.quality.RegionsToMonitor)
	fmt.Println()

	fmt.Println("🚧 Quality Gates")
	for _, g := range gates.NewEngine(d.quality).Gates() {
		marker := ""
		if g.Blocking {
			marker = " [blocking]"
		}
		fmt.Printf("  %-22s %.3f%s\n", g.Name, g.Threshold, marker)
	}
	fmt.Println()
	fmt.Println("💡 Use 'validate-region <region>' to run a validation")

	return nil
}
