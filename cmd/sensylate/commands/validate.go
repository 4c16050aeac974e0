package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/report"
)

// validateRegionCmd represents the validate-region command
var validateRegionCmd = &cobra.Command{
	Use:   "validate-region [region[_YYYYMMDD]]",
	Short: "한 지역의 파이프라인 산출물 검증",
	Long: `한 지역의 discovery/analysis/synthesis 산출물을 검증하고
게이트 판정이 포함된 품질 리포트를 출력합니다.

지역 인자는 "US" 또는 "US_20260831" 형태입니다. 날짜가 없으면
디스크의 최신 산출물을 사용합니다.

Example:
  go run ./cmd/sensylate validate-region US
  go run ./cmd/sensylate validate-region US_20260831
  go run ./cmd/sensylate validate-region US --date 20260831
  go run ./cmd/sensylate validate-region EU --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidateRegion,
}

// checkQualityCmd represents the check-quality command
var checkQualityCmd = &cobra.Command{
	Use:   "check-quality",
	Short: "단일 품질 사이클 실행 (검증 + 알림 + 지표 기록)",
	Long: `한 지역에 대해 모니터링 사이클을 1회 실행합니다:
최신 산출물 검증, 실패 시 알림 발행, 지표 스냅샷 기록.

Example:
  go run ./cmd/sensylate check-quality --region US`,
	RunE: runCheckQuality,
}

var (
	validateDate  string
	qualityRegion string
)

func init() {
	rootCmd.AddCommand(validateRegionCmd)
	rootCmd.AddCommand(checkQualityCmd)

	validateRegionCmd.Flags().StringVar(&validateDate, "date", "", "artifact date YYYYMMDD (default: latest)")
	checkQualityCmd.Flags().StringVar(&qualityRegion, "region", "", "region to check (default: first configured)")
}

func runValidateRegion(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	region, date := firstRegion(d, args), validateDate
	if i := strings.LastIndex(region, "_"); i > 0 {
		region, date = region[:i], region[i+1:]
	}
	if date != "" {
		if _, err := time.Parse("20060102", date); err != nil {
			return fmt.Errorf("invalid date %q (expected YYYYMMDD)", date)
		}
	}

	result := d.monitor.RunValidation(cmd.Context(), region, date)

	if err := printReport(result); err != nil {
		return err
	}
	if !result.OverallPassed {
		return ErrQualityCheckFailed
	}
	return nil
}

func runCheckQuality(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	region := qualityRegion
	if region == "" {
		region = firstRegion(d, nil)
	}

	result, err := d.monitor.CheckRegion(cmd.Context(), region)
	if err != nil {
		return fmt.Errorf("quality cycle failed: %w", err)
	}

	if err := printReport(result); err != nil {
		return err
	}
	if !result.OverallPassed {
		return ErrQualityCheckFailed
	}
	return nil
}

// firstRegion resolves the region argument: explicit arg, then the
// first configured monitoring region, then US.
func firstRegion(d *deps, args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if len(d.quality.RegionsToMonitor) > 0 {
		return d.quality.RegionsToMonitor[0]
	}
	return "US"
}

// printReport renders a report in the selected output format, honoring
// the global --json and --output flags.
func printReport(r *contracts.CrossValidationReport) error {
	var out []byte
	if jsonOutput {
		data, err := report.RenderJSON(r)
		if err != nil {
			return err
		}
		out = append(data, '\n')
	} else {
		out = []byte(report.RenderText(r))
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, out, 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Printf("✅ Report written to %s\n", outputFile)
		return nil
	}
	fmt.Print(string(out))
	return nil
}
