package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ColeMorton/sensylate-sub000/internal/report"
)

// generateReportCmd represents the generate-report command
var generateReportCmd = &cobra.Command{
	Use:   "generate-report",
	Short: "품질 리포트 + 지표 추이 생성",
	Long: `최신 산출물에 대한 검증 리포트와 지표 히스토리 기반의
추이 요약을 생성합니다.

Example:
  go run ./cmd/sensylate generate-report
  go run ./cmd/sensylate generate-report --days 30 --region US
  go run ./cmd/sensylate generate-report --json --output report.json`,
	RunE: runGenerateReport,
}

var (
	reportDays   int
	reportRegion string
)

func init() {
	rootCmd.AddCommand(generateReportCmd)

	generateReportCmd.Flags().IntVar(&reportDays, "days", 7, "trend window in days")
	generateReportCmd.Flags().StringVar(&reportRegion, "region", "", "region (default: first configured)")
}

func runGenerateReport(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	region := reportRegion
	if region == "" {
		region = firstRegion(d, nil)
	}

	result := d.monitor.RunValidation(cmd.Context(), region, "")
	trend, err := d.generator.Trend(region, reportDays)
	if err != nil {
		return fmt.Errorf("build trend summary: %w", err)
	}

	var out []byte
	if jsonOutput {
		out, err = json.MarshalIndent(map[string]interface{}{
			"report": result,
			"trend":  trend,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		out = append(out, '\n')
	} else {
		text := report.RenderText(result) + "\n" + report.RenderTrendText(trend)
		out = []byte(text)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, out, 0o644); err != nil {
			return fmt.Errorf("write report file: %w", err)
		}
		fmt.Printf("✅ Report written to %s\n", outputFile)
	} else {
		fmt.Print(string(out))
	}

	if !result.OverallPassed {
		return ErrQualityCheckFailed
	}
	return nil
}
