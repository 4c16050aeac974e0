package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// startMonitoringCmd represents the start-monitoring command
var startMonitoringCmd = &cobra.Command{
	Use:   "start-monitoring",
	Short: "상시 품질 모니터링 시작",
	Long: `설정된 모든 지역에 대해 주기적인 품질 사이클을 실행합니다.
시작 직후 1회 실행 후 check_interval_minutes 주기로 반복합니다.

Ctrl+C 수신 시 진행 중인 사이클을 마치고 종료합니다.

Example:
  go run ./cmd/sensylate start-monitoring
  go run ./cmd/sensylate start-monitoring --duration-hours 8`,
	RunE: runStartMonitoring,
}

var durationHours float64

func init() {
	rootCmd.AddCommand(startMonitoringCmd)

	startMonitoringCmd.Flags().Float64Var(&durationHours, "duration-hours", 0, "stop after this many hours (0 = run until interrupted)")
}

func runStartMonitoring(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if durationHours > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationHours*float64(time.Hour)))
		defer cancel()
	}

	fmt.Println("=== Quality Monitoring ===")
	fmt.Printf("Regions:  %v\n", d.quality.RegionsToMonitor)
	fmt.Printf("Interval: %s\n", d.quality.CheckInterval())
	if durationHours > 0 {
		fmt.Printf("Duration: %.1fh\n", durationHours)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := d.monitor.Run(ctx); err != nil {
		return fmt.Errorf("monitoring loop: %w", err)
	}

	fmt.Println("\n✅ Monitoring stopped")
	return nil
}
