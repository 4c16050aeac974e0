package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeMorton/sensylate-sub000/internal/api"
	"github.com/ColeMorton/sensylate-sub000/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "품질 상태 API 서버 시작",
	Long: `품질 상태 조회용 REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  GET  /api/quality/report     - 온디맨드 검증 리포트
  GET  /api/quality/alerts     - 최근 알림 조회
  GET  /api/quality/metrics    - 지표 히스토리 조회
  GET  /api/quality/trend      - 지역별 품질 추이

Example:
  go run ./cmd/sensylate serve
  go run ./cmd/sensylate serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Sensylate Quality API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	if servePort != "" {
		d.cfg.Port = servePort
	}

	qualityHandler := handlers.NewQualityHandler(d.monitor, d.store, d.generator, d.quality, d.log)
	router := api.NewRouter(qualityHandler, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/quality/report")
	fmt.Println("  GET  /api/quality/alerts")
	fmt.Println("  GET  /api/quality/metrics")
	fmt.Println("  GET  /api/quality/trend")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	fmt.Println("\n✅ Server stopped")
	return nil
}
