package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/creditwatch/backend/internal/api"
	"github.com/wonny/creditwatch/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `대시보드 REST API 서버를 시작합니다.

모든 조회는 브리지에서 최신 데이터를 가져옵니다 (캐시 없음).

Endpoints:
  GET  /health                         - Health check
  GET  /api/health                     - Health + bridge 연결 상태
  GET  /api/issuers                    - 쿼리스트링 조건으로 발행사 조회
  POST /api/issuers/search             - JSON 조건으로 발행사 조회
  GET  /api/issuers/changes/{kind}     - 당일 변경 (rating|outlook|watchlist)
  GET  /api/issuers/{isin}             - 단일 발행사

Example:
  go run ./cmd/creditwatch api
  go run ./cmd/creditwatch api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CreditWatch API Server ===")

	a, err := newApp(0)
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	a.log.WithFields(map[string]interface{}{
		"port":   a.cfg.Port,
		"env":    a.cfg.Env,
		"bridge": a.cfg.Bridge.BaseURL,
	}).Info("Initializing API server")

	// Handlers
	issuerHandler := handlers.NewIssuerHandler(a.service, a.presets, a.log)
	healthHandler := handlers.NewHealthHandler(a.bridge, string(a.service.Policy()), a.log)

	// Router + server
	limiter := api.NewLimiter(a.cfg.API.RateLimit, a.cfg.API.RateBurst)
	router := api.NewRouter(issuerHandler, healthHandler, limiter, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	a.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost%s\n", server.Addr())
	fmt.Printf("   Bridge: %s (timeout %s)\n", a.cfg.Bridge.BaseURL, a.cfg.Bridge.Timeout)
	fmt.Printf("   Color policy: %s\n", a.service.Policy())
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listen failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	a.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
