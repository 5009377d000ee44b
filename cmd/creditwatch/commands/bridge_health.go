package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// bridgeHealthCmd represents the bridge-health command
var bridgeHealthCmd = &cobra.Command{
	Use:   "bridge-health",
	Short: "브리지 연결 상태 확인",
	Long: `터미널 브리지의 /api/health 를 호출하여 연결 상태를 확인합니다.

Example:
  go run ./cmd/creditwatch bridge-health
  go run ./cmd/creditwatch bridge-health --bridge-url http://10.0.0.5:5000`,
	RunE: runBridgeHealth,
}

func init() {
	rootCmd.AddCommand(bridgeHealthCmd)
}

func runBridgeHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp(0)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Printf("Checking bridge at %s ...\n", a.bridge.BaseURL())

	health, err := a.bridge.Health(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Bridge unreachable: %v", err))
		return err
	}

	PrintSuccess(fmt.Sprintf("Bridge status: %s (reported %s)", health.Status, health.Timestamp))
	if health.BloombergConnected {
		PrintSuccess("Terminal session connected")
	} else {
		PrintInfo("Terminal session not connected: run bridge-connect")
	}

	return nil
}
