package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// bridgeConnectCmd represents the bridge-connect command
var bridgeConnectCmd = &cobra.Command{
	Use:   "bridge-connect",
	Short: "브리지 터미널 세션 연결 요청",
	Long: `브리지의 POST /api/connect 를 호출하여 터미널 세션을 엽니다.
세션이 없으면 브리지는 데모 데이터만 반환하고 대시보드 조회는 502 로 실패합니다.

Example:
  go run ./cmd/creditwatch bridge-connect
  go run ./cmd/creditwatch bridge-connect --bridge-url http://10.0.0.5:5000`,
	RunE: runBridgeConnect,
}

func init() {
	rootCmd.AddCommand(bridgeConnectCmd)
}

func runBridgeConnect(cmd *cobra.Command, args []string) error {
	a, err := newApp(0)
	if err != nil {
		return err
	}
	defer a.Close()

	// 연결 요청 + 헬스 체크 두 번의 호출 여유
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Bridge.Timeout+10*time.Second)
	defer cancel()

	fmt.Printf("Connecting bridge at %s ...\n", a.bridge.BaseURL())

	result, err := a.bridge.Connect(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Connect failed: %v", err))
		return err
	}
	PrintSuccess(result.Message)

	health, err := a.bridge.Health(ctx)
	if err != nil {
		PrintInfo(fmt.Sprintf("Health check after connect failed: %v", err))
		return nil
	}
	if health.BloombergConnected {
		PrintSuccess("Terminal session connected")
	} else {
		PrintInfo("Bridge accepted the request but still reports no terminal session")
	}

	return nil
}
