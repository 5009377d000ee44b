package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	bridgeURL   string
	colorPolicy string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "creditwatch",
	Short: "CreditWatch - 신용등급 모니터링 대시보드",
	Long: `CreditWatch Unified CLI

터미널 브리지에서 채권 등급 데이터를 가져와
필터링하고 셀 색상을 판정하는 대시보드 백엔드.

Usage:
  go run ./cmd/creditwatch [command]

Examples:
  go run ./cmd/creditwatch api
  go run ./cmd/creditwatch issuers --region "Latin America" --rating Ba1
  go run ./cmd/creditwatch changes watchlist
  go run ./cmd/creditwatch monitor --once
  go run ./cmd/creditwatch bridge-health`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&bridgeURL, "bridge-url", "", "bridge base URL (overrides BRIDGE_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&colorPolicy, "color-policy", "", "color policy: simple|horizon_aware (overrides COLOR_POLICY)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
