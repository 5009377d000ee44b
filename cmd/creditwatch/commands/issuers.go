package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/creditwatch/backend/internal/dashboard"
	"github.com/wonny/creditwatch/backend/internal/filtering"
)

// issuersCmd represents the issuers command
var issuersCmd = &cobra.Command{
	Use:   "issuers",
	Short: "조건에 맞는 발행사 조회 (1회)",
	Long: `브리지에서 전체 발행사를 가져와 조건으로 필터링합니다.

목록 플래그는 반복하거나 쉼표로 구분할 수 있습니다 (industry 제외).
에이전시 간 조건은 OR, 항목 간 조건은 AND 입니다.

Example:
  go run ./cmd/creditwatch issuers --region "Latin America" --rating Ba1,Ba2
  go run ./cmd/creditwatch issuers --outlook negative --outlook-from 2024-01-01
  go run ./cmd/creditwatch issuers --watchlist Negative --json
  go run ./cmd/creditwatch issuers --preset latam-negative`,
	RunE: runIssuers,
}

var (
	issuerFilters = map[string]*[]string{}
	issuerRanges  = map[string]*string{}
	issuersJSON   bool
	issuersPreset string
)

func init() {
	rootCmd.AddCommand(issuersCmd)

	for _, name := range []string{"region", "sector", "industry", "rating", "outlook", "watchlist"} {
		issuerFilters[name] = issuersCmd.Flags().StringArray(name, nil, name+" filter (repeatable)")
	}
	for _, name := range []string{"rating_from", "rating_to", "outlook_from", "outlook_to", "watch_from", "watch_to"} {
		flag := dashed(name)
		issuerRanges[name] = issuersCmd.Flags().String(flag, "", "date bound YYYY-MM-DD or RFC3339")
	}
	issuersCmd.Flags().BoolVar(&issuersJSON, "json", false, "print JSON instead of a table")
	issuersCmd.Flags().StringVar(&issuersPreset, "preset", "", "saved preset name from PRESETS_FILE (excludes other filters)")
}

func runIssuers(cmd *cobra.Command, args []string) error {
	query := issuerQuery()
	if issuersPreset != "" && len(query) > 0 {
		return fmt.Errorf("--preset cannot be combined with other filters")
	}

	criteria, err := filtering.CriteriaFromQuery(query)
	if err != nil {
		return err
	}

	a, err := newApp(0)
	if err != nil {
		return err
	}
	defer a.Close()

	title := "Issuers"
	if issuersPreset != "" {
		var ok bool
		if criteria, ok = a.presets.Get(issuersPreset); !ok {
			return fmt.Errorf("unknown preset %q (PRESETS_FILE=%q)", issuersPreset, a.cfg.Dashboard.PresetsFile)
		}
		title = "Issuers (preset " + issuersPreset + ")"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.service.Query(ctx, criteria)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	return printResult(title, result, issuersJSON)
}

// issuerQuery maps the command flags onto the same parameters the HTTP API accepts
func issuerQuery() url.Values {
	q := url.Values{}
	for name, values := range issuerFilters {
		for _, v := range *values {
			q.Add(name, v)
		}
	}
	for name, value := range issuerRanges {
		if *value != "" {
			q.Set(name, *value)
		}
	}
	return q
}

func printResult(title string, result *dashboard.Result, asJSON bool) error {
	if asJSON {
		return PrintJSON(result)
	}

	PrintHeader(title, [][2]string{
		{"Fetched", result.Summary.FetchedAt.Format("2006-01-02 15:04:05")},
		{"Matched", fmt.Sprintf("%d / %d", result.Summary.Matched, result.Summary.Total)},
		{"Policy", string(result.Summary.Policy)},
	})
	PrintIssuerTable(result.Issuers)
	return nil
}

func dashed(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
