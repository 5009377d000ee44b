package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/creditwatch/backend/internal/presets"
)

// presetsCmd represents the presets command
var presetsCmd = &cobra.Command{
	Use:   "presets [file]",
	Short: "필터 프리셋 검증 및 목록 출력",
	Long: `프리셋 YAML 파일을 검증하고 정의된 프리셋을 출력합니다.
파일을 지정하지 않으면 PRESETS_FILE 을 사용합니다. 브리지에는 접속하지 않습니다.

Example:
  go run ./cmd/creditwatch presets
  go run ./cmd/creditwatch presets config/presets.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Dashboard.PresetsFile
	}
	if path == "" {
		return fmt.Errorf("no preset file: pass a path or set PRESETS_FILE")
	}

	set, warnings, err := presets.Load(path)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	PrintHeader("Filter Presets", [][2]string{
		{"File", path},
		{"Presets", fmt.Sprintf("%d", set.Len())},
		{"Hash", set.Hash()},
	})

	widths := []int{20, 40, 50}
	PrintTableHeader([]string{"NAME", "DESCRIPTION", "CRITERIA"}, widths)
	for _, p := range set.List() {
		PrintTableRow([]string{p.Name, p.Description, describeCriteria(p.Criteria)}, widths)
	}

	for _, w := range warnings {
		PrintInfo(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	PrintSuccess("Preset file is valid")

	return nil
}

// describeCriteria renders a one-line summary of a preset's criteria
func describeCriteria(c presets.CriteriaSpec) string {
	var parts []string
	add := func(label string, values []string) {
		if len(values) > 0 {
			parts = append(parts, label+"="+strings.Join(values, ","))
		}
	}
	addRange := func(label string, d *presets.DateSpec) {
		if d != nil && (d.From != "" || d.To != "") {
			parts = append(parts, fmt.Sprintf("%s=%s..%s", label, d.From, d.To))
		}
	}

	add("region", c.Regions)
	add("sector", c.Sectors)
	add("industry", c.Industries)
	add("rating", c.Ratings)
	add("outlook", c.Outlooks)
	add("watchlist", c.WatchlistStatuses)
	addRange("rating_date", c.RatingDate)
	addRange("outlook_date", c.OutlookDate)
	addRange("watch_date", c.WatchlistEntryDate)

	if len(parts) == 0 {
		return "(all issuers)"
	}
	return strings.Join(parts, " ")
}
