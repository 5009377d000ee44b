package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wonny/creditwatch/backend/internal/contracts"
	"github.com/wonny/creditwatch/backend/internal/dashboard"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled block with key-value lines
func PrintHeader(title string, kv [][2]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	for _, pair := range kv {
		fmt.Printf("  %-10s: %s\n", pair[0], pair[1])
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row, truncating values to their column width
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		if r := []rune(val); len(r) > widths[i] {
			val = string(r[:widths[i]-1]) + "…"
		}
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

var issuerColumns = []string{"ISIN", "ISSUER", "REGION", "SECTOR", "MOODY'S", "S&P", "FITCH"}
var issuerWidths = []int{12, 28, 18, 18, 20, 20, 20}

// PrintIssuerTable prints one row per issuer with a cell summary per agency
func PrintIssuerTable(views []dashboard.IssuerView) {
	PrintTableHeader(issuerColumns, issuerWidths)
	for _, v := range views {
		row := []string{v.Issuer.ISIN, v.Issuer.Name, string(v.Issuer.Region), string(v.Issuer.Sector)}
		for _, agency := range contracts.Agencies() {
			row = append(row, cellSummary(v, agency))
		}
		PrintTableRow(row, issuerWidths)
	}
}

// cellSummary renders "<rating> <outlook-mark><watch-mark>" for one agency
func cellSummary(v dashboard.IssuerView, agency contracts.Agency) string {
	info, _ := v.Issuer.Rating(agency)
	cells := v.Cells[agency]

	s := fmt.Sprintf("%s %s", info.CurrentRating, statusMark(cells.Outlook))
	if info.OnWatchlist() {
		s += " W" + statusMark(cells.Watchlist)
	}
	return s
}

func statusMark(status contracts.Status) string {
	switch status {
	case contracts.StatusGreen:
		return "▲"
	case contracts.StatusRed:
		return "▼"
	case contracts.StatusAmber:
		return "●"
	default:
		return "·"
	}
}
