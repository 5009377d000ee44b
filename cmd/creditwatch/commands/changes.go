package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/creditwatch/backend/internal/filtering"
)

// changesCmd represents the changes command
var changesCmd = &cobra.Command{
	Use:       "changes [rating|outlook|watchlist]",
	Short:     "당일 변경 발행사 조회",
	Long:      `오늘(로컬 자정 기준) 등급, 아웃룩 또는 워치리스트 진입일이 바뀐 발행사를 조회합니다.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: changeKindArgs(),
	RunE:      runChanges,
}

var (
	changesJSON bool
)

func init() {
	rootCmd.AddCommand(changesCmd)

	changesCmd.Flags().BoolVar(&changesJSON, "json", false, "print JSON instead of a table")
}

// changeKindArgs feeds shell completion from the filtering package's kinds
func changeKindArgs() []string {
	var args []string
	for _, k := range filtering.ChangeKinds() {
		args = append(args, string(k))
	}
	return args
}

func runChanges(cmd *cobra.Command, args []string) error {
	kind, err := filtering.ParseChangeKind(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(0)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := a.service.ChangesToday(ctx, kind)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	return printResult("Today's "+string(kind)+" changes", result, changesJSON)
}
