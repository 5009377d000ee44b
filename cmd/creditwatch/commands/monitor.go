package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/creditwatch/backend/internal/scheduler"
	"github.com/wonny/creditwatch/backend/internal/scheduler/jobs"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "당일 변경 모니터 (스케줄러)",
	Long: `브리지를 주기적으로 조회하여 당일 등급/아웃룩/워치리스트 변경을 로그로 남깁니다.

스케줄은 MONITOR_SCHEDULE (초 단위 cron, 기본 15분) 또는 --schedule 로 지정합니다.
스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/creditwatch monitor
  go run ./cmd/creditwatch monitor --schedule "0 */5 * * * *"
  go run ./cmd/creditwatch monitor --once`,
	RunE: runMonitor,
}

var (
	monitorSchedule string
	monitorOnce     bool
	monitorRetries  int
)

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorSchedule, "schedule", "", "cron expression with seconds (default: MONITOR_SCHEDULE)")
	monitorCmd.Flags().BoolVar(&monitorOnce, "once", false, "run the digest once and exit")
	monitorCmd.Flags().IntVar(&monitorRetries, "retries", 2, "outbound retries per bridge call")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp(monitorRetries)
	if err != nil {
		return err
	}
	defer a.Close()

	schedule := a.cfg.Monitor.Schedule
	if monitorSchedule != "" {
		schedule = monitorSchedule
	}

	// 브리지 대기 한도 + 재시도 여유를 작업 타임아웃으로
	jobTimeout := a.cfg.Bridge.Timeout*time.Duration(monitorRetries+1) + 30*time.Second
	sched := scheduler.New(a.log,
		scheduler.WithRetry(1, 30*time.Second),
		scheduler.WithJobTimeout(jobTimeout),
	)

	digestJob := jobs.NewChangesDigestJob(a.service, schedule, a.log)
	if err := sched.AddJob(digestJob); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	if monitorOnce {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		result, err := sched.RunJob(ctx, digestJob.Name())
		if err != nil {
			return err
		}
		if !result.Success {
			PrintError(result.Error)
			return fmt.Errorf("digest failed")
		}
		printDigest(digestJob)
		return nil
	}

	fmt.Println("=== CreditWatch Monitor ===")

	sched.Start()

	next, _ := sched.NextRun(digestJob.Name())
	PrintSuccess("Monitor started")
	fmt.Printf("   Schedule: %s\n", schedule)
	fmt.Printf("   Next run: %s\n", next.Format("2006-01-02 15:04:05"))
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down monitor...")
	sched.Stop()

	printJobStats(sched)
	return nil
}

// printJobStats summarizes every job's runs and its latest failure, if any
func printJobStats(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	for _, name := range sched.GetAllJobs() {
		stat := stats[name]
		fmt.Printf("%s: %d runs (success %d, failed %d)\n", name, stat.TotalRuns, stat.SuccessCount, stat.FailureCount)

		history, err := sched.GetJobHistory(name)
		if err != nil {
			continue
		}
		if failed := history.GetFailedResults(); len(failed) > 0 {
			fmt.Printf("   last error: %s\n", failed[len(failed)-1].Error)
		}
	}
}

func printDigest(job *jobs.ChangesDigestJob) {
	digest := job.Last()
	if digest == nil {
		return
	}

	PrintHeader("Today's Changes", [][2]string{
		{"Fetched", digest.FetchedAt.Format("2006-01-02 15:04:05")},
		{"Issuers", fmt.Sprintf("%d", digest.Total)},
	})

	sections := []struct {
		title string
		count int
		isins []string
	}{
		{"Rating", len(digest.Rating), jobs.ISINs(digest.Rating, 0)},
		{"Outlook", len(digest.Outlook), jobs.ISINs(digest.Outlook, 0)},
		{"Watchlist", len(digest.Watchlist), jobs.ISINs(digest.Watchlist, 0)},
	}

	for _, s := range sections {
		fmt.Printf("  %-10s: %d\n", s.title, s.count)
		for _, isin := range s.isins {
			fmt.Printf("     • %s\n", isin)
		}
	}
}
