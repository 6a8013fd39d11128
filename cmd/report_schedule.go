package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thatrebeccarae/claude-code-skills/internal/report"
)

var reportScheduleCmd = &cobra.Command{
	Use:   scheduleCmdStr,
	Short: "Run the configured report sync schedules",
	Long: `Run the report sync schedules defined in config.yml.

The runner stays in the foreground, firing each enabled schedule at its
cron times, until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runReportSchedule,
}

func init() {
	reportCmd.AddCommand(reportScheduleCmd)
}

func runReportSchedule(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	logger.Printf("Schedule runner started")
	report.NewScheduler(skillkitDirpath, newReportSyncer()).Run(ctx, logger)
	logger.Printf("Schedule runner exited")
	return nil
}
