package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NoticeDigest/internal/app"
)

var scheduleCommand = &cobra.Command{
	Use:   "schedule",
	Short: "Run the digest on the configured cron expression until interrupted",
	Long: `Triggers a run on scheduler.cron (default "0 8 * * *") in scheduler.timezone (default Asia/Shanghai).

A trigger that fires while a run is still in progress is skipped. SIGINT or SIGTERM stops the scheduler after the current run.`,
	RunE: scheduleCmd,
}

func init() {
	rootCmd.AddCommand(scheduleCommand)
}

func scheduleCmd(cmd *cobra.Command, _ []string) error {
	env := loadEnvironment()
	defer env.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.New(env.cfg, env.recipients, env.logger).Schedule(ctx)
}
