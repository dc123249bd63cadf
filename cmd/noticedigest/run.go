package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"NoticeDigest/internal/app"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Collect notices once and mail the digest",
	Long: `Fetches every configured source, keeps the notices published within the last --days days and mails the digest to each recipient.

Source failures, an empty digest and mail failures are logged; the command still exits successfully.`,
	RunE: runOnceCmd,
}

var (
	runDays   int
	runDryRun bool
)

func init() {
	runCommand.Flags().IntVar(&runDays, "days", 0, "Recency window in days (overrides the config file)")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the digest instead of mailing it")

	rootCmd.AddCommand(runCommand)
}

func runOnceCmd(cmd *cobra.Command, _ []string) error {
	env := loadEnvironment()
	defer env.Close()

	if cmd.Flags().Changed("days") {
		if runDays < 0 {
			return fmt.Errorf("--days must not be negative, got %d", runDays)
		}
		env.cfg.Days = runDays
	}

	var opts []app.Option
	if runDryRun {
		opts = append(opts, app.DryRun())
	}

	application := app.New(env.cfg, env.recipients, env.logger, opts...)
	report, err := application.Run(cmd.Context())
	if err != nil {
		return err
	}

	if runDryRun && !report.Skipped {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Subject: %s\n\n%s\n", report.Digest.Subject, report.Digest.Body)
	}
	return nil
}
