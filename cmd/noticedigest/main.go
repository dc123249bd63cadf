// Package main is the noticedigest command: it collects campus notices and
// mails a daily digest, once or on a cron schedule.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"NoticeDigest/internal/config"
	"NoticeDigest/internal/domain"
	"NoticeDigest/internal/logging"
)

const defaultLogFile = "notice_digest.log"

var rootCmd = &cobra.Command{
	Use:          "noticedigest",
	Short:        "Campus notice digest mailer",
	Long:         "noticedigest scrapes the school news, student affairs and academic affairs listing pages, keeps the recent notices and mails them as one HTML digest.",
	SilenceUsage: true,
}

var (
	configPath     string
	recipientsPath string
	logLevel       string
	logFile        string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json or config.yaml (defaults to NOTICE_DIGEST_CONFIG or config.json)")
	rootCmd.PersistentFlags().StringVar(&recipientsPath, "emails", "", "Path to the recipients list (defaults to NOTICE_DIGEST_RECIPIENTS or emails.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (defaults to LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile, "Append logs to this file as well as stdout; empty disables it")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// environment is what every subcommand needs before wiring the application.
type environment struct {
	cfg        config.Config
	recipients []domain.Recipient
	logger     *slog.Logger
	closer     io.Closer
}

func (e environment) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

func loadEnvironment() environment {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}

	var env environment
	file, fileErr := logging.OpenFile(logFile)
	if file != nil {
		env.closer = file
		env.logger = logging.New(level, file)
	} else {
		env.logger = logging.New(level)
	}
	if fileErr != nil {
		env.logger.Warn("log file unavailable, logging to stdout only", "error", fileErr)
	}

	env.cfg = config.Load(configPath, env.logger.With("component", "config"))
	env.recipients = config.LoadRecipients(recipientsPath, env.logger.With("component", "config"))
	return env
}
