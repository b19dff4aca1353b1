package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/killallgit/podscribe/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podscribe",
	Short: "Transcribe podcasts and search them by meaning",
	Long: `podscribe - semantic search over podcast transcripts

podscribe collects episodes from podcast feeds and local folders of audio,
transcribes them with whisper.cpp, embeds transcript fragments and answers
natural-language queries with the most similar fragments.

Typical pipeline:
  podscribe channels add-defaults
  podscribe channels update
  podscribe transcribe --days 7
  podscribe index
  podscribe query "stay hungry stay foolish"`,
	SilenceUsage:      true,
	PersistentPreRunE: initialize,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
	rootCmd.PersistentFlags().String("config", config.DefaultFile, "settings file")
}

// initialize loads the configuration for commands that need it and
// configures logging. Flags win over the logging section of the settings.
func initialize(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")

	if needsConfig(cmd) {
		file, _ := cmd.Flags().GetString("config")
		if err := config.InitFile(file); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		if !cmd.Flags().Changed("log-level") {
			level = config.GetString("logging.level")
		}
		if !cmd.Flags().Changed("json-logs") {
			jsonLogs = config.GetString("logging.format") == "json"
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), level, jsonLogs)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return false
	}
	return true
}

func newLogger(w io.Writer, level string, jsonLogs bool) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", level)
}
