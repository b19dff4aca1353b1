package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/podscribe/internal/services/library"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe new episodes",
	Long: `Transcribe every new episode published within the window.

Jobs run on the worker pool (processing.workers) and the command returns
once all of them finished. Episodes are shuffled so that no channel is
starved when the run is interrupted.`,
	Args: cobra.NoArgs,
	RunE: runTranscribe,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Mark episodes transcribed whose transcript already exists on disk",
	Args:  cobra.NoArgs,
	RunE:  runReconcile,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed and index transcribed episodes",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(transcribeCmd, reconcileCmd, indexCmd)
	addTranscribeFlags(transcribeCmd)
}

func addTranscribeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("days", -1, "only episodes published in the last N days, 0 for all (default processing.window_days)")
	cmd.Flags().Uint("channel", 0, "only episodes of this channel id")
	cmd.Flags().Bool("no-shuffle", false, "process episodes newest first")
}

// transcribeOptions builds the options from the flags; defaultDays applies
// when --days was not given
func transcribeOptions(cmd *cobra.Command, defaultDays int) (library.TranscribeOptions, error) {
	opts := library.TranscribeOptions{WindowDays: defaultDays, Randomize: true}

	if cmd.Flags().Changed("days") {
		days, _ := cmd.Flags().GetInt("days")
		if days < 0 {
			return opts, fmt.Errorf("--days must not be negative")
		}
		opts.WindowDays = days
	}
	if cmd.Flags().Changed("channel") {
		channelID, _ := cmd.Flags().GetUint("channel")
		opts.ChannelID = &channelID
	}
	if noShuffle, _ := cmd.Flags().GetBool("no-shuffle"); noShuffle {
		opts.Randomize = false
	}
	return opts, nil
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := transcribeOptions(cmd, a.cfg.Processing.WindowDays)
	if err != nil {
		return err
	}
	if err := a.transcriber.Validate(); err != nil {
		return err
	}

	enqueued, err := a.library.TranscribePending(cmd.Context(), opts)
	if err != nil {
		return err
	}
	a.pool.Wait()

	stats := a.pool.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "%d episodes scheduled, %d transcribed, %d failed\n",
		enqueued, stats.Succeeded, stats.Failed)
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	repaired, err := a.library.Reconcile(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d episodes marked transcribed\n", repaired)
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.library.IndexPending(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d episodes indexed, %d failed, %d fragments\n",
		report.Indexed, report.Pending, report.Failed, report.Fragments)
	return nil
}
