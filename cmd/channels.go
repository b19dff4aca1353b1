package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/killallgit/podscribe/internal/services/feeds"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Manage channels",
}

var channelsAddCmd = &cobra.Command{
	Use:   "add <feed-url>",
	Short: "Add a remote feed",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelsAdd,
}

var channelsAddDefaultsCmd = &cobra.Command{
	Use:   "add-defaults",
	Short: "Add the channels of the built-in catalog",
	Args:  cobra.NoArgs,
	RunE:  runChannelsAddDefaults,
}

var channelsAddLocalCmd = &cobra.Command{
	Use:   "add-local [sources.json]",
	Short: "Add local folders described in a sources file",
	Long: `Add channels backed by folders of audio files.

The sources file is a JSON array of {"name","description","language","image","folder"}
objects. Folders are resolved under storage.local_dir. Without an argument the
configured storage.sources_file is read.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChannelsAddLocal,
}

var channelsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch new episodes of every channel",
	Args:  cobra.NoArgs,
	RunE:  runChannelsUpdate,
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List channels",
	Args:  cobra.NoArgs,
	RunE:  runChannelsList,
}

var channelsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a channel with its episodes, transcripts and index records",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannelsDelete,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.AddCommand(channelsAddCmd, channelsAddDefaultsCmd, channelsAddLocalCmd,
		channelsUpdateCmd, channelsListCmd, channelsDeleteCmd)

	channelsAddCmd.Flags().String("language", "", "language of the feed; read from the feed when empty")
	channelsAddCmd.Flags().Bool("update", false, "fetch episodes right away")
}

func runChannelsAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	language, _ := cmd.Flags().GetString("language")
	created, channel, err := a.library.AddChannel(cmd.Context(), args[0], language)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "added channel %d: %s\n", channel.ID, channel.Title)
	} else {
		fmt.Fprintf(out, "channel %d already exists: %s\n", channel.ID, channel.Title)
	}

	if update, _ := cmd.Flags().GetBool("update"); update {
		added, err := a.library.UpdateChannel(cmd.Context(), channel)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d new episodes\n", added)
	}
	return nil
}

func runChannelsAddDefaults(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := a.library.AddDefaultChannels(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d channels added\n", created)
	return nil
}

func runChannelsAddLocal(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	file := a.cfg.Storage.SourcesFile
	if len(args) == 1 {
		file = args[0]
	}
	sources, err := feeds.LoadLocalSources(file)
	if err != nil {
		return err
	}

	created, err := a.library.AddLocalChannels(cmd.Context(), sources)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d local channels added\n", created, len(sources))
	return nil
}

func runChannelsUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.library.UpdateAllChannels(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d channels updated, %d failed, %d new episodes\n",
		report.Updated, report.Failed, report.NewEpisodes)
	return nil
}

func runChannelsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.channels.ListChannels(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tLANGUAGE\tTITLE\tSOURCE")
	for _, ch := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", ch.ID, ch.Kind, ch.Language, ch.Title, ch.Locator)
	}
	return w.Flush()
}

func runChannelsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid channel id %q", args[0])
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.library.DeleteChannel(cmd.Context(), uint(id)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "channel %d deleted\n", id)
	return nil
}
