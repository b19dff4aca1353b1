package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Find the transcript fragments most similar to a text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntP("top", "k", 0, "number of results (default query.default_k)")
	queryCmd.Flags().Bool("json", false, "print results as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	k, _ := cmd.Flags().GetInt("top")
	results, err := a.library.Query(cmd.Context(), strings.Join(args, " "), k)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "no results")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(out, "%d. [%.3f] %s / %s (%s - %s)\n", i+1, r.Score, r.Channel.Title, r.Episode.Title,
			formatOffset(r.StartSeconds), formatOffset(r.EndSeconds))
		fmt.Fprintf(out, "   %s\n", strings.TrimSpace(r.Text))
		if r.Episode.OriginURL != "" {
			fmt.Fprintf(out, "   %s\n", r.Episode.OriginURL)
		}
	}
	return nil
}

// formatOffset renders seconds as h:mm:ss
func formatOffset(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}
