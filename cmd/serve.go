package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/killallgit/podscribe/api"
	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/services/cleanup"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the HTTP API with the configured settings.

The server answers semantic queries and exposes channels, episodes and
batch jobs. Jobs run on the in-process worker pool.

Example:
  podscribe serve
  podscribe serve --port 9090
  podscribe serve --update-every 6h`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Duration("update-every", 0, "update all channels periodically, 0 disables")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	serverCfg := a.cfg.Server
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		serverCfg.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		serverCfg.Port = port
	}

	server := api.NewServer(serverCfg, &types.Dependencies{
		DB:          a.db,
		Library:     a.library,
		ChannelRepo: a.channels,
		EpisodeRepo: a.episodes,
		Jobs:        a.pool,
		Version:     Version,
		WindowDays:  a.cfg.Processing.WindowDays,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	sweeper := cleanup.NewService(a.cfg.Storage.MediaDir, a.cfg.Storage.CleanupMaxAge, a.cfg.Storage.CleanupInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	if every, _ := cmd.Flags().GetDuration("update-every"); every > 0 {
		go scheduleUpdates(ctx, every, a.library.EnqueueUpdateAll)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// scheduleUpdates calls enqueue every interval until ctx is done
func scheduleUpdates(ctx context.Context, every time.Duration, enqueue func() error) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := enqueue(); err != nil {
				slog.Warn("scheduling channel update failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
