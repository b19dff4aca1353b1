package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/killallgit/podscribe/internal/database"
	"github.com/killallgit/podscribe/internal/services/cache"
	"github.com/killallgit/podscribe/internal/services/channels"
	"github.com/killallgit/podscribe/internal/services/embeddings"
	"github.com/killallgit/podscribe/internal/services/episodes"
	"github.com/killallgit/podscribe/internal/services/feeds"
	"github.com/killallgit/podscribe/internal/services/ingestion"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/library"
	"github.com/killallgit/podscribe/internal/services/storage"
	"github.com/killallgit/podscribe/internal/services/transcription"
	"github.com/killallgit/podscribe/internal/services/vectorindex"
	"github.com/killallgit/podscribe/pkg/config"
	"github.com/killallgit/podscribe/pkg/download"
	"github.com/killallgit/podscribe/pkg/ffmpeg"
)

// app wires every component from the configuration. The generator and the
// index are created once and shared by all commands of the process.
type app struct {
	cfg         *config.Config
	db          *database.DB
	channels    *channels.Repository
	episodes    *episodes.Repository
	index       *vectorindex.Index
	pool        *jobs.Pool
	transcriber *transcription.WhisperTranscriber
	queries     *cache.Memory[[]float32]
	library     *library.Library
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(database.Options{
		Driver:  cfg.Database.Driver,
		Path:    cfg.Database.Path,
		DSN:     cfg.Database.DSN,
		Verbose: cfg.Database.Verbose,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		db:       db,
		channels: channels.NewRepository(db.DB),
		episodes: episodes.NewRepository(db.DB),
	}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	store, err := storage.NewStore(cfg.Storage.MediaDir)
	if err != nil {
		return err
	}

	local := feeds.NewLocalReader(cfg.Storage.LocalDir)
	remote := feeds.NewRemoteReader(feeds.Config{
		RequestsPerMinute: cfg.Feeds.RequestsPerMinute,
		BurstSize:         cfg.Feeds.Burst,
		Timeout:           cfg.Feeds.Timeout,
		UserAgent:         cfg.Feeds.UserAgent,
	})

	downloadOpts := download.DefaultOptions()
	if cfg.Storage.MaxAudioSize > 0 {
		downloadOpts.MaxSize = cfg.Storage.MaxAudioSize
	}
	if cfg.Feeds.UserAgent != "" {
		downloadOpts.UserAgent = cfg.Feeds.UserAgent
	}

	a.transcriber = transcription.NewWhisperTranscriber(transcription.WhisperConfig{
		Path:      cfg.Whisper.Path,
		ModelPath: cfg.Whisper.ModelPath,
		Language:  cfg.Whisper.Language,
		Threads:   cfg.Whisper.Threads,
		Timeout:   cfg.Whisper.Timeout,
	}, ffmpeg.New(cfg.Whisper.FFmpegPath, cfg.Whisper.Timeout))

	generator, err := embeddings.NewGenerator(embeddings.Config{
		Provider:      cfg.Embeddings.Provider,
		Model:         cfg.Embeddings.Model,
		Host:          cfg.Embeddings.Host,
		Token:         cfg.Embeddings.Token,
		BatchSize:     cfg.Embeddings.BatchSize,
		HashDimension: cfg.Embeddings.HashDimension,
	})
	if err != nil {
		return err
	}

	a.index, err = vectorindex.Open(cfg.Vector.Path, cfg.Vector.InMemory, a.episodes)
	if err != nil {
		return err
	}

	a.pool, err = jobs.NewPool(ctx, cfg.Processing.Workers, jobs.WithBacklog(cfg.Processing.QueueSize))
	if err != nil {
		return err
	}

	if cfg.Query.CacheSize > 0 {
		a.queries = cache.NewMemory[[]float32](cfg.Query.CacheSize, time.Minute)
	}

	a.library = library.New(library.Deps{
		Channels: a.channels,
		Episodes: a.episodes,
		Ingestion: ingestion.NewService(a.channels, a.episodes, remote,
			ingestion.WithLocalReader(local),
			ingestion.WithCatalog(feeds.DefaultCatalog),
		),
		Transcription: transcription.NewService(a.channels, a.episodes, store, download.NewDownloader(downloadOpts), local, a.transcriber),
		Store:         store,
		Generator:     generator,
		Index:         a.index,
		Queue:         a.pool,
		QueryCache:    a.queries,
	}, library.Config{
		Collection:     cfg.Vector.Collection,
		FragmentWords:  cfg.Embeddings.FragmentWords,
		MaxNewEpisodes: cfg.Feeds.MaxNewEpisodes,
		JobTimeout:     cfg.Processing.JobTimeout,
		DefaultK:       cfg.Query.DefaultK,
		MaxK:           cfg.Query.MaxK,
		QueryCacheTTL:  cfg.Query.CacheTTL,
	})

	slog.Debug("application wired",
		"database", cfg.Database.Driver,
		"embedding_model", generator.ModelName(),
		"workers", cfg.Processing.Workers,
	)
	return nil
}

// Close cancels running jobs and closes the index and the database
func (a *app) Close() error {
	if a.pool != nil {
		a.pool.Release()
	}
	if a.queries != nil {
		a.queries.Stop()
	}
	var errs []error
	if a.index != nil {
		if err := a.index.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing vector index: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
	}
	return errors.Join(errs...)
}
