package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/channels"
	"github.com/killallgit/podscribe/internal/services/episodes"
	"github.com/killallgit/podscribe/internal/services/feeds"
	"github.com/killallgit/podscribe/internal/services/storage"
)

// ErrLocalSourceRequired is returned when an unknown local folder is resolved
// without the metadata a local channel is built from
var ErrLocalSourceRequired = errors.New("local channels are created from a local source definition")

// Service resolves source candidates against stored channels and episodes,
// creating only what is missing
type Service struct {
	channels channels.ChannelRepository
	episodes episodes.EpisodeRepository
	remote   feeds.RemoteSource
	local    *feeds.LocalReader
	catalog  func() ([]feeds.CatalogEntry, error)
	logger   *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLocalReader enables local folder channels
func WithLocalReader(reader *feeds.LocalReader) Option {
	return func(s *Service) {
		s.local = reader
	}
}

// WithCatalog replaces the embedded default channel list
func WithCatalog(catalog func() ([]feeds.CatalogEntry, error)) Option {
	return func(s *Service) {
		s.catalog = catalog
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates an ingestion service
func NewService(channelRepo channels.ChannelRepository, episodeRepo episodes.EpisodeRepository, remote feeds.RemoteSource, opts ...Option) *Service {
	s := &Service{
		channels: channelRepo,
		episodes: episodeRepo,
		remote:   remote,
		catalog:  feeds.DefaultCatalog,
		logger:   slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveChannel returns the stored channel for locator, reading and creating
// it first when it does not exist yet. created reports whether a row was added.
func (s *Service) ResolveChannel(ctx context.Context, locator string, kind models.ChannelKind, language string) (bool, *models.Channel, error) {
	if !kind.Valid() {
		return false, nil, fmt.Errorf("unknown channel kind %q", kind)
	}

	existing, err := s.channels.GetChannelBySource(ctx, kind, locator)
	if err == nil {
		return false, existing, nil
	}
	if !models.IsNotFound(err) {
		return false, nil, fmt.Errorf("looking up channel: %w", err)
	}

	if kind == models.ChannelKindLocal {
		return false, nil, fmt.Errorf("%w: %s", ErrLocalSourceRequired, locator)
	}

	candidate, err := s.remote.ReadChannel(ctx, locator, language)
	if err != nil {
		return false, nil, err
	}
	return s.create(ctx, candidate)
}

// ResolveLocalChannel is ResolveChannel for folder sources
func (s *Service) ResolveLocalChannel(ctx context.Context, src feeds.LocalSource) (bool, *models.Channel, error) {
	if s.local == nil {
		return false, nil, errors.New("local sources are not configured")
	}

	candidate, err := s.local.ReadChannel(src)
	if err != nil {
		return false, nil, err
	}

	existing, err := s.channels.GetChannelBySource(ctx, models.ChannelKindLocal, candidate.Locator)
	if err == nil {
		return false, existing, nil
	}
	if !models.IsNotFound(err) {
		return false, nil, fmt.Errorf("looking up channel: %w", err)
	}
	return s.create(ctx, candidate)
}

// create persists a candidate; losing a creation race returns the winner
func (s *Service) create(ctx context.Context, candidate *models.Channel) (bool, *models.Channel, error) {
	err := s.channels.CreateChannel(ctx, candidate)
	if errors.Is(err, models.ErrDuplicate) {
		existing, lookupErr := s.channels.GetChannelBySource(ctx, candidate.Kind, candidate.Locator)
		if lookupErr != nil {
			return false, nil, fmt.Errorf("looking up channel: %w", lookupErr)
		}
		return false, existing, nil
	}
	if err != nil {
		return false, nil, err
	}

	s.logger.Info("channel created", "id", candidate.ID, "kind", candidate.Kind, "locator", candidate.Locator, "title", candidate.Title)
	return true, candidate, nil
}

// IngestEpisodes stores the candidates that are not known yet, in the order
// given, and stops once maxNew episodes were added when maxNew > 0. It
// returns the number of new episodes.
func (s *Service) IngestEpisodes(ctx context.Context, channel *models.Channel, candidates []models.Episode, maxNew int) (int, error) {
	added := 0
	for i := range candidates {
		if maxNew > 0 && added >= maxNew {
			break
		}
		if err := ctx.Err(); err != nil {
			return added, err
		}

		candidate := candidates[i]
		exists, err := s.episodes.ExistsByOriginURL(ctx, candidate.OriginURL)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}

		candidate.ID = 0
		candidate.UUID = ""
		candidate.ChannelID = channel.ID
		candidate.State = models.StateNew
		candidate.Filename = storage.EpisodeFilename(candidate.Title, candidate.OriginURL)

		if err := s.episodes.CreateEpisode(ctx, &candidate); err != nil {
			if errors.Is(err, models.ErrDuplicate) {
				continue
			}
			return added, err
		}
		added++
	}

	if added > 0 {
		s.logger.Info("episodes ingested", "channel_id", channel.ID, "new", added)
	}
	return added, nil
}

// UpdateChannel reads the latest candidates of a stored channel and ingests them
func (s *Service) UpdateChannel(ctx context.Context, channel *models.Channel, maxNew int) (int, error) {
	reader, err := s.readerFor(channel)
	if err != nil {
		return 0, err
	}

	candidates, err := reader.ReadEpisodes(ctx, channel)
	if err != nil {
		return 0, fmt.Errorf("reading channel %d: %w", channel.ID, err)
	}
	return s.IngestEpisodes(ctx, channel, candidates, maxNew)
}

// AddDefaultChannels resolves every catalog entry. Entries that cannot be
// read are logged and skipped. It returns the number of channels created.
func (s *Service) AddDefaultChannels(ctx context.Context) (int, error) {
	entries, err := s.catalog()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		ok, _, err := s.ResolveChannel(ctx, entry.URL, models.ChannelKindRemote, entry.Language)
		if err != nil {
			s.logger.Warn("skipping catalog entry", "name", entry.Name, "url", entry.URL, "error", err)
			continue
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Service) readerFor(channel *models.Channel) (feeds.ChannelReader, error) {
	switch channel.Kind {
	case models.ChannelKindRemote:
		return s.remote, nil
	case models.ChannelKindLocal:
		if s.local == nil {
			return nil, errors.New("local sources are not configured")
		}
		return s.local, nil
	}
	return nil, fmt.Errorf("unknown channel kind %q", channel.Kind)
}
