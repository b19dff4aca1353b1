package transcription

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
	"github.com/killallgit/podscribe/pkg/download"
)

// Service produces transcript artifacts and keeps the transcribed state in
// line with them
type Service struct {
	channels    channels.ChannelRepository
	episodes    episodes.EpisodeRepository
	store       *storage.Store
	fetcher     AudioFetcher
	local       *feeds.LocalReader
	transcriber Transcriber
	logger      *slog.Logger
}

// NewService creates a transcription service. local may be nil when no local
// channels are configured.
func NewService(
	channelRepo channels.ChannelRepository,
	episodeRepo episodes.EpisodeRepository,
	store *storage.Store,
	fetcher AudioFetcher,
	local *feeds.LocalReader,
	transcriber Transcriber,
) *Service {
	return &Service{
		channels:    channelRepo,
		episodes:    episodeRepo,
		store:       store,
		fetcher:     fetcher,
		local:       local,
		transcriber: transcriber,
		logger:      slog.Default().With("component", "transcription"),
	}
}

// TranscribeEpisodeByID loads the episode and transcribes it
func (s *Service) TranscribeEpisodeByID(ctx context.Context, id uint) (string, error) {
	episode, err := s.episodes.GetEpisodeByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.TranscribeEpisode(ctx, episode)
}

// TranscribeEpisode makes sure a transcript artifact exists for episode and
// marks it transcribed. Existing artifacts are not regenerated. It returns
// the artifact path.
func (s *Service) TranscribeEpisode(ctx context.Context, episode *models.Episode) (string, error) {
	channel, err := s.channels.GetChannelByID(ctx, episode.ChannelID)
	if err != nil {
		return "", fmt.Errorf("loading channel of episode %d: %w", episode.ID, err)
	}

	path := s.store.TranscriptPath(channel, episode)
	exists, err := s.store.TranscriptExists(ctx, channel, episode)
	if err != nil {
		return "", err
	}
	if exists {
		s.logger.Debug("transcript already present", "episode_id", episode.ID, "path", path)
		return path, s.markTranscribed(ctx, episode)
	}

	audioPath := s.store.AudioPath(channel, episode)
	defer func() {
		if err := s.store.Remove(ctx, audioPath); err != nil {
			s.logger.Warn("failed to remove audio copy", "path", audioPath, "error", err)
		}
	}()

	if err := s.fetchAudio(ctx, channel, episode, audioPath); err != nil {
		return "", fmt.Errorf("obtaining audio of episode %d: %w", episode.ID, err)
	}

	t, err := s.transcriber.Transcribe(ctx, audioPath, channel.Language)
	if err != nil {
		return "", fmt.Errorf("transcribing episode %d: %w", episode.ID, err)
	}

	path, err = s.store.WriteTranscript(ctx, channel, episode, t)
	if err != nil {
		return "", err
	}

	s.logger.Info("episode transcribed", "episode_id", episode.ID, "segments", len(t), "path", path)
	return path, s.markTranscribed(ctx, episode)
}

func (s *Service) fetchAudio(ctx context.Context, channel *models.Channel, episode *models.Episode, dest string) error {
	if channel.IsLocal() {
		if s.local == nil {
			return errors.New("local sources are not configured")
		}
		_, err := download.CopyFile(ctx, s.local.AudioPath(episode.OriginURL), dest)
		return err
	}
	_, err := s.fetcher.DownloadTo(ctx, episode.OriginURL, dest)
	return err
}

func (s *Service) markTranscribed(ctx context.Context, episode *models.Episode) error {
	if episode.Transcribed() {
		return nil
	}
	if err := s.episodes.MarkTranscribed(ctx, episode.ID); err != nil {
		return err
	}
	episode.State = models.StateTranscribed
	return nil
}

// Reconcile marks every new episode whose transcript artifact already exists
// as transcribed. Missing artifacts are left alone. It returns the number of
// repaired episodes.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	pending, err := s.episodes.FindEpisodes(ctx, episodes.Filter{State: models.StateNew})
	if err != nil {
		return 0, err
	}

	channelCache := make(map[uint]*models.Channel)
	repaired := 0
	for i := range pending {
		if err := ctx.Err(); err != nil {
			return repaired, err
		}
		episode := &pending[i]

		channel, ok := channelCache[episode.ChannelID]
		if !ok {
			channel, err = s.channels.GetChannelByID(ctx, episode.ChannelID)
			if err != nil {
				s.logger.Warn("skipping episode without channel", "episode_id", episode.ID, "error", err)
				continue
			}
			channelCache[episode.ChannelID] = channel
		}

		exists, err := s.store.TranscriptExists(ctx, channel, episode)
		if err != nil {
			return repaired, err
		}
		if !exists {
			continue
		}
		if err := s.markTranscribed(ctx, episode); err != nil {
			return repaired, err
		}
		repaired++
	}

	if repaired > 0 {
		s.logger.Info("reconciled transcribed state", "repaired", repaired)
	}
	return repaired, nil
}
