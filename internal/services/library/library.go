package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/cache"
	"github.com/killallgit/podscribe/internal/services/channels"
	"github.com/killallgit/podscribe/internal/services/embeddings"
	"github.com/killallgit/podscribe/internal/services/episodes"
	"github.com/killallgit/podscribe/internal/services/feeds"
	"github.com/killallgit/podscribe/internal/services/ingestion"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/storage"
	"github.com/killallgit/podscribe/internal/services/vectorindex"
)

// Deps are the collaborators a Library sequences
type Deps struct {
	Channels      channels.ChannelRepository
	Episodes      episodes.EpisodeRepository
	Ingestion     *ingestion.Service
	Transcription TranscriptionStage
	Store         *storage.Store
	Generator     *embeddings.Generator
	Index         *vectorindex.Index
	Queue         jobs.Queue
	// QueryCache memoizes query embeddings when set
	QueryCache *cache.Memory[[]float32]
}

// Library runs the batch operations and answers queries
type Library struct {
	Deps
	cfg          Config
	inflight     sync.Map // channel ids being updated
	transcribing sync.Map // episode ids with a queued or running transcription
	scheduling   atomic.Bool
	logger       *slog.Logger
}

// New creates a library
func New(deps Deps, cfg Config) *Library {
	if cfg.Collection == "" {
		cfg.Collection = "vectordb"
	}
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = 4
	}
	if cfg.MaxK < cfg.DefaultK {
		cfg.MaxK = cfg.DefaultK
	}
	return &Library{
		Deps:   deps,
		cfg:    cfg,
		logger: slog.Default().With("component", "library"),
	}
}

// Config returns the active settings
func (l *Library) Config() Config {
	return l.cfg
}

// AddDefaultChannels seeds the channels of the default catalog
func (l *Library) AddDefaultChannels(ctx context.Context) (int, error) {
	return l.Ingestion.AddDefaultChannels(ctx)
}

// AddChannel resolves a remote feed into a stored channel
func (l *Library) AddChannel(ctx context.Context, feedURL, language string) (bool, *models.Channel, error) {
	return l.Ingestion.ResolveChannel(ctx, feedURL, models.ChannelKindRemote, language)
}

// AddLocalChannels resolves every local source; failures are logged and
// skipped. It returns the number of channels created.
func (l *Library) AddLocalChannels(ctx context.Context, sources []feeds.LocalSource) (int, error) {
	created := 0
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		ok, _, err := l.Ingestion.ResolveLocalChannel(ctx, src)
		if err != nil {
			l.logger.Warn("skipping local source", "folder", src.Folder, "error", err)
			continue
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// UpdateChannel ingests the latest episodes of one channel. Concurrent
// updates of the same channel are rejected with ErrUpdateInProgress.
func (l *Library) UpdateChannel(ctx context.Context, channel *models.Channel) (int, error) {
	if _, busy := l.inflight.LoadOrStore(channel.ID, struct{}{}); busy {
		return 0, fmt.Errorf("%w: channel %d", ErrUpdateInProgress, channel.ID)
	}
	defer l.inflight.Delete(channel.ID)

	return l.Ingestion.UpdateChannel(ctx, channel, l.cfg.MaxNewEpisodes)
}

// UpdateAllChannels updates every stored channel. A channel that cannot be
// read is logged and counted, and the remaining channels carry on.
func (l *Library) UpdateAllChannels(ctx context.Context) (UpdateReport, error) {
	var report UpdateReport

	list, err := l.Channels.ListChannels(ctx)
	if err != nil {
		return report, err
	}
	report.Channels = len(list)

	for i := range list {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		channel := &list[i]

		added, err := l.UpdateChannel(ctx, channel)
		switch {
		case errors.Is(err, ErrUpdateInProgress):
			report.Skipped++
			l.logger.Info("channel update already running", "channel_id", channel.ID)
		case err != nil:
			report.Failed++
			l.logger.Warn("channel update failed", "channel_id", channel.ID, "locator", channel.Locator, "error", err)
		default:
			report.Updated++
			report.NewEpisodes += added
		}
	}

	l.logger.Info("channels updated", "channels", report.Channels, "failed", report.Failed, "new_episodes", report.NewEpisodes)
	return report, nil
}

// TranscribePending schedules one transcription job per new episode in the
// window. Episodes whose previous job has not finished are skipped. It
// returns the number of jobs enqueued.
func (l *Library) TranscribePending(ctx context.Context, opts TranscribeOptions) (int, error) {
	filter := episodes.Filter{State: models.StateNew, ChannelID: opts.ChannelID}
	if opts.WindowDays > 0 {
		filter.PublishedAfter = time.Now().UTC().AddDate(0, 0, -opts.WindowDays)
	}

	pending, err := l.Episodes.FindEpisodes(ctx, filter)
	if err != nil {
		return 0, err
	}
	if opts.Randomize {
		rand.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })
	}

	enqueued, skipped := 0, 0
	for _, ep := range pending {
		id := ep.ID
		if _, busy := l.transcribing.LoadOrStore(id, struct{}{}); busy {
			skipped++
			continue
		}
		err := l.Queue.Enqueue(fmt.Sprintf("transcribe:%d", id), func(ctx context.Context) error {
			defer l.transcribing.Delete(id)
			_, err := l.Transcription.TranscribeEpisodeByID(ctx, id)
			return err
		}, l.cfg.JobTimeout)
		if err != nil {
			l.transcribing.Delete(id)
			return enqueued, err
		}
		enqueued++
	}

	l.logger.Info("transcription jobs enqueued", "jobs", enqueued, "skipped", skipped, "window_days", opts.WindowDays)
	return enqueued, nil
}

// Reconcile repairs the transcribed state from artifacts on disk
func (l *Library) Reconcile(ctx context.Context) (int, error) {
	return l.Transcription.Reconcile(ctx)
}

// IndexPending embeds and indexes every transcribed episode that is not
// indexed yet. Per-episode failures are logged and counted.
func (l *Library) IndexPending(ctx context.Context) (IndexReport, error) {
	var report IndexReport

	dim, err := l.Generator.Dimension(ctx)
	if err != nil {
		return report, err
	}
	if err := l.Index.EnsureCollection(ctx, l.cfg.Collection, dim); err != nil {
		return report, err
	}

	pending, err := l.Episodes.FindEpisodes(ctx, episodes.Filter{State: models.StateTranscribed})
	if err != nil {
		return report, err
	}
	rand.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })
	report.Pending = len(pending)

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		ep := &pending[i]

		written, err := l.IndexEpisode(ctx, ep)
		if err != nil {
			report.Failed++
			l.logger.Warn("indexing episode failed", "episode_id", ep.ID, "error", err)
			continue
		}
		report.Indexed++
		report.Fragments += written
	}

	l.logger.Info("indexing finished", "indexed", report.Indexed, "failed", report.Failed, "fragments", report.Fragments)
	return report, nil
}

// IndexEpisode reads the transcript of a transcribed episode, embeds its
// fragments and writes them to the index
func (l *Library) IndexEpisode(ctx context.Context, ep *models.Episode) (int, error) {
	channel, err := l.Channels.GetChannelByID(ctx, ep.ChannelID)
	if err != nil {
		return 0, err
	}

	t, err := l.Store.ReadTranscript(ctx, channel, ep)
	if err != nil {
		return 0, err
	}

	vectors, fragments, err := l.Generator.FragmentEmbeddings(ctx, t, l.cfg.FragmentWords)
	if err != nil {
		return 0, err
	}
	return l.Index.UpsertFragments(ctx, ep, vectors, fragments, l.cfg.Collection)
}

// Query embeds text and returns the k most similar fragments, most similar
// first, with their episode and channel
func (l *Library) Query(ctx context.Context, text string, k int) ([]QueryResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	k = l.clampK(k)

	vector, err := l.embedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	hits, err := l.Index.Search(ctx, vector, l.cfg.Collection, k)
	if errors.Is(err, vectorindex.ErrCollectionNotFound) {
		return []QueryResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	episodeCache := make(map[uint]*models.Episode)
	channelCache := make(map[uint]*models.Channel)
	results := make([]QueryResult, 0, len(hits))

	for _, hit := range hits {
		ep, ok := episodeCache[hit.EpisodeID]
		if !ok {
			ep, err = l.Episodes.GetEpisodeByID(ctx, hit.EpisodeID)
			if err != nil && !models.IsNotFound(err) {
				return nil, err
			}
			episodeCache[hit.EpisodeID] = ep
		}
		if ep == nil {
			continue
		}

		ch, ok := channelCache[ep.ChannelID]
		if !ok {
			ch, err = l.Channels.GetChannelByID(ctx, ep.ChannelID)
			if err != nil && !models.IsNotFound(err) {
				return nil, err
			}
			channelCache[ep.ChannelID] = ch
		}
		if ch == nil {
			continue
		}

		results = append(results, QueryResult{
			Score:        hit.Score,
			Text:         hit.Text,
			StartSeconds: hit.StartSeconds,
			EndSeconds:   hit.EndSeconds,
			Episode:      episodeInfo(ep),
			Channel:      channelInfo(ch),
		})
	}
	return results, nil
}

func (l *Library) clampK(k int) int {
	if k <= 0 {
		return l.cfg.DefaultK
	}
	return min(k, l.cfg.MaxK)
}

// DeleteChannel removes a channel, its episodes, their index records and
// their artifacts
func (l *Library) DeleteChannel(ctx context.Context, id uint) error {
	channel, err := l.Channels.GetChannelByID(ctx, id)
	if err != nil {
		return err
	}

	removed, err := l.Index.DeleteChannel(ctx, l.cfg.Collection, id)
	if err != nil {
		return fmt.Errorf("removing index records of channel %d: %w", id, err)
	}
	if err := l.Channels.DeleteChannel(ctx, id); err != nil {
		return err
	}
	if err := l.Store.RemoveChannel(ctx, channel); err != nil {
		l.logger.Warn("failed to remove channel artifacts", "channel_id", id, "error", err)
	}

	l.logger.Info("channel deleted", "channel_id", id, "fragments", removed)
	return nil
}

// Stats counts channels, episodes per state and indexed fragments
func (l *Library) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	list, err := l.Channels.ListChannels(ctx)
	if err != nil {
		return stats, err
	}
	stats.Channels = len(list)

	if stats.Episodes, err = l.Episodes.CountByState(ctx); err != nil {
		return stats, err
	}
	if stats.Fragments, err = l.Index.Count(ctx, l.cfg.Collection); err != nil {
		return stats, err
	}
	return stats, nil
}

func (l *Library) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if l.QueryCache != nil {
		if vector, ok := l.QueryCache.Get(text); ok {
			return vector, nil
		}
	}
	vector, err := l.Generator.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	if l.QueryCache != nil {
		l.QueryCache.Set(text, vector, l.cfg.QueryCacheTTL)
	}
	return vector, nil
}
