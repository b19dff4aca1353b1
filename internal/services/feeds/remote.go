package feeds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/killallgit/podscribe/internal/models"
)

// maxFeedSize bounds how much of a feed document is read
const maxFeedSize = 32 << 20

// Config holds configuration for the remote feed reader
type Config struct {
	RequestsPerMinute int           // Default: 60
	BurstSize         int           // Default: 5
	Timeout           time.Duration // Default: 30s
	UserAgent         string        // Default: podscribe/1.0

	HTTPClient *http.Client // optional, for tests
}

// RemoteReader fetches and parses remote syndication feeds
type RemoteReader struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	logger      *slog.Logger

	requests atomic.Int64
	failures atomic.Int64
}

// Feed is a parsed remote feed: the candidate channel and its episode candidates
type Feed struct {
	Channel  *models.Channel
	Episodes []models.Episode
}

// NewRemoteReader creates a new remote feed reader
func NewRemoteReader(cfg Config) *RemoteReader {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "podscribe/1.0"
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &RemoteReader{
		httpClient: client,
		rateLimiter: rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)),
			cfg.BurstSize,
		),
		userAgent: cfg.UserAgent,
		logger:    slog.Default().With("component", "feeds"),
	}
}

// Read fetches feedURL and parses it into a candidate channel and episodes.
// A parse failure returns an error wrapping ErrUnreadableSource.
func (r *RemoteReader) Read(ctx context.Context, feedURL, language string) (*Feed, error) {
	body, err := r.fetch(ctx, feedURL)
	if err != nil {
		r.failures.Add(1)
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		r.failures.Add(1)
		r.logger.Warn("feed could not be parsed", "url", feedURL, "err", err)
		return nil, unreadable(feedURL, err)
	}

	channel := channelFromFeed(parsed, feedURL, language)
	return &Feed{
		Channel:  channel,
		Episodes: episodesFromFeed(parsed),
	}, nil
}

// ReadChannel returns the candidate channel for feedURL. An explicit language
// wins over the one declared by the feed.
func (r *RemoteReader) ReadChannel(ctx context.Context, feedURL, language string) (*models.Channel, error) {
	feed, err := r.Read(ctx, feedURL, language)
	if err != nil {
		return nil, err
	}
	return feed.Channel, nil
}

// ReadEpisodes returns the episode candidates of a remote channel in feed order
func (r *RemoteReader) ReadEpisodes(ctx context.Context, channel *models.Channel) ([]models.Episode, error) {
	if channel.FeedURL() == "" {
		return nil, fmt.Errorf("channel %d is not a remote feed", channel.ID)
	}
	feed, err := r.Read(ctx, channel.FeedURL(), channel.Language)
	if err != nil {
		return nil, err
	}
	for i := range feed.Episodes {
		feed.Episodes[i].ChannelID = channel.ID
	}
	return feed.Episodes, nil
}

// Stats returns the number of requests made and how many failed
func (r *RemoteReader) Stats() (requests, failures int64) {
	return r.requests.Load(), r.failures.Load()
}

func (r *RemoteReader) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if err := r.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	r.requests.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: feedURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("reading feed %s: %w", feedURL, err)
	}
	return body, nil
}
