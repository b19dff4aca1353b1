package library

import (
	"context"
	"errors"
	"time"

	"github.com/killallgit/podscribe/internal/models"
)

var (
	// ErrEmptyQuery is returned for blank query text
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrUpdateInProgress is returned when a channel is already being updated
	ErrUpdateInProgress = errors.New("channel update already in progress")

	// ErrScheduleInProgress is returned while a background transcription
	// scheduling run has not finished enqueueing
	ErrScheduleInProgress = errors.New("transcription scheduling already in progress")
)

// TranscriptionStage produces transcripts for stored episodes
type TranscriptionStage interface {
	TranscribeEpisodeByID(ctx context.Context, id uint) (string, error)
	Reconcile(ctx context.Context) (int, error)
}

// Config holds the orchestration settings
type Config struct {
	Collection     string
	FragmentWords  int
	MaxNewEpisodes int           // per channel update, 0 means no cap
	JobTimeout     time.Duration // per transcription job
	DefaultK       int
	MaxK           int
	QueryCacheTTL  time.Duration
}

// TranscribeOptions selects the episodes TranscribePending schedules
type TranscribeOptions struct {
	WindowDays int   // only episodes published within the trailing window; 0 means all
	ChannelID  *uint // restrict to one channel
	Randomize  bool  // shuffle so no channel is starved when work is capped
}

// UpdateReport aggregates an update of every channel
type UpdateReport struct {
	Channels    int `json:"channels"`
	Updated     int `json:"updated"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	NewEpisodes int `json:"new_episodes"`
}

// IndexReport aggregates an indexing run
type IndexReport struct {
	Pending   int `json:"pending"`
	Indexed   int `json:"indexed"`
	Failed    int `json:"failed"`
	Fragments int `json:"fragments"`
}

// EpisodeInfo is the episode metadata attached to query results
type EpisodeInfo struct {
	ID          uint      `json:"id"`
	UUID        string    `json:"uuid"`
	Title       string    `json:"title"`
	OriginURL   string    `json:"origin_url"`
	PublishedAt time.Time `json:"published_at"`
	Duration    int       `json:"duration"`
}

// ChannelInfo is the channel metadata attached to query results
type ChannelInfo struct {
	ID       uint   `json:"id"`
	UUID     string `json:"uuid"`
	Title    string `json:"title"`
	Language string `json:"language"`
	URL      string `json:"url"`
	Image    string `json:"image"`
}

// QueryResult is one retrieved fragment joined with its episode and channel
type QueryResult struct {
	Score        float32     `json:"score"`
	Text         string      `json:"text"`
	StartSeconds float64     `json:"start_seconds"`
	EndSeconds   float64     `json:"end_seconds"`
	Episode      EpisodeInfo `json:"episode"`
	Channel      ChannelInfo `json:"channel"`
}

// Stats summarizes the library
type Stats struct {
	Channels  int                           `json:"channels"`
	Episodes  map[models.EpisodeState]int64 `json:"episodes"`
	Fragments int                           `json:"fragments"`
}

func episodeInfo(ep *models.Episode) EpisodeInfo {
	return EpisodeInfo{
		ID:          ep.ID,
		UUID:        ep.UUID,
		Title:       ep.Title,
		OriginURL:   ep.OriginURL,
		PublishedAt: ep.PublishedAt,
		Duration:    ep.Duration,
	}
}

func channelInfo(ch *models.Channel) ChannelInfo {
	return ChannelInfo{
		ID:       ch.ID,
		UUID:     ch.UUID,
		Title:    ch.Title,
		Language: ch.Language,
		URL:      ch.URL,
		Image:    ch.Image,
	}
}
