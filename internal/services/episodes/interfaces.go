package episodes

import (
	"context"
	"time"

	"github.com/killallgit/podscribe/internal/models"
)

// Filter selects episodes by readiness, optionally restricted to one channel
// and to a trailing publication window
type Filter struct {
	State          models.EpisodeState
	ChannelID      *uint
	PublishedAfter time.Time
	Limit          int
}

// EpisodeRepository defines the interface for episode data persistence
type EpisodeRepository interface {
	// Create operations
	CreateEpisode(ctx context.Context, episode *models.Episode) error

	// Read operations
	GetEpisodeByID(ctx context.Context, id uint) (*models.Episode, error)
	GetEpisodeByOriginURL(ctx context.Context, originURL string) (*models.Episode, error)
	ExistsByOriginURL(ctx context.Context, originURL string) (bool, error)
	GetEpisodesByChannelID(ctx context.Context, channelID uint, page, limit int) ([]models.Episode, int64, error)
	FindEpisodes(ctx context.Context, filter Filter) ([]models.Episode, error)
	CountByState(ctx context.Context) (map[models.EpisodeState]int64, error)

	// State transitions
	MarkTranscribed(ctx context.Context, id uint) error
	MarkEmbedded(ctx context.Context, id uint) error

	// Delete operations
	DeleteEpisode(ctx context.Context, id uint) error
}
