package feeds

import (
	"context"

	"github.com/killallgit/podscribe/internal/models"
)

// ChannelReader reads channel metadata and episode candidates from a source.
// Returned models are not persisted.
type ChannelReader interface {
	ReadEpisodes(ctx context.Context, channel *models.Channel) ([]models.Episode, error)
}

// RemoteSource reads remote syndication feeds
type RemoteSource interface {
	ChannelReader
	ReadChannel(ctx context.Context, feedURL, language string) (*models.Channel, error)
}

var (
	_ RemoteSource  = (*RemoteReader)(nil)
	_ ChannelReader = (*LocalReader)(nil)
)
