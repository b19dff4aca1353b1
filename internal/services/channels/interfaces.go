package channels

import (
	"context"

	"github.com/killallgit/podscribe/internal/models"
)

// ChannelRepository defines the data access interface for channels
type ChannelRepository interface {
	// Create
	CreateChannel(ctx context.Context, channel *models.Channel) error

	// Read
	GetChannelByID(ctx context.Context, id uint) (*models.Channel, error)
	GetChannelByUUID(ctx context.Context, uuid string) (*models.Channel, error)
	GetChannelBySource(ctx context.Context, kind models.ChannelKind, locator string) (*models.Channel, error)

	// List
	ListChannels(ctx context.Context) ([]models.Channel, error)

	// Delete removes the channel together with its episodes
	DeleteChannel(ctx context.Context, id uint) error
}
