package channels

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/killallgit/podscribe/internal/models"
)

type Repository struct {
	db *gorm.DB
}

var _ ChannelRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateChannel creates a new channel
func (r *Repository) CreateChannel(ctx context.Context, channel *models.Channel) error {
	if !channel.Kind.Valid() {
		return fmt.Errorf("creating channel: unknown kind %q", channel.Kind)
	}
	if channel.Locator == "" {
		return fmt.Errorf("creating channel: empty locator")
	}
	if err := r.db.WithContext(ctx).Create(channel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s channel %s", models.ErrDuplicate, channel.Kind, channel.Locator)
		}
		return fmt.Errorf("creating channel: %w", err)
	}
	return nil
}

// GetChannelByID retrieves a channel by its database ID
func (r *Repository) GetChannelByID(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).First(&channel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("channel", id)
		}
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	return &channel, nil
}

// GetChannelByUUID retrieves a channel by its public identifier
func (r *Repository) GetChannelByUUID(ctx context.Context, uuid string) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("channel", uuid)
		}
		return nil, fmt.Errorf("getting channel by uuid: %w", err)
	}
	return &channel, nil
}

// GetChannelBySource retrieves a channel by feed URL or folder name
func (r *Repository) GetChannelBySource(ctx context.Context, kind models.ChannelKind, locator string) (*models.Channel, error) {
	var channel models.Channel
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND locator = ?", kind, locator).
		First(&channel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("channel", locator)
		}
		return nil, fmt.Errorf("getting channel by source: %w", err)
	}
	return &channel, nil
}

// ListChannels returns every channel in creation order
func (r *Repository) ListChannels(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	return channels, nil
}

// DeleteChannel deletes a channel and its episodes in one transaction
func (r *Repository) DeleteChannel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_id = ?", id).Delete(&models.Episode{}).Error; err != nil {
			return fmt.Errorf("deleting channel episodes: %w", err)
		}
		result := tx.Delete(&models.Channel{}, id)
		if result.Error != nil {
			return fmt.Errorf("deleting channel: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("channel", id)
		}
		return nil
	})
}
