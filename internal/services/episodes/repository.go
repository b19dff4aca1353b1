package episodes

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

// Ensure Repository implements EpisodeRepository interface
var _ EpisodeRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateEpisode(ctx context.Context, episode *models.Episode) error {
	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: episode with origin url %s", models.ErrDuplicate, episode.OriginURL)
		}
		return fmt.Errorf("creating episode: %w", err)
	}
	return nil
}

func (r *Repository) GetEpisodeByID(ctx context.Context, id uint) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).First(&episode, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("episode", id)
		}
		return nil, fmt.Errorf("getting episode: %w", err)
	}
	return &episode, nil
}

func (r *Repository) GetEpisodeByOriginURL(ctx context.Context, originURL string) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).Where("origin_url = ?", originURL).First(&episode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("episode", originURL)
		}
		return nil, fmt.Errorf("getting episode by origin url: %w", err)
	}
	return &episode, nil
}

func (r *Repository) ExistsByOriginURL(ctx context.Context, originURL string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("origin_url = ?", originURL).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("checking episode: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) GetEpisodesByChannelID(ctx context.Context, channelID uint, page, limit int) ([]models.Episode, int64, error) {
	var episodes []models.Episode
	var total int64

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&models.Episode{}).Where("channel_id = ?", channelID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting episodes: %w", err)
	}

	if err := query.
		Order("published_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&episodes).Error; err != nil {
		return nil, 0, fmt.Errorf("getting episodes: %w", err)
	}

	return episodes, total, nil
}

func (r *Repository) FindEpisodes(ctx context.Context, filter Filter) ([]models.Episode, error) {
	var episodes []models.Episode

	query := r.db.WithContext(ctx).Model(&models.Episode{})
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.ChannelID != nil {
		query = query.Where("channel_id = ?", *filter.ChannelID)
	}
	if !filter.PublishedAfter.IsZero() {
		query = query.Where("published_at >= ?", filter.PublishedAfter)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("published_at DESC").Order("id ASC").Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("finding episodes: %w", err)
	}
	return episodes, nil
}

func (r *Repository) CountByState(ctx context.Context) (map[models.EpisodeState]int64, error) {
	var rows []struct {
		State models.EpisodeState
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("counting episodes by state: %w", err)
	}

	counts := map[models.EpisodeState]int64{
		models.StateNew:         0,
		models.StateTranscribed: 0,
		models.StateEmbedded:    0,
	}
	for _, row := range rows {
		counts[row.State] = row.Count
	}
	return counts, nil
}

// MarkTranscribed moves an episode from new to transcribed. Episodes that are
// already transcribed or embedded are left untouched.
func (r *Repository) MarkTranscribed(ctx context.Context, id uint) error {
	moved, err := r.transition(ctx, id, models.StateNew, models.StateTranscribed)
	if err != nil || moved {
		return err
	}
	_, err = r.GetEpisodeByID(ctx, id)
	return err
}

// MarkEmbedded moves an episode from transcribed to embedded. It fails with
// ErrAlreadyIndexed if the episode was embedded before and with
// ErrNotTranscribed if it has no transcript yet.
func (r *Repository) MarkEmbedded(ctx context.Context, id uint) error {
	moved, err := r.transition(ctx, id, models.StateTranscribed, models.StateEmbedded)
	if err != nil || moved {
		return err
	}

	episode, err := r.GetEpisodeByID(ctx, id)
	if err != nil {
		return err
	}
	if episode.Embedded() {
		return fmt.Errorf("%w: episode %d", models.ErrAlreadyIndexed, id)
	}
	return fmt.Errorf("%w: episode %d", models.ErrNotTranscribed, id)
}

// transition is a conditional update; it reports whether the row moved
func (r *Repository) transition(ctx context.Context, id uint, from, to models.EpisodeState) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("id = ? AND state = ?", id, from).
		Update("state", to)
	if result.Error != nil {
		return false, fmt.Errorf("updating episode state: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) DeleteEpisode(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Episode{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting episode: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("episode", id)
	}
	return nil
}
