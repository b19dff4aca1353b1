package episodes

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/killallgit/podscribe/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Channel{}, &models.Episode{})
	require.NoError(t, err)

	return db
}

func newEpisode(channelID uint, n int, published time.Time) *models.Episode {
	return &models.Episode{
		ChannelID:   channelID,
		Title:       fmt.Sprintf("Episode %d", n),
		OriginURL:   fmt.Sprintf("https://example.com/%d-%d.mp3", channelID, n),
		PublishedAt: published,
		Duration:    -1,
		Season:      -1,
		Number:      n,
	}
}

func TestRepository_CreateEpisode(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	episode := newEpisode(1, 1, time.Now())
	require.NoError(t, repo.CreateEpisode(ctx, episode))
	assert.NotZero(t, episode.ID)
	assert.Equal(t, models.StateNew, episode.State)

	retrieved, err := repo.GetEpisodeByOriginURL(ctx, episode.OriginURL)
	require.NoError(t, err)
	assert.Equal(t, episode.ID, retrieved.ID)
	assert.Equal(t, episode.UUID, retrieved.UUID)

	exists, err := repo.ExistsByOriginURL(ctx, episode.OriginURL)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := newEpisode(1, 1, time.Now())
	err = repo.CreateEpisode(ctx, dup)
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestRepository_GetEpisodeNotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.GetEpisodeByID(ctx, 99)
	assert.True(t, models.IsNotFound(err))

	_, err = repo.GetEpisodeByOriginURL(ctx, "missing")
	assert.True(t, models.IsNotFound(err))

	exists, err := repo.ExistsByOriginURL(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_GetEpisodesByChannelID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.CreateEpisode(ctx, newEpisode(1, i, base.AddDate(0, 0, i))))
	}
	require.NoError(t, repo.CreateEpisode(ctx, newEpisode(2, 1, base)))

	page, total, err := repo.GetEpisodesByChannelID(ctx, 1, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, "Episode 5", page[0].Title)
	assert.Equal(t, "Episode 4", page[1].Title)

	page, _, err = repo.GetEpisodesByChannelID(ctx, 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Episode 1", page[0].Title)
}

func TestRepository_FindEpisodes(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	now := time.Now().UTC()
	recent := newEpisode(1, 1, now.AddDate(0, 0, -1))
	old := newEpisode(1, 2, now.AddDate(0, 0, -30))
	other := newEpisode(2, 1, now.AddDate(0, 0, -2))
	done := newEpisode(1, 3, now)
	for _, ep := range []*models.Episode{recent, old, other, done} {
		require.NoError(t, repo.CreateEpisode(ctx, ep))
	}
	require.NoError(t, repo.MarkTranscribed(ctx, done.ID))

	pending, err := repo.FindEpisodes(ctx, Filter{State: models.StateNew})
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	windowed, err := repo.FindEpisodes(ctx, Filter{State: models.StateNew, PublishedAfter: now.AddDate(0, 0, -7)})
	require.NoError(t, err)
	assert.Len(t, windowed, 2)

	channelID := uint(1)
	scoped, err := repo.FindEpisodes(ctx, Filter{State: models.StateNew, ChannelID: &channelID, PublishedAfter: now.AddDate(0, 0, -7)})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, recent.ID, scoped[0].ID)

	transcribed, err := repo.FindEpisodes(ctx, Filter{State: models.StateTranscribed})
	require.NoError(t, err)
	require.Len(t, transcribed, 1)
	assert.Equal(t, done.ID, transcribed[0].ID)

	limited, err := repo.FindEpisodes(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRepository_StateTransitions(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	ep := newEpisode(1, 1, time.Now())
	require.NoError(t, repo.CreateEpisode(ctx, ep))

	err := repo.MarkEmbedded(ctx, ep.ID)
	assert.ErrorIs(t, err, models.ErrNotTranscribed)

	require.NoError(t, repo.MarkTranscribed(ctx, ep.ID))
	require.NoError(t, repo.MarkTranscribed(ctx, ep.ID), "marking transcribed twice is a no-op")

	require.NoError(t, repo.MarkEmbedded(ctx, ep.ID))
	err = repo.MarkEmbedded(ctx, ep.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyIndexed)

	require.NoError(t, repo.MarkTranscribed(ctx, ep.ID), "embedded episodes stay embedded")
	got, err := repo.GetEpisodeByID(ctx, ep.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateEmbedded, got.State)

	assert.True(t, models.IsNotFound(repo.MarkTranscribed(ctx, 999)))
	assert.True(t, models.IsNotFound(repo.MarkEmbedded(ctx, 999)))
}

func TestRepository_CountByState(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.CreateEpisode(ctx, newEpisode(1, i, time.Now())))
	}
	require.NoError(t, repo.MarkTranscribed(ctx, 1))

	counts, err := repo.CountByState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StateNew])
	assert.Equal(t, int64(1), counts[models.StateTranscribed])
	assert.Equal(t, int64(0), counts[models.StateEmbedded])
}

func TestRepository_DeleteEpisode(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	ep := newEpisode(1, 1, time.Now())
	require.NoError(t, repo.CreateEpisode(ctx, ep))
	require.NoError(t, repo.DeleteEpisode(ctx, ep.ID))

	_, err := repo.GetEpisodeByID(ctx, ep.ID)
	assert.True(t, models.IsNotFound(err))
	assert.True(t, models.IsNotFound(repo.DeleteEpisode(ctx, ep.ID)))
}
