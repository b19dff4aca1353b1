package types

import (
	"context"

	"github.com/killallgit/podscribe/internal/database"
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/channels"
	"github.com/killallgit/podscribe/internal/services/episodes"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/library"
)

// LibraryService is the part of the library the handlers drive
type LibraryService interface {
	Query(ctx context.Context, text string, k int) ([]library.QueryResult, error)
	AddChannel(ctx context.Context, feedURL, language string) (bool, *models.Channel, error)
	DeleteChannel(ctx context.Context, id uint) error
	Stats(ctx context.Context) (library.Stats, error)
	EnqueueUpdateAll() error
	EnqueueIndexPending() error
	ScheduleTranscribePending(opts library.TranscribeOptions) error
}

// JobStats reports task queue counters
type JobStats interface {
	Stats() jobs.Stats
}

var (
	_ LibraryService = (*library.Library)(nil)
	_ JobStats       = (*jobs.Pool)(nil)
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB          *database.DB
	Library     LibraryService
	ChannelRepo channels.ChannelRepository
	EpisodeRepo episodes.EpisodeRepository
	Jobs        JobStats
	Version     string
	WindowDays  int // default transcription window for scheduled runs
}
