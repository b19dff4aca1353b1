package types

import (
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/library"
)

// Status constants for API responses
const (
	StatusOK     = "ok"
	StatusError  = "error"
	StatusQueued = "queued"
)

// ErrorResponse is returned by every failing handler
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// QueryResponse for the semantic query endpoint
type QueryResponse struct {
	Status  string                `json:"status"`
	Query   string                `json:"query"`
	K       int                   `json:"k"`
	Count   int                   `json:"count"`
	Results []library.QueryResult `json:"results"`
}

// ChannelResponse for a single channel
type ChannelResponse struct {
	Status  string          `json:"status"`
	Created bool            `json:"created"`
	Channel *models.Channel `json:"channel"`
}

// ChannelsResponse for channel lists
type ChannelsResponse struct {
	Status   string           `json:"status"`
	Count    int              `json:"count"`
	Channels []models.Channel `json:"channels"`
}

// EpisodeResponse for a single episode
type EpisodeResponse struct {
	Status  string          `json:"status"`
	Episode *models.Episode `json:"episode"`
}

// EpisodesResponse for episode lists
type EpisodesResponse struct {
	Status   string           `json:"status"`
	Count    int              `json:"count"`
	Total    int64            `json:"total,omitempty"`
	Page     int              `json:"page,omitempty"`
	Episodes []models.Episode `json:"episodes"`
}

// JobResponse acknowledges a scheduled batch operation
type JobResponse struct {
	Status string `json:"status"`
	Job    string `json:"job"`
}

// JobStatsResponse reports the job queue counters
type JobStatsResponse struct {
	Status string     `json:"status"`
	Jobs   jobs.Stats `json:"jobs"`
}

// AddChannelRequest is the body of POST /api/v1/channels
type AddChannelRequest struct {
	FeedURL  string `json:"feed_url" binding:"required"`
	Language string `json:"language"`
}

// TranscribeRequest is the optional body of POST /api/v1/jobs/transcribe
type TranscribeRequest struct {
	Days      *int  `json:"days"`
	ChannelID *uint `json:"channel_id"`
	NoShuffle bool  `json:"no_shuffle"`
}
