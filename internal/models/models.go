package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChannelKind identifies where a channel's episodes come from
type ChannelKind string

const (
	ChannelKindRemote ChannelKind = "remote-feed"
	ChannelKindLocal  ChannelKind = "local-folder"
)

// Valid reports whether k is a known channel kind
func (k ChannelKind) Valid() bool {
	return k == ChannelKindRemote || k == ChannelKindLocal
}

// Channel is a named stream of episodes, either a remote syndication feed or
// a local folder of audio files. Kind and Locator together identify the source.
type Channel struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UUID        string      `json:"uuid" gorm:"uniqueIndex;not null"`
	Kind        ChannelKind `json:"kind" gorm:"not null;uniqueIndex:idx_channel_source"`
	Locator     string      `json:"locator" gorm:"not null;uniqueIndex:idx_channel_source"`
	Title       string      `json:"title" gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Language    string      `json:"language"`
	URL         string      `json:"url"`
	Image       string      `json:"image"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Episodes    []Episode   `json:"episodes,omitempty" gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the public identifier
func (c *Channel) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// FeedURL returns the feed URL for remote channels and "" otherwise
func (c *Channel) FeedURL() string {
	if c.Kind == ChannelKindRemote {
		return c.Locator
	}
	return ""
}

// Folder returns the folder name for local channels and "" otherwise
func (c *Channel) Folder() string {
	if c.Kind == ChannelKindLocal {
		return c.Locator
	}
	return ""
}

// IsLocal reports whether the channel is backed by a local folder
func (c *Channel) IsLocal() bool {
	return c.Kind == ChannelKindLocal
}

// Episode is one audio item of a channel. OriginURL is the dedup key.
type Episode struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	UUID        string       `json:"uuid" gorm:"uniqueIndex;not null"`
	ChannelID   uint         `json:"channel_id" gorm:"not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description" gorm:"type:text"`
	OriginURL   string       `json:"origin_url" gorm:"uniqueIndex;not null"`
	GUID        string       `json:"guid" gorm:"index"`
	PublishedAt time.Time    `json:"published_at" gorm:"index"`
	Duration    int          `json:"duration"` // seconds, -1 when unknown
	Season      int          `json:"season"`   // -1 when unknown
	Number      int          `json:"number"`   // -1 when unknown
	Filename    string       `json:"filename"`
	State       EpisodeState `json:"state" gorm:"not null;index"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Channel     *Channel     `json:"channel,omitempty" gorm:"foreignKey:ChannelID"`
}

// BeforeCreate assigns the public identifier and the initial state
func (e *Episode) BeforeCreate(tx *gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.State == "" {
		e.State = StateNew
	}
	return nil
}

// Transcribed reports whether a transcript artifact has been produced
func (e *Episode) Transcribed() bool {
	return e.State.Transcribed()
}

// Embedded reports whether the episode's fragments sit in the vector index
func (e *Episode) Embedded() bool {
	return e.State.Embedded()
}
