package vectorindex

import (
	"context"
	"errors"
)

// DistanceCosine is the only supported metric
const DistanceCosine = "cosine"

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDimensionMismatch  = errors.New("vector dimension mismatch")
	ErrLengthMismatch     = errors.New("vectors and fragments differ in length")
)

// StateMarker records that an episode's fragments were written
type StateMarker interface {
	MarkEmbedded(ctx context.Context, id uint) error
}

// Collection is a named set of fragment vectors of one dimension
type Collection struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Distance  string `json:"distance"`
}

// Payload is the metadata stored next to each fragment vector
type Payload struct {
	EpisodeID    uint    `json:"episode_id"`
	ChannelID    uint    `json:"channel_id"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// record is the stored form of one fragment
type record struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// SearchHit is one search result
type SearchHit struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
	Payload
}
