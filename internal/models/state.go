package models

import (
	"errors"
	"fmt"
)

// EpisodeState is the readiness of an episode along the pipeline.
// The only transitions are new -> transcribed -> embedded.
type EpisodeState string

const (
	StateNew         EpisodeState = "new"
	StateTranscribed EpisodeState = "transcribed"
	StateEmbedded    EpisodeState = "embedded"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("already exists")
	ErrAlreadyIndexed = errors.New("episode already indexed")
	ErrNotTranscribed = errors.New("episode not transcribed")
	ErrInvalidState   = errors.New("invalid episode state")
)

// ParseEpisodeState parses a state name
func ParseEpisodeState(s string) (EpisodeState, error) {
	switch st := EpisodeState(s); st {
	case StateNew, StateTranscribed, StateEmbedded:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidState, s)
}

// Transcribed is true once a transcript artifact exists
func (s EpisodeState) Transcribed() bool {
	return s == StateTranscribed || s == StateEmbedded
}

// Embedded is true once fragments were written to the vector index
func (s EpisodeState) Embedded() bool {
	return s == StateEmbedded
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with identifier %v not found", e.Resource, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource string, id any) error {
	return NotFoundError{Resource: resource, ID: id}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
