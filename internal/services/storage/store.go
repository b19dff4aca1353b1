package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/pkg/transcript"
)

const (
	// TranscriptExt is the suffix of persisted transcript artifacts
	TranscriptExt = ".csv"
	// TempPrefix names transcripts still being written
	TempPrefix = ".transcript-"
)

// ErrTranscriptNotFound is returned when no artifact exists for an episode
var ErrTranscriptNotFound = errors.New("transcript not found")

// Store keeps per-episode artifacts under <root>/<channel dir>/<filename>
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the base directory
func (s *Store) Root() string {
	return s.root
}

// TranscriptPath returns where the transcript of ep is kept
func (s *Store) TranscriptPath(ch *models.Channel, ep *models.Episode) string {
	return filepath.Join(s.root, ChannelDir(ch), stem(ep)+TranscriptExt)
}

// AudioPath returns where the transient audio copy of ep is kept
func (s *Store) AudioPath(ch *models.Channel, ep *models.Episode) string {
	return filepath.Join(s.root, ChannelDir(ch), stem(ep)+AudioExtension(ep.OriginURL))
}

// TranscriptExists reports whether the transcript artifact of ep exists
func (s *Store) TranscriptExists(ctx context.Context, ch *models.Channel, ep *models.Episode) (bool, error) {
	_, err := os.Stat(s.TranscriptPath(ch, ep))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat transcript: %w", err)
	}
	return true, nil
}

// WriteTranscript persists t for ep. The file appears atomically so a
// partially written transcript is never observed as existing.
func (s *Store) WriteTranscript(ctx context.Context, ch *models.Channel, ep *models.Episode, t transcript.Transcript) (string, error) {
	fullPath := s.TranscriptPath(ch, ep)
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := transcript.Write(tmp, t); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to move transcript into place: %w", err)
	}

	return fullPath, nil
}

// ReadTranscript loads the transcript of ep
func (s *Store) ReadTranscript(ctx context.Context, ch *models.Channel, ep *models.Episode) (transcript.Transcript, error) {
	f, err := os.Open(s.TranscriptPath(ch, ep))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: episode %d", ErrTranscriptNotFound, ep.ID)
		}
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	t, err := transcript.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading transcript of episode %d: %w", ep.ID, err)
	}
	return t, nil
}

// Remove deletes a file if it exists
func (s *Store) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// RemoveChannel deletes every artifact of ch
func (s *Store) RemoveChannel(ctx context.Context, ch *models.Channel) error {
	if err := os.RemoveAll(filepath.Join(s.root, ChannelDir(ch))); err != nil {
		return fmt.Errorf("failed to delete channel artifacts: %w", err)
	}
	return nil
}

// stem is the stored filename, derived on the fly for rows that predate it
func stem(ep *models.Episode) string {
	if ep.Filename != "" {
		return ep.Filename
	}
	return EpisodeFilename(ep.Title, ep.OriginURL)
}
