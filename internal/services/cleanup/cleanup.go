package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/podscribe/internal/services/storage"
	"github.com/killallgit/podscribe/internal/services/transcription"
	"github.com/killallgit/podscribe/pkg/download"
)

// Report summarizes one sweep
type Report struct {
	Files int
	Dirs  int
	Bytes int64
}

// Service removes artifacts that an interrupted run leaves behind: audio
// copies and partial writes under the media directory, and whisper work
// directories under the temp directory. Transcripts are never touched.
type Service struct {
	mediaDir string
	tempDir  string
	maxAge   time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a cleanup service for mediaDir. Only files older than
// maxAge are removed.
func NewService(mediaDir string, maxAge, interval time.Duration) *Service {
	return &Service{
		mediaDir: mediaDir,
		tempDir:  os.TempDir(),
		maxAge:   maxAge,
		interval: interval,
		now:      time.Now,
		logger:   slog.Default().With("component", "cleanup"),
	}
}

// Start runs a sweep now and then every interval until ctx is done or Stop
// is called
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	s.run(ctx)

	go func() {
		defer close(s.done)
		if s.interval <= 0 {
			<-ctx.Done()
			return
		}
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-ctx.Done():
				s.logger.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started", "interval", s.interval, "max_age", s.maxAge)
}

// Stop ends the periodic sweeps
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Service) run(ctx context.Context) {
	report, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("cleanup sweep failed", "error", err)
		return
	}
	if report.Files > 0 || report.Dirs > 0 {
		s.logger.Info("removed stale files", "files", report.Files, "dirs", report.Dirs, "bytes", report.Bytes)
	}
}

// Sweep removes every stale artifact once
func (s *Service) Sweep(ctx context.Context) (Report, error) {
	var report Report
	cutoff := s.now().Add(-s.maxAge)

	err := filepath.WalkDir(s.mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			s.logger.Debug("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !isLeftover(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("failed to remove stale file", "path", path, "error", err)
			return nil
		}
		s.logger.Debug("removed stale file", "path", path)
		report.Files++
		report.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return report, err
	}

	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return report, err
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), transcription.WorkDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.tempDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.logger.Warn("failed to remove work directory", "path", path, "error", err)
			continue
		}
		report.Dirs++
	}

	return report, nil
}

func isLeftover(name string) bool {
	return strings.HasPrefix(name, download.TempPrefix) ||
		strings.HasPrefix(name, storage.TempPrefix) ||
		storage.IsAudioFile(name)
}
