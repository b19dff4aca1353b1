package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, when, when))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func newTestService(t *testing.T) (*Service, string, string) {
	media := filepath.Join(t.TempDir(), "media")
	tmp := t.TempDir()
	s := NewService(media, time.Hour, 0)
	s.tempDir = tmp
	return s, media, tmp
}

func TestService_Sweep(t *testing.T) {
	s, media, tmp := newTestService(t)
	ch := filepath.Join(media, "talks-abc")

	oldAudio := filepath.Join(ch, "one-1234.mp3")
	freshAudio := filepath.Join(ch, "two-5678.m4a")
	transcript := filepath.Join(ch, "one-1234.csv")
	partialDownload := filepath.Join(ch, ".download-42")
	partialTranscript := filepath.Join(ch, ".transcript-42")
	writeFile(t, oldAudio, 2*time.Hour)
	writeFile(t, freshAudio, time.Minute)
	writeFile(t, transcript, 48*time.Hour)
	writeFile(t, partialDownload, 2*time.Hour)
	writeFile(t, partialTranscript, 2*time.Hour)

	work := filepath.Join(tmp, "podscribe-whisper-99")
	other := filepath.Join(tmp, "unrelated")
	writeFile(t, filepath.Join(work, "audio.wav"), 2*time.Hour)
	writeFile(t, filepath.Join(other, "keep.wav"), 2*time.Hour)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(work, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	report, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Files)
	assert.Equal(t, 1, report.Dirs)
	assert.Equal(t, int64(12), report.Bytes)

	assert.False(t, exists(oldAudio))
	assert.False(t, exists(partialDownload))
	assert.False(t, exists(partialTranscript))
	assert.False(t, exists(work))
	assert.True(t, exists(freshAudio))
	assert.True(t, exists(transcript), "transcripts are never swept")
	assert.True(t, exists(other))

	again, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{}, again)
}

func TestService_SweepMissingDirs(t *testing.T) {
	s := NewService(filepath.Join(t.TempDir(), "absent"), time.Hour, 0)
	s.tempDir = filepath.Join(t.TempDir(), "absent")

	report, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{}, report)
}

func TestService_SweepCanceled(t *testing.T) {
	s, media, _ := newTestService(t)
	writeFile(t, filepath.Join(media, "a.mp3"), 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_StartStop(t *testing.T) {
	s, media, _ := newTestService(t)
	s.interval = 10 * time.Millisecond
	stale := filepath.Join(media, "ch", "a.mp3")
	writeFile(t, stale, 2*time.Hour)

	s.Start(context.Background())
	assert.False(t, exists(stale), "first sweep runs on start")

	later := filepath.Join(media, "ch", "b.mp3")
	writeFile(t, later, 2*time.Hour)
	assert.Eventually(t, func() bool { return !exists(later) }, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
}
