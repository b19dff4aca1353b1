package transcription

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/pkg/ffmpeg"
)

func TestNewWhisperTranscriber_Defaults(t *testing.T) {
	w := NewWhisperTranscriber(WhisperConfig{ModelPath: "model.bin"}, ffmpeg.New("", 0))
	assert.Equal(t, "whisper-cli", w.cfg.Path)
	assert.Equal(t, "auto", w.cfg.Language)
	assert.Equal(t, 4, w.cfg.Threads)
}

func TestWhisperTranscriber_Args(t *testing.T) {
	w := NewWhisperTranscriber(WhisperConfig{ModelPath: "model.bin", Threads: 2}, ffmpeg.New("", 0))
	assert.Equal(t, []string{
		"-m", "model.bin",
		"-f", "in.wav",
		"-l", "es",
		"-t", "2",
		"-oj",
		"-of", "out",
		"-np",
	}, w.args("in.wav", "out", "es"))
}

func TestWhisperTranscriber_Validate(t *testing.T) {
	w := NewWhisperTranscriber(WhisperConfig{Path: "/nonexistent/whisper", ModelPath: "model.bin"}, ffmpeg.New("", 0))
	assert.ErrorIs(t, w.Validate(), ErrWhisperNotFound)
}

func TestWhisperTranscriber_ConversionFailure(t *testing.T) {
	w := NewWhisperTranscriber(
		WhisperConfig{Path: "/nonexistent/whisper", ModelPath: "model.bin", Timeout: time.Second},
		ffmpeg.New("/nonexistent/ffmpeg", time.Second),
	)

	_, err := w.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.mp3"), "")
	require.Error(t, err)
	var procErr *ffmpeg.ProcessingError
	assert.ErrorAs(t, err, &procErr)
}
