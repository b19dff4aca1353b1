package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/killallgit/podscribe/pkg/ffmpeg"
	"github.com/killallgit/podscribe/pkg/transcript"
)

// WorkDirPrefix names the scratch directories created under os.TempDir
const WorkDirPrefix = "podscribe-whisper-"

// ErrWhisperNotFound is returned when the whisper.cpp binary or model is missing
var ErrWhisperNotFound = errors.New("whisper not available")

// WhisperConfig configures the whisper.cpp command line tool
type WhisperConfig struct {
	Path      string        // whisper-cli binary
	ModelPath string        // ggml model file
	Language  string        // used when the episode has no language; "auto" detects
	Threads   int           // decoding threads
	Timeout   time.Duration // per file, 0 means no limit
}

// WhisperTranscriber runs whisper.cpp on 16 kHz mono WAV input
type WhisperTranscriber struct {
	cfg    WhisperConfig
	ffmpeg *ffmpeg.FFmpeg
	logger *slog.Logger
}

// NewWhisperTranscriber creates a transcriber; ff normalizes input audio
func NewWhisperTranscriber(cfg WhisperConfig, ff *ffmpeg.FFmpeg) *WhisperTranscriber {
	if cfg.Path == "" {
		cfg.Path = "whisper-cli"
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	return &WhisperTranscriber{
		cfg:    cfg,
		ffmpeg: ff,
		logger: slog.Default().With("component", "whisper"),
	}
}

// Validate checks that the binaries and the model are present
func (w *WhisperTranscriber) Validate() error {
	if _, err := exec.LookPath(w.cfg.Path); err != nil {
		return fmt.Errorf("%w: binary %s", ErrWhisperNotFound, w.cfg.Path)
	}
	if _, err := os.Stat(w.cfg.ModelPath); err != nil {
		return fmt.Errorf("%w: model %s", ErrWhisperNotFound, w.cfg.ModelPath)
	}
	return w.ffmpeg.ValidateBinaries()
}

// Transcribe converts audioPath to WAV, runs whisper with JSON output and
// maps the segments to seconds
func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath, language string) (transcript.Transcript, error) {
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	work, err := os.MkdirTemp("", WorkDirPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(work)

	wavPath := filepath.Join(work, "audio.wav")
	if err := w.ffmpeg.ConvertToWAV(ctx, audioPath, wavPath); err != nil {
		return nil, err
	}

	if language == "" {
		language = w.cfg.Language
	}
	outBase := filepath.Join(work, "transcript")

	start := time.Now()
	cmd := exec.CommandContext(ctx, w.cfg.Path, w.args(wavPath, outBase, language)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper failed for %s: %w (stderr: %s)", audioPath, err, tail(stderr.Bytes(), 512))
	}

	data, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading whisper output: %w", err)
	}

	t, err := transcript.ParseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("transcribed audio", "file", audioPath, "segments", len(t), "elapsed", time.Since(start))
	return t, nil
}

func (w *WhisperTranscriber) args(wavPath, outBase, language string) []string {
	return []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-l", language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-oj",
		"-of", outBase,
		"-np",
	}
}

func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(bytes.TrimSpace(b))
}
