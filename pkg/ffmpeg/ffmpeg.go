package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// SampleRate is the rate speech models expect
const SampleRate = 16000

// FFmpeg wraps the ffmpeg binary
type FFmpeg struct {
	ffmpegPath string
	timeout    time.Duration
}

// New creates a new FFmpeg instance. A zero timeout means no limit beyond
// the caller's context.
func New(ffmpegPath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpeg{
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
	}
}

// ValidateBinaries checks if ffmpeg is available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	return nil
}

// ConvertToWAV re-encodes input as 16 kHz mono 16-bit PCM at output
func (f *FFmpeg) ConvertToWAV(ctx context.Context, input, output string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return NewProcessingError("wav_conversion", input, err, "")
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, convertArgs(input, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrProcessingTimeout
		}
		return NewProcessingError("wav_conversion", input, err, lastLines(stderr.String(), 5))
	}
	return nil
}

func convertArgs(input, output string) []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-ar", fmt.Sprint(SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		output,
	}
}

// lastLines keeps the tail of noisy tool output
func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
