package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TempPrefix names partial downloads next to their destination
const TempPrefix = ".download-"

var (
	// ErrTooLarge is returned when a body exceeds Options.MaxSize
	ErrTooLarge = errors.New("file too large")

	// ErrNotAudio is returned when the server does not answer with audio content
	ErrNotAudio = errors.New("invalid content type")
)

// StatusError represents a non-success HTTP response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downloading %s: server returned status %d", e.URL, e.StatusCode)
}

// Options configures the download behavior
type Options struct {
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Download timeout
	ProgressFunc  ProgressFunc  // Optional progress callback
	UserAgent     string        // User agent string
	ValidateAudio bool          // Validate content-type is audio
}

// ProgressFunc is called during download to report progress
type ProgressFunc func(downloaded, total int64)

// DefaultOptions returns default download options
func DefaultOptions() Options {
	return Options{
		MaxSize:       500 * 1024 * 1024,
		Timeout:       10 * time.Minute,
		UserAgent:     "podscribe/1.0",
		ValidateAudio: true,
	}
}

// Result contains information about a finished transfer
type Result struct {
	FilePath      string
	ContentType   string
	ContentLength int64
}

// Downloader fetches episode audio to a target path
type Downloader struct {
	client  *http.Client
	options Options
	logger  *slog.Logger
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options Options) *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
		logger:  slog.Default().With("component", "download"),
	}
}

// DownloadTo fetches url into destPath. The file only appears at destPath
// once the transfer completed.
func (d *Downloader) DownloadTo(ctx context.Context, url, destPath string) (*Result, error) {
	d.logger.Debug("starting download", "url", url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if d.options.UserAgent != "" {
		req.Header.Set("User-Agent", d.options.UserAgent)
	}
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if d.options.ValidateAudio && !isAudioContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotAudio, contentType)
	}
	if d.options.MaxSize > 0 && resp.ContentLength > d.options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, resp.ContentLength, d.options.MaxSize)
	}

	var reader io.Reader = resp.Body
	if d.options.ProgressFunc != nil && resp.ContentLength > 0 {
		reader = &progressReader{reader: reader, total: resp.ContentLength, callback: d.options.ProgressFunc}
	}

	written, err := writeAtomic(destPath, reader, d.options.MaxSize)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("download finished", "url", url, "bytes", written)
	return &Result{FilePath: destPath, ContentType: contentType, ContentLength: written}, nil
}

// CopyFile copies a local audio file into destPath
func CopyFile(ctx context.Context, srcPath, destPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source audio: %w", err)
	}
	defer src.Close()

	written, err := writeAtomic(destPath, src, 0)
	if err != nil {
		return nil, err
	}
	return &Result{FilePath: destPath, ContentLength: written}, nil
}

// writeAtomic copies src to a temp file next to destPath and renames it into
// place. maxSize > 0 bounds the copy.
func writeAtomic(destPath string, src io.Reader, maxSize int64) (int64, error) {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if maxSize > 0 {
		src = &io.LimitedReader{R: src, N: maxSize + 1}
	}

	written, err := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("failed to write file: %w", closeErr)
	}
	if maxSize > 0 && written > maxSize {
		return 0, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("failed to move file into place: %w", err)
	}
	return written, nil
}

// isAudioContentType checks if content type is audio
func isAudioContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.HasPrefix(contentType, "audio/") ||
		contentType == "application/octet-stream" // Some servers use this for audio
}

// progressReader wraps a reader to report progress
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		pr.callback(pr.downloaded, pr.total)
	}
	return n, err
}
