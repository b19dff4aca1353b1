package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audioServer(t *testing.T, contentType, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "podscribe/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadTo_Success(t *testing.T) {
	audioData := strings.Repeat("audio-data", 128)
	srv := audioServer(t, "audio/mpeg", audioData, http.StatusOK)

	var lastProgress int64
	options := DefaultOptions()
	options.ProgressFunc = func(downloaded, total int64) { lastProgress = downloaded }

	dest := filepath.Join(t.TempDir(), "channel", "episode.mp3")
	result, err := NewDownloader(options).DownloadTo(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	assert.Equal(t, dest, result.FilePath)
	assert.Equal(t, "audio/mpeg", result.ContentType)
	assert.Equal(t, int64(len(audioData)), result.ContentLength)
	assert.Equal(t, int64(len(audioData)), lastProgress)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, audioData, string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownloadTo_Failures(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		status      int
		maxSize     int64
		check       func(t *testing.T, err error)
	}{
		{
			name:        "http error",
			contentType: "audio/mpeg",
			status:      http.StatusNotFound,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
			},
		},
		{
			name:        "not audio",
			contentType: "text/html",
			status:      http.StatusOK,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNotAudio)
			},
		},
		{
			name:        "too large",
			contentType: "audio/mpeg",
			status:      http.StatusOK,
			maxSize:     10,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTooLarge)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := audioServer(t, tt.contentType, strings.Repeat("x", 100), tt.status)
			options := DefaultOptions()
			options.MaxSize = tt.maxSize

			dest := filepath.Join(t.TempDir(), "episode.mp3")
			_, err := NewDownloader(options).DownloadTo(context.Background(), srv.URL, dest)
			require.Error(t, err)
			tt.check(t, err)

			_, statErr := os.Stat(dest)
			assert.True(t, os.IsNotExist(statErr), "nothing is left at the destination")
		})
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.wav")
	require.NoError(t, os.WriteFile(src, []byte("RIFF"), 0644))

	dest := filepath.Join(dir, "media", "talk.wav")
	result, err := CopyFile(context.Background(), src, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.ContentLength)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data))

	_, err = CopyFile(context.Background(), filepath.Join(dir, "missing.wav"), dest)
	assert.Error(t, err)
}

func TestIsAudioContentType(t *testing.T) {
	assert.True(t, isAudioContentType("audio/mpeg"))
	assert.True(t, isAudioContentType("Audio/MP4"))
	assert.True(t, isAudioContentType("application/octet-stream"))
	assert.False(t, isAudioContentType("text/html"))
	assert.False(t, isAudioContentType(""))
}
