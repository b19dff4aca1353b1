package transcription

import (
	"context"

	"github.com/killallgit/podscribe/pkg/download"
	"github.com/killallgit/podscribe/pkg/transcript"
)

// Transcriber turns an audio file into timestamped text. language is an ISO
// 639-1 code, or "" to let the implementation decide.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (transcript.Transcript, error)
}

// AudioFetcher downloads remote episode audio
type AudioFetcher interface {
	DownloadTo(ctx context.Context, url, destPath string) (*download.Result, error)
}

var (
	_ Transcriber  = (*WhisperTranscriber)(nil)
	_ AudioFetcher = (*download.Downloader)(nil)
)
