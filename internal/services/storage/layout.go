package storage

import (
	"encoding/hex"
	"path"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/killallgit/podscribe/internal/models"
)

// maxTitleRunes bounds the human-readable part of derived names
const maxTitleRunes = 30

// Slugify lowercases s, strips diacritics and replaces every run of
// characters outside [a-z0-9] with a single dash.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ShortHash returns the hex encoded 64-bit BLAKE2b digest of s
func ShortHash(s string) string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// EpisodeFilename derives the storage stem of an episode from its title and
// origin URL. The hash keeps names unique; the slug keeps them readable.
func EpisodeFilename(title, originURL string) string {
	return withHash(title, originURL)
}

// ChannelDir derives the directory holding a channel's artifacts
func ChannelDir(ch *models.Channel) string {
	return withHash(ch.Title, string(ch.Kind)+":"+ch.Locator)
}

func withHash(title, key string) string {
	slug := Slugify(truncate(title, maxTitleRunes))
	if slug == "" {
		return ShortHash(key)
	}
	return slug + "-" + ShortHash(key)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".ogg": true,
	".wav": true, ".flac": true, ".opus": true, ".webm": true,
}

// IsAudioFile reports whether name carries a recognized audio extension
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(path.Ext(name))]
}

// AudioExtension returns the audio file extension of an origin URL,
// ignoring any query string, and ".mp3" when none is recognized.
func AudioExtension(originURL string) string {
	u := originURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.ToLower(path.Ext(u))
	if audioExtensions[ext] {
		return ext
	}
	return ".mp3"
}
