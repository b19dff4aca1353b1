package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/killallgit/podscribe/internal/models"
)

// audioExtensions are the file types picked up from local folders
var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
}

// LocalSource describes a channel backed by a folder of audio files
type LocalSource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Image       string `json:"image"`
	Folder      string `json:"folder"`
}

// LocalReader scans folders under a root directory
type LocalReader struct {
	root string
}

// NewLocalReader creates a reader for folders under root
func NewLocalReader(root string) *LocalReader {
	return &LocalReader{root: root}
}

// Root returns the directory local folders live under
func (r *LocalReader) Root() string {
	return r.root
}

// ReadChannel builds the candidate channel from caller-supplied metadata
func (r *LocalReader) ReadChannel(src LocalSource) (*models.Channel, error) {
	folder := strings.Trim(src.Folder, "/")
	if folder == "" {
		return nil, errors.New("local source requires a folder")
	}
	if strings.Contains(folder, "..") {
		return nil, fmt.Errorf("invalid folder name %q", src.Folder)
	}

	title := src.Name
	if title == "" {
		title = folder
	}

	return &models.Channel{
		Kind:        models.ChannelKindLocal,
		Locator:     folder,
		Title:       title,
		Description: src.Description,
		Language:    NormalizeLanguage(src.Language),
		Image:       src.Image,
	}, nil
}

// ReadEpisodes lists the audio files directly inside the channel's folder,
// ordered by file name. Origin URLs are "<folder>/<file>".
func (r *LocalReader) ReadEpisodes(ctx context.Context, channel *models.Channel) ([]models.Episode, error) {
	folder := channel.Folder()
	if folder == "" {
		return nil, fmt.Errorf("channel %d is not a local folder", channel.ID)
	}

	entries, err := os.ReadDir(filepath.Join(r.root, folder))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
		}
		return nil, fmt.Errorf("reading folder %s: %w", folder, err)
	}

	var episodes []models.Episode
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.Type().IsRegular() || !audioExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		uri := path.Join(folder, entry.Name())
		episodes = append(episodes, models.Episode{
			ChannelID: channel.ID,
			Title:     entry.Name(),
			OriginURL: uri,
			GUID:      uri,
			// no publication date is available for local files
			PublishedAt: info.ModTime().UTC(),
			Duration:    Unknown,
			Season:      Unknown,
			Number:      Unknown,
			State:       models.StateNew,
		})
	}

	return episodes, nil
}

// AudioPath returns the filesystem path of a local episode
func (r *LocalReader) AudioPath(originURL string) string {
	return filepath.Join(r.root, filepath.FromSlash(originURL))
}

// LoadLocalSources reads a JSON array of local channel definitions
func LoadLocalSources(file string) ([]LocalSource, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading local sources: %w", err)
	}

	var sources []LocalSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing local sources %s: %w", file, err)
	}
	return sources, nil
}
