package feeds

import (
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/language"

	"github.com/killallgit/podscribe/internal/models"
)

// Unknown marks a missing duration, season or episode number
const Unknown = -1

// skippedEpisodeTypes are itunes:episodeType values that are never ingested
var skippedEpisodeTypes = map[string]bool{
	"bonus":   true,
	"trailer": true,
}

func channelFromFeed(feed *gofeed.Feed, feedURL, lang string) *models.Channel {
	if lang == "" {
		lang = feed.Language
	}

	description := feed.Description
	if description == "" && feed.ITunesExt != nil {
		description = feed.ITunesExt.Summary
	}

	return &models.Channel{
		Kind:        models.ChannelKindRemote,
		Locator:     feedURL,
		Title:       strings.TrimSpace(feed.Title),
		Description: description,
		Language:    NormalizeLanguage(lang),
		URL:         feed.Link,
		Image:       feedImage(feed),
	}
}

// feedImage prefers the explicit <image> element over the itunes image
func feedImage(feed *gofeed.Feed) string {
	if feed.Image != nil && feed.Image.URL != "" {
		return feed.Image.URL
	}
	if feed.ITunesExt != nil && feed.ITunesExt.Image != "" {
		return feed.ITunesExt.Image
	}
	return ""
}

func episodesFromFeed(feed *gofeed.Feed) []models.Episode {
	episodes := make([]models.Episode, 0, len(feed.Items))
	for _, item := range feed.Items {
		if ep, ok := episodeFromItem(item); ok {
			episodes = append(episodes, ep)
		}
	}
	return episodes
}

func episodeFromItem(item *gofeed.Item) (models.Episode, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return models.Episode{}, false
	}

	originURL := enclosureURL(item)
	if originURL == "" {
		return models.Episode{}, false
	}

	ep := models.Episode{
		Title:       title,
		Description: item.Description,
		OriginURL:   originURL,
		GUID:        item.GUID,
		Duration:    Unknown,
		Season:      Unknown,
		Number:      Unknown,
		State:       models.StateNew,
	}
	if ep.GUID == "" {
		ep.GUID = originURL
	}

	switch {
	case item.PublishedParsed != nil:
		ep.PublishedAt = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		ep.PublishedAt = item.UpdatedParsed.UTC()
	}

	if it := item.ITunesExt; it != nil {
		if skippedEpisodeTypes[strings.ToLower(strings.TrimSpace(it.EpisodeType))] {
			return models.Episode{}, false
		}
		ep.Duration = ParseDuration(it.Duration)
		ep.Season = parseNumber(it.Season)
		ep.Number = parseNumber(it.Episode)
		if ep.Description == "" {
			ep.Description = it.Summary
		}
	}

	return ep, true
}

func enclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}

// ParseDuration converts "H:MM:SS", "MM:SS" or integer seconds into seconds.
// Absent or malformed values yield -1.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return Unknown
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Unknown
		}
		total = total*60 + n
	}
	return total
}

func parseNumber(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return Unknown
	}
	return n
}

// NormalizeLanguage reduces a language tag to its lowercase base subtag
// ("en-US" becomes "en"). Unparseable tags yield "".
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return ""
	}
	base, conf := t.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
