// Package chunker groups a timestamped transcript into bounded-size retrieval
// fragments without ever splitting a segment.
package chunker

import (
	"strings"

	"github.com/killallgit/podscribe/pkg/transcript"
)

// DefaultMaxWords is the fragment size used when none is configured
const DefaultMaxWords = 40

// Fragment is a contiguous span of transcript segments
type Fragment struct {
	StartIndex   int     `json:"start_index"`
	EndIndex     int     `json:"end_index"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// WordCount returns the number of whitespace-separated words in the fragment
func (f Fragment) WordCount() int {
	return len(strings.Fields(f.Text))
}

// Chunk walks t in order and closes a fragment as soon as its accumulated text
// reaches maxWords words. A trailing partial fragment is flushed when it has
// words; a blank remainder is folded into the previous fragment, or dropped
// when there is none. Fragment text is the exact concatenation of its
// segments' text.
func Chunk(t transcript.Transcript, maxWords int) []Fragment {
	if maxWords < 1 {
		maxWords = 1
	}

	var (
		fragments []Fragment
		text      strings.Builder
		words     int
		first     = -1
	)

	for i, seg := range t {
		if first < 0 {
			first = i
		}
		text.WriteString(seg.Text)
		words += len(strings.Fields(seg.Text))

		// segments are joined verbatim, so a word may straddle two segments
		// when the later one has no leading space
		if words >= maxWords && len(strings.Fields(text.String())) >= maxWords {
			fragments = append(fragments, newFragment(t, first, i, text.String()))
			text.Reset()
			words = 0
			first = -1
		}
	}

	if first >= 0 {
		tail := text.String()
		switch {
		case strings.TrimSpace(tail) != "":
			fragments = append(fragments, newFragment(t, first, len(t)-1, tail))
		case len(fragments) > 0:
			last := &fragments[len(fragments)-1]
			last.EndIndex = len(t) - 1
			last.EndSeconds = t[len(t)-1].End
			last.Text += tail
		}
	}

	return fragments
}

func newFragment(t transcript.Transcript, first, last int, text string) Fragment {
	return Fragment{
		StartIndex:   first,
		EndIndex:     last,
		StartSeconds: t[first].Start,
		EndSeconds:   t[last].End,
		Text:         text,
	}
}
