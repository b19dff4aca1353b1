package transcript

import "strings"

// Segment is a span of recognized speech. Times are seconds from the start of the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is an ordered list of segments with non-decreasing start times
type Transcript []Segment

// Text returns the concatenated text of every segment
func (t Transcript) Text() string {
	var b strings.Builder
	for _, seg := range t {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Duration returns the end time of the last segment
func (t Transcript) Duration() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End
}

// Normalize clamps every segment so that Start <= End and start times never
// move backwards. Unknown ends (<= 0 or before start) collapse to the start.
func (t Transcript) Normalize() Transcript {
	out := make(Transcript, len(t))
	var prev float64
	for i, seg := range t {
		if seg.Start < prev {
			seg.Start = prev
		}
		if seg.End < seg.Start {
			seg.End = seg.Start
		}
		prev = seg.Start
		out[i] = seg
	}
	return out
}
