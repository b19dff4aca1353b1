package transcript

import (
	"encoding/json"
	"fmt"
)

// whisperOutput is the JSON document written by whisper.cpp's -oj flag
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// ParseWhisperJSON converts whisper.cpp JSON output (millisecond offsets) into
// a transcript. Segment text is kept verbatim, including leading spaces.
func ParseWhisperJSON(data []byte) (Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing whisper output: %w", err)
	}

	t := make(Transcript, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		t = append(t, Segment{
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
			Text:  seg.Text,
		})
	}

	return t.Normalize(), nil
}
