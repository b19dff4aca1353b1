package transcript

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Delimiter separates the start, end and text columns of a stored transcript
const Delimiter = '|'

// ErrMalformed is returned when a stored transcript cannot be decoded
var ErrMalformed = errors.New("malformed transcript")

// Write encodes t as delimited start|end|text rows
func Write(w io.Writer, t Transcript) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter

	for _, seg := range t {
		record := []string{formatSeconds(seg.Start), formatSeconds(seg.End), seg.Text}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing segment: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read decodes rows written by Write. An empty end column means the segment
// ends where it starts.
func Read(r io.Reader) (Transcript, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = 3

	var t Transcript
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		start, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad start %q", ErrMalformed, line, record[0])
		}

		end := start
		if record[1] != "" {
			end, err = strconv.ParseFloat(record[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad end %q", ErrMalformed, line, record[1])
			}
		}

		t = append(t, Segment{Start: start, End: end, Text: record[2]})
	}

	return t, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
