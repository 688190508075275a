// Package parser decodes raw frames from the KIS real-time feed.
//
// Data frames are pipe-delimited text of the form
//
//	<encrypted-flag>|<feed-id>|<frame-count>|<field^field^...>
//
// while control frames (heartbeats, subscribe acknowledgements) arrive as
// JSON objects. Parsers never fail hard on malformed input: a frame that
// does not decode is reported as not parseable and the stream moves on.
package parser

import (
	"strconv"
	"strings"
)

// Frame is the split form of one positional data frame.
type Frame struct {
	Encrypted bool
	FeedID    string
	Count     int
	Fields    []string
}

// Split decomposes a raw data frame. It returns false for anything that is
// not pipe-framed positional text (JSON control frames, junk, empty reads).
func Split(raw string) (Frame, bool) {
	if raw == "" || (raw[0] != '0' && raw[0] != '1') {
		return Frame{}, false
	}

	parts := strings.SplitN(raw, "|", 4)
	if len(parts) < 4 {
		return Frame{}, false
	}

	count, err := strconv.Atoi(parts[2])
	if err != nil || count < 1 {
		count = 1
	}

	return Frame{
		Encrypted: parts[0] == "1",
		FeedID:    parts[1],
		Count:     count,
		Fields:    strings.Split(parts[3], "^"),
	}, true
}

// Header extracts the feed id and instrument key without decoding the body.
// The instrument key is always the first positional field.
func Header(raw string) (feedID, instrumentKey string, ok bool) {
	frame, ok := Split(raw)
	if !ok || len(frame.Fields) == 0 || frame.Fields[0] == "" {
		return "", "", false
	}
	return frame.FeedID, normalizeSymbol(frame.Fields[0]), true
}

// normalizeSymbol strips the venue's market prefix (A005930 -> 005930).
func normalizeSymbol(code string) string {
	if len(code) == 7 && code[0] == 'A' {
		return code[1:]
	}
	return code
}

// normalizeTime converts the venue's 6-digit HHMMSS field into HH:MM:SS.
// Shorter values pass through unchanged.
func normalizeTime(t string) string {
	if len(t) < 6 {
		return t
	}
	return t[0:2] + ":" + t[2:4] + ":" + t[4:6]
}

func toFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func toInt(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
