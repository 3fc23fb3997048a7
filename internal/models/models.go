// Package models holds the values passed between pipeline stages.
// Nothing here outlives a single run.
package models

import (
	"fmt"
	"time"
)

// UnknownTimestamp is what an Offset without a known value renders as.
const UnknownTimestamp = "??:??"

// Segment is one timestamped unit of transcribed speech, in playback order.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Offset is a position in the media. The zero value is the unknown offset.
type Offset struct {
	d     time.Duration
	known bool
}

// NewOffset returns a known offset.
func NewOffset(d time.Duration) Offset {
	return Offset{d: d, known: true}
}

// Unknown returns the unknown offset sentinel.
func Unknown() Offset {
	return Offset{}
}

func (o Offset) Known() bool { return o.known }

func (o Offset) Duration() time.Duration { return o.d }

// String renders H:MM:SS with unpadded hours, e.g. 0:00:05 or 1:15:00.
func (o Offset) String() string {
	if !o.known {
		return UnknownTimestamp
	}
	total := int64(o.d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Chunk is a bounded span of cleaned transcript text. Timestamp is the offset
// of its first line.
type Chunk struct {
	Text      string
	Timestamp Offset
	Words     int
}

// PartialSummary is the summary of one chunk.
type PartialSummary struct {
	Timestamp Offset
	Text      string
}
