// Package chunker groups transcript lines into word-bounded chunks, each
// tagged with the offset of its first line.
//
// Lines are expected in the transcript format "[m:ss] text", optionally
// carrying a "Speaker N:" tag. Lines without an offset are still chunked; their
// chunk gets the unknown offset if they open it.
package chunker

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// MinWords is the smallest cleaned line kept; shorter lines are filler.
const MinWords = 4

var (
	reTimestamp = regexp.MustCompile(`\[(\d+):(\d+)\]`)
	reSpeaker   = regexp.MustCompile(`(?i)speaker\s*\d+:`)
)

// ExtractTimestamp returns the first [m:s] tag in line, or the unknown offset.
// Seconds are not bounded, so [0:75] is 1m15s.
func ExtractTimestamp(line string) models.Offset {
	m := reTimestamp.FindStringSubmatch(line)
	if m == nil {
		return models.Unknown()
	}
	minutes, err1 := strconv.ParseInt(m[1], 10, 64)
	seconds, err2 := strconv.ParseInt(m[2], 10, 64)
	if err1 != nil || err2 != nil {
		return models.Unknown()
	}
	// Offsets past the range of time.Duration are unknown.
	const maxSeconds = math.MaxInt64 / int64(time.Second)
	if minutes > maxSeconds/60 || seconds > maxSeconds-minutes*60 {
		return models.Unknown()
	}
	return models.NewOffset(time.Duration(minutes*60+seconds) * time.Second)
}

// CleanLine strips timestamp and speaker tags.
func CleanLine(line string) string {
	line = reTimestamp.ReplaceAllString(line, "")
	line = reSpeaker.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// Chunk groups lines into chunks of roughly maxWords words. The boundary is
// checked after a whole line is appended, so a chunk may overshoot by at most
// one line and a single long line is never split.
func Chunk(lines []string, maxWords int) []models.Chunk {
	var (
		chunks  []models.Chunk
		current []string
		words   int
		stamp   models.Offset
	)

	flush := func() {
		chunks = append(chunks, models.Chunk{
			Text:      strings.Join(current, " "),
			Timestamp: stamp,
			Words:     words,
		})
		current = nil
		words = 0
	}

	for _, line := range lines {
		text := CleanLine(line)
		n := len(strings.Fields(text))
		if n < MinWords {
			continue
		}

		if len(current) == 0 {
			stamp = ExtractTimestamp(line)
		}
		current = append(current, text)
		words += n

		if words >= maxWords {
			flush()
		}
	}

	if len(current) > 0 {
		flush()
	}

	return chunks
}

// Split is Chunk in parallel-slice form: texts[i] starts at stamps[i].
func Split(lines []string, maxWords int) ([]string, []models.Offset) {
	chunks := Chunk(lines, maxWords)
	texts := make([]string, 0, len(chunks))
	stamps := make([]models.Offset, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
		stamps = append(stamps, c.Timestamp)
	}
	return texts, stamps
}
