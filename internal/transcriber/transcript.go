package transcriber

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// FormatLine renders a segment as "[m:ss] text". Minutes are not wrapped into
// hours, so an hour in is "[60:00]".
func FormatLine(seg models.Segment) string {
	total := int64(seg.Start / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("[%d:%02d] %s", total/60, total%60, strings.TrimSpace(seg.Text))
}

// FormatLines renders every segment with non-empty text, in order.
func FormatLines(segments []models.Segment) []string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		lines = append(lines, FormatLine(seg))
	}
	return lines
}

// Render joins lines into the transcript file body.
func Render(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
