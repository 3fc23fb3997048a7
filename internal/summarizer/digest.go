package summarizer

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/video-digest/internal/models"
)

// reEcho matches whole lines of instruction text a model sometimes repeats
// back. The same phrases inside a sentence are summary content and are kept.
var reEcho = regexp.MustCompile(`(?im)^[ \t]*(?:now write\b|do not\b|summarize (?:the|this)\b|here is (?:a|an|the|your) (?:\w+ )?summary\b).*$`)

// Clean strips echoed instructions and collapses whitespace.
func Clean(text string) string {
	text = reEcho.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Digest renders partial summaries as one bullet per line, keyed by the
// timestamp of the chunk each came from.
func Digest(partials []models.PartialSummary) string {
	var b strings.Builder
	for _, p := range partials {
		b.WriteString("[")
		b.WriteString(p.Timestamp.String())
		b.WriteString("] • ")
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}
