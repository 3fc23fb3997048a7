package output

import (
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/video-digest/internal/chunker"
	"github.com/nguyentantai21042004/video-digest/internal/models"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
	gray      = "666666"
)

// DigestDocx writes the digest as one paragraph per partial summary, the
// timestamp in bold ahead of the text.
func DigestDocx(title string, partials []models.PartialSummary, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, ps := range partials {
		p := doc.AddParagraph("")
		addStyledRun(p, "["+ps.Timestamp.String()+"] ", true, fontSize)
		addStyledRun(p, ps.Text, false, fontSize)
	}

	return doc.SaveTo(outputPath)
}

// TranscriptDocx writes transcript lines with the "[m:ss]" tag split off
// into a gray run. Lines without a tag are written as is.
func TranscriptDocx(title string, lines []string, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		p := doc.AddParagraph("")
		tag, rest, ok := splitTag(trimmed)
		if ok {
			p.AddText(tag + " ").Font(fontName).Size(fontSize).Color(gray)
			trimmed = rest
		}
		p.AddText(trimmed).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(outputPath)
}

// splitTag separates a leading "[m:ss]" tag from the text after it.
func splitTag(line string) (tag, rest string, ok bool) {
	if !chunker.ExtractTimestamp(line).Known() || !strings.HasPrefix(line, "[") {
		return "", line, false
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return "", line, false
	}
	return line[:end+1], strings.TrimSpace(line[end+1:]), true
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
