package ingest

import (
	"regexp"
	"strings"
)

// HorizontalRule separates rendered pages and appended note sections.
const HorizontalRule = "\n\n---\n\n"

var blankLineRun = regexp.MustCompile(`\n{3,}`)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize unifies line endings, collapses runs of blank lines to a single
// blank line and trims the result. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = lineEndings.Replace(text)
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// JoinSections joins the non-blank sections with sep.
func JoinSections(sections []string, sep string) string {
	kept := make([]string, 0, len(sections))
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
