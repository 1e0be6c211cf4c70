package aitools

import (
	"context"
	"strings"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/tidwall/gjson"
)

const (
	markdownStart  = "-----IMPROVED_MARKDOWN_START-----"
	markdownEnd    = "-----IMPROVED_MARKDOWN_END-----"
	changelogStart = "-----CHANGELOG_JSON_START-----"
	changelogEnd   = "-----CHANGELOG_JSON_END-----"
)

type Improvement struct {
	ImprovedMarkdown string         `json:"improved_markdown"`
	Changelog        map[string]any `json:"changelog"`
	Warnings         []string       `json:"warnings"`
}

const improveSystem = "You are an expert note editor with basic fact checking. " +
	"Improve, complete and correct the note the user gives you. Prioritise clarity and accuracy and point out " +
	"ambiguity when unsure. Do NOT invent sources or present unverifiable facts as true. If a statement cannot be " +
	"verified with the given information, mark it with [VERIFY] and briefly explain why.\n\n" +
	"Answer in two parts separated by these EXACT markers:\n" +
	markdownStart + "\n<the improved note in Markdown>\n" + markdownEnd + "\n\n" +
	changelogStart + "\n<valid JSON describing the changes, e.g. {\"summary\":\"...\",\"changes\":[...]}>\n" + changelogEnd + "\n\n" +
	"Respond ONLY with those two sections and their markers."

const improveInstructions = "Take the original note and:\n" +
	"1) Fix grammar and style mistakes and normalise the format to Markdown.\n" +
	"2) Fill in obvious gaps (for example a heading with no body gets a short explanatory paragraph) " +
	"without inventing specific facts; mark any assumption with [ASSUMPTION].\n" +
	"3) Review factual claims: correct them when confident from the note's own context, otherwise add [VERIFY] and a short reason.\n" +
	"4) Return a changelog JSON with a summary and a list of changes. Each change has " +
	"{\"type\": \"corrected|expanded|format|marked_uncertain\", \"location\": \"a hint (first line / heading / paragraph 2)\", \"explanation\": \"what and why\"}.\n" +
	"\nOriginal note:\n\n"

// ImproveNote rewrites a note and reports what changed. It never fails: problems
// are reported in Warnings.
func (s *Service) ImproveNote(ctx context.Context, text string) Improvement {
	if strings.TrimSpace(text) == "" {
		return Improvement{
			Changelog: map[string]any{"summary": "empty note", "changes": []any{}},
			Warnings:  []string{"empty note"},
		}
	}

	raw, err := s.complete(ctx, improveSystem, improveInstructions+truncate(text), config.ImproveTemperature, config.ImproveMaxTokens)
	if err != nil {
		s.logger.WithTrace(ctx).Error("improve note failed", "error", err)
		return Improvement{
			Changelog: map[string]any{"summary": "error", "changes": []any{}},
			Warnings:  []string{err.Error()},
		}
	}
	return ParseImprovement(raw)
}

// ParseImprovement splits a marker delimited reply. Without markers the text
// before the changelog (or the whole reply) is the Markdown and the outermost
// JSON object is the changelog.
func ParseImprovement(raw string) Improvement {
	result := Improvement{
		Changelog: map[string]any{"summary": "", "changes": []any{}},
		Warnings:  []string{},
	}

	md, ok := between(raw, markdownStart, markdownEnd)
	if !ok {
		if i := strings.Index(raw, changelogStart); i >= 0 {
			md = raw[:i]
		} else {
			md = raw
		}
	}
	result.ImprovedMarkdown = ingest.Normalize(md)

	changelog, ok := between(raw, changelogStart, changelogEnd)
	if !ok {
		changelog = outermostObject(raw)
	}
	if changelog == "" {
		return result
	}

	if !gjson.Valid(changelog) {
		result.Warnings = append(result.Warnings, "the changelog returned by the model is not valid JSON; raw text kept in changes_raw")
		result.Changelog = map[string]any{"summary": "", "changes_raw": changelog}
		return result
	}
	parsed, ok := gjson.Parse(changelog).Value().(map[string]any)
	if !ok {
		result.Warnings = append(result.Warnings, "the changelog returned by the model is not a JSON object; raw text kept in changes_raw")
		result.Changelog = map[string]any{"summary": "", "changes_raw": changelog}
		return result
	}
	result.Changelog = parsed
	return result
}

func between(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:j]), true
}

func outermostObject(s string) string {
	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j < i {
		return ""
	}
	return s[i : j+1]
}
