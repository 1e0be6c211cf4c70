package ingest

import (
	"strings"
	"unicode/utf8"
)

// CharsPerToken approximates the token budget of a remote call.
const CharsPerToken = 4

// ApproxTokens estimates the token count of text.
func ApproxTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	if n < CharsPerToken {
		return 1
	}
	return n / CharsPerToken
}

// Chunk splits text into pieces of at most targetTokens*CharsPerToken characters.
// Cuts prefer the last newline in the window, then the last space, else a hard cut.
// Pieces are trimmed and blank pieces are dropped, so blank input yields nil.
func Chunk(text string, targetTokens int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if targetTokens <= 0 {
		targetTokens = 1
	}
	budget := targetTokens * CharsPerToken

	runes := []rune(text)
	if len(runes) <= budget {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + budget
		cut := len(runes)
		if end < len(runes) {
			cut = end
			window := runes[start:end]
			if nl := lastIndexRune(window, '\n'); nl > 0 {
				cut = start + nl
			} else if sp := lastIndexRune(window, ' '); sp > 0 {
				cut = start + sp
			}
		}
		if piece := strings.TrimSpace(string(runes[start:cut])); piece != "" {
			chunks = append(chunks, piece)
		}
		start = cut
	}
	return chunks
}

func lastIndexRune(window []rune, r rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == r {
			return i
		}
	}
	return -1
}

// SplitWithOverlap splits text on the most meaningful separator it contains and
// packs the parts into chunks of at most limit bytes, each starting with the last
// overlap bytes of the previous chunk. Used to prepare text for embedding.
func SplitWithOverlap(text string, limit int, overlap int) []string {
	var chunks []string

	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " "}

	splitChar := ""
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			break
		}
	}

	if splitChar == "" {
		return Chunk(text, limit/CharsPerToken)
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
				overlapContent = strings.ToValidUTF8(overlapContent, "")
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}
