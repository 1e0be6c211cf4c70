package cleanup

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/NotesAPI/internal/ingest"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

const systemInstruction = "You convert text into clean, readable, well structured Markdown. " +
	"Extract titles when present, organize the content into sections and lists, fix obvious errors, " +
	"preserve any tables you detect as Markdown tables, and respond only with Markdown. " +
	"Do not add explanations."

type Config struct {
	Model       string
	MaxChars    int
	ChunkTokens int
	MaxTokens   int
	Temperature float64
	Retry       llm.Retrier
}

// Cleaner turns raw extracted text into Markdown with a text model.
type Cleaner struct {
	provider llm.Provider
	cfg      Config
	logger   *logger_i.Logger
}

func NewCleaner(provider llm.Provider, cfg Config) *Cleaner {
	return &Cleaner{
		provider: provider,
		cfg:      cfg,
		logger:   logger_i.NewLogger("llm_cleanup"),
	}
}

// CleanToMarkdown sends one bounded request. instructions, when set, is placed
// before the fixed system instruction. Blank input returns "" without a call.
func (c *Cleaner) CleanToMarkdown(ctx context.Context, text string, instructions string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	system := systemInstruction
	if instructions != "" {
		system = instructions + " " + system
	}

	req := llm.Request{
		Model: c.cfg.Model,
		Messages: []llm.Message{
			llm.TextMessage(llm.RoleSystem, system),
			llm.TextMessage(llm.RoleUser, "Original text:\n\n"+truncate(text, c.cfg.MaxChars)),
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	out, err := c.cfg.Retry.Complete(ctx, c.provider, req)
	if err != nil {
		return "", fmt.Errorf("markdown cleanup: %w", err)
	}
	return ingest.Normalize(out), nil
}

// Convert cleans text of any size. Oversized text is cleaned chunk by chunk and the
// joined result is cleaned once more so headings read as one document.
// A chunk that fails aborts the whole conversion.
func (c *Cleaner) Convert(ctx context.Context, text string) (string, error) {
	if ingest.ApproxTokens(text) <= c.cfg.ChunkTokens {
		return c.CleanToMarkdown(ctx, text, "")
	}

	log := c.logger.WithTrace(ctx)
	chunks := ingest.Chunk(text, c.cfg.ChunkTokens)
	cleaned := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		log.Info("cleaning chunk", "chunk", i+1, "of", len(chunks))
		md, err := c.CleanToMarkdown(ctx, chunk, "")
		if err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		cleaned = append(cleaned, md)
	}
	return c.CleanToMarkdown(ctx, strings.Join(cleaned, "\n\n"), "")
}

func truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
