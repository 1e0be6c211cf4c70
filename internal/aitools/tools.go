package aitools

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

const (
	NothingToSummarize = "There is no content to summarize."

	// upper bound on the note text sent to the model
	maxInputChars = 200000
)

// Service runs the study helpers (summary, quiz, note improvement) on a text model.
type Service struct {
	provider llm.Provider
	model    string
	retry    llm.Retrier
	cache    Cache
	cacheTTL time.Duration
	logger   *logger_i.Logger
}

func NewService(provider llm.Provider, model string, retry llm.Retrier) *Service {
	return &Service{
		provider: provider,
		model:    model,
		retry:    retry,
		logger:   logger_i.NewLogger("ai_tools"),
	}
}

const summarySystem = "You are an expert writer who condenses information."

const summaryPrompt = "Summarize the following text clearly and concisely (at most 15 sentences) as one paragraph, " +
	"or two if the topics need separating. The summaries are read by university students, so clarity matters " +
	"and the content should be useful for final exams, quizzes and assignments. Include formulas when the " +
	"topic is scientific and they are needed to understand it.\n\nText:\n"

// Summarize returns a short study summary. Blank input gets NothingToSummarize without a model call.
func (s *Service) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return NothingToSummarize, nil
	}
	key := s.summaryKey(text)
	if out, ok := s.cachedSummary(ctx, key); ok {
		return out, nil
	}
	out, err := s.complete(ctx, summarySystem, summaryPrompt+truncate(text), config.SummaryTemperature, config.SummaryMaxTokens)
	if err != nil {
		s.logger.WithTrace(ctx).Error("summary failed", "error", err)
		return "", err
	}
	out = strings.TrimSpace(out)
	s.storeSummary(ctx, key, out)
	return out, nil
}

func (s *Service) complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	return s.retry.Complete(ctx, s.provider, llm.Request{
		Model: s.model,
		Messages: []llm.Message{
			llm.TextMessage(llm.RoleSystem, system),
			llm.TextMessage(llm.RoleUser, user),
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxInputChars {
		return text
	}
	return string(runes[:maxInputChars])
}
