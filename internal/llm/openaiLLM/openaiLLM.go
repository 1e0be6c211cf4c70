package openaiLLM

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
)

type llmClient struct {
	api    openai.Client
	logger *logger_i.Logger
}

// NewClient builds a chat-completions provider. Retries are handled by llm.Retrier,
// so the SDK's own retry loop is disabled.
func NewClient(apiKey string, baseURL string, httpClient *http.Client) llm.Provider {
	if apiKey == "" {
		return llm.Unavailable("OPENAI_API_KEY is not set")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	c := &llmClient{
		api:    openai.NewClient(opts...),
		logger: logger_i.NewLogger("llm_openai"),
	}
	c.logger.Info("OpenAI client created")
	return c
}

func (c *llmClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	log := c.logger.WithTrace(ctx)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    toMessages(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	log.Debug("chat completion", "model", req.Model, "messages", len(req.Messages))
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &llm.StatusError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", err
	}
	return extractText(resp), nil
}

func toMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(joinText(m.Parts)))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(joinText(m.Parts)))
		default:
			if !hasImage(m.Parts) {
				out = append(out, openai.UserMessage(joinText(m.Parts)))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(m.Parts))
			for _, p := range m.Parts {
				if p.Image != nil {
					parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: p.Image.DataURI(),
					}))
					continue
				}
				if p.Text != "" {
					parts = append(parts, openai.TextContentPart(p.Text))
				}
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}

func joinText(parts []llm.Part) string {
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}

func hasImage(parts []llm.Part) bool {
	for _, p := range parts {
		if p.Image != nil {
			return true
		}
	}
	return false
}

// extractText reads the typed content first and falls back to the raw payload,
// since the message content may arrive as a string or as an array of parts.
func extractText(resp *openai.ChatCompletion) string {
	if resp == nil {
		return ""
	}
	if len(resp.Choices) > 0 {
		if text := strings.TrimSpace(resp.Choices[0].Message.Content); text != "" {
			return text
		}
	}
	return extractFromRaw(resp.RawJSON())
}

func extractFromRaw(raw string) string {
	if raw == "" || !gjson.Valid(raw) {
		return ""
	}

	content := gjson.Get(raw, "choices.0.message.content")
	switch {
	case content.Type == gjson.String:
		if text := strings.TrimSpace(content.String()); text != "" {
			return text
		}
	case content.IsArray():
		var texts []string
		for _, part := range content.Array() {
			if t := part.Get("text"); t.Exists() {
				texts = append(texts, t.String())
			} else if part.Type == gjson.String {
				texts = append(texts, part.String())
			}
		}
		if text := strings.TrimSpace(strings.Join(texts, "")); text != "" {
			return text
		}
	}

	for _, path := range []string{"choices.0.text", "output_text", "text"} {
		if v := gjson.Get(raw, path); v.Type == gjson.String {
			if text := strings.TrimSpace(v.String()); text != "" {
				return text
			}
		}
	}
	return ""
}
