package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client *genai.Client
	logger *logger_i.Logger
}

// NewClient builds a Gemini provider. Without a key, or when the client cannot be
// created, every call fails with llm.ErrNotConfigured.
func NewClient(ctx context.Context, apikey string, httpClient *http.Client) llm.Provider {
	if apikey == "" {
		return llm.Unavailable("GEMINI_API_KEY is not set")
	}
	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return llm.Unavailable("gemini client could not be created")
	}
	logger.Info("Gemini client created")
	return &llmClient{client: c, logger: logger}
}

func (c *llmClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	log := c.logger.WithTrace(ctx)

	var systemInstruction *genai.Content
	var contents []*genai.Content
	for _, m := range req.Messages {
		parts := toParts(m.Parts)
		if len(parts) == 0 {
			continue
		}
		switch m.Role {
		case llm.RoleSystem:
			systemInstruction = &genai.Content{Parts: parts}
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
		}
	}

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		contentConfig.MaxOutputTokens = int32(req.MaxTokens)
	}

	log.Debug("generate content", "model", req.Model, "contents", len(contents))
	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, contentConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &llm.StatusError{StatusCode: apiErr.Code, Err: err}
		}
		return "", err
	}
	if result == nil {
		return "", nil
	}
	return strings.TrimSpace(result.Text()), nil
}

func toParts(parts []llm.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Image != nil {
			out = append(out, genai.NewPartFromBytes(p.Image.Data, p.Image.MIMEType))
			continue
		}
		if p.Text != "" {
			out = append(out, genai.NewPartFromText(p.Text))
		}
	}
	return out
}
