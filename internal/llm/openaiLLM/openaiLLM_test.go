package openaiLLM

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/NotesAPI/internal/llm"
)

func TestExtractFromRaw(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string content", `{"choices":[{"message":{"content":"# Hi"}}]}`, "# Hi"},
		{"part array", `{"choices":[{"message":{"content":[{"type":"text","text":"# A"},{"type":"text","text":"\nb"}]}}]}`, "# A\nb"},
		{"legacy text", `{"choices":[{"text":"  plain  "}]}`, "plain"},
		{"output_text", `{"output_text":"done"}`, "done"},
		{"empty", `{"choices":[]}`, ""},
		{"invalid json", `{"choices":`, ""},
		{"blank", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractFromRaw(tt.raw); got != tt.want {
				t.Errorf("extractFromRaw() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestNewClient_MissingKey(t *testing.T) {
	p := NewClient("", "", nil)
	_, err := p.Complete(context.Background(), llm.Request{})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestToMessages(t *testing.T) {
	msgs := toMessages([]llm.Message{
		llm.TextMessage(llm.RoleSystem, "sys"),
		{Role: llm.RoleUser, Parts: []llm.Part{{Text: "look"}, {Image: &llm.Image{Data: []byte{1}, MIMEType: "image/png"}}}},
		llm.TextMessage(llm.RoleUser, "plain"),
	})
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
}
