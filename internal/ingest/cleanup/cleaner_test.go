package cleanup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/NotesAPI/internal/llm"
)

type MockProvider struct {
	mu         sync.Mutex
	Requests   []llm.Request
	OnComplete func(call int, req llm.Request) (string, error)
}

func (m *MockProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	call := len(m.Requests)
	m.mu.Unlock()
	if m.OnComplete != nil {
		return m.OnComplete(call, req)
	}
	return "", nil
}

func userText(req llm.Request) string {
	return req.Messages[len(req.Messages)-1].Parts[0].Text
}

func testConfig() Config {
	return Config{Model: "text-model", MaxChars: 200000, ChunkTokens: 10, MaxTokens: 100, Retry: llm.Retrier{MaxRetries: 2}}
}

func TestCleanToMarkdown_NormalizesOutput(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) {
		return "# Title\r\n\r\n\r\n\r\nBody\n", nil
	}}
	c := NewCleaner(p, testConfig())

	got, err := c.CleanToMarkdown(context.Background(), "raw", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "# Title\n\nBody" {
		t.Errorf("got %q", got)
	}
	if p.Requests[0].Model != "text-model" {
		t.Errorf("unexpected model %q", p.Requests[0].Model)
	}
}

func TestCleanToMarkdown_BlankInputSkipsCall(t *testing.T) {
	p := &MockProvider{}
	c := NewCleaner(p, testConfig())
	got, err := c.CleanToMarkdown(context.Background(), "   ", "")
	if err != nil || got != "" {
		t.Fatalf("expected empty result, got %q, %v", got, err)
	}
	if len(p.Requests) != 0 {
		t.Errorf("expected no calls, got %d", len(p.Requests))
	}
}

func TestCleanToMarkdown_InstructionsPrefixSystem(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) { return "ok", nil }}
	c := NewCleaner(p, testConfig())
	_, _ = c.CleanToMarkdown(context.Background(), "text", "Summarize.")

	system := p.Requests[0].Messages[0].Parts[0].Text
	if !strings.HasPrefix(system, "Summarize. ") || !strings.Contains(system, "respond only with Markdown") {
		t.Errorf("unexpected system instruction %q", system)
	}
}

func TestCleanToMarkdown_TruncatesInput(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) { return "ok", nil }}
	cfg := testConfig()
	cfg.MaxChars = 5
	c := NewCleaner(p, cfg)
	_, _ = c.CleanToMarkdown(context.Background(), "ñandú-largo", "")

	if got := userText(p.Requests[0]); got != "Original text:\n\nñandú" {
		t.Errorf("unexpected user text %q", got)
	}
}

func TestCleanToMarkdown_RetriesThenSucceeds(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) {
		if call < 3 {
			return "", errors.New("temporary")
		}
		return "fine", nil
	}}
	c := NewCleaner(p, testConfig())
	got, err := c.CleanToMarkdown(context.Background(), "text", "")
	if err != nil || got != "fine" {
		t.Fatalf("expected success on third attempt, got %q, %v", got, err)
	}
	if len(p.Requests) != 3 {
		t.Errorf("expected 3 calls, got %d", len(p.Requests))
	}
}

func TestConvert_ShortTextSingleCall(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) { return "short", nil }}
	c := NewCleaner(p, testConfig())
	got, err := c.Convert(context.Background(), "tiny text")
	if err != nil || got != "short" {
		t.Fatalf("got %q, %v", got, err)
	}
	if len(p.Requests) != 1 {
		t.Errorf("expected 1 call, got %d", len(p.Requests))
	}
}

func TestConvert_TwoPass(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) {
		in := strings.TrimPrefix(userText(req), "Original text:\n\n")
		if strings.Contains(in, "[part]") {
			return "final", nil
		}
		return "[part]", nil
	}}
	c := NewCleaner(p, testConfig())

	// 10 tokens = 40 chars per chunk
	text := strings.Repeat("word ", 30)
	got, err := c.Convert(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "final" {
		t.Errorf("expected synthesis output, got %q", got)
	}

	chunks := len(p.Requests) - 1
	if chunks < 2 {
		t.Fatalf("expected several chunk calls, got %d", chunks)
	}
	last := userText(p.Requests[len(p.Requests)-1])
	if strings.Count(last, "[part]") != chunks {
		t.Errorf("final pass should see every cleaned chunk: %q", last)
	}
}

func TestConvert_ChunkFailureAborts(t *testing.T) {
	p := &MockProvider{OnComplete: func(call int, req llm.Request) (string, error) {
		if call == 2 {
			return "", &llm.StatusError{StatusCode: 400, Err: errors.New("bad request")}
		}
		return "ok", nil
	}}
	c := NewCleaner(p, testConfig())
	_, err := c.Convert(context.Background(), strings.Repeat("word ", 30))
	if err == nil {
		t.Fatal("expected the conversion to abort")
	}
	if len(p.Requests) != 2 {
		t.Errorf("expected processing to stop after the failed chunk, got %d calls", len(p.Requests))
	}
}
