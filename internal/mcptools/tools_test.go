package mcptools

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type MockFiles struct {
	Files map[string]fileModel.StoredFile
}

func (m *MockFiles) Get(ctx context.Context, userID, fileID string) (fileModel.StoredFile, error) {
	f, ok := m.Files[fileID]
	if !ok {
		return fileModel.StoredFile{}, fileModel.ErrFileNotFound
	}
	return f, nil
}

type MockSummarizer struct {
	OnSummarize func(text string) (string, error)
}

func (m *MockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if m.OnSummarize != nil {
		return m.OnSummarize(text)
	}
	return "summary of " + text, nil
}

func newTools() *Tools {
	md := "# Heading"
	return New(&MockFiles{Files: map[string]fileModel.StoredFile{
		"done":   {Id: "done", Filename: "a.pdf", Status: fileModel.FileStatusDone, MdContent: &md},
		"queued": {Id: "queued", Filename: "b.pdf", Status: fileModel.FileStatusQueued},
	}}, &MockSummarizer{}, "alice")
}

func TestGetFileMarkdown(t *testing.T) {
	tools := newTools()
	ctx := context.Background()

	_, out, err := tools.GetFileMarkdown(ctx, nil, MarkdownInput{FileId: "done"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Markdown != "# Heading" || out.Filename != "a.pdf" {
		t.Errorf("unexpected output %+v", out)
	}

	if _, _, err := tools.GetFileMarkdown(ctx, nil, MarkdownInput{FileId: "queued"}); !errors.Is(err, ErrNotProcessed) {
		t.Errorf("expected ErrNotProcessed, got %v", err)
	}
	if _, _, err := tools.GetFileMarkdown(ctx, nil, MarkdownInput{FileId: "missing"}); !errors.Is(err, fileModel.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSummarizeText_Error(t *testing.T) {
	tools := New(&MockFiles{}, &MockSummarizer{OnSummarize: func(string) (string, error) {
		return "", errors.New("model offline")
	}}, "alice")
	if _, _, err := tools.SummarizeText(context.Background(), nil, SummarizeInput{Text: "x"}); err == nil {
		t.Error("expected the summarizer error")
	}
}

func TestServer_CallTools(t *testing.T) {
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := newTools().NewServer("test").Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "summarize_text",
		Arguments: map[string]any{"text": "photosynthesis"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError || len(res.Content) == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if text.Text != `{"summary":"summary of photosynthesis"}` {
		t.Errorf("unexpected content %q", text.Text)
	}

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_file_markdown",
		Arguments: map[string]any{"file_id": "missing"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("missing file should be reported as a tool error")
	}
}
