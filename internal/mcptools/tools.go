package mcptools

import (
	"context"
	"errors"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var ErrNotProcessed = errors.New("file has not finished processing")

type FileReader interface {
	Get(ctx context.Context, userID, fileID string) (fileModel.StoredFile, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type MarkdownInput struct {
	FileId string `json:"file_id" jsonschema:"id of an uploaded file"`
}

type MarkdownOutput struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
	Markdown string `json:"markdown"`
}

type SummarizeInput struct {
	Text string `json:"text" jsonschema:"text to summarize"`
}

type SummarizeOutput struct {
	Summary string `json:"summary"`
}

// Tools serves the notes services to MCP clients on behalf of a single user.
type Tools struct {
	files  FileReader
	ai     Summarizer
	userID string
	logger *logger_i.Logger
}

func New(files FileReader, ai Summarizer, userID string) *Tools {
	return &Tools{files: files, ai: ai, userID: userID, logger: logger_i.NewLogger("MCP Tools")}
}

func (t *Tools) NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "notes", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_file_markdown",
		Description: "Return the Markdown extracted from an uploaded file",
	}, t.GetFileMarkdown)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_text",
		Description: "Summarize study material into a short overview",
	}, t.SummarizeText)

	return server
}

func (t *Tools) GetFileMarkdown(ctx context.Context, req *mcp.CallToolRequest, in MarkdownInput) (*mcp.CallToolResult, MarkdownOutput, error) {
	file, err := t.files.Get(ctx, t.userID, in.FileId)
	if err != nil {
		t.logger.Warn("get_file_markdown failed", "fileId", in.FileId, "error", err)
		return nil, MarkdownOutput{}, err
	}
	if file.Status != fileModel.FileStatusDone || file.MdContent == nil {
		return nil, MarkdownOutput{}, ErrNotProcessed
	}
	return nil, MarkdownOutput{FileId: file.Id, Filename: file.Filename, Markdown: *file.MdContent}, nil
}

func (t *Tools) SummarizeText(ctx context.Context, req *mcp.CallToolRequest, in SummarizeInput) (*mcp.CallToolResult, SummarizeOutput, error) {
	summary, err := t.ai.Summarize(ctx, in.Text)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}
	return nil, SummarizeOutput{Summary: summary}, nil
}
