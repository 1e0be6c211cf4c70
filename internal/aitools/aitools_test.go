package aitools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/NotesAPI/internal/llm"
)

type MockProvider struct {
	Requests   []llm.Request
	OnComplete func(req llm.Request) (string, error)
}

func (m *MockProvider) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.OnComplete != nil {
		return m.OnComplete(req)
	}
	return "", nil
}

func newService(p *MockProvider) *Service {
	return NewService(p, "text-model", llm.Retrier{MaxRetries: 0})
}

func reply(text string) func(req llm.Request) (string, error) {
	return func(req llm.Request) (string, error) { return text, nil }
}

func TestSummarize(t *testing.T) {
	p := &MockProvider{OnComplete: reply("  A short summary.\n")}
	s := newService(p)

	out, err := s.Summarize(context.Background(), "Photosynthesis converts light into chemical energy.")
	if err != nil {
		t.Fatal(err)
	}
	if out != "A short summary." {
		t.Errorf("got %q", out)
	}
	req := p.Requests[0]
	if req.Model != "text-model" || req.Temperature != 0.5 {
		t.Errorf("unexpected request settings: %+v", req)
	}
	if !strings.Contains(req.Messages[1].Parts[0].Text, "Photosynthesis") {
		t.Error("note text missing from prompt")
	}
}

func TestSummarize_BlankInput(t *testing.T) {
	p := &MockProvider{}
	out, err := newService(p).Summarize(context.Background(), " \n\t")
	if err != nil {
		t.Fatal(err)
	}
	if out != NothingToSummarize {
		t.Errorf("got %q", out)
	}
	if len(p.Requests) != 0 {
		t.Error("blank input should not reach the model")
	}
}

func TestSummarize_PropagatesFailure(t *testing.T) {
	p := &MockProvider{OnComplete: func(req llm.Request) (string, error) {
		return "", llm.ErrNotConfigured
	}}
	if _, err := newService(p).Summarize(context.Background(), "text"); !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateQuiz(t *testing.T) {
	fenced := "```json\n[" +
		`{"type":"open","question":"What is ATP?","answer":"The energy currency of the cell."},` +
		`{"type":"multiple_choice","question":"Where does photosynthesis happen?","options":["Mitochondria","Chloroplast","Nucleus","Ribosome"],"correct_index":1}` +
		"]\n```"
	p := &MockProvider{OnComplete: reply(fenced)}

	quiz := newService(p).GenerateQuiz(context.Background(), "some text")
	if len(quiz) != 2 {
		t.Fatalf("expected 2 questions, got %+v", quiz)
	}
	if quiz[0].Type != QuestionOpen || quiz[0].Answer == "" {
		t.Errorf("bad open question: %+v", quiz[0])
	}
	mc := quiz[1]
	if mc.Type != QuestionMultipleChoice || len(mc.Options) != 4 || mc.CorrectIndex == nil || *mc.CorrectIndex != 1 {
		t.Errorf("bad multiple choice question: %+v", mc)
	}
}

func TestGenerateQuiz_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider *MockProvider
	}{
		{"invalid json", &MockProvider{OnComplete: reply("Here is your quiz: 1) ...")}},
		{"model error", &MockProvider{OnComplete: func(req llm.Request) (string, error) {
			return "", errors.New("upstream 500")
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := newService(tt.provider).GenerateQuiz(context.Background(), "text")
			if len(quiz) != 1 {
				t.Fatalf("expected one fallback question, got %+v", quiz)
			}
			if quiz[0].Type != QuestionOpen || quiz[0].Question != quizFailedQuestion || quiz[0].Answer == "" {
				t.Errorf("unexpected fallback: %+v", quiz[0])
			}
		})
	}
}

func TestParseImprovement_WithMarkers(t *testing.T) {
	raw := "noise\n" + markdownStart + "\n# Cells\r\n\r\n\r\n\r\nCells are the unit of life.\n" + markdownEnd + "\n\n" +
		changelogStart + "\n" + `{"summary":"fixed format","changes":[{"type":"format","location":"heading","explanation":"added title"}]}` + "\n" + changelogEnd

	got := ParseImprovement(raw)
	if got.ImprovedMarkdown != "# Cells\n\nCells are the unit of life." {
		t.Errorf("markdown = %q", got.ImprovedMarkdown)
	}
	if got.Changelog["summary"] != "fixed format" {
		t.Errorf("changelog = %+v", got.Changelog)
	}
	if changes, ok := got.Changelog["changes"].([]any); !ok || len(changes) != 1 {
		t.Errorf("changes = %+v", got.Changelog["changes"])
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestParseImprovement_Heuristics(t *testing.T) {
	t.Run("no markers at all", func(t *testing.T) {
		got := ParseImprovement("# Title\n\nBody")
		if got.ImprovedMarkdown != "# Title\n\nBody" {
			t.Errorf("markdown = %q", got.ImprovedMarkdown)
		}
		if got.Changelog["summary"] != "" {
			t.Errorf("changelog = %+v", got.Changelog)
		}
	})

	t.Run("changelog markers only", func(t *testing.T) {
		raw := "# Title\n\nBody\n" + changelogStart + `{"summary":"ok","changes":[]}` + changelogEnd
		got := ParseImprovement(raw)
		if got.ImprovedMarkdown != "# Title\n\nBody" {
			t.Errorf("markdown = %q", got.ImprovedMarkdown)
		}
		if got.Changelog["summary"] != "ok" {
			t.Errorf("changelog = %+v", got.Changelog)
		}
	})

	t.Run("bare json object", func(t *testing.T) {
		got := ParseImprovement("Improved text\n{\"summary\":\"bare\"}")
		if got.Changelog["summary"] != "bare" {
			t.Errorf("changelog = %+v", got.Changelog)
		}
	})

	t.Run("broken changelog", func(t *testing.T) {
		raw := markdownStart + "Body" + markdownEnd + changelogStart + "{summary: nope" + changelogEnd
		got := ParseImprovement(raw)
		if got.ImprovedMarkdown != "Body" {
			t.Errorf("markdown = %q", got.ImprovedMarkdown)
		}
		if got.Changelog["changes_raw"] != "{summary: nope" || len(got.Warnings) != 1 {
			t.Errorf("expected raw changelog and a warning, got %+v %v", got.Changelog, got.Warnings)
		}
	})

	t.Run("changelog is an array", func(t *testing.T) {
		raw := markdownStart + "Body" + markdownEnd + changelogStart + `["a", "b"]` + changelogEnd
		got := ParseImprovement(raw)
		if got.Changelog["changes_raw"] != `["a", "b"]` || len(got.Warnings) != 1 {
			t.Errorf("expected raw changelog and a warning, got %+v %v", got.Changelog, got.Warnings)
		}
	})

	t.Run("nested values survive", func(t *testing.T) {
		raw := markdownStart + "Body" + markdownEnd + changelogStart + `{"summary":"s","changes":[{"type":"heading","count":2}]}` + changelogEnd
		got := ParseImprovement(raw)
		changes, ok := got.Changelog["changes"].([]any)
		if !ok || len(changes) != 1 {
			t.Fatalf("changes = %+v", got.Changelog["changes"])
		}
		first, ok := changes[0].(map[string]any)
		if !ok || first["type"] != "heading" || first["count"] != float64(2) {
			t.Errorf("first change = %+v", changes[0])
		}
	})
}

func TestImproveNote_EmptyAndFailure(t *testing.T) {
	p := &MockProvider{}
	empty := newService(p).ImproveNote(context.Background(), "   ")
	if empty.ImprovedMarkdown != "" || len(empty.Warnings) != 1 || len(p.Requests) != 0 {
		t.Errorf("unexpected result for empty note: %+v", empty)
	}

	failing := &MockProvider{OnComplete: func(req llm.Request) (string, error) {
		return "", errors.New("timeout")
	}}
	got := newService(failing).ImproveNote(context.Background(), "a note")
	if got.ImprovedMarkdown != "" || got.Changelog["summary"] != "error" || len(got.Warnings) != 1 || got.Warnings[0] != "timeout" {
		t.Errorf("unexpected result on failure: %+v", got)
	}
}
