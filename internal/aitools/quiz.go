package aitools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akolanti/NotesAPI/internal/config"
)

const (
	QuestionOpen           = "open"
	QuestionMultipleChoice = "multiple_choice"

	quizFailedQuestion = "The quiz could not be generated"
)

type QuizQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Answer        string   `json:"answer,omitempty"`
	Options       []string `json:"options,omitempty"`
	Correct       string   `json:"correct,omitempty"`
	CorrectIndex  *int     `json:"correct_index,omitempty"`
	SourceExcerpt string   `json:"source_excerpt,omitempty"`
}

const quizSystem = "You generate short, structured quizzes."

var quizPrompt = fmt.Sprintf(`Generate a short quiz (at most %d questions) as valid, parseable JSON, based only on the text below. Do not add any text, explanation or code fences. Return only the JSON.

Expected format:
[
  {"type": "open", "question": "Open question...", "answer": "Expected answer", "source_excerpt": "..."},
  {"type": "multiple_choice", "question": "Multiple choice question...", "options": ["A", "B", "C", "D"], "correct_index": 0, "source_excerpt": "..."}
]

Rules:
1. Generate between 3 and %d questions depending on how dense the text is (2 are allowed for very short texts).
2. Multiple choice questions have exactly 4 options and a correct_index between 0 and 3.
3. Open answers are concise (1-2 sentences).
4. Do not invent information: questions and answers come from the text.
5. source_excerpt is a fragment of at most 200 characters taken from the text that justifies the question.

Text:
`, config.QuizQuestionCount, config.QuizQuestionCount)

// GenerateQuiz asks for a JSON quiz. A reply that cannot be parsed, or a failed call,
// yields a single open question whose answer describes the problem.
func (s *Service) GenerateQuiz(ctx context.Context, text string) []QuizQuestion {
	log := s.logger.WithTrace(ctx)

	out, err := s.complete(ctx, quizSystem, quizPrompt+truncate(text), config.QuizTemperature, config.QuizMaxTokens)
	if err != nil {
		log.Error("quiz generation failed", "error", err)
		return quizFailure(err)
	}

	quiz, err := ParseQuiz(out)
	if err != nil {
		log.Warn("quiz reply was not valid JSON", "error", err)
		return quizFailure(err)
	}
	return quiz
}

// ParseQuiz decodes a model reply, tolerating ```json fences around the array.
func ParseQuiz(reply string) ([]QuizQuestion, error) {
	content := strings.ReplaceAll(reply, "```json", "")
	content = strings.TrimSpace(strings.ReplaceAll(content, "```", ""))

	var quiz []QuizQuestion
	if err := json.Unmarshal([]byte(content), &quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func quizFailure(err error) []QuizQuestion {
	return []QuizQuestion{{
		Type:     QuestionOpen,
		Question: quizFailedQuestion,
		Answer:   err.Error(),
	}}
}
