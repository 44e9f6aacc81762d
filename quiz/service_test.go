package quiz

import (
	"context"
	"testing"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/llm"
	"github.com/skillsenselab/classboard/logger"
)

// fakeProvider returns canned content or an error.
type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Name() string                       { return "fake" }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return true }

func (f *fakeProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return f.respond()
}

func (f *fakeProvider) CompleteStructured(_ context.Context, _ llm.CompletionRequest, _ any) (*llm.CompletionResponse, error) {
	return f.respond()
}

func (f *fakeProvider) respond() (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "fake-model"}, nil
}

const validQuizJSON = `{"questions":[
	{"prompt":"2+2?","options":["3","4","5","6"],"answer_index":1,"explanation":"basic addition"},
	{"prompt":"3*3?","options":["6","9","12","15"],"answer_index":1}
]}`

func newTestService(content string) *Service {
	return NewService(&fakeProvider{content: content}, logger.NewDefault("test"))
}

func TestGenerate(t *testing.T) {
	svc := newTestService(validQuizJSON)

	q, err := svc.Generate(context.Background(), GenerateInput{Topic: "arithmetic", NumQuestions: 2})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if q.Topic != "arithmetic" || q.Difficulty != "medium" || q.Model != "fake-model" {
		t.Errorf("unexpected quiz header: %+v", q)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(q.Questions))
	}
	if q.Questions[0].AnswerIndex != 1 {
		t.Errorf("expected answer index 1, got %d", q.Questions[0].AnswerIndex)
	}
}

func TestGenerate_TruncatesExtraQuestions(t *testing.T) {
	svc := newTestService(validQuizJSON)

	q, err := svc.Generate(context.Background(), GenerateInput{Topic: "arithmetic", NumQuestions: 1})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(q.Questions) != 1 {
		t.Errorf("expected 1 question, got %d", len(q.Questions))
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	svc := newTestService(validQuizJSON)

	tests := []struct {
		name string
		in   GenerateInput
	}{
		{"missing topic", GenerateInput{NumQuestions: 3}},
		{"zero questions", GenerateInput{Topic: "math"}},
		{"too many questions", GenerateInput{Topic: "math", NumQuestions: 50}},
		{"unknown difficulty", GenerateInput{Topic: "math", NumQuestions: 3, Difficulty: "brutal"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tc.in)
			app, ok := apperrors.AsAppError(err)
			if !ok || app.Code != apperrors.ErrCodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestGenerate_UnparseableModelOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "sorry, I cannot help"},
		{"empty questions", `{"questions":[]}`},
		{"missing prompt", `{"questions":[{"options":["a","b"],"answer_index":0}]}`},
		{"answer out of range", `{"questions":[{"prompt":"?","options":["a","b"],"answer_index":5}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(tc.content)
			_, err := svc.Generate(context.Background(), GenerateInput{Topic: "math", NumQuestions: 1})
			app, ok := apperrors.AsAppError(err)
			if !ok || app.Code != apperrors.ErrCodeExternalService {
				t.Errorf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
			}
		})
	}
}

func TestParseQuestions_CodeFences(t *testing.T) {
	fenced := "```json\n" + validQuizJSON + "\n```"
	qs, err := parseQuestions(fenced)
	if err != nil {
		t.Fatalf("parseQuestions failed: %v", err)
	}
	if len(qs) != 2 {
		t.Errorf("expected 2 questions, got %d", len(qs))
	}
}
