// Package quiz generates multiple-choice quizzes for a topic using the
// configured language model provider.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/llm"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/validation"
)

const systemPrompt = `You are a teacher writing multiple-choice quizzes.
Respond with a JSON object of the form
{"questions":[{"prompt":"...","options":["...","...","...","..."],"answer_index":0,"explanation":"..."}]}.
Each question has exactly 4 options and answer_index refers to the correct one.
Do not include any text outside the JSON object.`

// GenerateInput describes the quiz to produce.
type GenerateInput struct {
	Topic        string `json:"topic" validate:"required,max=200"`
	NumQuestions int    `json:"num_questions" validate:"gte=1,lte=20"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// Question is one generated multiple-choice question.
type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Quiz is the generated result.
type Quiz struct {
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Model      string     `json:"model"`
	Questions  []Question `json:"questions"`
}

// Service generates quizzes through an llm.Provider.
type Service struct {
	provider llm.Provider
	log      *logger.Logger
	tracer   trace.Tracer
}

// NewService wires the quiz generator.
func NewService(provider llm.Provider, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log.WithComponent("quiz"),
		tracer:   otel.Tracer("classboard/quiz"),
	}
}

// Generate produces a quiz for the given topic. The model output is
// parsed and validated; a malformed or short answer is reported as an
// external service failure.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*Quiz, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Difficulty == "" {
		in.Difficulty = "medium"
	}

	ctx, span := s.tracer.Start(ctx, "quiz.generate", trace.WithAttributes(
		attribute.String("quiz.topic", in.Topic),
		attribute.Int("quiz.num_questions", in.NumQuestions),
	))
	defer span.End()

	resp, err := s.provider.CompleteStructured(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages: []llm.Message{{
			Role: "user",
			Content: fmt.Sprintf("Write %d %s questions about %q.",
				in.NumQuestions, in.Difficulty, in.Topic),
		}},
		Temperature: 0.7,
	}, nil)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ExternalServiceError(s.provider.Name(), err)
	}

	questions, err := parseQuestions(resp.Content)
	if err != nil {
		span.RecordError(err)
		s.log.Warn("model returned unparseable quiz", logger.Fields(
			logger.FieldError, err.Error(),
			"model", resp.Model,
		))
		return nil, apperrors.ExternalServiceError(s.provider.Name(), err)
	}
	if len(questions) > in.NumQuestions {
		questions = questions[:in.NumQuestions]
	}

	s.log.Info("quiz generated", logger.Fields(
		"topic", in.Topic,
		"questions", len(questions),
		"tokens", resp.Usage.TotalTokens,
	))
	return &Quiz{
		Topic:      in.Topic,
		Difficulty: in.Difficulty,
		Model:      resp.Model,
		Questions:  questions,
	}, nil
}

// parseQuestions decodes and validates the model's JSON answer. Code
// fences around the object are tolerated.
func parseQuestions(content string) ([]Question, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload struct {
		Questions []Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("invalid quiz JSON: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	for i, q := range payload.Questions {
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d has no prompt", i)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("question %d has %d options", i, len(q.Options))
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			return nil, fmt.Errorf("question %d has answer index %d out of range", i, q.AnswerIndex)
		}
	}
	return payload.Questions, nil
}
