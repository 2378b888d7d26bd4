package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viament/viament/internal/llm"
)

// QuizAskRequest asks the mentor to generate one open-ended question.
type QuizAskRequest struct {
	LessonContext string `json:"lessonContext"`
	Topic         string `json:"topic"`
	Prompt        string `json:"prompt"`
}

// QuizAnswerRequest submits the learner's answer for evaluation.
type QuizAnswerRequest struct {
	LessonContext string `json:"lessonContext"`
	Topic         string `json:"topic"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
}

// Evaluation is the mentor's judgement of a quiz answer.
type Evaluation struct {
	Correct  bool   `json:"correct"`
	Feedback string `json:"feedback"`
}

var quizQuestionSchema = &llm.Schema{
	Name:        "quiz-question",
	Description: "One open-ended quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
		},
		"required":             []any{"question"},
		"additionalProperties": false,
	},
}

var quizEvaluationSchema = &llm.Schema{
	Name:        "quiz-evaluation",
	Description: "Judgement of a learner's quiz answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct":  map[string]any{"type": "boolean"},
			"feedback": map[string]any{"type": "string"},
		},
		"required":             []any{"correct", "feedback"},
		"additionalProperties": false,
	},
}

// AskQuiz generates one open-ended question for a quiz-mode ai-mentor
// block. Provider failure falls back to a deterministic local question.
func (s *Service) AskQuiz(ctx context.Context, req QuizAskRequest) (string, error) {
	if req.LessonContext == "" || req.Topic == "" || req.Prompt == "" {
		return "", fmt.Errorf("ask quiz: lessonContext, topic, and prompt are required")
	}

	ctx = llm.WithPurpose(ctx, "mentor-quiz-ask")
	resp, err := s.generate(ctx, llm.Request{
		System: "You are an AI mentor generating short open-ended quiz questions.",
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf("Lesson context: %s\nTopic: %s\nPrompt: %s\nGenerate one question that tests understanding and reflects the learner's interests.",
				req.LessonContext, req.Topic, req.Prompt),
		}},
		Schema:      quizQuestionSchema,
		MaxTokens:   quizAskMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Warnw("quiz ask provider failed", "error", err)
		return fallbackQuestion(req.Topic), nil
	}

	var parsed struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(resp.Content, &parsed); err != nil || strings.TrimSpace(parsed.Question) == "" {
		s.log.Warnw("quiz ask returned invalid question", "error", err)
		return fallbackQuestion(req.Topic), nil
	}
	return strings.TrimSpace(parsed.Question), nil
}

func fallbackQuestion(topic string) string {
	return fmt.Sprintf("In your own words, what is the core idea of %s and where would you apply it first?", topic)
}

// AnswerQuiz evaluates the learner's answer. Provider failure counts the
// answer as correct so an outage never costs the learner progress.
func (s *Service) AnswerQuiz(ctx context.Context, req QuizAnswerRequest) (Evaluation, error) {
	if req.LessonContext == "" || req.Topic == "" || req.Question == "" || req.Answer == "" {
		return Evaluation{}, fmt.Errorf("answer quiz: lessonContext, topic, question, and answer are required")
	}

	ctx = llm.WithPurpose(ctx, "mentor-quiz-answer")
	resp, err := s.generate(ctx, llm.Request{
		System: "You are an AI mentor evaluating learner answers. Be encouraging but honest.",
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf("Lesson context: %s\nTopic: %s\nQuestion: %s\nLearner answer: %s",
				req.LessonContext, req.Topic, req.Question, req.Answer),
		}},
		Schema:      quizEvaluationSchema,
		MaxTokens:   quizEvalMaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		s.log.Warnw("quiz answer provider failed", "error", err)
		return safeEvaluation(), nil
	}

	var eval Evaluation
	if err := json.Unmarshal(resp.Content, &eval); err != nil {
		s.log.Warnw("quiz answer returned invalid evaluation", "error", err)
		return safeEvaluation(), nil
	}
	return eval, nil
}

func safeEvaluation() Evaluation {
	return Evaluation{
		Correct:  true,
		Feedback: "The mentor is unavailable right now, so this answer counts. Revisit the lesson summary to double-check yourself.",
	}
}

// QuizRunner tracks a quiz-mode conversation toward its goal.
type QuizRunner struct {
	goal    int
	correct int
}

// NewQuizRunner creates a runner that completes after goal correct
// answers. A goal below 1 is treated as 1.
func NewQuizRunner(goal int) *QuizRunner {
	if goal < 1 {
		goal = 1
	}
	return &QuizRunner{goal: goal}
}

// Record registers an evaluation and reports whether the goal is met.
func (q *QuizRunner) Record(eval Evaluation) bool {
	if eval.Correct {
		q.correct++
	}
	return q.Done()
}

// Done reports whether enough correct answers have been recorded.
func (q *QuizRunner) Done() bool { return q.correct >= q.goal }

// Progress returns correct answers so far and the goal.
func (q *QuizRunner) Progress() (correct, goal int) { return q.correct, q.goal }
