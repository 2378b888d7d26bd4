// Package mentor implements the AI mentor services: Socratic guidance,
// code examination, ai-mentor explain/quiz turns, and free-form chat.
// Every operation degrades to a safe local answer when the provider
// fails so the learner is never blocked by an outage.
package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/store"
)

const (
	guideMaxTokens    = 300
	examinerMaxTokens = 600
	explainMaxTokens  = 500
	quizAskMaxTokens  = 300
	quizEvalMaxTokens = 400
	chatMaxTokens     = 150

	chatHistoryLimit = 20
)

// Service runs all mentor operations through a single provider.
type Service struct {
	provider llm.Provider
	chats    store.ChatRepo
	log      *zap.SugaredLogger
}

// New creates a mentor Service. chats may be nil, in which case chat
// turns are not persisted. logger may be nil.
func New(provider llm.Provider, chats store.ChatRepo, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{provider: provider, chats: chats, log: logger}
}

// generate guards against a missing provider so every mentor mode
// degrades to its local fallback instead of panicking.
func (s *Service) generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("no llm provider configured")
	}
	return s.provider.Generate(ctx, req)
}

// GuideRequest carries the learner's current work to Guide mode.
type GuideRequest struct {
	LessonContext string `json:"lessonContext"`
	Proficiency   string `json:"proficiency"`
	UserWork      string `json:"userWork"`
	Question      string `json:"question"`
}

// Guide returns short Socratic feedback without giving away the solution.
func (s *Service) Guide(ctx context.Context, req GuideRequest) (string, error) {
	if req.LessonContext == "" || req.Proficiency == "" || req.UserWork == "" || req.Question == "" {
		return "", fmt.Errorf("guide: lessonContext, proficiency, userWork, and question are required")
	}

	ctx = llm.WithPurpose(ctx, "mentor-guide")
	resp, err := s.generate(ctx, llm.Request{
		System: "You are 'Mentor' in Guide mode. Offer short Socratic guidance (max 4 sentences) and never give away the full solution unless the learner is clearly stuck.",
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf("Proficiency: %s\nLesson context: %s\nLearner work/question: %s\nPrompt: %s",
				req.Proficiency, req.LessonContext, req.UserWork, req.Question),
		}},
		MaxTokens:   guideMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Warnw("guide provider failed", "error", err)
		return "Walk through your work line by line and say out loud what each step should do. Where does what actually happens first differ from what you expect?", nil
	}
	return strings.TrimSpace(resp.Text()), nil
}

// ExamineRequest carries a code submission to Examiner mode.
type ExamineRequest struct {
	LessonContext string `json:"lessonContext"`
	Proficiency   string `json:"proficiency"`
	UserCode      string `json:"userCode"`
}

// Verdict is the examiner's structured judgement of a submission.
type Verdict struct {
	Passed      bool   `json:"passed"`
	Feedback    string `json:"feedback"`
	DeductHeart bool   `json:"deduct_heart"`
}

var examinerSchema = &llm.Schema{
	Name:        "examiner-verdict",
	Description: "Pass/fail judgement of a learner's code submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passed":       map[string]any{"type": "boolean"},
			"feedback":     map[string]any{"type": "string"},
			"deduct_heart": map[string]any{"type": "boolean"},
		},
		"required":             []any{"passed", "feedback", "deduct_heart"},
		"additionalProperties": false,
	},
}

// Examine grades a code submission. On any provider or parse failure it
// returns the safe default: the learner passes and keeps their hearts.
func (s *Service) Examine(ctx context.Context, req ExamineRequest) (Verdict, error) {
	if req.LessonContext == "" || req.Proficiency == "" || req.UserCode == "" {
		return Verdict{}, fmt.Errorf("examine: lessonContext, proficiency, and userCode are required")
	}

	ctx = llm.WithPurpose(ctx, "mentor-examiner")
	resp, err := s.generate(ctx, llm.Request{
		System: "You are 'Mentor' in Examiner mode. Evaluate code fairly and rigorously. Check if it meets the acceptance criteria and solves the problem correctly. Accept different valid approaches, but the code must actually work. Reject code with logic errors or missing functionality.",
		Messages: []llm.Message{{
			Role: llm.RoleUser,
			Content: fmt.Sprintf("Proficiency: %s\n\nLesson context and acceptance criteria:\n%s\n\nUser's code:\n%s\n\nEvaluate the submission and set deduct_heart to true only when the learner should lose a heart.",
				req.Proficiency, req.LessonContext, req.UserCode),
		}},
		Schema:      examinerSchema,
		MaxTokens:   examinerMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		s.log.Warnw("examiner provider failed", "error", err)
		return safeVerdict(), nil
	}

	var v Verdict
	if err := json.Unmarshal(resp.Content, &v); err != nil {
		s.log.Warnw("examiner returned invalid verdict", "error", err)
		return safeVerdict(), nil
	}
	return v, nil
}

func safeVerdict() Verdict {
	return Verdict{
		Passed:      true,
		Feedback:    "The examiner is unavailable right now, so this submission is accepted as-is. Compare your code with the sample solution before moving on.",
		DeductHeart: false,
	}
}

// ExplainRequest carries one conversational turn for an explain-mode
// ai-mentor block.
type ExplainRequest struct {
	LessonContext   string        `json:"lessonContext"`
	Proficiency     string        `json:"proficiency"`
	Persona         string        `json:"persona"`
	Topic           string        `json:"topic"`
	Prompt          string        `json:"prompt"`
	LearnerQuestion string        `json:"learnerQuestion"`
	History         []llm.Message `json:"history,omitempty"`
}

// Explain produces the next mentor response for an explain conversation.
func (s *Service) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	if req.LessonContext == "" || req.Proficiency == "" || req.Persona == "" ||
		req.Topic == "" || req.Prompt == "" || req.LearnerQuestion == "" {
		return "", fmt.Errorf("explain: lessonContext, proficiency, persona, topic, prompt, and learnerQuestion are required")
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf("Lesson context: %s\nTopic: %s\nPrompt: %s\nLearner question: %s\nProficiency: %s\nProvide the next mentor response.",
			req.LessonContext, req.Topic, req.Prompt, req.LearnerQuestion, req.Proficiency),
	})

	ctx = llm.WithPurpose(ctx, "mentor-explain")
	resp, err := s.generate(ctx, llm.Request{
		System:      fmt.Sprintf("You are an AI mentor in %s mode. Explain topics clearly, encourage reflection, and keep responses under five sentences. Use a confident but empathetic tone.", req.Persona),
		Messages:    messages,
		MaxTokens:   explainMaxTokens,
		Temperature: 0.4,
	})
	if err != nil {
		s.log.Warnw("explain provider failed", "error", err)
		return fmt.Sprintf("Let's reason it out together: in the context of %s, restate the idea in your own words and name one place you would use it. That restating is the fastest way to find the gap.", req.Topic), nil
	}
	return strings.TrimSpace(resp.Text()), nil
}
