package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/store"
)

type memChatRepo struct {
	msgs      []store.ChatMessage
	appendErr error
}

func (m *memChatRepo) Append(_ context.Context, msg store.ChatMessage) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memChatRepo) Recent(_ context.Context, limit int) ([]store.ChatMessage, error) {
	if limit > 0 && len(m.msgs) > limit {
		return m.msgs[len(m.msgs)-limit:], nil
	}
	return m.msgs, nil
}

func (m *memChatRepo) DeleteAll(context.Context) error {
	m.msgs = nil
	return nil
}

func textResponse(s string) llm.MockResponse {
	quoted, _ := json.Marshal(s)
	return llm.MockResponse{Content: quoted}
}

func guideRequest() GuideRequest {
	return GuideRequest{
		LessonContext: "Build a counter component",
		Proficiency:   "beginner",
		UserWork:      "const [count] = useState(0)",
		Question:      "why does my counter never change?",
	}
}

func TestGuide_ReturnsTrimmedFeedback(t *testing.T) {
	mock := llm.NewMockProvider(textResponse("  What does useState return besides the value?  "))
	svc := New(mock, nil, nil)

	got, err := svc.Guide(context.Background(), guideRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "What does useState return besides the value?" {
		t.Errorf("feedback = %q", got)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "why does my counter never change?") {
		t.Error("prompt should carry the learner question")
	}
}

func TestGuide_RequiresAllFields(t *testing.T) {
	svc := New(llm.NewMockProvider(), nil, nil)
	req := guideRequest()
	req.UserWork = ""
	if _, err := svc.Guide(context.Background(), req); err == nil {
		t.Error("expected error for missing userWork")
	}
}

func TestGuide_FallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")})
	svc := New(mock, nil, nil)

	got, err := svc.Guide(context.Background(), guideRequest())
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if got == "" {
		t.Error("expected a local fallback hint")
	}
}

func TestExamine_ParsesVerdict(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"passed":false,"feedback":"off-by-one in the loop","deduct_heart":true}`),
	})
	svc := New(mock, nil, nil)

	v, err := svc.Examine(context.Background(), ExamineRequest{
		LessonContext: "Sum the first n integers",
		Proficiency:   "beginner",
		UserCode:      "for (let i = 0; i < n; i++) total += i",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Passed || !v.DeductHeart {
		t.Errorf("verdict = %+v", v)
	}
	if mock.Calls[0].Schema == nil || mock.Calls[0].Schema.Name != "examiner-verdict" {
		t.Error("examiner must request the verdict schema")
	}
}

func TestExamine_SafeDefaultOnFailure(t *testing.T) {
	for name, resp := range map[string]llm.MockResponse{
		"provider error": {Err: errors.New("down")},
		"invalid json":   {Content: json.RawMessage(`not json`)},
	} {
		t.Run(name, func(t *testing.T) {
			svc := New(llm.NewMockProvider(resp), nil, nil)
			v, err := svc.Examine(context.Background(), ExamineRequest{
				LessonContext: "ctx", Proficiency: "beginner", UserCode: "code",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !v.Passed || v.DeductHeart {
				t.Errorf("safe default must pass without heart loss, got %+v", v)
			}
		})
	}
}

func TestExplain_CarriesHistory(t *testing.T) {
	mock := llm.NewMockProvider(textResponse("Think of state as memory between renders."))
	svc := New(mock, nil, nil)

	history := []llm.Message{
		{Role: llm.RoleUser, Content: "what is state?"},
		{Role: llm.RoleAssistant, Content: "State is data that changes over time."},
	}
	got, err := svc.Explain(context.Background(), ExplainRequest{
		LessonContext:   "React basics",
		Proficiency:     "beginner",
		Persona:         "Coach",
		Topic:           "component state",
		Prompt:          "explain state",
		LearnerQuestion: "why not just use a variable?",
		History:         history,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Think of state as memory between renders." {
		t.Errorf("feedback = %q", got)
	}

	msgs := mock.Calls[0].Messages
	if len(msgs) != 3 {
		t.Fatalf("expected history + new turn, got %d messages", len(msgs))
	}
	if msgs[1].Role != llm.RoleAssistant {
		t.Error("history order must be preserved")
	}
	if !strings.Contains(mock.Calls[0].System, "Coach") {
		t.Error("persona must shape the system prompt")
	}
}

func TestAskQuiz_ParsesQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"question":"When would a map beat a slice?"}`),
	})
	svc := New(mock, nil, nil)

	q, err := svc.AskQuiz(context.Background(), QuizAskRequest{
		LessonContext: "Collections", Topic: "maps", Prompt: "test lookup intuition",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "When would a map beat a slice?" {
		t.Errorf("question = %q", q)
	}
}

func TestAskQuiz_FallsBackToLocalQuestion(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"question":""}`)})
	svc := New(mock, nil, nil)

	q, err := svc.AskQuiz(context.Background(), QuizAskRequest{
		LessonContext: "Collections", Topic: "maps", Prompt: "test lookup intuition",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(q, "maps") {
		t.Errorf("fallback question should mention the topic, got %q", q)
	}
}

func TestAnswerQuiz_SafeDefaultCountsAnswer(t *testing.T) {
	svc := New(llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")}), nil, nil)

	eval, err := svc.AnswerQuiz(context.Background(), QuizAnswerRequest{
		LessonContext: "ctx", Topic: "maps", Question: "q", Answer: "a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eval.Correct {
		t.Error("outage must not cost the learner a correct answer")
	}
}

func TestQuizRunner_TracksGoal(t *testing.T) {
	r := NewQuizRunner(2)
	if r.Record(Evaluation{Correct: false}) {
		t.Error("wrong answer must not finish the quiz")
	}
	if r.Record(Evaluation{Correct: true}) {
		t.Error("one correct of two must not finish the quiz")
	}
	if !r.Record(Evaluation{Correct: true}) {
		t.Error("second correct answer must finish the quiz")
	}
	correct, goal := r.Progress()
	if correct != 2 || goal != 2 {
		t.Errorf("progress = %d/%d", correct, goal)
	}
}

func TestQuizRunner_GoalFloorsAtOne(t *testing.T) {
	r := NewQuizRunner(0)
	if !r.Record(Evaluation{Correct: true}) {
		t.Error("goal 0 should behave as goal 1")
	}
}

func TestChat_PersistsBothTurns(t *testing.T) {
	repo := &memChatRepo{}
	mock := llm.NewMockProvider(textResponse("Start with a tiny project and grow it."))
	svc := New(mock, repo, nil)

	reply, err := svc.Chat(context.Background(), ChatRequest{
		Message: "where should I start?",
		Profile: profile.UserProfile{Reason: "career change", Hobbies: []string{"reading"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Start with a tiny project and grow it." {
		t.Errorf("reply = %q", reply)
	}
	if len(repo.msgs) != 2 {
		t.Fatalf("expected user+assistant persisted, got %d", len(repo.msgs))
	}
	if repo.msgs[0].Role != "user" || repo.msgs[1].Role != "assistant" {
		t.Errorf("persisted roles = %q, %q", repo.msgs[0].Role, repo.msgs[1].Role)
	}

	system := mock.Calls[0].System
	if !strings.Contains(system, "career change") || !strings.Contains(system, "reading") {
		t.Error("system prompt must carry the profile")
	}
}

func TestChat_SurvivesPersistenceFailure(t *testing.T) {
	repo := &memChatRepo{appendErr: errors.New("disk full")}
	svc := New(llm.NewMockProvider(textResponse("ok")), repo, nil)

	reply, err := svc.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if reply != "ok" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_ProviderFailureUsesApology(t *testing.T) {
	svc := New(llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")}), nil, nil)

	reply, err := svc.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "I'm sorry, I couldn't generate a response." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_RejectsBlankMessage(t *testing.T) {
	svc := New(llm.NewMockProvider(), nil, nil)
	if _, err := svc.Chat(context.Background(), ChatRequest{Message: "   "}); err == nil {
		t.Error("expected error for blank message")
	}
}

func TestRecentChat_ConvertsStoredTurns(t *testing.T) {
	repo := &memChatRepo{msgs: []store.ChatMessage{
		{Role: "user", Content: "q1"},
		{Role: "assistant", Content: "a1"},
	}}
	svc := New(llm.NewMockProvider(), repo, nil)

	msgs, err := svc.RecentChat(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != llm.RoleUser || msgs[1].Content != "a1" {
		t.Errorf("messages = %+v", msgs)
	}
}
