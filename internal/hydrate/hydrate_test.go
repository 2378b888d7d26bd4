package hydrate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/profile"
)

var testProfile = profile.UserProfile{
	Reason:       "career change",
	JobStatus:    "student",
	LearningGoal: "become a full-stack developer",
	Hobbies:      []string{"reading"},
}

func testRequest(t *testing.T) Request {
	t.Helper()
	topics := curriculum.FallbackTopics(testProfile)
	hooks := profile.BuildHooks(testProfile)
	plan := curriculum.BuildPlan(topics[1], curriculum.LessonText, 0, hooks, false, testProfile)
	return Request{
		LessonID:  "test-lesson-0",
		Plan:      plan,
		Profile:   testProfile,
		Blueprint: topics[1],
	}
}

func llmBlocksPayload(t *testing.T) json.RawMessage {
	t.Helper()
	payload := map[string]any{
		"blocks": []any{
			map[string]any{"type": "text", "title": "Hook", "markdown": "Two tight paragraphs."},
			map[string]any{
				"type": "quiz", "title": "Check", "recap": "r", "scenario": "s", "question": "q",
				"options": []any{
					map[string]any{"text": "right", "isCorrect": true, "explanation": "yes"},
					map[string]any{"text": "wrong", "isCorrect": false, "explanation": "no"},
				},
				"penalty_hearts": 1,
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestHydrate_UsesLLMBlocks(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: llmBlocksPayload(t)})
	h := New(mock)

	res, err := h.Hydrate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceLLM {
		t.Fatalf("source = %q, want llm", res.Source)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(res.Blocks))
	}
	quiz, ok := res.Blocks[1].(blocks.QuizBlock)
	if !ok {
		t.Fatalf("second block should be quiz, got %T", res.Blocks[1])
	}
	if !quiz.Options[0].IsCorrect || quiz.Options[1].IsCorrect {
		t.Errorf("correctness flags lost in normalization: %+v", quiz.Options)
	}
}

func TestHydrate_FallsBackOnProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	h := New(mock)

	res, err := h.Hydrate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if res.Source != SourceLocal {
		t.Fatalf("source = %q, want local fallback", res.Source)
	}
	if len(res.Blocks) == 0 {
		t.Fatal("fallback must produce blocks")
	}
}

func TestHydrate_FallsBackOnMalformedPayload(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"blocks":"not an array"}`)})
	h := New(mock)

	res, err := h.Hydrate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceLocal {
		t.Fatalf("source = %q, want local fallback", res.Source)
	}
}

func TestHydrate_NilProviderUsesLocalBuilder(t *testing.T) {
	h := New(nil)
	res, err := h.Hydrate(context.Background(), testRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != SourceLocal {
		t.Fatalf("source = %q, want local", res.Source)
	}
}

func TestHydrate_StaleRequestSuperseded(t *testing.T) {
	h := New(nil)
	req := testRequest(t)

	// Simulate an older in-flight request: its token predates a newer
	// begin for the same lesson.
	oldToken := h.begin(req.LessonID)
	h.begin(req.LessonID)

	if h.current(req.LessonID, oldToken) {
		t.Fatal("old token must be invalidated by a newer request")
	}

	// A fresh Hydrate call wins and completes normally.
	if _, err := h.Hydrate(context.Background(), req); err != nil {
		t.Fatalf("newest request must succeed: %v", err)
	}
}

func TestHydrate_TokensArePerLesson(t *testing.T) {
	h := New(nil)
	a := h.begin("lesson-a")
	h.begin("lesson-b")

	if !h.current("lesson-a", a) {
		t.Error("a request for one lesson must not invalidate another lesson's token")
	}
}

func TestNormalizeBlocks_CorrectIndexList(t *testing.T) {
	payload := []byte(`{"blocks":[{
		"type":"quiz","title":"t","recap":"r","scenario":"s","question":"q",
		"options":[{"text":"a","explanation":"e"},{"text":"b","explanation":"e"},{"text":"c","explanation":"e"}],
		"correct":[1]
	}]}`)

	out, err := normalizeBlocks(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	quiz := out[0].(blocks.QuizBlock)
	if quiz.Options[1].IsCorrect != true || quiz.Options[0].IsCorrect || quiz.Options[2].IsCorrect {
		t.Errorf("index list not applied: %+v", quiz.Options)
	}
	if quiz.PenaltyHearts != 1 {
		t.Errorf("missing penalty must default to 1, got %d", quiz.PenaltyHearts)
	}
	if quiz.Kind != "single" {
		t.Errorf("missing kind must default to single, got %q", quiz.Kind)
	}
}

func TestNormalizeBlocks_QuizWithoutOptionsRejected(t *testing.T) {
	payload := []byte(`{"blocks":[{"type":"quiz","title":"t","options":[]}]}`)
	if _, err := normalizeBlocks(payload); err == nil {
		t.Fatal("expected error for quiz without options")
	}
}

func TestNormalizeBlocks_UnknownTypeBecomesText(t *testing.T) {
	payload := []byte(`{"blocks":[{"type":"diagram","title":"t","markdown":"m"}]}`)
	out, err := normalizeBlocks(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out[0].BlockType() != blocks.TypeText {
		t.Errorf("unknown type must degrade to text, got %v", out[0].BlockType())
	}
}

func TestNormalizeBlocks_MentorModeDefaulted(t *testing.T) {
	payload := []byte(`{"blocks":[{"type":"ai-mentor","title":"t","mode":"weird","persona":"p","prompt":"pr","topic":"x","lessonContext":"c"}]}`)
	out, err := normalizeBlocks(payload)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	mentor := out[0].(blocks.AiMentorBlock)
	if mentor.Mode != "explain" {
		t.Errorf("invalid mode must default to explain, got %q", mentor.Mode)
	}
}
