package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/mentor"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(provider llm.Provider) *gin.Engine {
	return NewRouter(RouterConfig{
		Topics:   curriculum.NewService(provider),
		Hydrator: hydrate.New(provider),
		Mentor:   mentor.New(provider, nil, nil),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	w := doJSON(t, router, http.MethodGet, "/healthcheck", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w)["status"]; got != "ok" {
		t.Errorf("status field = %v", got)
	}
}

func TestTopics_FallsBackWhenProviderFails(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")}))

	w := doJSON(t, router, http.MethodPost, "/api/topics", map[string]any{
		"reason": "career change", "hobbies": []string{"reading"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["source"] != "fallback" {
		t.Errorf("source = %v", body["source"])
	}
	topics, ok := body["topics"].([]any)
	if !ok || len(topics) != 5 {
		t.Errorf("expected 5 fallback topics, got %v", body["topics"])
	}
}

func TestTopics_RejectsMalformedBody(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	req := httptest.NewRequest(http.MethodPost, "/api/topics", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRoadmap_BuildsFromProfile(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	w := doJSON(t, router, http.MethodPost, "/api/roadmap", map[string]any{
		"profile": map[string]any{"learningGoal": "build a personal site"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	topics, ok := body["roadmap"].([]any)
	if !ok || len(topics) != 5 {
		t.Fatalf("expected 5 fallback topics in roadmap, got %v", body["roadmap"])
	}
}

func TestLesson_ReturnsLocalBlocksOnProviderFailure(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider(llm.MockResponse{Err: errors.New("down")}))

	w := doJSON(t, router, http.MethodPost, "/api/lesson", map[string]any{
		"lessonId": "maps-text-0",
		"plan": map[string]any{
			"templateId": "text-foundation",
			"lessonType": "text",
			"topic":      "Maps",
			"title":      "Discover Maps",
		},
		"profile": map[string]any{"reason": "career change"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["source"] != "local" {
		t.Errorf("source = %v", body["source"])
	}
	blocks, ok := body["blocks"].([]any)
	if !ok || len(blocks) != 3 {
		t.Errorf("text lesson should fall back to 3 local blocks, got %v", body["blocks"])
	}
}

func TestLesson_RequiresPlan(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	w := doJSON(t, router, http.MethodPost, "/api/lesson", map[string]any{
		"profile": map[string]any{},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestMentorGuide_ReturnsFeedback(t *testing.T) {
	quoted, _ := json.Marshal("What does the loop variable hold on the last pass?")
	router := newTestRouter(llm.NewMockProvider(llm.MockResponse{Content: quoted}))

	w := doJSON(t, router, http.MethodPost, "/api/mentor/guide", map[string]any{
		"lessonContext": "loops",
		"proficiency":   "beginner",
		"userWork":      "for i in ...",
		"question":      "why off by one?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w)["feedback"]; got != "What does the loop variable hold on the last pass?" {
		t.Errorf("feedback = %v", got)
	}
}

func TestMentorGuide_MissingFieldsRejected(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	w := doJSON(t, router, http.MethodPost, "/api/mentor/guide", map[string]any{
		"lessonContext": "loops",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}

func TestMentorExaminer_ReturnsVerdictShape(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"passed":true,"feedback":"clean solution","deduct_heart":false}`),
	}))

	w := doJSON(t, router, http.MethodPost, "/api/mentor/examiner", map[string]any{
		"lessonContext": "sum numbers",
		"proficiency":   "beginner",
		"userCode":      "total := 0",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["passed"] != true || body["deduct_heart"] != false {
		t.Errorf("verdict = %v", body)
	}
}

func TestMentorChat_ReturnsResponse(t *testing.T) {
	quoted, _ := json.Marshal("Start small.")
	router := newTestRouter(llm.NewMockProvider(llm.MockResponse{Content: quoted}))

	w := doJSON(t, router, http.MethodPost, "/api/mentor/chat", map[string]any{
		"message":     "where do I start?",
		"userProfile": map[string]any{"reason": "career change"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w)["response"]; got != "Start small." {
		t.Errorf("response = %v", got)
	}
}

func TestMentorQuiz_AskAndAnswer(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"question":"What does a map store?"}`)},
		llm.MockResponse{Content: json.RawMessage(`{"correct":true,"feedback":"exactly"}`)},
	))

	w := doJSON(t, router, http.MethodPost, "/api/mentor/ai-quiz", map[string]any{
		"action":        "ask",
		"lessonContext": "collections",
		"topic":         "maps",
		"prompt":        "test intuition",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("ask status = %d", w.Code)
	}
	if got := decodeBody(t, w)["question"]; got != "What does a map store?" {
		t.Errorf("question = %v", got)
	}

	w = doJSON(t, router, http.MethodPost, "/api/mentor/ai-quiz", map[string]any{
		"action":        "answer",
		"lessonContext": "collections",
		"topic":         "maps",
		"question":      "What does a map store?",
		"answer":        "key to value pairs",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d", w.Code)
	}
	if got := decodeBody(t, w)["correct"]; got != true {
		t.Errorf("correct = %v", got)
	}
}

func TestMentorQuiz_UnsupportedAction(t *testing.T) {
	router := newTestRouter(llm.NewMockProvider())

	w := doJSON(t, router, http.MethodPost, "/api/mentor/ai-quiz", map[string]any{
		"action": "grade", "lessonContext": "x", "topic": "y",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
}
