package blocks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
)

var testProfile = profile.UserProfile{
	Reason:           "career change",
	JobStatus:        "student",
	CodingExperience: "beginner",
	Captivates:       "building things",
	LearningGoal:     "become a full-stack developer",
	Hobbies:          []string{"reading"},
}

func planFor(t *testing.T, lessonType curriculum.LessonType) curriculum.LessonPlan {
	t.Helper()
	topics := curriculum.FallbackTopics(testProfile)
	hooks := profile.BuildHooks(testProfile)
	return curriculum.BuildPlan(topics[1], lessonType, 0, hooks, false, testProfile)
}

func countCorrect(options []QuizOption) int {
	n := 0
	for _, o := range options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

func TestBuild_TextLesson(t *testing.T) {
	out := Build(planFor(t, curriculum.LessonText), testProfile)
	if len(out) != 3 {
		t.Fatalf("text lesson must yield 3 blocks, got %d", len(out))
	}
	if out[0].BlockType() != TypeText || out[1].BlockType() != TypeText {
		t.Errorf("first two blocks must be text, got %v %v", out[0].BlockType(), out[1].BlockType())
	}

	plan := planFor(t, curriculum.LessonText)
	apply, ok := out[1].(TextBlock)
	if !ok {
		t.Fatalf("second block must be text, got %T", out[1])
	}
	if len(plan.QuickActions) == 0 || len(apply.QuickActions) != len(plan.QuickActions) {
		t.Errorf("apply block must reuse the plan's quick actions, got %v", apply.QuickActions)
	}

	quiz, ok := out[2].(QuizBlock)
	if !ok {
		t.Fatalf("third block must be a checkpoint quiz, got %T", out[2])
	}
	if countCorrect(quiz.Options) != 1 {
		t.Errorf("exactly one option must be correct, got %d", countCorrect(quiz.Options))
	}
	if !quiz.Options[0].IsCorrect {
		t.Error("the first option of the checkpoint quiz must be the correct one")
	}
}

func TestBuild_QuizLesson(t *testing.T) {
	out := Build(planFor(t, curriculum.LessonQuiz), testProfile)
	if len(out) != 3 {
		t.Fatalf("quiz lesson must yield 3 blocks, got %d", len(out))
	}
	if out[0].BlockType() != TypeText {
		t.Errorf("block 1 must be recap text, got %v", out[0].BlockType())
	}
	quiz, ok := out[1].(QuizBlock)
	if !ok {
		t.Fatalf("block 2 must be a quiz, got %T", out[1])
	}
	if countCorrect(quiz.Options) != 1 {
		t.Errorf("exactly one correct option, got %d", countCorrect(quiz.Options))
	}
	if out[2].BlockType() != TypeText {
		t.Errorf("block 3 must be wrap-up text, got %v", out[2].BlockType())
	}
}

func TestBuild_CodeLesson(t *testing.T) {
	out := Build(planFor(t, curriculum.LessonCode), testProfile)
	if len(out) != 3 {
		t.Fatalf("code lesson must yield 3 blocks, got %d", len(out))
	}
	code, ok := out[1].(CodeBlock)
	if !ok {
		t.Fatalf("block 2 must be code, got %T", out[1])
	}
	// "full-stack developer" implies a web goal.
	if code.Language != "javascript" {
		t.Errorf("language = %q, want javascript for a full-stack goal", code.Language)
	}
	if code.Starter == "" || code.Solution == "" {
		t.Error("starter and solution must both be populated")
	}
	if len(code.AcceptanceCriteria) == 0 {
		t.Error("code block needs acceptance criteria")
	}
}

func TestBuild_MentorLesson(t *testing.T) {
	out := Build(planFor(t, curriculum.LessonMentor), testProfile)
	if len(out) != 3 {
		t.Fatalf("mentor lesson must yield 3 blocks, got %d", len(out))
	}
	if out[0].BlockType() != TypeText {
		t.Errorf("block 1 must be warm-up text, got %v", out[0].BlockType())
	}
	explain, ok := out[1].(AiMentorBlock)
	if !ok || explain.Mode != "explain" {
		t.Fatalf("block 2 must be ai-mentor explain, got %T", out[1])
	}
	quiz, ok := out[2].(AiMentorBlock)
	if !ok || quiz.Mode != "quiz" {
		t.Fatalf("block 3 must be ai-mentor quiz, got %T", out[2])
	}
	if quiz.QuizGoal != 2 {
		t.Errorf("mentor quiz goal = %d, want 2", quiz.QuizGoal)
	}
}

func TestBuild_UnknownTypeDegradesToText(t *testing.T) {
	plan := planFor(t, curriculum.LessonType("video"))
	out := Build(plan, testProfile)
	if len(out) != 1 {
		t.Fatalf("unknown type must yield one default block, got %d", len(out))
	}
	if out[0].BlockType() != TypeText {
		t.Errorf("default block must be text, got %v", out[0].BlockType())
	}
}

func TestBlocks_JSONRoundTrip(t *testing.T) {
	original := Blocks(Build(planFor(t, curriculum.LessonMentor), testProfile))

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Blocks
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("round trip lost blocks: %d != %d", len(decoded), len(original))
	}
	for i := range decoded {
		if decoded[i].BlockType() != original[i].BlockType() {
			t.Errorf("block %d type changed: %v != %v", i, decoded[i].BlockType(), original[i].BlockType())
		}
	}

	quiz := decoded[2].(AiMentorBlock)
	if quiz.QuizGoal != 2 {
		t.Errorf("quizGoal lost in round trip: %d", quiz.QuizGoal)
	}
}

func TestBlocks_UnmarshalUnknownType(t *testing.T) {
	data := []byte(`[{"type":"hologram","title":"x"}]`)
	var b Blocks
	if err := json.Unmarshal(data, &b); err == nil {
		t.Fatal("expected error for unknown block type")
	} else if !strings.Contains(err.Error(), "hologram") {
		t.Errorf("error should name the unknown type: %v", err)
	}
}

func TestApplyCorrectIndices(t *testing.T) {
	opts := []QuizOption{
		{Text: "a", IsCorrect: true},
		{Text: "b"},
		{Text: "c"},
	}

	out := ApplyCorrectIndices(opts, []int{2})
	if countCorrect(out) != 1 || !out[2].IsCorrect {
		t.Errorf("index list must fully replace prior flags: %+v", out)
	}

	// Out-of-range indices fall back to marking the first option.
	out = ApplyCorrectIndices(opts, []int{7})
	if countCorrect(out) != 1 || !out[0].IsCorrect {
		t.Errorf("fallback must mark first option: %+v", out)
	}

	// Originals are untouched.
	if !opts[0].IsCorrect {
		t.Error("input slice must not be mutated")
	}
}
