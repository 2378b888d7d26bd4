// Package hydrate fills a lesson's content blocks from the LLM, with
// the deterministic local builder as silent fallback. Responses are
// guarded by per-lesson request tokens so a superseding request can
// never be overwritten by a stale one.
package hydrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/profile"
)

const (
	// SourceLLM marks blocks produced by the configured provider.
	SourceLLM = "llm"
	// SourceLocal marks blocks from the deterministic builder.
	SourceLocal = "local"
)

// ErrSuperseded means a newer hydration request for the same lesson
// started while this one was in flight; the result must be discarded.
var ErrSuperseded = errors.New("hydration superseded by a newer request")

// Request identifies one hydration call.
type Request struct {
	LessonID  string
	Plan      curriculum.LessonPlan
	Profile   profile.UserProfile
	Blueprint curriculum.TopicBlueprint
}

// Result carries the generated blocks and where they came from.
type Result struct {
	Blocks blocks.Blocks
	Source string
}

// Hydrator generates lesson blocks. Safe for concurrent use.
type Hydrator struct {
	provider llm.Provider

	mu     sync.Mutex
	tokens map[string]uint64 // lesson id -> latest issued token
}

// New creates a Hydrator. A nil provider forces the local path.
func New(provider llm.Provider) *Hydrator {
	return &Hydrator{
		provider: provider,
		tokens:   make(map[string]uint64),
	}
}

// Hydrate produces the block sequence for a lesson. Provider failures
// degrade to the local builder; only a superseding request surfaces an
// error, and that result must be thrown away by the caller.
func (h *Hydrator) Hydrate(ctx context.Context, req Request) (Result, error) {
	token := h.begin(req.LessonID)

	result := h.generate(ctx, req)

	if !h.current(req.LessonID, token) {
		return Result{}, ErrSuperseded
	}
	return result, nil
}

func (h *Hydrator) generate(ctx context.Context, req Request) Result {
	if h.provider == nil {
		return Result{Blocks: blocks.Build(req.Plan, req.Profile), Source: SourceLocal}
	}

	ctx = llm.WithPurpose(ctx, "lesson-hydrate")
	resp, err := h.provider.Generate(ctx, llm.Request{
		System:      hydrateSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: hydratePrompt(req)}},
		Schema:      blocksSchema,
		MaxTokens:   4096,
		Temperature: 0.7,
	})
	if err != nil {
		return Result{Blocks: blocks.Build(req.Plan, req.Profile), Source: SourceLocal}
	}

	decoded, err := normalizeBlocks(resp.Content)
	if err != nil || len(decoded) == 0 {
		return Result{Blocks: blocks.Build(req.Plan, req.Profile), Source: SourceLocal}
	}
	return Result{Blocks: decoded, Source: SourceLLM}
}

// begin issues a new monotonically increasing token for the lesson and
// makes it the current one, invalidating any in-flight request.
func (h *Hydrator) begin(lessonID string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens[lessonID]++
	return h.tokens[lessonID]
}

// current reports whether token is still the lesson's newest request.
func (h *Hydrator) current(lessonID string, token uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tokens[lessonID] == token
}

var blocksSchema = &llm.Schema{
	Name:        "lesson-blocks",
	Description: "Ordered pedagogical content blocks for one lesson",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"blocks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"text", "quiz", "code", "ai-mentor"},
						},
					},
					"required": []any{"type"},
				},
			},
		},
		"required": []any{"blocks"},
	},
}

const hydrateSystemPrompt = "You are ViaMent's curriculum architect. Follow the persona-first workflow and output only JSON. Teach inside the lesson; never tell the learner to practice later. Keep paragraphs under 80 words, use a confident mentor voice, and never output placeholders."

func hydratePrompt(req Request) string {
	hooks := profile.BuildHooks(req.Profile)
	hobbies := strings.Join(req.Profile.Hobbies, ", ")
	if hobbies == "" {
		hobbies = "their interests"
	}
	skills := joinOrFallback(req.Blueprint.SkillsToUnlock, "core foundations")
	artifacts := joinOrFallback(req.Blueprint.RecommendedArtifacts, "streak challenges and mentor chats")

	var b strings.Builder
	fmt.Fprintf(&b, `Learner Persona:
- Role: %s
- Experience: %s
- Motivation: %s
- Captivated by: %s
- Learning goal: %s
- Hobbies / inspiration wells: %s

Topic Blueprint Snapshot:
- Topic: %s
- Tagline: %s
- Why it matters: %s
- Hobby hook: %s
- Skills to unlock: %s
- Recommended artifacts: %s

Lesson Plan Inputs:
- Lesson template: %s (%s)
- Lesson goal: %s
- Reason hook: %s
- Hobby infusion: %s
- Assessment focus: %s
- Lesson description: %s

`,
		hooks.JobStatus, hooks.Experience, hooks.Reason, hooks.Captivates, hooks.Goal, hobbies,
		req.Blueprint.Title, req.Blueprint.Tagline, req.Blueprint.WhyItMatters, req.Blueprint.HobbyHook, skills, artifacts,
		req.Plan.TemplateID, req.Plan.LessonType, req.Plan.LessonGoal, req.Plan.ReasonHook, req.Plan.HobbyInfusion, req.Plan.AssessmentFocus, req.Plan.Description,
	)

	switch req.Plan.LessonType {
	case curriculum.LessonQuiz:
		fmt.Fprintf(&b, `Lesson Template: Scenario Drills (Quiz)
- Block 1: type "text". Recap %s with an example from %s life and %s.
- Blocks 2-3: type "quiz". Scenario leans on %s, 3-4 options each with exactly one correct, penalty_hearts 1, personalized explanations.
- Block 4: type "ai-mentor" with mode "quiz" and quizGoal 1.

Return JSON with the 4 blocks in this order.`,
			req.Plan.Topic, hooks.JobStatus, req.Plan.HobbyInfusion, req.Plan.HobbyInfusion)
	case curriculum.LessonCode:
		fmt.Fprintf(&b, `Lesson Template: Guided Build (Code)
- Block 1: type "text". The mentor narrates a micro snippet tied to %s.
- Block 2: type "code". A 2-6 line snippet with starter, solution, 3 acceptance criteria, and a reflectionPrompt starting with "Consider". Set language to the stack implied by the learning goal.
- Block 3: type "quiz". One question, 4 options, exactly one correct, penalty_hearts 1.
- Block 4: type "ai-mentor" with mode "quiz" and quizGoal 1.

Return JSON with the blocks ordered 1-4 as described.`,
			req.Plan.LessonGoal)
	case curriculum.LessonMentor:
		fmt.Fprintf(&b, `Lesson Template: Mentor Dialogue
- Block 1: type "text" covering why %s matters for %s.
- Block 2: type "ai-mentor" with mode "explain", persona, lessonContext, prompt, and suggestedQuestions.
- Block 3: type "ai-mentor" with mode "quiz" and quizGoal 2.

Return JSON with these three blocks.`,
			req.Plan.Topic, hooks.Goal)
	default:
		fmt.Fprintf(&b, `Lesson Template: Narrated Concept Sprint (Text)
- Blocks 1-3: type "text". Hook and context, concept walkthrough, then an applied mini-scenario flavored by %s. Each with 2-3 mentor microSteps.
- Block 4: type "ai-mentor" with mode "explain" and 2-3 suggestedQuestions aligned to %s.

Return JSON with the 4 blocks in this order.`,
			hooks.Captivates, req.Plan.AssessmentFocus)
	}

	return b.String()
}

func joinOrFallback(values []string, fallback string) string {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			filtered = append(filtered, s)
		}
	}
	if len(filtered) == 0 {
		return fallback
	}
	return strings.Join(filtered, ", ")
}
