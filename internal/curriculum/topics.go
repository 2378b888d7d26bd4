package curriculum

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/profile"
)

const (
	// SourceLLM marks topics produced by the configured provider.
	SourceLLM = "llm"
	// SourceFallback marks topics from the deterministic generator.
	SourceFallback = "fallback"
)

// minTopics is the smallest LLM topic list we accept before falling back.
const minTopics = 5

var topicsSchema = &llm.Schema{
	Name:        "topics-response",
	Description: "Ordered curriculum topic titles for a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"topics"},
	},
}

// Service generates topic blueprints, preferring the LLM and silently
// degrading to FallbackTopics on any failure.
type Service struct {
	provider llm.Provider
}

// NewService creates a topic generation service. A nil provider is
// allowed and forces the fallback path.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Generate returns an ordered topic list for the profile plus a source
// label. Failures never surface to the caller: a broken or missing
// provider, malformed output, or a too-short list all produce the
// deterministic fallback instead.
func (s *Service) Generate(ctx context.Context, p profile.UserProfile) ([]TopicBlueprint, string) {
	if s.provider == nil {
		return FallbackTopics(p), SourceFallback
	}

	ctx = llm.WithPurpose(ctx, "topic-gen")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      topicsSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: topicsUserPrompt(p)}},
		Schema:      topicsSchema,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return FallbackTopics(p), SourceFallback
	}

	var parsed struct {
		Topics []string `json:"topics"`
	}
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return FallbackTopics(p), SourceFallback
	}

	titles := lo.Uniq(lo.FilterMap(parsed.Topics, func(t string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(t)
		return trimmed, trimmed != ""
	}))
	if len(titles) < minTopics {
		return FallbackTopics(p), SourceFallback
	}

	return blueprintsFromTitles(titles, p), SourceLLM
}

// blueprintsFromTitles wraps bare LLM titles in full blueprints using
// the same personalization hooks as the fallback generator.
func blueprintsFromTitles(titles []string, p profile.UserProfile) []TopicBlueprint {
	hooks := profile.BuildHooks(p)
	hobby := hooks.HobbyOrCaptivates()

	why := fmt.Sprintf("This matters because %s is what brought you here, and as a %s every lesson compounds.", hooks.Reason, hooks.JobStatus)
	hook := fmt.Sprintf("We will anchor examples in %s so the concepts stick.", hobby)

	out := make([]TopicBlueprint, len(titles))
	for i, title := range titles {
		out[i] = TopicBlueprint{
			ID:                   fmt.Sprintf("%s-%d", Slugify(title), i),
			Title:                title,
			Tagline:              fmt.Sprintf("A step toward %s", hooks.ShortGoal),
			WhyItMatters:         why,
			SkillsToUnlock:       []string{"core foundations"},
			HobbyHook:            hook,
			TargetExperience:     hooks.Experience,
			RecommendedArtifacts: []string{"streak challenges", "mentor chats"},
		}
	}
	return out
}

const topicsSystemPrompt = "You are a curriculum generator. Produce 5-7 topics ordered from foundational to advanced. Each topic must be self-contained, specific, and reference the learner's context (reason, job, hobby, goal)."

func topicsUserPrompt(p profile.UserProfile) string {
	hobbies := strings.Join(p.Hobbies, ", ")
	if hobbies == "" {
		hobbies = "None listed"
	}
	return fmt.Sprintf(`Learner profile:
- Reason: %s
- Job status: %s
- Coding experience: %s
- Captivated by: %s
- Learning goal: %s
- Hobbies: %s

Return only topic titles (no descriptions). Ensure the list covers fundamentals, practice, and review.`,
		p.Reason, p.JobStatus, p.CodingExperience, p.Captivates, p.LearningGoal, hobbies)
}
