// Package curriculum generates topic blueprints: the ordered list of
// subjects a learner's roadmap is built from. Topics come from an LLM
// when one is configured and from a deterministic profile-derived
// fallback otherwise.
package curriculum

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/viament/viament/internal/profile"
)

// TopicBlueprint is a proposed curriculum topic with rationale and
// personalization hooks, prior to lesson expansion.
type TopicBlueprint struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Tagline              string   `json:"tagline"`
	WhyItMatters         string   `json:"whyItMatters"`
	SkillsToUnlock       []string `json:"skillsToUnlock"`
	HobbyHook            string   `json:"hobbyHook"`
	TargetExperience     string   `json:"targetExperience"`
	RecommendedArtifacts []string `json:"recommendedArtifacts"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, collapses runs of non-alphanumeric characters to
// a single hyphen, and trims leading/trailing hyphens.
func Slugify(value string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(s, "-")
}

// FallbackTopics builds the deterministic five-topic progression for a
// profile. Ordering is a pedagogical invariant: introduction, then data
// fundamentals, then control flow, then practical patterns, then a
// capstone that applies the discipline to the learner's own goal.
func FallbackTopics(p profile.UserProfile) []TopicBlueprint {
	hooks := profile.BuildHooks(p)
	discipline := profile.DisciplineLabel(p)
	hobby := hooks.HobbyOrCaptivates()

	why := fmt.Sprintf("This matters because %s is what brought you here, and as a %s every lesson compounds.", hooks.Reason, hooks.JobStatus)
	hook := fmt.Sprintf("We will anchor examples in %s so the concepts stick.", hobby)

	projectLabel := "Side Projects"
	if h := profile.PrimaryHobby(p); h != "" {
		projectLabel = "Projects Inspired by " + h
	}

	titles := []struct {
		title   string
		tagline string
		skills  []string
	}{
		{
			title:   profile.IntroTopicTitle(p),
			tagline: "Get oriented before diving deep",
			skills:  []string{"core vocabulary", "mental models"},
		},
		{
			title:   discipline + " Fundamentals: Variables & Data Types",
			tagline: "The raw material every program is made of",
			skills:  []string{"variables", "data types"},
		},
		{
			title:   discipline + " Control Flow Foundations",
			tagline: "Teach your programs to make decisions",
			skills:  []string{"conditionals", "loops"},
		},
		{
			title:   fmt.Sprintf("Practical %s Patterns for %s", discipline, projectLabel),
			tagline: "Patterns you will reuse in every build",
			skills:  []string{"composition", "common patterns"},
		},
		{
			title:   fmt.Sprintf("Applying %s to %s", discipline, hooks.ShortGoal),
			tagline: "Put everything together on your own goal",
			skills:  []string{"project planning", "applied practice"},
		},
	}

	out := make([]TopicBlueprint, len(titles))
	for i, t := range titles {
		out[i] = TopicBlueprint{
			ID:                   fmt.Sprintf("%s-%d", Slugify(t.title), i),
			Title:                t.title,
			Tagline:              t.tagline,
			WhyItMatters:         why,
			SkillsToUnlock:       t.skills,
			HobbyHook:            hook,
			TargetExperience:     hooks.Experience,
			RecommendedArtifacts: []string{"streak challenges", "mentor chats"},
		}
	}
	return out
}
