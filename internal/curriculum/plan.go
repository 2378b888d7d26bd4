package curriculum

import (
	"fmt"

	"github.com/viament/viament/internal/profile"
)

// LessonType tags a lesson plan with its pedagogical shape.
type LessonType string

const (
	LessonText   LessonType = "text"
	LessonQuiz   LessonType = "quiz"
	LessonCode   LessonType = "code"
	LessonMentor LessonType = "mentor"
)

// Template ids consumed by the block builder and the remote hydrator.
const (
	TemplateTextFoundation = "text-foundation"
	TemplateTextDeepening  = "text-deepening"
	TemplateQuizScenario   = "quiz-scenario"
	TemplateCodePlan       = "code-plan"
	TemplateMentorDuo      = "mentor-duo"
)

// LessonPlan is the immutable recipe for one lesson slot. Built once by
// BuildPlan and then consumed by the block builder or the hydrator.
type LessonPlan struct {
	TemplateID       string     `json:"templateId"`
	LessonType       LessonType `json:"lessonType"`
	Topic            string     `json:"topic"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Focus            string     `json:"focus"`
	LessonGoal       string     `json:"lessonGoal"`
	ReasonHook       string     `json:"reasonHook"`
	HobbyInfusion    string     `json:"hobbyInfusion"`
	AssessmentFocus  string     `json:"assessmentFocus"`
	TopicBlueprintID string     `json:"topicBlueprintId,omitempty"`

	// Type-specific fields. Exactly the set belonging to LessonType is
	// populated; the rest stay empty.
	Scenario     string   `json:"scenario,omitempty"`
	QuickActions []string `json:"quickActions,omitempty"`
	SnippetTag   string   `json:"snippetTag,omitempty"`
	Persona      string   `json:"persona,omitempty"`
	Prompt       string   `json:"prompt,omitempty"`
	Emphasis     string   `json:"emphasis,omitempty"`
}

// titlePrefixes rotate per lesson type purely for variety. The prefix
// for a slot is prefixes[lessonIndex mod len], so titles stay
// deterministic for a given index.
var titlePrefixes = map[LessonType][]string{
	LessonText:   {"Discover", "Deepen", "Connect"},
	LessonQuiz:   {"Checkpoint", "Challenge", "Prove It"},
	LessonCode:   {"Build", "Refine", "Ship"},
	LessonMentor: {"Talk Through", "Coach Session", "Pair Up"},
}

// BuildPlan creates the plan for one lesson slot. Pure and total: every
// input combination yields a complete plan.
func BuildPlan(topic TopicBlueprint, lessonType LessonType, lessonIndex int, hooks profile.Hooks, isIntroTopic bool, p profile.UserProfile) LessonPlan {
	prefixes, ok := titlePrefixes[lessonType]
	if !ok {
		prefixes = titlePrefixes[LessonText]
	}
	prefix := prefixes[lessonIndex%len(prefixes)]
	hobby := hooks.HobbyOrCaptivates()

	plan := LessonPlan{
		TemplateID:       templateIDFor(lessonType, isIntroTopic, lessonIndex),
		LessonType:       lessonType,
		Topic:            topic.Title,
		Title:            fmt.Sprintf("%s %s - %s", prefix, topic.Title, hooks.ShortGoal),
		Description:      fmt.Sprintf("A lesson on %s to help you with %s, because you are motivated by %s. We'll connect this to your interest in %s.", topic.Title, hooks.Goal, hooks.Reason, hobby),
		Focus:            profile.DisciplineLabel(p),
		LessonGoal:       fmt.Sprintf("Understand %s to achieve %s", topic.Title, hooks.ShortGoal),
		ReasonHook:       hooks.Reason,
		HobbyInfusion:    hobby,
		AssessmentFocus:  "core concepts",
		TopicBlueprintID: topic.ID,
	}

	switch lessonType {
	case LessonQuiz:
		plan.Scenario = fmt.Sprintf("You are applying %s to a %s moment in your %s life.", topic.Title, hobby, hooks.JobStatus)
	case LessonCode:
		plan.SnippetTag = profile.DeriveLanguage(p)
	case LessonMentor:
		plan.Persona = fmt.Sprintf("An encouraging mentor who shares your interest in %s", hobby)
		plan.Prompt = fmt.Sprintf("Help the learner connect %s to %s, meeting them at a %s level.", topic.Title, hooks.ShortGoal, hooks.Experience)
	default:
		plan.Emphasis = fmt.Sprintf("why %s unlocks %s", topic.Title, hooks.ShortGoal)
		plan.QuickActions = []string{
			fmt.Sprintf("Spot %s in %s.", topic.Title, hooks.ProjectLabel),
			"Note one question for the mentor.",
		}
	}

	return plan
}

func templateIDFor(lessonType LessonType, isIntro bool, lessonIndex int) string {
	switch lessonType {
	case LessonText:
		if isIntro && lessonIndex == 0 {
			return TemplateTextFoundation
		}
		return TemplateTextDeepening
	case LessonQuiz:
		return TemplateQuizScenario
	case LessonCode:
		return TemplateCodePlan
	default:
		return TemplateMentorDuo
	}
}
