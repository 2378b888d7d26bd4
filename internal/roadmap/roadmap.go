// Package roadmap assembles the ordered lesson roadmap from a profile
// and its topic blueprints.
package roadmap

import (
	"fmt"
	"regexp"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
)

// StageStatus is the lifecycle state of a lesson node.
type StageStatus string

const (
	StatusLocked    StageStatus = "locked"
	StatusUnlocked  StageStatus = "unlocked"
	StatusCompleted StageStatus = "completed"
)

// Lesson is a fully described lesson slot: its plan plus the content
// blocks once hydrated (Blocks stays empty until then).
type Lesson struct {
	ID               string                `json:"id"`
	Track            string                `json:"track"`
	Chapter          string                `json:"chapter"`
	Title            string                `json:"title"`
	EstimatedMinutes int                   `json:"estimated_minutes"`
	XPReward         int                   `json:"xp_reward"`
	Prerequisites    []string              `json:"prerequisites"`
	Blocks           blocks.Blocks         `json:"blocks"`
	Plan             curriculum.LessonPlan `json:"plan"`
}

// LessonSummary is the roadmap node for one lesson. Status is the only
// mutable field; it moves Locked to Unlocked to Completed and never
// reverts.
type LessonSummary struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Status StageStatus `json:"status"`
	Lesson Lesson      `json:"lesson"`
}

// Topic groups a blueprint with its generated lessons.
type Topic struct {
	Blueprint curriculum.TopicBlueprint `json:"topicBlueprint"`
	Summary   string                    `json:"topicSummary"`
	Lessons   []LessonSummary           `json:"lessons"`
}

// Roadmap is the full ordered curriculum, topic-major.
type Roadmap []Topic

var introPattern = regexp.MustCompile(`(?i)intro|fundament|overview|basic`)

// baseSequence is the lesson-type cycle. Intro topics use it as-is so
// they always open with text; other topics rotate it by topic index for
// variety across consecutive topics.
var baseSequence = []curriculum.LessonType{
	curriculum.LessonText,
	curriculum.LessonQuiz,
	curriculum.LessonCode,
	curriculum.LessonMentor,
}

const (
	introLessonCount   = 3
	defaultLessonCount = 4
	estimatedMinutes   = 10
)

// XPForLessonType returns the fixed reward for completing a lesson of
// the given type. The values encode relative effort and feed directly
// into the scoring totals, so they never vary by topic or position.
func XPForLessonType(lessonType curriculum.LessonType) int {
	switch lessonType {
	case curriculum.LessonCode:
		return 30
	case curriculum.LessonQuiz:
		return 22
	case curriculum.LessonMentor:
		return 18
	default:
		return 16
	}
}

// IsIntroTopic reports whether a topic title matches the intro pattern.
func IsIntroTopic(title string) bool {
	return introPattern.MatchString(title)
}

func rotateSequence(shift int) []curriculum.LessonType {
	out := make([]curriculum.LessonType, len(baseSequence))
	for i := range baseSequence {
		out[i] = baseSequence[(i+shift)%len(baseSequence)]
	}
	return out
}

// Build produces the full roadmap. When topics is empty, the fallback
// blueprint generator supplies them, so an empty topic list is never an
// error. The first lesson of the first topic starts Unlocked; everything
// else starts Locked.
func Build(p profile.UserProfile, topics []curriculum.TopicBlueprint) Roadmap {
	if len(topics) == 0 {
		topics = curriculum.FallbackTopics(p)
	}

	hooks := profile.BuildHooks(p)
	out := make(Roadmap, 0, len(topics))

	for topicIndex, topic := range topics {
		isIntro := IsIntroTopic(topic.Title)

		lessonCount := defaultLessonCount
		sequence := rotateSequence(topicIndex % len(baseSequence))
		if isIntro {
			lessonCount = introLessonCount
			sequence = baseSequence
		}

		lessons := make([]LessonSummary, 0, lessonCount)
		for i := 0; i < lessonCount; i++ {
			lessonType := sequence[i%len(sequence)]
			plan := curriculum.BuildPlan(topic, lessonType, i, hooks, isIntro, p)

			lesson := Lesson{
				ID:               fmt.Sprintf("%s-%s-%d", curriculum.Slugify(topic.Title), lessonType, i),
				Track:            topic.Title,
				Chapter:          topic.Title,
				Title:            plan.Title,
				EstimatedMinutes: estimatedMinutes,
				XPReward:         XPForLessonType(lessonType),
				Prerequisites:    []string{},
				Blocks:           blocks.Blocks{},
				Plan:             plan,
			}

			status := StatusLocked
			if topicIndex == 0 && i == 0 {
				status = StatusUnlocked
			}

			lessons = append(lessons, LessonSummary{
				ID:     lesson.ID,
				Title:  lesson.Title,
				Status: status,
				Lesson: lesson,
			})
		}

		out = append(out, Topic{
			Blueprint: topic,
			Summary: fmt.Sprintf(
				"A series of lessons on %s to help you with your goal of %s. This topic matters because %s. We will connect this to your interest in %s.",
				topic.Title, hooks.Goal, topic.WhyItMatters, topic.HobbyHook,
			),
			Lessons: lessons,
		})
	}

	return out
}

// Find returns a pointer to the lesson summary with the given id, or
// nil when absent. The pointer aliases the roadmap so callers can
// mutate status in place.
func (r Roadmap) Find(lessonID string) *LessonSummary {
	for t := range r {
		for l := range r[t].Lessons {
			if r[t].Lessons[l].ID == lessonID {
				return &r[t].Lessons[l]
			}
		}
	}
	return nil
}

// TotalLessons counts every lesson across all topics.
func (r Roadmap) TotalLessons() int {
	n := 0
	for _, t := range r {
		n += len(t.Lessons)
	}
	return n
}

// TopicLocked reports whether a topic is closed for selection: a topic
// is locked when any lesson of the previous topic is not completed. The
// first topic is never locked.
func (r Roadmap) TopicLocked(topicIndex int) bool {
	if topicIndex <= 0 || topicIndex >= len(r) {
		return false
	}
	for _, lesson := range r[topicIndex-1].Lessons {
		if lesson.Status != StatusCompleted {
			return true
		}
	}
	return false
}
