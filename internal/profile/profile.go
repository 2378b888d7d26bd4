package profile

import "strings"

// UserProfile holds the six answers collected by the onboarding survey.
// Fields may be blank; every consumer defaults them through BuildHooks.
type UserProfile struct {
	Reason           string   `json:"reason"`
	JobStatus        string   `json:"jobStatus"`
	CodingExperience string   `json:"codingExperience"`
	Captivates       string   `json:"captivates"`
	LearningGoal     string   `json:"learningGoal"`
	Hobbies          []string `json:"hobbies"`
}

// Hooks is the normalized, fully defaulted projection of a UserProfile
// used to personalize generated text. It is recomputed on demand and
// never stored.
type Hooks struct {
	Goal         string
	ShortGoal    string
	Reason       string
	JobStatus    string
	Experience   string
	Captivates   string
	Hobby        string // first non-blank hobby, empty when none
	ProjectLabel string
}

const fallbackProject = "personal side project"

// shortGoalMax is the rune length above which the goal is truncated.
const shortGoalMax = 60

// PrimaryHobby returns the first non-blank hobby, or "" when none exist.
func PrimaryHobby(p UserProfile) string {
	for _, h := range p.Hobbies {
		if s := strings.TrimSpace(h); s != "" {
			return s
		}
	}
	return ""
}

// BuildHooks derives a complete Hooks bundle from a possibly partial
// profile. It has no failure modes: blank fields get defaults.
func BuildHooks(p UserProfile) Hooks {
	goal := orDefault(p.LearningGoal, "ship a small interactive project")
	hobby := PrimaryHobby(p)

	projectLabel := fallbackProject
	if hobby != "" {
		projectLabel = hobby + " side project"
	}

	return Hooks{
		Goal:         goal,
		ShortGoal:    shorten(goal),
		Reason:       orDefault(p.Reason, "stay curious"),
		JobStatus:    orDefault(p.JobStatus, "learner"),
		Experience:   orDefault(p.CodingExperience, "beginner"),
		Captivates:   orDefault(p.Captivates, "problem solving"),
		Hobby:        hobby,
		ProjectLabel: projectLabel,
	}
}

// HobbyOrCaptivates returns the primary hobby, falling back to the
// (defaulted) captivates answer when the learner listed no hobbies.
func (h Hooks) HobbyOrCaptivates() string {
	if h.Hobby != "" {
		return h.Hobby
	}
	return h.Captivates
}

// shorten truncates goals longer than 60 runes to 57 runes plus an
// ellipsis, keeping headers and lesson titles bounded.
func shorten(goal string) string {
	runes := []rune(goal)
	if len(runes) <= shortGoalMax {
		return goal
	}
	return string(runes[:57]) + "…"
}

func orDefault(value, def string) string {
	if s := strings.TrimSpace(value); s != "" {
		return s
	}
	return def
}
