package profile

import (
	"regexp"
	"strings"
)

// disciplineRule maps a goal keyword pattern to a discipline label.
// Rules are evaluated in order and the first match wins — the order is a
// tie-break policy, not an accident. "backend web api" classifies as
// Frontend Engineering only if a frontend keyword appears first, so keep
// the list stable.
type disciplineRule struct {
	pattern *regexp.Regexp
	label   string
}

var disciplineRules = []disciplineRule{
	{regexp.MustCompile(`(?i)frontend|react|ui|javascript`), "Frontend Engineering"},
	{regexp.MustCompile(`(?i)backend|api|python|fastapi`), "Backend Foundations"},
	{regexp.MustCompile(`(?i)data|analysis|ml|ai`), "Data & AI"},
	{regexp.MustCompile(`(?i)mobile|ios|android`), "Mobile Development"},
	{regexp.MustCompile(`(?i)game`), "Game Programming"},
}

// DisciplineLabel classifies the learning goal into a human-readable
// discipline. An empty goal yields "Programming"; an unmatched goal is
// capitalized up to its first comma, colon, or dash.
func DisciplineLabel(p UserProfile) string {
	goal := strings.TrimSpace(p.LearningGoal)
	if goal == "" {
		return "Programming"
	}

	for _, rule := range disciplineRules {
		if rule.pattern.MatchString(goal) {
			return rule.label
		}
	}

	clause := splitClause(goal)
	if clause == "" {
		return "Programming"
	}
	return capitalizeWords(clause)
}

// IntroTopicTitle names the first curriculum topic for a profile.
func IntroTopicTitle(p UserProfile) string {
	return "Introduction to " + DisciplineLabel(p) + " Concepts"
}

// languageRule maps goal keywords to a starter-code language for code
// blocks. Same ordered first-match policy as disciplineRules.
type languageRule struct {
	pattern  *regexp.Regexp
	language string
}

var languageRules = []languageRule{
	{regexp.MustCompile(`(?i)frontend|react|javascript|web|full.?stack`), "javascript"},
	{regexp.MustCompile(`(?i)backend|python|fastapi|data|ml|ai`), "python"},
	{regexp.MustCompile(`(?i)ios|swift`), "swift"},
	{regexp.MustCompile(`(?i)android|kotlin`), "kotlin"},
	{regexp.MustCompile(`(?i)game|unity|c#`), "csharp"},
}

// DeriveLanguage picks the scaffolding language for code exercises from
// the learning goal. Unmatched goals fall back to language-neutral
// pseudocode so the exercise stays adaptable.
func DeriveLanguage(p UserProfile) string {
	goal := strings.TrimSpace(p.LearningGoal)
	if goal == "" {
		return "pseudocode"
	}
	for _, rule := range languageRules {
		if rule.pattern.MatchString(goal) {
			return rule.language
		}
	}
	return "pseudocode"
}

var clauseSplit = regexp.MustCompile(`[,:-]`)

func splitClause(goal string) string {
	return strings.TrimSpace(clauseSplit.Split(goal, 2)[0])
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
