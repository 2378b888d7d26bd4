// Package survey collects the six onboarding answers that seed the
// learner profile. Every question may be skipped; blanks get defaults
// downstream.
package survey

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/router"
	"github.com/viament/viament/internal/screen"
	"github.com/viament/viament/internal/screens/topics"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/layout"
	"github.com/viament/viament/internal/ui/theme"
)

type question struct {
	prompt string
	hint   string
	apply  func(*profile.UserProfile, string)
}

var questions = []question{
	{
		prompt: "Why do you want to learn to code?",
		hint:   "career change, curiosity, a project you dream about...",
		apply:  func(p *profile.UserProfile, v string) { p.Reason = v },
	},
	{
		prompt: "What best describes your current situation?",
		hint:   "student, working full-time, between jobs...",
		apply:  func(p *profile.UserProfile, v string) { p.JobStatus = v },
	},
	{
		prompt: "How much coding have you done before?",
		hint:   "none, a little scripting, a course or two...",
		apply:  func(p *profile.UserProfile, v string) { p.CodingExperience = v },
	},
	{
		prompt: "What kind of problems captivate you?",
		hint:   "puzzles, design, automation, data...",
		apply:  func(p *profile.UserProfile, v string) { p.Captivates = v },
	},
	{
		prompt: "What do you want to be able to build?",
		hint:   "a website, an app, games, tools for work...",
		apply:  func(p *profile.UserProfile, v string) { p.LearningGoal = v },
	},
	{
		prompt: "What are your hobbies? (comma separated)",
		hint:   "reading, football, cooking...",
		apply: func(p *profile.UserProfile, v string) {
			for _, h := range strings.Split(v, ",") {
				if t := strings.TrimSpace(h); t != "" {
					p.Hobbies = append(p.Hobbies, t)
				}
			}
		},
	},
}

// SurveyScreen walks through the onboarding questions one at a time.
type SurveyScreen struct {
	manager *session.Manager
	state   *session.State
	topics  *curriculum.Service
	hyd     *hydrate.Hydrator
	ment    *mentor.Service

	current int
	answers profile.UserProfile
	input   components.TextInput
}

var _ screen.Screen = (*SurveyScreen)(nil)
var _ screen.KeyHintProvider = (*SurveyScreen)(nil)

// New creates a new SurveyScreen starting at the first question.
func New(manager *session.Manager, state *session.State, topicSvc *curriculum.Service, hyd *hydrate.Hydrator, ment *mentor.Service) *SurveyScreen {
	return &SurveyScreen{
		manager: manager,
		state:   state,
		topics:  topicSvc,
		hyd:     hyd,
		ment:    ment,
		input:   components.NewTextInput(questions[0].hint, 120),
	}
}

func (s *SurveyScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *SurveyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		questions[s.current].apply(&s.answers, strings.TrimSpace(s.input.Value()))

		if s.current == len(questions)-1 {
			s.state.Profile = s.answers
			s.state.SurveyCompleted = true
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{
					Screen: topics.New(s.manager, s.state, s.topics, s.hyd, s.ment),
				}
			}
		}

		s.current++
		s.input.Reset()
		s.input.Model.Placeholder = questions[s.current].hint
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *SurveyScreen) View(width, height int) string {
	q := questions[s.current]

	bar := components.NewProgressBar("", float64(s.current)/float64(len(questions)), false, min(width-8, 50))

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(q.prompt)
	hint := theme.Hint.Render("Press Enter to continue, leave blank to skip.")

	card := theme.Card.Width(min(width-4, 70)).Render(
		prompt + "\n\n" + s.input.View() + "\n\n" + hint,
	)

	content := strings.Join([]string{
		theme.Subtitle.Render(questionCounter(s.current, len(questions))),
		bar.View(),
		"",
		card,
	}, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

func questionCounter(current, total int) string {
	return lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(strings.Repeat("● ", current) + "○ " + strings.Repeat("· ", total-current-1))
}

func (s *SurveyScreen) Title() string {
	return "Onboarding"
}

func (s *SurveyScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
