// Package home is the entry screen: it routes into the survey on first
// run, or straight to the roadmap once one exists.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/progress"
	"github.com/viament/viament/internal/router"
	"github.com/viament/viament/internal/screen"
	"github.com/viament/viament/internal/screens/chat"
	"github.com/viament/viament/internal/screens/roadmap"
	"github.com/viament/viament/internal/screens/survey"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/layout"
	"github.com/viament/viament/internal/ui/theme"
)

// HomeScreen is the main entry screen of the application.
type HomeScreen struct {
	manager *session.Manager
	state   *session.State
	topics  *curriculum.Service
	hyd     *hydrate.Hydrator
	ment    *mentor.Service

	menu       components.Menu
	confirming bool // reset confirmation pending
	statusMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(manager *session.Manager, state *session.State, topics *curriculum.Service, hyd *hydrate.Hydrator, ment *mentor.Service) *HomeScreen {
	h := &HomeScreen{
		manager: manager,
		state:   state,
		topics:  topics,
		hyd:     hyd,
		ment:    ment,
	}
	h.menu = components.NewMenu(h.buildMenu())
	return h
}

func (h *HomeScreen) buildMenu() []components.MenuItem {
	startLabel := "START LEARNING"
	if h.state.SurveyCompleted {
		startLabel = "CONTINUE ROADMAP"
	}

	items := []components.MenuItem{
		{Label: startLabel, Action: func() tea.Cmd {
			return func() tea.Msg {
				if h.state.SurveyCompleted && len(h.state.Roadmap) > 0 {
					return router.PushScreenMsg{
						Screen: roadmap.New(h.manager, h.state, h.hyd, h.ment),
					}
				}
				return router.PushScreenMsg{
					Screen: survey.New(h.manager, h.state, h.topics, h.hyd, h.ment),
				}
			}
		}},
		{Label: "MENTOR CHAT", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: chat.New(h.ment, h.state)}
			}
		}},
		{Label: "RESET PROFILE", Action: func() tea.Cmd {
			h.confirming = true
			return nil
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return items
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.confirming {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			switch kmsg.String() {
			case "y", "Y":
				h.confirming = false
				if err := h.manager.Reset(context.Background()); err != nil {
					h.statusMsg = "Reset failed: " + err.Error()
					return h, nil
				}
				*h.state = *session.NewState()
				h.statusMsg = "Profile reset. Start fresh whenever you're ready."
				h.menu = components.NewMenu(h.buildMenu())
			case "n", "N", "esc":
				h.confirming = false
			}
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Width(width).Render("V I A M E N T")
	subtitle := theme.Subtitle.Width(width).Render("Your personal path into code")
	sections = append(sections, title, subtitle, "")

	if h.confirming {
		warn := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Width(width).Align(lipgloss.Center).
			Render("Reset everything? Profile, roadmap, and progress will be lost.  [y/n]")
		sections = append(sections, warn, "")
	} else if h.statusMsg != "" {
		note := theme.Hint.Width(width).Align(lipgloss.Center).Render(h.statusMsg)
		sections = append(sections, note, "")
	}

	sections = append(sections, h.renderStats(width), "")

	menu := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(h.menu.View())
	sections = append(sections, menu)

	content := strings.Join(sections, "\n")
	return lipgloss.NewStyle().Width(width).Height(height).AlignVertical(lipgloss.Center).Render(content)
}

func (h *HomeScreen) renderStats(width int) string {
	p := h.state.Progress
	completed := 0
	for _, t := range h.state.Roadmap {
		for _, l := range t.Lessons {
			if l.Status == "completed" {
				completed++
			}
		}
	}
	stats := fmt.Sprintf("✦ %d XP   ★ %d day streak   %s   ▣ %d lessons done",
		p.XP, p.Streak, layout.RenderHearts(p.Lives, progress.MaxLives), completed)
	return theme.Subtitle.Width(width).Render(stats)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
