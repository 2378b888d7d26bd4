// Package topics shows the generated topic list for review before the
// roadmap is built. Learners can drop topics they don't care about and
// bring them back before confirming.
package topics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	rd "github.com/viament/viament/internal/roadmap"
	"github.com/viament/viament/internal/router"
	"github.com/viament/viament/internal/screen"
	roadmapscreen "github.com/viament/viament/internal/screens/roadmap"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/layout"
	"github.com/viament/viament/internal/ui/theme"
)

// topicsReadyMsg is sent when topic generation finishes.
type topicsReadyMsg struct {
	Topics []curriculum.TopicBlueprint
	Source string
}

// TopicsScreen lists generated topics for review and confirmation.
type TopicsScreen struct {
	manager *session.Manager
	state   *session.State
	svc     *curriculum.Service
	hyd     *hydrate.Hydrator
	ment    *mentor.Service

	loading  bool
	selected int
	source   string

	editing bool
	input   components.TextInput
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a TopicsScreen. Generation starts on Init unless the
// session already carries a confirmed topic list.
func New(manager *session.Manager, state *session.State, svc *curriculum.Service, hyd *hydrate.Hydrator, ment *mentor.Service) *TopicsScreen {
	return &TopicsScreen{
		manager: manager,
		state:   state,
		svc:     svc,
		hyd:     hyd,
		ment:    ment,
		loading: len(state.Topics) == 0,
	}
}

func (t *TopicsScreen) Init() tea.Cmd {
	if !t.loading {
		return nil
	}
	p := t.state.Profile
	svc := t.svc
	return func() tea.Msg {
		topics, source := svc.Generate(context.Background(), p)
		return topicsReadyMsg{Topics: topics, Source: source}
	}
}

func (t *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsReadyMsg:
		t.loading = false
		t.source = msg.Source
		t.state.Topics = msg.Topics
		t.state.TopicsSource = msg.Source
		_ = t.manager.Save(context.Background(), t.state)
		return t, nil

	case tea.KeyMsg:
		if t.loading {
			return t, nil
		}
		if t.editing {
			switch msg.String() {
			case "enter":
				t.state.RenameTopic(t.state.Topics[t.selected].ID, t.input.Value())
				t.editing = false
				return t, nil
			}
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
		switch msg.String() {
		case "up", "k":
			if t.selected > 0 {
				t.selected--
			}
		case "down", "j":
			if t.selected < len(t.state.Topics)-1 {
				t.selected++
			}
		case "x":
			if len(t.state.Topics) > 1 && t.selected < len(t.state.Topics) {
				t.state.RemoveTopic(t.state.Topics[t.selected].ID)
				if t.selected >= len(t.state.Topics) {
					t.selected = len(t.state.Topics) - 1
				}
			}
		case "e":
			if t.selected < len(t.state.Topics) {
				t.editing = true
				t.input = components.NewTextInput("Topic title", 80)
				t.input.SetValue(t.state.Topics[t.selected].Title)
				return t, t.input.Init()
			}
		case "u":
			if n := len(t.state.RemovedTopics); n > 0 {
				t.state.RestoreTopic(t.state.RemovedTopics[n-1].ID)
			}
		case "enter":
			return t, t.confirm()
		}
		return t, nil
	}

	if t.editing {
		var cmd tea.Cmd
		t.input, cmd = t.input.Update(msg)
		return t, cmd
	}
	return t, nil
}

func (t *TopicsScreen) confirm() tea.Cmd {
	t.state.TopicsCompleted = true
	t.state.Roadmap = rd.Build(t.state.Profile, t.state.Topics)
	_ = t.manager.Save(context.Background(), t.state)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: roadmapscreen.New(t.manager, t.state, t.hyd, t.ment),
		}
	}
}

func (t *TopicsScreen) View(width, height int) string {
	if t.loading {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center).AlignVertical(lipgloss.Center).
			Render(theme.Subtitle.Render("Crafting topics around your answers..."))
	}

	var b strings.Builder

	header := "Here's your path. Drop what doesn't fit, then confirm."
	if t.source == curriculum.SourceFallback {
		header += "\n" + theme.Hint.Render("(offline suggestions — the mentor will personalize lessons as you go)")
	}
	b.WriteString(theme.Subtitle.Width(width).Render(header))
	b.WriteString("\n\n")

	for i, topic := range t.state.Topics {
		marker := "  "
		line := fmt.Sprintf("%d. %s", i+1, topic.Title)
		style := theme.Unselected
		if i == t.selected {
			marker = "▸ "
			style = theme.Selected
		}
		if i == t.selected && t.editing {
			b.WriteString("  " + style.Render(marker) + t.input.View() + "\n")
			continue
		}
		b.WriteString("  " + style.Render(marker+line) + "\n")
		if i == t.selected && topic.Tagline != "" {
			b.WriteString("      " + theme.Hint.Render(topic.Tagline) + "\n")
		}
	}

	if n := len(t.state.RemovedTopics); n > 0 {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("  %d removed — press u to restore", n)) + "\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).AlignVertical(lipgloss.Center).Render(b.String())
}

func (t *TopicsScreen) Title() string {
	return "Your Topics"
}

func (t *TopicsScreen) KeyHints() []layout.KeyHint {
	if t.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	if t.editing {
		return []layout.KeyHint{{Key: "Enter", Description: "Save title"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "E", Description: "Edit"},
		{Key: "X", Description: "Remove"},
		{Key: "U", Description: "Restore"},
		{Key: "Enter", Description: "Confirm"},
	}
}
