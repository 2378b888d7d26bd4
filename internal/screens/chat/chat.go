// Package chat is the free-form mentor conversation, reachable from the
// home menu outside any lesson.
package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/screen"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/layout"
	"github.com/viament/viament/internal/ui/theme"
)

const requestTimeout = 30 * time.Second

type historyMsg struct {
	Messages []llm.Message
}

type replyMsg struct {
	Text string
	Err  error
}

// ChatScreen holds an open conversation with the mentor. History is
// loaded from the chat store so the thread survives restarts.
type ChatScreen struct {
	ment  *mentor.Service
	state *session.State

	transcript []llm.Message
	input      components.TextInput
	waiting    bool
	errMsg     string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

func New(ment *mentor.Service, state *session.State) *ChatScreen {
	return &ChatScreen{
		ment:  ment,
		state: state,
		input: components.NewTextInput("Ask your mentor anything...", 0),
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(c.input.Init(), c.loadHistory())
}

func (c *ChatScreen) loadHistory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msgs, err := c.ment.RecentChat(ctx)
		if err != nil {
			// A missing history is not worth blocking the chat over.
			return historyMsg{}
		}
		return historyMsg{Messages: msgs}
	}
}

func (c *ChatScreen) send(text string) tea.Cmd {
	req := mentor.ChatRequest{
		Message: text,
		Profile: c.state.Profile,
		History: append([]llm.Message(nil), c.transcript...),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		reply, err := c.ment.Chat(ctx, req)
		return replyMsg{Text: reply, Err: err}
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		if len(c.transcript) == 0 {
			c.transcript = msg.Messages
		}
		return c, nil

	case replyMsg:
		c.waiting = false
		if msg.Err != nil {
			c.errMsg = "Something went wrong. Try asking again."
			return c, nil
		}
		c.transcript = append(c.transcript, llm.Message{Role: llm.RoleAssistant, Content: msg.Text})
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if c.waiting {
				return c, nil
			}
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			c.errMsg = ""
			c.waiting = true
			c.transcript = append(c.transcript, llm.Message{Role: llm.RoleUser, Content: text})
			cmd := c.send(text)
			c.input.Reset()
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) View(width, height int) string {
	cw := min(width-10, 76)

	var parts []string
	parts = append(parts, theme.Title.Render("Mentor Chat"))

	if len(c.transcript) == 0 && !c.waiting {
		parts = append(parts, theme.Hint.Width(cw).Render(
			"Ask about anything on your roadmap, or anything coding at all."))
	}

	// Keep the thread short enough to fit; older turns scroll away.
	visible := c.transcript
	if maxTurns := max((height-10)/3, 2); len(visible) > maxTurns {
		visible = visible[len(visible)-maxTurns:]
	}
	for _, m := range visible {
		if m.Role == llm.RoleUser {
			parts = append(parts, theme.Unselected.Width(cw).Render("You: "+m.Content))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Width(cw).Render("Mentor: "+m.Content))
		}
	}

	if c.waiting {
		parts = append(parts, theme.Subtitle.Render("The mentor is thinking..."))
	}
	if c.errMsg != "" {
		parts = append(parts, theme.Incorrect.Render(c.errMsg))
	}
	parts = append(parts, c.input.View())

	return lipgloss.NewStyle().
		Width(width).Height(height).
		Padding(1, 3).
		Render(strings.Join(parts, "\n\n"))
}

func (c *ChatScreen) Title() string { return "Mentor Chat" }

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}
