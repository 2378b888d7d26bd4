// Package roadmap renders the topic-grouped lesson list with lock,
// unlock, and completion markers, and launches lessons.
package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	rd "github.com/viament/viament/internal/roadmap"
	"github.com/viament/viament/internal/router"
	"github.com/viament/viament/internal/screen"
	"github.com/viament/viament/internal/screens/lesson"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/layout"
	"github.com/viament/viament/internal/ui/theme"
)

// lessonReadyMsg is sent when hydration finishes for a lesson.
type lessonReadyMsg struct {
	LessonID string
	Blocks   blocks.Blocks
	Source   string
	Err      error
}

// entry is one selectable row: a lesson's position in the roadmap.
type entry struct {
	topicIdx  int
	lessonIdx int
}

// RoadmapScreen shows all topics and lessons and tracks the cursor.
type RoadmapScreen struct {
	manager *session.Manager
	state   *session.State
	hyd     *hydrate.Hydrator
	ment    *mentor.Service

	entries  []entry
	selected int
	loading  string // lesson id being hydrated, "" when idle
	errMsg   string
}

var _ screen.Screen = (*RoadmapScreen)(nil)
var _ screen.KeyHintProvider = (*RoadmapScreen)(nil)

// New creates a RoadmapScreen positioned on the first unlocked lesson.
func New(manager *session.Manager, state *session.State, hyd *hydrate.Hydrator, ment *mentor.Service) *RoadmapScreen {
	r := &RoadmapScreen{
		manager: manager,
		state:   state,
		hyd:     hyd,
		ment:    ment,
	}
	for ti, topic := range state.Roadmap {
		for li := range topic.Lessons {
			r.entries = append(r.entries, entry{topicIdx: ti, lessonIdx: li})
		}
	}
	for i, e := range r.entries {
		if r.summaryAt(e).Status == rd.StatusUnlocked {
			r.selected = i
			break
		}
	}
	return r
}

func (r *RoadmapScreen) summaryAt(e entry) *rd.LessonSummary {
	return &r.state.Roadmap[e.topicIdx].Lessons[e.lessonIdx]
}

func (r *RoadmapScreen) Init() tea.Cmd {
	return nil
}

func (r *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lessonReadyMsg:
		r.loading = ""
		if msg.Err != nil {
			if errors.Is(msg.Err, hydrate.ErrSuperseded) {
				return r, nil
			}
			r.errMsg = "Couldn't prepare that lesson. Try again."
			return r, nil
		}
		return r, r.openLesson(msg)

	case tea.KeyMsg:
		if r.loading != "" {
			return r, nil
		}
		r.errMsg = ""
		switch msg.String() {
		case "up", "k":
			if r.selected > 0 {
				r.selected--
			}
		case "down", "j":
			if r.selected < len(r.entries)-1 {
				r.selected++
			}
		case "enter":
			return r, r.startSelected()
		}
	}

	return r, nil
}

func (r *RoadmapScreen) startSelected() tea.Cmd {
	if r.selected >= len(r.entries) {
		return nil
	}
	e := r.entries[r.selected]
	summary := r.summaryAt(e)
	if summary.Status == rd.StatusLocked {
		r.errMsg = "That lesson is still locked. Finish the ones before it."
		return nil
	}

	// Hydrate-once: reuse cached blocks from an earlier visit.
	if len(summary.Lesson.Blocks) > 0 {
		return r.openLesson(lessonReadyMsg{
			LessonID: summary.ID,
			Blocks:   summary.Lesson.Blocks,
			Source:   hydrate.SourceLocal,
		})
	}

	r.loading = summary.ID
	req := hydrate.Request{
		LessonID:  summary.ID,
		Plan:      summary.Lesson.Plan,
		Profile:   r.state.Profile,
		Blueprint: r.state.Roadmap[e.topicIdx].Blueprint,
	}
	hyd := r.hyd
	return func() tea.Msg {
		result, err := hyd.Hydrate(context.Background(), req)
		return lessonReadyMsg{LessonID: req.LessonID, Blocks: result.Blocks, Source: result.Source, Err: err}
	}
}

func (r *RoadmapScreen) openLesson(msg lessonReadyMsg) tea.Cmd {
	if summary := r.state.Roadmap.Find(msg.LessonID); summary != nil {
		summary.Lesson.Blocks = msg.Blocks
	}
	_ = r.manager.Save(context.Background(), r.state)
	return func() tea.Msg {
		return router.PushScreenMsg{
			Screen: lesson.New(r.manager, r.state, r.ment, msg.LessonID, msg.Blocks),
		}
	}
}

func (r *RoadmapScreen) View(width, height int) string {
	if r.loading != "" {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center).AlignVertical(lipgloss.Center).
			Render(theme.Subtitle.Render("Shaping this lesson around your goals..."))
	}

	var b strings.Builder

	if r.errMsg != "" {
		b.WriteString("  " + theme.Incorrect.Render(r.errMsg) + "\n\n")
	}

	cursor := 0
	for ti, topic := range r.state.Roadmap {
		locked := r.state.Roadmap.TopicLocked(ti)
		titleStyle := theme.Selected
		if locked {
			titleStyle = theme.Locked
		}
		b.WriteString("  " + titleStyle.Render(topic.Blueprint.Title) + "\n")

		for range topic.Lessons {
			e := r.entries[cursor]
			summary := r.summaryAt(e)

			marker, style := lessonMarker(summary.Status)
			line := fmt.Sprintf("%s %s  (+%d XP)", marker, summary.Title, summary.Lesson.XPReward)
			if cursor == r.selected {
				b.WriteString("    " + theme.Selected.Render("▸ "+line) + "\n")
			} else {
				b.WriteString("      " + style.Render(line) + "\n")
			}
			cursor++
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func lessonMarker(status rd.StageStatus) (string, lipgloss.Style) {
	switch status {
	case rd.StatusCompleted:
		return "✓", theme.Completed
	case rd.StatusUnlocked:
		return "●", theme.Unselected
	default:
		return "○", theme.Locked
	}
}

func (r *RoadmapScreen) Title() string {
	return "Roadmap"
}

func (r *RoadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start lesson"},
		{Key: "Esc", Description: "Back"},
	}
}
