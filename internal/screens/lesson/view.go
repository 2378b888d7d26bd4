package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	var content string

	switch {
	case s.errMsg != "":
		content = theme.Incorrect.Render(s.errMsg)
	case s.completed:
		content = s.renderSummary()
	case s.waiting:
		content = theme.Subtitle.Render("The mentor is thinking...")
	default:
		content = s.renderBlock(width)
	}

	bar := components.NewProgressBar(
		fmt.Sprintf("Block %d/%d", min(s.idx+1, len(s.blocks)), len(s.blocks)),
		float64(s.idx)/float64(max(len(s.blocks), 1)),
		false,
		min(width-8, 50),
	)

	framed := bar.View() + "\n\n" + content
	return lipgloss.NewStyle().
		Width(width).Height(height).
		Padding(1, 3).
		Render(framed)
}

func (s *LessonScreen) renderBlock(width int) string {
	cw := min(width-10, 76)

	switch b := s.current().(type) {
	case blocks.TextBlock:
		return s.renderText(b, cw)
	case blocks.QuizBlock:
		return s.renderQuiz(b, cw)
	case blocks.CodeBlock:
		return s.renderCode(b, cw)
	case blocks.MentorBlock:
		return theme.Body.Render("Your mentor steps in when you need a nudge. Press Enter to continue.")
	case blocks.AiMentorBlock:
		return s.renderMentor(b, cw)
	}
	return theme.Hint.Render("Press Enter to continue.")
}

func (s *LessonScreen) renderText(b blocks.TextBlock, cw int) string {
	var parts []string
	if b.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(b.Title))
	}
	parts = append(parts, theme.Body.Width(cw).Render(b.Markdown))

	if b.Snippet != "" {
		parts = append(parts, theme.Card.Width(cw).Render(b.Snippet))
	}
	for _, step := range b.MicroSteps {
		parts = append(parts, theme.Body.Render("  · "+step))
	}
	if len(b.QuickActions) > 0 {
		parts = append(parts, theme.Hint.Render("Try: "+strings.Join(b.QuickActions, " / ")))
	}
	return strings.Join(parts, "\n\n")
}

func (s *LessonScreen) renderQuiz(b blocks.QuizBlock, cw int) string {
	var parts []string
	if b.Scenario != "" {
		parts = append(parts, theme.Hint.Width(cw).Render(b.Scenario))
	}
	parts = append(parts, s.mc.View())

	if s.quizResolved {
		chosen := s.mc.ChosenIndex
		if s.mc.IsCorrect() {
			parts = append(parts, theme.Correct.Render("Correct!"))
		} else {
			parts = append(parts, theme.Incorrect.Render(
				fmt.Sprintf("Not quite — that costs %s.", heartsWord(b.PenaltyHearts))))
		}
		if chosen >= 0 && chosen < len(b.Options) && b.Options[chosen].Explanation != "" {
			parts = append(parts, theme.Body.Width(cw).Render(b.Options[chosen].Explanation))
		}
	}
	return strings.Join(parts, "\n\n")
}

func heartsWord(n int) string {
	if n <= 1 {
		return "a heart"
	}
	return fmt.Sprintf("%d hearts", n)
}

func (s *LessonScreen) renderCode(b blocks.CodeBlock, cw int) string {
	var parts []string
	if b.Title != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(b.Title))
	}
	parts = append(parts, theme.Body.Width(cw).Render(b.Instructions))

	if b.Starter != "" {
		parts = append(parts, theme.Card.Width(cw).Render(b.Starter))
	}
	if len(b.AcceptanceCriteria) > 0 {
		var criteria []string
		for _, c := range b.AcceptanceCriteria {
			criteria = append(criteria, "  ✓ "+c)
		}
		parts = append(parts, theme.Hint.Render(strings.Join(criteria, "\n")))
	}

	switch {
	case s.showingSol:
		parts = append(parts,
			theme.Subtitle.Render("Sample solution:"),
			theme.Card.Width(cw).Render(b.Solution))
	case s.verdict != nil:
		if s.verdict.Passed {
			parts = append(parts, theme.Correct.Render("Passed!"))
		} else {
			parts = append(parts, theme.Incorrect.Render("Not yet."))
		}
		parts = append(parts, theme.Body.Width(cw).Render(s.verdict.Feedback))
	default:
		parts = append(parts, s.codeInput.View())
	}
	return strings.Join(parts, "\n\n")
}

func (s *LessonScreen) renderMentor(b blocks.AiMentorBlock, cw int) string {
	var parts []string
	title := b.Title
	if title == "" {
		title = "Mentor"
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title))

	if b.Mode == "quiz" {
		if s.runner != nil {
			correct, goal := s.runner.Progress()
			parts = append(parts, theme.Subtitle.Render(fmt.Sprintf("Answer %d questions to pass (%d so far)", goal, correct)))
		}
		if s.lastEval != nil {
			if s.lastEval.Correct {
				parts = append(parts, theme.Correct.Render("✓ "+s.lastEval.Feedback))
			} else {
				parts = append(parts, theme.Incorrect.Render("✗ "+s.lastEval.Feedback))
			}
		}
		if s.runner != nil && s.runner.Done() {
			parts = append(parts, theme.Correct.Render("Quiz complete! Press Enter to continue."))
		} else if s.question != "" {
			parts = append(parts,
				theme.Body.Width(cw).Render(s.question),
				s.chatInput.View())
		}
		return strings.Join(parts, "\n\n")
	}

	parts = append(parts, theme.Body.Width(cw).Render(b.Prompt))
	for _, m := range s.transcript {
		prefix := "You: "
		style := theme.Unselected
		if m.Role != "user" {
			prefix = "Mentor: "
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		}
		parts = append(parts, style.Width(cw).Render(prefix+m.Content))
	}
	parts = append(parts, s.chatInput.View())
	return strings.Join(parts, "\n\n")
}

func (s *LessonScreen) renderSummary() string {
	var parts []string
	parts = append(parts, theme.Title.Render("Lesson complete!"))
	if s.result.AlreadyCompleted {
		parts = append(parts, theme.Subtitle.Render("You'd already finished this one — nice review session."))
	} else {
		parts = append(parts, theme.Correct.Render(fmt.Sprintf("+%d XP", s.result.AwardedXP)))
		p := s.state.Progress
		parts = append(parts, theme.Subtitle.Render(fmt.Sprintf("Streak: %d day(s)   Total XP: %d", p.Streak, p.XP)))
		if len(s.result.Unlocked) > 0 {
			parts = append(parts, theme.Body.Render("Unlocked the next lesson on your roadmap."))
		}
	}
	back := components.NewButton("BACK TO ROADMAP", true, nil)
	parts = append(parts, back.View())
	return strings.Join(parts, "\n\n")
}
