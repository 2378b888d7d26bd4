package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/roadmap"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview locally generated lesson blocks (no database, no LLM)",
	Long: `Build a roadmap from the built-in fallback topics and print the template
blocks for one lesson.

This is a stateless developer tool for evaluating the local block templates.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int("topic", 0, "Topic index on the fallback roadmap")
	previewCmd.Flags().String("type", "text", "Lesson type: text, quiz, code, or mentor")
	previewCmd.Flags().String("goal", "learn backend development", "Learning goal fed into personalization")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topicIdx, _ := cmd.Flags().GetInt("topic")
	typeVal, _ := cmd.Flags().GetString("type")
	goal, _ := cmd.Flags().GetString("goal")

	var lessonType curriculum.LessonType
	switch strings.ToLower(typeVal) {
	case "text":
		lessonType = curriculum.LessonText
	case "quiz":
		lessonType = curriculum.LessonQuiz
	case "code":
		lessonType = curriculum.LessonCode
	case "mentor":
		lessonType = curriculum.LessonMentor
	default:
		return fmt.Errorf("invalid type %q: must be text, quiz, code, or mentor", typeVal)
	}

	p := profile.UserProfile{
		Reason:           "learn something new",
		JobStatus:        "employed",
		CodingExperience: "beginner",
		Captivates:       "building things people use",
		LearningGoal:     goal,
	}

	r := roadmap.Build(p, curriculum.FallbackTopics(p))
	if topicIdx < 0 || topicIdx >= len(r) {
		return fmt.Errorf("topic index %d out of range (0-%d)", topicIdx, len(r)-1)
	}
	topic := r[topicIdx]

	var summary *roadmap.LessonSummary
	for i := range topic.Lessons {
		if topic.Lessons[i].Lesson.Plan.LessonType == lessonType {
			summary = &topic.Lessons[i]
			break
		}
	}
	if summary == nil {
		return fmt.Errorf("topic %q has no %s lesson", topic.Blueprint.Title, lessonType)
	}

	fmt.Printf("Topic:  %s\n", topic.Blueprint.Title)
	fmt.Printf("Lesson: %s (%s, +%d XP)\n\n", summary.Title, lessonType, summary.Lesson.XPReward)

	built := blocks.Build(summary.Lesson.Plan, p)
	for i, b := range built {
		fmt.Printf("── Block %d/%d ──\n", i+1, len(built))
		printBlock(b)
		fmt.Println()
	}
	return nil
}

func printBlock(b blocks.LessonBlock) {
	switch b := b.(type) {
	case blocks.TextBlock:
		fmt.Printf("[text] %s\n%s\n", b.Title, b.Markdown)
		for _, step := range b.MicroSteps {
			fmt.Printf("  · %s\n", step)
		}
		if b.Snippet != "" {
			fmt.Println(indent(b.Snippet))
		}
	case blocks.QuizBlock:
		fmt.Printf("[quiz] %s\n%s\n", b.Title, b.Question)
		for j, o := range b.Options {
			marker := " "
			if o.IsCorrect {
				marker = "*"
			}
			fmt.Printf("  %s %d) %s\n", marker, j+1, o.Text)
		}
	case blocks.CodeBlock:
		fmt.Printf("[code] %s\n%s\n", b.Title, b.Instructions)
		if b.Starter != "" {
			fmt.Println(indent(b.Starter))
		}
		for _, c := range b.AcceptanceCriteria {
			fmt.Printf("  ✓ %s\n", c)
		}
	case blocks.MentorBlock:
		fmt.Printf("[mentor] mode=%s trigger=%s\n", b.Mode, b.Trigger)
	case blocks.AiMentorBlock:
		fmt.Printf("[ai-mentor] mode=%s persona=%s\n%s\n", b.Mode, b.Persona, b.Prompt)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
