package blocks

import (
	"fmt"
	"strings"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/profile"
)

// Build expands a lesson plan into its content blocks without any
// network dependency. This is the fallback and preview path; the
// hydrator produces blocks of the same shapes from the LLM.
func Build(plan curriculum.LessonPlan, p profile.UserProfile) []LessonBlock {
	hooks := profile.BuildHooks(p)

	switch plan.LessonType {
	case curriculum.LessonText:
		return buildTextBlocks(plan, hooks)
	case curriculum.LessonQuiz:
		return buildQuizBlocks(plan, hooks)
	case curriculum.LessonCode:
		return buildCodeBlocks(plan, p, hooks)
	case curriculum.LessonMentor:
		return buildMentorBlocks(plan, hooks)
	default:
		return []LessonBlock{defaultTextBlock(plan, hooks)}
	}
}

func buildTextBlocks(plan curriculum.LessonPlan, hooks profile.Hooks) []LessonBlock {
	snapshot := TextBlock{
		Type:  TypeText,
		Title: plan.Title,
		Markdown: strings.Join([]string{
			fmt.Sprintf("%s matters because you want to %s.", plan.Topic, strings.ToLower(hooks.Goal)),
			fmt.Sprintf("As a %s, grounding this concept in %s keeps motivation tied to %s.", strings.ToLower(hooks.JobStatus), hooks.ProjectLabel, strings.ToLower(hooks.Reason)),
			fmt.Sprintf("Notice how it fuels your fascination with %s while staying friendly to your experience level (%s).", strings.ToLower(hooks.Captivates), hooks.Experience),
		}, " "),
		MicroSteps: []string{
			fmt.Sprintf("We first notice where %s already appears in %s.", plan.Topic, hooks.ProjectLabel),
			fmt.Sprintf("Then we name the piece that unlocks %s.", plan.LessonGoal),
		},
	}

	apply := TextBlock{
		Type:  TypeText,
		Title: fmt.Sprintf("60-second apply: %s", plan.Topic),
		Markdown: fmt.Sprintf(
			"Take one minute and connect %s to %s. Write a single sentence describing the next thing you would change, then compare it against %s.",
			plan.Topic, hooks.ProjectLabel, plan.LessonGoal,
		),
		QuickActions: plan.QuickActions,
	}
	if len(apply.QuickActions) == 0 {
		apply.QuickActions = []string{
			fmt.Sprintf("Write one sentence about how %s shows up in %s.", plan.Topic, hooks.ProjectLabel),
			"List a blocker you want the mentor to cover.",
		}
	}

	checkpoint := QuizBlock{
		Type:     TypeQuiz,
		Title:    fmt.Sprintf("Checkpoint: %s", plan.Topic),
		Recap:    fmt.Sprintf("Recap: %s is your safety net while chasing %s.", plan.Topic, hooks.ShortGoal),
		Scenario: fmt.Sprintf("You're improving %s so it better reflects why %s matters.", hooks.ProjectLabel, strings.ToLower(hooks.Reason)),
		Question: fmt.Sprintf("Which option keeps the plan aligned with your goal and %s?", strings.ToLower(hooks.Captivates)),
		Kind:     "single",
		Options: []QuizOption{
			{
				Text:        fmt.Sprintf("Relate %s directly to the user interaction in %s.", plan.Topic, hooks.ProjectLabel),
				IsCorrect:   true,
				Explanation: fmt.Sprintf("Correct - tying the concept to %s keeps the learning practical.", hooks.ShortGoal),
			},
			{
				Text:        fmt.Sprintf("Ignore %s and jump straight into polishing visuals.", plan.Topic),
				IsCorrect:   false,
				Explanation: "Skipping the concept slows down your ability to reason about the build.",
			},
			{
				Text:        fmt.Sprintf("Switch to a brand-new problem so you don't overthink %s.", plan.Topic),
				IsCorrect:   false,
				Explanation: "Dodging the scenario delays feedback and doesn't use the data from your survey.",
			},
		},
		PenaltyHearts: 1,
	}

	return []LessonBlock{snapshot, apply, checkpoint}
}

func buildQuizBlocks(plan curriculum.LessonPlan, hooks profile.Hooks) []LessonBlock {
	scenario := plan.Scenario
	if scenario == "" {
		scenario = fmt.Sprintf("You're improving %s so it better reflects why %s matters.", hooks.ProjectLabel, strings.ToLower(hooks.Reason))
	}

	recap := TextBlock{
		Type:  TypeText,
		Title: fmt.Sprintf("Set the stage: %s", plan.Topic),
		Markdown: fmt.Sprintf(
			"Before the challenge, remember what %s buys you: progress toward %s. Keep your motivation (%s) in frame while you answer.",
			plan.Topic, hooks.ShortGoal, strings.ToLower(hooks.Reason),
		),
	}

	quiz := QuizBlock{
		Type:     TypeQuiz,
		Title:    plan.Title,
		Recap:    fmt.Sprintf("Recap: %s is your safety net while chasing %s.", plan.Topic, hooks.ShortGoal),
		Scenario: scenario,
		Question: fmt.Sprintf("Which option keeps the plan aligned with your goal and %s?", strings.ToLower(hooks.Captivates)),
		Kind:     "single",
		Options: []QuizOption{
			{
				Text:        fmt.Sprintf("Relate %s directly to the user interaction in %s.", plan.Topic, hooks.ProjectLabel),
				IsCorrect:   true,
				Explanation: fmt.Sprintf("Correct - tying the concept to %s keeps the learning practical.", hooks.ShortGoal),
			},
			{
				Text:        fmt.Sprintf("Ignore %s and jump straight into polishing visuals.", plan.Topic),
				IsCorrect:   false,
				Explanation: "Skipping the concept slows down your ability to reason about the build.",
			},
			{
				Text:        fmt.Sprintf("Switch to a brand-new problem so you don't overthink %s.", plan.Topic),
				IsCorrect:   false,
				Explanation: "Dodging the scenario delays feedback and doesn't use the data from your survey.",
			},
		},
		PenaltyHearts: 1,
	}

	wrapUp := TextBlock{
		Type:  TypeText,
		Title: "Wrap-up",
		Markdown: fmt.Sprintf(
			"Whatever you picked, the pattern to keep is context-first: every time %s shows up, anchor it to %s before reaching for syntax.",
			plan.Topic, hooks.ProjectLabel,
		),
	}

	return []LessonBlock{recap, quiz, wrapUp}
}

func buildCodeBlocks(plan curriculum.LessonPlan, p profile.UserProfile, hooks profile.Hooks) []LessonBlock {
	language := plan.SnippetTag
	if language == "" {
		language = profile.DeriveLanguage(p)
	}

	overview := TextBlock{
		Type:  TypeText,
		Title: fmt.Sprintf("Mentor walkthrough: %s", plan.Topic),
		Markdown: fmt.Sprintf(
			"Let's trace a tiny build around %s. The goal is not polished code - it is seeing the shape of the solution before you type, the same way you would sketch %s.",
			plan.Topic, hooks.ProjectLabel,
		),
	}

	code := CodeBlock{
		Type:  TypeCode,
		Title: plan.Title,
		Instructions: fmt.Sprintf(
			"Sketch a short plan for %s. Keep it under six lines so you can adapt it to any language later.",
			plan.Topic,
		),
		Language: language,
		Starter: strings.Join([]string{
			"plan BuildFeature:",
			fmt.Sprintf("  define goal -> %q", hooks.ShortGoal),
			fmt.Sprintf("  outline component using %s", plan.Topic),
			"  mark where to inject personalization",
		}, "\n"),
		Solution: strings.Join([]string{
			"plan BuildFeature:",
			fmt.Sprintf("  step one: capture '%s' in a note", strings.ToLower(hooks.Reason)),
			"  step two: map data/state needed",
			"  step three: describe outcome + testing hook",
			"end",
		}, "\n"),
		AcceptanceCriteria: []string{
			fmt.Sprintf("List 2-3 steps that map %s to %s.", plan.Topic, hooks.ProjectLabel),
			"Mark at least one line where you will personalize text or data.",
			"State how you will validate the behaviour (manual or automated).",
		},
		PenaltyHearts:    0,
		ReflectionPrompt: fmt.Sprintf("Consider how %s shortens the path to %s.", plan.Topic, plan.LessonGoal),
	}

	reflection := TextBlock{
		Type:  TypeText,
		Title: "Reflection",
		Markdown: fmt.Sprintf(
			"Compare your sketch to the solution. The ordering matters more than the wording: goal first, then data, then validation. That ordering is what carries over to %s.",
			hooks.ShortGoal,
		),
	}

	return []LessonBlock{overview, code, reflection}
}

func buildMentorBlocks(plan curriculum.LessonPlan, hooks profile.Hooks) []LessonBlock {
	persona := plan.Persona
	if persona == "" {
		persona = "supportive mentor"
	}
	lessonContext := fmt.Sprintf("%s for %s. Goal: %s. Reason: %s. Experience: %s.",
		plan.Topic, hooks.ProjectLabel, hooks.Goal, hooks.Reason, hooks.Experience)

	promptBase := plan.Prompt
	if promptBase == "" {
		promptBase = fmt.Sprintf("Explain the topic using %s as a concrete anchor. After the explanation quiz the learner until they defend decisions that match %s.", hooks.ProjectLabel, hooks.Goal)
	}

	warmUp := TextBlock{
		Type:  TypeText,
		Title: fmt.Sprintf("Warm-up: %s", plan.Topic),
		Markdown: fmt.Sprintf(
			"This session is a conversation, not a lecture. Bring one question about %s - the mentor will meet you at a %s level and keep %s in view.",
			plan.Topic, hooks.Experience, hooks.ShortGoal,
		),
	}

	explain := AiMentorBlock{
		Type:          TypeAiMentor,
		Mode:          "explain",
		Title:         plan.Title,
		Persona:       persona,
		LessonContext: lessonContext,
		Topic:         plan.Topic,
		Prompt:        fmt.Sprintf("%s Focus on why this matters for someone motivated by %s.", promptBase, hooks.Captivates),
		SuggestedQuestions: []string{
			fmt.Sprintf("How does %s unblock your %s?", plan.Topic, hooks.ProjectLabel),
			fmt.Sprintf("Where does it support your %s?", strings.ToLower(hooks.Reason)),
		},
	}

	quiz := AiMentorBlock{
		Type:          TypeAiMentor,
		Mode:          "quiz",
		Title:         fmt.Sprintf("%s - mentor open question", plan.Title),
		Persona:       persona,
		LessonContext: lessonContext,
		Topic:         plan.Topic,
		Prompt:        fmt.Sprintf("Ask open questions about %s. Wait for convincing answers tied to %s before marking them correct.", plan.Topic, hooks.Goal),
		QuizGoal:      2,
	}

	return []LessonBlock{warmUp, explain, quiz}
}

func defaultTextBlock(plan curriculum.LessonPlan, hooks profile.Hooks) TextBlock {
	return TextBlock{
		Type:  TypeText,
		Title: plan.Title,
		Markdown: fmt.Sprintf(
			"The mentor summarizes %s and highlights how it fuels %s.",
			plan.Topic, hooks.Goal,
		),
	}
}
