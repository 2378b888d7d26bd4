// Package lesson plays a hydrated lesson block by block: prose, quiz
// checks with heart penalties, code exercises graded by the examiner,
// and open mentor conversations. Finishing the last block hands the
// completion to the progression engine and persists the session.
package lesson

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/viament/viament/internal/blocks"
	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/progress"
	"github.com/viament/viament/internal/router"
	"github.com/viament/viament/internal/screen"
	"github.com/viament/viament/internal/session"
	"github.com/viament/viament/internal/ui/components"
	"github.com/viament/viament/internal/ui/layout"
)

// LessonScreen steps through one lesson's blocks.
type LessonScreen struct {
	manager *session.Manager
	state   *session.State
	ment    *mentor.Service

	lessonID string
	blocks   blocks.Blocks
	idx      int

	// quiz block state
	mc           components.MultiChoice
	quizResolved bool

	// code block state
	codeInput   components.TextInput
	verdict     *mentor.Verdict
	showingSol  bool

	// ai-mentor block state
	chatInput  components.TextInput
	transcript []llm.Message
	runner     *mentor.QuizRunner
	question   string
	lastEval   *mentor.Evaluation

	waiting bool // an async mentor call is in flight

	completed bool
	result    progress.CompletionResult
	errMsg    string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen over the given hydrated blocks.
func New(manager *session.Manager, state *session.State, ment *mentor.Service, lessonID string, lessonBlocks blocks.Blocks) *LessonScreen {
	s := &LessonScreen{
		manager:  manager,
		state:    state,
		ment:     ment,
		lessonID: lessonID,
		blocks:   lessonBlocks,
	}
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.enterBlock()
}

func (s *LessonScreen) current() blocks.LessonBlock {
	if s.idx < len(s.blocks) {
		return s.blocks[s.idx]
	}
	return nil
}

// enterBlock prepares per-block state when the cursor lands on a new
// block and kicks off any async work the block needs.
func (s *LessonScreen) enterBlock() tea.Cmd {
	s.quizResolved = false
	s.verdict = nil
	s.showingSol = false
	s.question = ""
	s.lastEval = nil
	s.waiting = false

	switch b := s.current().(type) {
	case blocks.QuizBlock:
		options := make([]string, len(b.Options))
		correct := 0
		for i, opt := range b.Options {
			options[i] = opt.Text
			if opt.IsCorrect {
				correct = i
			}
		}
		s.mc = components.NewMultiChoice(b.Question, options, correct)
		return nil

	case blocks.CodeBlock:
		s.codeInput = components.NewTextInput("Describe or paste your solution...", 0)
		return s.codeInput.Init()

	case blocks.AiMentorBlock:
		s.chatInput = components.NewTextInput("Ask the mentor...", 0)
		s.transcript = nil
		if b.Mode == "quiz" {
			s.chatInput.Model.Placeholder = "Type your answer..."
			s.runner = mentor.NewQuizRunner(b.QuizGoal)
			return tea.Batch(s.chatInput.Init(), s.askQuiz(b))
		}
		return s.chatInput.Init()
	}
	return nil
}

// advance moves to the next block, completing the lesson at the end.
func (s *LessonScreen) advance() tea.Cmd {
	s.idx++
	if s.idx < len(s.blocks) {
		return s.enterBlock()
	}
	return s.complete()
}

func (s *LessonScreen) complete() tea.Cmd {
	result, err := progress.CompleteLesson(s.state.Roadmap, &s.state.Progress, s.lessonID, time.Now())
	if err != nil {
		s.errMsg = "Couldn't record this completion: " + err.Error()
		return nil
	}
	s.result = result
	s.completed = true
	_ = s.manager.Save(context.Background(), s.state)
	return nil
}

func (s *LessonScreen) loseHearts(n int) {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		progress.LoseLife(&s.state.Progress)
	}
	_ = s.manager.Save(context.Background(), s.state)
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case verdictMsg:
		s.waiting = false
		v := msg.Verdict
		s.verdict = &v
		if !v.Passed && v.DeductHeart {
			s.loseHearts(1)
		}
		return s, nil

	case explainMsg:
		s.waiting = false
		if msg.Err == nil {
			s.transcript = append(s.transcript, llm.Message{Role: llm.RoleAssistant, Content: msg.Text})
		}
		return s, nil

	case quizAskMsg:
		s.waiting = false
		s.question = msg.Question
		return s, nil

	case quizAnswerMsg:
		s.waiting = false
		eval := msg.Eval
		s.lastEval = &eval
		if s.runner != nil && s.runner.Record(eval) {
			return s, nil // footer invites Enter to continue
		}
		if b, ok := s.current().(blocks.AiMentorBlock); ok {
			s.question = ""
			return s, s.askQuiz(b)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.updateInputs(msg)
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.completed {
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}
	if s.waiting {
		return s, nil
	}

	switch b := s.current().(type) {
	case blocks.TextBlock, nil:
		if msg.String() == "enter" {
			return s, s.advance()
		}
		return s, nil

	case blocks.QuizBlock:
		return s.handleQuizKey(msg, b)

	case blocks.CodeBlock:
		return s.handleCodeKey(msg, b)

	case blocks.MentorBlock:
		// Classic mentor blocks only carry prompt variables; the
		// conversation itself lives in the ai-mentor flow.
		if msg.String() == "enter" {
			return s, s.advance()
		}
		return s, nil

	case blocks.AiMentorBlock:
		return s.handleMentorKey(msg, b)
	}

	return s, nil
}

func (s *LessonScreen) handleQuizKey(msg tea.KeyMsg, b blocks.QuizBlock) (screen.Screen, tea.Cmd) {
	if s.quizResolved {
		if msg.String() == "enter" {
			return s, s.advance()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if s.mc.Submitted {
		s.quizResolved = true
		if !s.mc.IsCorrect() {
			s.loseHearts(b.PenaltyHearts)
		}
	}
	return s, cmd
}

func (s *LessonScreen) handleCodeKey(msg tea.KeyMsg, b blocks.CodeBlock) (screen.Screen, tea.Cmd) {
	if s.verdict != nil || s.showingSol {
		if msg.String() == "enter" {
			return s, s.advance()
		}
		return s, nil
	}

	switch msg.String() {
	case "enter":
		work := strings.TrimSpace(s.codeInput.Value())
		if work == "" {
			return s, nil
		}
		s.waiting = true
		return s, s.examine(b, work)
	case "ctrl+s":
		// Stuck: reveal the solution and move on without grading.
		s.showingSol = true
		return s, nil
	}

	var cmd tea.Cmd
	s.codeInput, cmd = s.codeInput.Update(msg)
	return s, cmd
}

func (s *LessonScreen) handleMentorKey(msg tea.KeyMsg, b blocks.AiMentorBlock) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		text := strings.TrimSpace(s.chatInput.Value())

		if b.Mode == "quiz" {
			if s.runner != nil && s.runner.Done() {
				return s, s.advance()
			}
			if text == "" || s.question == "" {
				return s, nil
			}
			s.chatInput.Reset()
			s.waiting = true
			return s, s.answerQuiz(b, text)
		}

		// Explain mode: empty Enter after at least one exchange moves on.
		if text == "" {
			if len(s.transcript) > 0 {
				return s, s.advance()
			}
			return s, nil
		}
		s.chatInput.Reset()
		s.transcript = append(s.transcript, llm.Message{Role: llm.RoleUser, Content: text})
		s.waiting = true
		return s, s.explain(b, text)
	}

	var cmd tea.Cmd
	s.chatInput, cmd = s.chatInput.Update(msg)
	return s, cmd
}

func (s *LessonScreen) updateInputs(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.current().(type) {
	case blocks.CodeBlock:
		s.codeInput, cmd = s.codeInput.Update(msg)
	case blocks.AiMentorBlock:
		s.chatInput, cmd = s.chatInput.Update(msg)
	}
	return s, cmd
}

func (s *LessonScreen) examine(b blocks.CodeBlock, work string) tea.Cmd {
	req := mentor.ExamineRequest{
		LessonContext: b.Instructions + "\nAcceptance criteria: " + strings.Join(b.AcceptanceCriteria, "; "),
		Proficiency:   proficiency(s.state),
		UserCode:      work,
	}
	ment := s.ment
	return func() tea.Msg {
		v, err := ment.Examine(context.Background(), req)
		return verdictMsg{Verdict: v, Err: err}
	}
}

func (s *LessonScreen) explain(b blocks.AiMentorBlock, question string) tea.Cmd {
	history := make([]llm.Message, len(s.transcript)-1)
	copy(history, s.transcript[:len(s.transcript)-1])
	req := mentor.ExplainRequest{
		LessonContext:   b.LessonContext,
		Proficiency:     proficiency(s.state),
		Persona:         b.Persona,
		Topic:           b.Topic,
		Prompt:          b.Prompt,
		LearnerQuestion: question,
		History:         history,
	}
	ment := s.ment
	return func() tea.Msg {
		text, err := ment.Explain(context.Background(), req)
		return explainMsg{Text: text, Err: err}
	}
}

func (s *LessonScreen) askQuiz(b blocks.AiMentorBlock) tea.Cmd {
	s.waiting = true
	req := mentor.QuizAskRequest{
		LessonContext: b.LessonContext,
		Topic:         b.Topic,
		Prompt:        b.Prompt,
	}
	ment := s.ment
	return func() tea.Msg {
		q, err := ment.AskQuiz(context.Background(), req)
		return quizAskMsg{Question: q, Err: err}
	}
}

func (s *LessonScreen) answerQuiz(b blocks.AiMentorBlock, answer string) tea.Cmd {
	req := mentor.QuizAnswerRequest{
		LessonContext: b.LessonContext,
		Topic:         b.Topic,
		Question:      s.question,
		Answer:        answer,
	}
	ment := s.ment
	return func() tea.Msg {
		eval, err := ment.AnswerQuiz(context.Background(), req)
		return quizAnswerMsg{Eval: eval, Err: err}
	}
}

func proficiency(st *session.State) string {
	if st.Profile.CodingExperience != "" {
		return st.Profile.CodingExperience
	}
	return "beginner"
}

func (s *LessonScreen) Title() string {
	if summary := s.state.Roadmap.Find(s.lessonID); summary != nil {
		return summary.Title
	}
	return "Lesson"
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.completed {
		return []layout.KeyHint{{Key: "Enter", Description: "Back to roadmap"}}
	}
	if s.waiting {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	switch s.current().(type) {
	case blocks.QuizBlock:
		if s.quizResolved {
			return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
		}
	case blocks.CodeBlock:
		if s.verdict != nil || s.showingSol {
			return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+S", Description: "Show solution"},
		}
	case blocks.AiMentorBlock:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Enter (empty)", Description: "Continue"},
		}
	default:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
}
