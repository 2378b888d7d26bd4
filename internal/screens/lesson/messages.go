package lesson

import "github.com/viament/viament/internal/mentor"

// verdictMsg is sent when the examiner finishes grading a submission.
type verdictMsg struct {
	Verdict mentor.Verdict
	Err     error
}

// explainMsg is sent when the explain-mode mentor replies.
type explainMsg struct {
	Text string
	Err  error
}

// quizAskMsg is sent when the quiz-mode mentor produces a question.
type quizAskMsg struct {
	Question string
	Err      error
}

// quizAnswerMsg is sent when the quiz-mode mentor grades an answer.
type quizAnswerMsg struct {
	Eval mentor.Evaluation
	Err  error
}
