// Package blocks defines the pedagogical content units a lesson is made
// of and builds them locally when no remote content source is available.
package blocks

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the LessonBlock union on the wire.
type BlockType string

const (
	TypeText     BlockType = "text"
	TypeQuiz     BlockType = "quiz"
	TypeCode     BlockType = "code"
	TypeMentor   BlockType = "mentor"
	TypeAiMentor BlockType = "ai-mentor"
)

// LessonBlock is one self-contained unit of lesson content.
type LessonBlock interface {
	BlockType() BlockType
}

// TextBlock is prose content with optional mentor micro-steps.
type TextBlock struct {
	Type         BlockType `json:"type"`
	Title        string    `json:"title"`
	Markdown     string    `json:"markdown"`
	QuickActions []string  `json:"quickActions,omitempty"`
	MicroSteps   []string  `json:"microSteps,omitempty"`
	Snippet      string    `json:"snippet,omitempty"`
}

func (TextBlock) BlockType() BlockType { return TypeText }

// QuizOption is a single answer choice. IsCorrect is the only source of
// truth for correctness; it is set exactly once at build time.
type QuizOption struct {
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// QuizBlock is a multiple-choice check.
type QuizBlock struct {
	Type             BlockType    `json:"type"`
	Title            string       `json:"title"`
	Recap            string       `json:"recap"`
	Scenario         string       `json:"scenario"`
	Question         string       `json:"question"`
	Kind             string       `json:"kind"`
	Options          []QuizOption `json:"options"`
	PenaltyHearts    int          `json:"penalty_hearts"`
	ReflectionPrompt string       `json:"reflectionPrompt,omitempty"`
}

func (QuizBlock) BlockType() BlockType { return TypeQuiz }

// CodeBlock is a guided coding exercise. Starter and solution are
// illustrative scaffolding; acceptance is judged externally, not by
// running the code.
type CodeBlock struct {
	Type               BlockType `json:"type"`
	Title              string    `json:"title"`
	Instructions       string    `json:"instructions"`
	Language           string    `json:"language,omitempty"`
	Starter            string    `json:"starter"`
	Solution           string    `json:"solution"`
	AcceptanceCriteria []string  `json:"acceptanceCriteria"`
	PenaltyHearts      int       `json:"penalty_hearts"`
	ReflectionPrompt   string    `json:"reflectionPrompt,omitempty"`
}

func (CodeBlock) BlockType() BlockType { return TypeCode }

// MentorBlock triggers the classic mentor intervention (guide after a
// wrong answer, examiner after a submission).
type MentorBlock struct {
	Type       BlockType  `json:"type"`
	Mode       string     `json:"mode"`    // "guide" or "examiner"
	Trigger    string     `json:"trigger"` // "manual", "after_incorrect", "after_test_fail"
	PromptVars PromptVars `json:"prompt_vars"`
}

// PromptVars parameterize a MentorBlock's prompt template.
type PromptVars struct {
	Proficiency   string `json:"proficiency"`
	LessonContext string `json:"lesson_context"`
}

func (MentorBlock) BlockType() BlockType { return TypeMentor }

// AiMentorBlock is an open conversation with the AI mentor, either
// explaining the topic or quizzing the learner with open questions.
type AiMentorBlock struct {
	Type               BlockType `json:"type"`
	Mode               string    `json:"mode"` // "explain" or "quiz"
	Title              string    `json:"title"`
	Persona            string    `json:"persona"`
	LessonContext      string    `json:"lessonContext"`
	Topic              string    `json:"topic"`
	Prompt             string    `json:"prompt"`
	SuggestedQuestions []string  `json:"suggestedQuestions,omitempty"`
	QuizGoal           int       `json:"quizGoal,omitempty"`
}

func (AiMentorBlock) BlockType() BlockType { return TypeAiMentor }

// Blocks is a JSON-round-trippable slice of the LessonBlock union.
type Blocks []LessonBlock

func (b Blocks) MarshalJSON() ([]byte, error) {
	return json.Marshal([]LessonBlock(b))
}

func (b *Blocks) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make([]LessonBlock, 0, len(raws))
	for i, raw := range raws {
		block, err := unmarshalBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, block)
	}
	*b = out
	return nil
}

func unmarshalBlock(raw json.RawMessage) (LessonBlock, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case TypeText:
		var b TextBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case TypeQuiz:
		var b QuizBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case TypeCode:
		var b CodeBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case TypeMentor:
		var b MentorBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case TypeAiMentor:
		var b AiMentorBlock
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
}

// ApplyCorrectIndices derives IsCorrect flags from a raw index list, the
// alternate wire format some content sources use. Out-of-range indices
// are ignored; if none land, the first option becomes correct so the
// single-correct invariant holds.
func ApplyCorrectIndices(options []QuizOption, correct []int) []QuizOption {
	out := make([]QuizOption, len(options))
	copy(out, options)
	for i := range out {
		out[i].IsCorrect = false
	}

	marked := false
	for _, idx := range correct {
		if idx >= 0 && idx < len(out) {
			out[idx].IsCorrect = true
			marked = true
		}
	}
	if !marked && len(out) > 0 {
		out[0].IsCorrect = true
	}
	return out
}
