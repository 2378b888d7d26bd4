package hydrate

import (
	"encoding/json"
	"fmt"

	"github.com/viament/viament/internal/blocks"
)

// rawQuizOption tolerates missing correctness flags; they may arrive as
// a block-level "correct" index list instead.
type rawQuizOption struct {
	Text        string `json:"text"`
	IsCorrect   *bool  `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// rawQuizBlock covers both wire formats for quiz correctness: per-option
// isCorrect flags or a block-level index list.
type rawQuizBlock struct {
	Title            string          `json:"title"`
	Recap            string          `json:"recap"`
	Scenario         string          `json:"scenario"`
	Question         string          `json:"question"`
	Kind             string          `json:"kind"`
	Options          []rawQuizOption `json:"options"`
	Correct          []int           `json:"correct"`
	PenaltyHearts    *int            `json:"penalty_hearts"`
	ReflectionPrompt string          `json:"reflectionPrompt"`
}

// normalizeBlocks decodes an LLM blocks payload into the canonical
// block union, deriving quiz isCorrect flags exactly once.
func normalizeBlocks(raw json.RawMessage) (blocks.Blocks, error) {
	var envelope struct {
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode blocks envelope: %w", err)
	}

	out := make(blocks.Blocks, 0, len(envelope.Blocks))
	for i, rawBlock := range envelope.Blocks {
		var head struct {
			Type blocks.BlockType `json:"type"`
		}
		if err := json.Unmarshal(rawBlock, &head); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}

		switch head.Type {
		case blocks.TypeQuiz:
			quiz, err := normalizeQuiz(rawBlock)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			out = append(out, quiz)
		case blocks.TypeText:
			var b blocks.TextBlock
			if err := json.Unmarshal(rawBlock, &b); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			b.Type = blocks.TypeText
			out = append(out, b)
		case blocks.TypeCode:
			var b blocks.CodeBlock
			if err := json.Unmarshal(rawBlock, &b); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			b.Type = blocks.TypeCode
			out = append(out, b)
		case blocks.TypeAiMentor:
			var b blocks.AiMentorBlock
			if err := json.Unmarshal(rawBlock, &b); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			b.Type = blocks.TypeAiMentor
			if b.Mode != "quiz" && b.Mode != "explain" {
				b.Mode = "explain"
			}
			out = append(out, b)
		default:
			// Unknown block types degrade to a plain text rendering
			// rather than dropping content.
			var b blocks.TextBlock
			if err := json.Unmarshal(rawBlock, &b); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			b.Type = blocks.TypeText
			out = append(out, b)
		}
	}
	return out, nil
}

func normalizeQuiz(raw json.RawMessage) (blocks.QuizBlock, error) {
	var rq rawQuizBlock
	if err := json.Unmarshal(raw, &rq); err != nil {
		return blocks.QuizBlock{}, err
	}
	if len(rq.Options) == 0 {
		return blocks.QuizBlock{}, fmt.Errorf("quiz block has no options")
	}

	options := make([]blocks.QuizOption, len(rq.Options))
	flagged := false
	for i, o := range rq.Options {
		options[i] = blocks.QuizOption{
			Text:        o.Text,
			Explanation: o.Explanation,
		}
		if o.IsCorrect != nil {
			options[i].IsCorrect = *o.IsCorrect
			if *o.IsCorrect {
				flagged = true
			}
		}
	}

	// Flags win when present; otherwise derive from the index list
	// (which also covers the nothing-marked case by defaulting to the
	// first option).
	if !flagged {
		options = blocks.ApplyCorrectIndices(options, rq.Correct)
	}

	penalty := 1
	if rq.PenaltyHearts != nil {
		penalty = *rq.PenaltyHearts
	}
	kind := rq.Kind
	if kind == "" {
		kind = "single"
	}

	return blocks.QuizBlock{
		Type:             blocks.TypeQuiz,
		Title:            rq.Title,
		Recap:            rq.Recap,
		Scenario:         rq.Scenario,
		Question:         rq.Question,
		Kind:             kind,
		Options:          options,
		PenaltyHearts:    penalty,
		ReflectionPrompt: rq.ReflectionPrompt,
	}, nil
}
