package mentor

import (
	"context"
	"fmt"
	"strings"

	"github.com/viament/viament/internal/llm"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/store"
)

// ChatRequest is one free-form mentor chat turn.
type ChatRequest struct {
	Message string              `json:"message"`
	Profile profile.UserProfile `json:"userProfile"`
	History []llm.Message       `json:"conversationHistory,omitempty"`
}

// Chat answers a free-form question with the learner's profile woven
// into the system prompt. Both turns are persisted when a chat repo is
// configured; persistence failures are logged, never surfaced.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", fmt.Errorf("chat: message is required")
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Message})

	ctx = llm.WithPurpose(ctx, "mentor-chat")
	resp, err := s.generate(ctx, llm.Request{
		System:      chatSystemPrompt(req.Profile),
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	})

	reply := "I'm sorry, I couldn't generate a response."
	if err != nil {
		s.log.Warnw("chat provider failed", "error", err)
	} else if text := strings.TrimSpace(resp.Text()); text != "" {
		reply = text
	}

	s.persistTurn(ctx, "user", req.Message)
	s.persistTurn(ctx, "assistant", reply)
	return reply, nil
}

// RecentChat returns up to chatHistoryLimit persisted turns, oldest
// first, as provider messages ready to seed a new conversation.
func (s *Service) RecentChat(ctx context.Context) ([]llm.Message, error) {
	if s.chats == nil {
		return nil, nil
	}
	stored, err := s.chats.Recent(ctx, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	msgs := make([]llm.Message, 0, len(stored))
	for _, m := range stored {
		msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	return msgs, nil
}

func (s *Service) persistTurn(ctx context.Context, role, content string) {
	if s.chats == nil {
		return
	}
	if err := s.chats.Append(ctx, store.ChatMessage{Role: role, Content: content}); err != nil {
		s.log.Warnw("persist chat turn failed", "role", role, "error", err)
	}
}

func chatSystemPrompt(p profile.UserProfile) string {
	hooks := profile.BuildHooks(p)
	hobbies := "Not specified"
	if joined := strings.Join(nonBlank(p.Hobbies), ", "); joined != "" {
		hobbies = joined
	}
	return fmt.Sprintf(`You are a helpful programming mentor. Your role is to guide and support learners on their coding journey.

User Profile:
- Reason for learning: %s
- Job status: %s
- Coding experience: %s
- What captivates them: %s
- Learning goal: %s
- Hobbies: %s

Adapt your responses to their experience level and goals. Be encouraging, clear, and provide practical guidance.`,
		hooks.Reason, hooks.JobStatus, hooks.Experience, hooks.Captivates, hooks.Goal, hobbies)
}

func nonBlank(items []string) []string {
	var out []string
	for _, s := range items {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
