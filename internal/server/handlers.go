package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
	"github.com/viament/viament/internal/profile"
	"github.com/viament/viament/internal/roadmap"
)

type handlers struct {
	cfg RouterConfig
}

// POST /api/topics
// Body is the raw profile; failures never reach the client because the
// topic service falls back internally.
func (h *handlers) topics(c *gin.Context) {
	var p profile.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}

	topics, source := h.cfg.Topics.Generate(c.Request.Context(), p)
	c.JSON(http.StatusOK, gin.H{"topics": topics, "source": source})
}

type roadmapRequest struct {
	Profile profile.UserProfile         `json:"profile"`
	Topics  []curriculum.TopicBlueprint `json:"topics,omitempty"`
}

// POST /api/roadmap
func (h *handlers) roadmap(c *gin.Context) {
	var req roadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid roadmap payload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"roadmap": roadmap.Build(req.Profile, req.Topics)})
}

type lessonRequest struct {
	LessonID       string                    `json:"lessonId"`
	Plan           curriculum.LessonPlan     `json:"plan"`
	Profile        profile.UserProfile       `json:"profile"`
	TopicBlueprint curriculum.TopicBlueprint `json:"topicBlueprint"`
}

// POST /api/lesson
func (h *handlers) lesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lesson payload"})
		return
	}
	if req.Plan.LessonType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan is required"})
		return
	}

	lessonID := req.LessonID
	if lessonID == "" {
		lessonID = req.Plan.TopicBlueprintID + "-" + string(req.Plan.LessonType)
	}

	result, err := h.cfg.Hydrator.Hydrate(c.Request.Context(), hydrate.Request{
		LessonID:  lessonID,
		Plan:      req.Plan,
		Profile:   req.Profile,
		Blueprint: req.TopicBlueprint,
	})
	if err != nil {
		if errors.Is(err, hydrate.ErrSuperseded) {
			c.JSON(http.StatusConflict, gin.H{"error": "superseded by a newer request"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocks": result.Blocks, "source": result.Source})
}

// POST /api/mentor/guide
func (h *handlers) guide(c *gin.Context) {
	var req mentor.GuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid guide payload"})
		return
	}

	feedback, err := h.cfg.Mentor.Guide(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// POST /api/mentor/examiner
func (h *handlers) examiner(c *gin.Context) {
	var req mentor.ExamineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid examiner payload"})
		return
	}

	verdict, err := h.cfg.Mentor.Examine(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, verdict)
}

// POST /api/mentor/chat
func (h *handlers) chat(c *gin.Context) {
	var req mentor.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat payload"})
		return
	}

	reply, err := h.cfg.Mentor.Chat(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// POST /api/mentor/ai-explain
func (h *handlers) explain(c *gin.Context) {
	var req mentor.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid explain payload"})
		return
	}

	feedback, err := h.cfg.Mentor.Explain(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

type quizRequest struct {
	Action        string `json:"action"`
	LessonContext string `json:"lessonContext"`
	Topic         string `json:"topic"`
	Prompt        string `json:"prompt"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
}

// POST /api/mentor/ai-quiz
// Dispatches on action: "ask" generates a question, "answer" grades one.
func (h *handlers) quiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz payload"})
		return
	}

	switch req.Action {
	case "ask":
		question, err := h.cfg.Mentor.AskQuiz(c.Request.Context(), mentor.QuizAskRequest{
			LessonContext: req.LessonContext,
			Topic:         req.Topic,
			Prompt:        req.Prompt,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"question": question})

	case "answer":
		eval, err := h.cfg.Mentor.AnswerQuiz(c.Request.Context(), mentor.QuizAnswerRequest{
			LessonContext: req.LessonContext,
			Topic:         req.Topic,
			Question:      req.Question,
			Answer:        req.Answer,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, eval)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported action"})
	}
}
