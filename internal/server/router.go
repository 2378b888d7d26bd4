// Package server exposes the curriculum, hydration, and mentor services
// over a small JSON API for external front ends.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viament/viament/internal/curriculum"
	"github.com/viament/viament/internal/hydrate"
	"github.com/viament/viament/internal/mentor"
)

// RouterConfig wires the services behind the routes.
type RouterConfig struct {
	Topics   *curriculum.Service
	Hydrator *hydrate.Hydrator
	Mentor   *mentor.Service
	Log      *zap.SugaredLogger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	h := &handlers{cfg: cfg}

	router.GET("/healthcheck", healthCheck)
	api := router.Group("/api")
	{
		api.POST("/topics", h.topics)
		api.POST("/roadmap", h.roadmap)
		api.POST("/lesson", h.lesson)
		api.POST("/mentor/guide", h.guide)
		api.POST("/mentor/examiner", h.examiner)
		api.POST("/mentor/chat", h.chat)
		api.POST("/mentor/ai-explain", h.explain)
		api.POST("/mentor/ai-quiz", h.quiz)
	}

	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status())
	}
}

// Server wraps the engine with its listen address.
type Server struct {
	Engine *gin.Engine
}

// NewServer builds a ready-to-run Server.
func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run blocks serving HTTP on the given address.
func (s *Server) Run(address string) error {
	return s.Engine.Run(address)
}
