package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/streetwatch/internal/answer"
	"github.com/agenthands/streetwatch/internal/logging"
	"github.com/agenthands/streetwatch/internal/pipeline"
)

// Runner answers one question. *pipeline.Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, q pipeline.Query) (answer.StructuredAnswer, error)
}

type Server struct {
	Pipeline Runner
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

func NewServer(p Runner, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	return &Server{
		Pipeline: p,
		Gatherer: gatherer,
		Logger:   logging.OrNop(logger),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/chat", s.Chat)
	r.GET("/healthz", s.Health)
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

type ChatRequest struct {
	Question string `json:"question"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	out, err := s.Pipeline.Run(c.Request.Context(), pipeline.Query{Question: req.Question})
	if err != nil {
		s.Logger.Error("failed to answer question", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to get an answer from the model"})
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.Logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}
