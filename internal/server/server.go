package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cybersafe-backend/internal/analysis_client"
	"cybersafe-backend/internal/handler"
	"cybersafe-backend/internal/report_processor"
	"cybersafe-backend/internal/repository"
	"cybersafe-backend/internal/service"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

func NewServer(
	processor *report_processor.Processor,
	reportStore repository.ReportStore,
	chatService *service.ChatService,
	analysisClient *analysis_client.Client,
	log *zap.Logger,
) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		log:    log,
	}

	s.setupRoutes(processor, reportStore, chatService, analysisClient)

	return s
}

func (s *Server) setupRoutes(
	processor *report_processor.Processor,
	reportStore repository.ReportStore,
	chatService *service.ChatService,
	analysisClient *analysis_client.Client,
) {
	reportHandler := handler.NewReportHandler(processor, reportStore, s.log)
	chatHandler := handler.NewChatHandler(chatService, s.log)
	riskHandler := handler.NewRiskHandler(analysisClient, s.log)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Deep health check including the analysis service
	s.router.GET("/health", func(c *gin.Context) {
		if _, err := analysisClient.HealthCheck(c.Request.Context()); err != nil {
			s.log.Warn("Analysis service health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "analysis_service": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "analysis_service": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/reports", reportHandler.SubmitReport)
		api.GET("/reports", reportHandler.ListReports)
		api.GET("/reports/:id", reportHandler.GetReport)

		api.GET("/chat/:chatId/messages", chatHandler.ListMessages)
		api.POST("/chat/:chatId/messages", chatHandler.PostMessage)

		api.POST("/risk-assessment", riskHandler.AssessRisk)
	}
}

func (s *Server) Run(addr string) error {
	s.log.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
