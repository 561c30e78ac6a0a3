package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cybersafe-backend/internal/analysis_client"
)

type RiskHandler interface {
	AssessRisk(c *gin.Context)
}

type riskHandler struct {
	client *analysis_client.Client
	logger *zap.Logger
}

func NewRiskHandler(client *analysis_client.Client, logger *zap.Logger) RiskHandler {
	return &riskHandler{client: client, logger: logger}
}

// AssessRisk handles POST /api/risk-assessment. It forwards the
// self-assessment questionnaire to the analysis service; nothing is stored.
func (h *riskHandler) AssessRisk(c *gin.Context) {
	var req analysis_client.RiskScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind risk assessment", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one answer is required"})
		return
	}

	result, err := h.client.RiskScore(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Risk assessment failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Risk assessment service is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": result})
}
