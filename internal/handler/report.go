package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cybersafe-backend/internal/report_processor"
	"cybersafe-backend/internal/repository"
)

type ReportHandler interface {
	SubmitReport(c *gin.Context)
	GetReport(c *gin.Context)
	ListReports(c *gin.Context)
}

type reportHandler struct {
	processor   *report_processor.Processor
	reportStore repository.ReportStore
	logger      *zap.Logger
}

func NewReportHandler(processor *report_processor.Processor, reportStore repository.ReportStore, logger *zap.Logger) ReportHandler {
	return &reportHandler{processor: processor, reportStore: reportStore, logger: logger}
}

// SubmitReport handles POST /api/reports. The created report is returned
// immediately with status Filed; the analysis pipeline runs in a background
// goroutine detached from this request, so a client disconnect never strands
// the report mid-pipeline.
func (h *reportHandler) SubmitReport(c *gin.Context) {
	var sub report_processor.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.logger.Error("Failed to bind report submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.processor.Submit(&sub)
	if err != nil {
		var vErr *report_processor.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		h.logger.Error("Failed to submit report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		return
	}

	go h.processor.Process(context.Background(), report.ID)

	c.JSON(http.StatusCreated, gin.H{"report": report})
}

// GetReport handles GET /api/reports/:id. Reports still being processed
// return their current partial state; the call never blocks on the pipeline.
func (h *reportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	report, err := h.reportStore.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		h.logger.Error("Failed to get report", zap.String("report_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ListReports handles GET /api/reports, newest first.
func (h *reportHandler) ListReports(c *gin.Context) {
	reports, err := h.reportStore.List()
	if err != nil {
		h.logger.Error("Failed to list reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
