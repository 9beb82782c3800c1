package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sntrack/internal/inventory/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	RenderXLSX(ctx context.Context, batchNumber string) (*bytes.Buffer, error)
	PublishSheet(ctx context.Context, req PublishRequest) (string, error)
}

type ReportHandler struct {
	service Service
	log     *zap.Logger
}

func NewReportHandler(service Service, log *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service, log: log}
}

func (h *ReportHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/serial_numbers/report", h.DownloadReport)
	router.POST("/serial_numbers/report/sheets", h.PublishReport)
}

func (h *ReportHandler) DownloadReport(c *gin.Context) {
	batchNumber := strings.TrimSpace(c.Query("batch_id"))
	if batchNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": gin.H{"batch_id": "Missing data for required field."}})
		return
	}

	buf, err := h.service.RenderXLSX(c.Request.Context(), batchNumber)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"batch_%s.xlsx\"", batchNumber))
	c.Data(http.StatusOK, XLSXContentType, buf.Bytes())
}

func (h *ReportHandler) PublishReport(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	updated, err := h.service.PublishSheet(c.Request.Context(), req)
	if errors.Is(err, ErrPublishingDisabled) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Google Sheets publishing is not configured"})
		return
	}
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report published", "updated_range": updated})
}
