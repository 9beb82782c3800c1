package serials

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"sntrack/internal/inventory/response"
	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input map[string]any) (*models.SerialNumberRecord, error)
	Update(ctx context.Context, id int, input map[string]any) (*models.SerialNumberRecord, error)
	Void(ctx context.Context, id int, actor string) (*models.SerialNumberRecord, error)
	SoftDelete(ctx context.Context, id int, actor string) error
	Get(ctx context.Context, id int) (*models.SerialNumberRecord, error)
	Query(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error)
	QueryFixed(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error)
}

type SerialHandler struct {
	service Service
	log     *zap.Logger
}

func NewSerialHandler(service Service, log *zap.Logger) *SerialHandler {
	return &SerialHandler{service: service, log: log}
}

func (h *SerialHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/serial_number", h.CreateSerialNumber)
	router.GET("/serial_number/:id", h.GetSerialNumber)
	router.PUT("/serial_number/:id", h.UpdateSerialNumber)
	router.PATCH("/serial_number/:id/void", h.VoidSerialNumber)
	router.DELETE("/serial_number/:id", h.DeleteSerialNumber)
	router.GET("/serial_numbers/query", h.QuerySerialNumbers)
	router.GET("/serial_numbers/query_v2", h.QuerySerialNumbersV2)
}

func (h *SerialHandler) CreateSerialNumber(c *gin.Context) {
	input, ok := response.BindObject(c)
	if !ok {
		return
	}

	record, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Serial number record created", "data": record})
}

func (h *SerialHandler) GetSerialNumber(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *SerialHandler) UpdateSerialNumber(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	input, ok := response.BindObject(c)
	if !ok {
		return
	}

	record, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Serial number record updated", "data": record})
}

func (h *SerialHandler) VoidSerialNumber(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	// The body is optional, but a body that is sent must be valid.
	var req VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		verr := custom_error.NewValidationError()
		verr.Add("voided_user", "Invalid request body: "+err.Error())
		response.Error(c, h.log, verr)
		return
	}

	record, err := h.service.Void(c.Request.Context(), id, req.VoidedUser)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Serial number record voided", "data": record})
}

func (h *SerialHandler) DeleteSerialNumber(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id, c.Query("user")); err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Serial number record soft deleted", "id": id})
}

func (h *SerialHandler) QuerySerialNumbers(c *gin.Context) {
	page, err := h.service.QueryFixed(c.Request.Context(), response.QueryParams(c))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *SerialHandler) QuerySerialNumbersV2(c *gin.Context) {
	page, err := h.service.Query(c.Request.Context(), response.QueryParams(c))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func bindID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid id, value must be a positive integer"})
		return 0, false
	}
	return id, true
}
