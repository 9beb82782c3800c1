package batches

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"sntrack/internal/inventory/response"
	"sntrack/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadSize bounds reference document uploads.
const maxUploadSize = 32 << 20

type Service interface {
	CreateBatch(ctx context.Context, input map[string]any) (*models.Batch, error)
	GetBatch(ctx context.Context, batchNumber string) (*models.BatchSummary, error)
	GetBatchByID(ctx context.Context, id int) (*models.BatchDetail, error)
	CreateBatchReference(ctx context.Context, input map[string]any) (*models.BatchReference, error)
	ListReferences(ctx context.Context, batchID int) ([]models.BatchReference, error)
	UploadReference(ctx context.Context, batchID int, req UploadRequest, body io.Reader) (*models.BatchReference, error)
	AdvanceProgress(ctx context.Context, batchID int, req ProgressRequest) (*models.Batch, error)
}

type BatchHandler struct {
	service Service
	log     *zap.Logger
}

func NewBatchHandler(service Service, log *zap.Logger) *BatchHandler {
	return &BatchHandler{service: service, log: log}
}

func (h *BatchHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/batch", h.CreateBatch)
	router.GET("/batch", h.CheckBatch)
	router.GET("/batch/:id", h.GetBatch)
	router.PATCH("/batch/:id/progress", h.AdvanceProgress)
	router.GET("/batch/:id/references", h.ListReferences)
	router.POST("/batch/:id/references/upload", h.UploadReference)
	router.POST("/batch_reference", h.CreateBatchReference)
}

func (h *BatchHandler) CreateBatch(c *gin.Context) {
	input, ok := response.BindObject(c)
	if !ok {
		return
	}

	batch, err := h.service.CreateBatch(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Batch info created", "data": batch})
}

// CheckBatch looks a batch up by its external number.
func (h *BatchHandler) CheckBatch(c *gin.Context) {
	summary, err := h.service.GetBatch(c.Request.Context(), c.Query("batch_number"))
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *BatchHandler) GetBatch(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetBatchByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *BatchHandler) AdvanceProgress(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	batch, err := h.service.AdvanceProgress(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, batch)
}

func (h *BatchHandler) CreateBatchReference(c *gin.Context) {
	input, ok := response.BindObject(c)
	if !ok {
		return
	}

	ref, err := h.service.CreateBatchReference(c.Request.Context(), input)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Batch reference created", "data": ref})
}

func (h *BatchHandler) ListReferences(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	refs, err := h.service.ListReferences(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, refs)
}

func (h *BatchHandler) UploadReference(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	req := UploadRequest{
		FileName:        header.Filename,
		FileDescription: c.PostForm("file_description"),
		ContentType:     header.Header.Get("Content-Type"),
	}

	ref, err := h.service.UploadReference(c.Request.Context(), id, req, file)
	if err != nil {
		response.Error(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Batch reference uploaded", "data": ref})
}

func bindID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid batch id, value must be a positive integer"})
		return 0, false
	}
	return id, true
}
