package capture

import (
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageSize = 16 << 20

// Draft is the unsaved record data proposed from one image.
type Draft struct {
	OcrDetectedText       string        `json:"ocr_detected_text"`
	SerialNumberExtracted string        `json:"serial_number_extracted"`
	ImageFileName         string        `json:"image_file_name"`
	ImageMetadata         ImageMetadata `json:"image_metadata"`
	ConfidenceScores      []float64     `json:"confidence_scores"`
	OcrLanguage           *string       `json:"ocr_language"`
	OcrTimestamp          string        `json:"ocr_timestamp"`
}

type Handler struct {
	extractor Extractor
	log       *zap.Logger
	now       func() time.Time
}

func NewHandler(extractor Extractor, log *zap.Logger) *Handler {
	return &Handler{extractor: extractor, log: log, now: time.Now}
}

// RegisterRoutes mounts POST /upload behind the given middleware.
func (h *Handler) RegisterRoutes(router gin.IRouter, middleware ...gin.HandlerFunc) {
	router.POST("/upload", append(middleware, h.UploadImage)...)
}

func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)

	header, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	if header.Filename == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}
	if !AllowedFile(header.Filename) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to read uploaded file"})
		return
	}

	meta, err := ReadImageMetadata(data, header.Header.Get("Content-Type"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid image", "details": err.Error()})
		return
	}

	extraction, err := h.extractor.Extract(c.Request.Context(), data)
	if err != nil {
		h.log.Error("Text extraction failed", zap.String("file", header.Filename), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Text extraction failed"})
		return
	}

	draft := Draft{
		OcrDetectedText:       extraction.Text,
		SerialNumberExtracted: IsolateSerialNumber(extraction.Text),
		ImageFileName:         filepath.Base(header.Filename),
		ImageMetadata:         meta,
		ConfidenceScores:      extraction.ConfidenceScores,
		OcrTimestamp:          h.now().UTC().Format("2006-01-02 15:04:05"),
	}
	if extraction.Locale != "" {
		draft.OcrLanguage = &extraction.Locale
	}

	c.JSON(http.StatusOK, draft)
}
