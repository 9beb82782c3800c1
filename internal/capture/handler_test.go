package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, image []byte) (Extraction, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(Extraction), args.Error(1)
}

func setupRouter(extractor Extractor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(extractor, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC) }
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if name != "" {
		part, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	img := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 20, 10)))
	extractor := new(MockExtractor)
	extractor.On("Extract", mock.Anything, img).
		Return(Extraction{Text: "PART 77 S/N 7654321", ConfidenceScores: []float64{0.9}, Locale: "en"}, nil)

	w := httptest.NewRecorder()
	setupRouter(extractor).ServeHTTP(w, uploadRequest(t, "label.png", img))

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "7654321", got["serial_number_extracted"])
	assert.Equal(t, "PART 77 S/N 7654321", got["ocr_detected_text"])
	assert.Equal(t, "label.png", got["image_file_name"])
	assert.Equal(t, "en", got["ocr_language"])
	assert.Equal(t, "2024-05-14 09:30:00", got["ocr_timestamp"])

	meta := got["image_metadata"].(map[string]any)
	assert.Equal(t, float64(20), meta["image_width"])
	assert.Equal(t, float64(10), meta["image_height"])
	assert.Equal(t, float64(3), meta["image_channels"])
	assert.Equal(t, "image/png", meta["image_format"])
	extractor.AssertExpectations(t)
}

func TestUploadImageNoText(t *testing.T) {
	img := encodePNG(t, image.NewGray(image.Rect(0, 0, 4, 4)))
	extractor := new(MockExtractor)
	extractor.On("Extract", mock.Anything, img).Return(Extraction{ConfidenceScores: []float64{}}, nil)

	w := httptest.NewRecorder()
	setupRouter(extractor).ServeHTTP(w, uploadRequest(t, "label.PNG", img))

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, NoSerial, got["serial_number_extracted"])
	assert.Nil(t, got["ocr_language"])
}

func TestUploadImageRejections(t *testing.T) {
	img := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 2, 2)))

	tests := []struct {
		name     string
		file     string
		data     []byte
		expected string
	}{
		{"missing file", "", nil, "No file part in the request"},
		{"wrong extension", "label.gif", img, "File type not allowed"},
		{"not an image", "label.png", []byte("plain text"), "Invalid image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := new(MockExtractor)
			w := httptest.NewRecorder()
			setupRouter(extractor).ServeHTTP(w, uploadRequest(t, tt.file, tt.data))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.expected)
			extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
		})
	}
}

func TestUploadImageExtractorFailure(t *testing.T) {
	img := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 2, 2)))
	extractor := new(MockExtractor)
	extractor.On("Extract", mock.Anything, img).Return(Extraction{}, errors.New("down"))

	w := httptest.NewRecorder()
	setupRouter(extractor).ServeHTTP(w, uploadRequest(t, "label.jpg", img))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
