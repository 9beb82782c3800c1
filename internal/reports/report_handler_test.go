package reports

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	custom_error "sntrack/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RenderXLSX(ctx context.Context, batchNumber string) (*bytes.Buffer, error) {
	args := m.Called(ctx, batchNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bytes.Buffer), args.Error(1)
}

func (m *MockService) PublishSheet(ctx context.Context, req PublishRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func SetupTestRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewReportHandler(service, zap.NewNop()).RegisterRoutes(r)
	return r
}

func TestDownloadReport(t *testing.T) {
	service := new(MockService)
	service.On("RenderXLSX", mock.Anything, "WO-1001").Return(bytes.NewBufferString("xlsx"), nil)

	w := httptest.NewRecorder()
	SetupTestRouter(service).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/serial_numbers/report?batch_id=WO-1001", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "batch_WO-1001.xlsx")
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestDownloadReportErrors(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		setup    func(*MockService)
		expected int
	}{
		{"missing batch id", "/serial_numbers/report", func(*MockService) {}, http.StatusBadRequest},
		{"unknown batch", "/serial_numbers/report?batch_id=nope", func(m *MockService) {
			m.On("RenderXLSX", mock.Anything, "nope").Return(nil, custom_error.NotFound("batch", "nope"))
		}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setup(service)

			w := httptest.NewRecorder()
			SetupTestRouter(service).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestPublishReport(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(*MockService)
		expected int
	}{
		{"published", `{"batch_id":"WO-1","spreadsheet_id":"s-1"}`, func(m *MockService) {
			m.On("PublishSheet", mock.Anything, PublishRequest{BatchID: "WO-1", SpreadsheetID: "s-1"}).Return("A1:R3", nil)
		}, http.StatusOK},
		{"missing batch id", `{"spreadsheet_id":"s-1"}`, func(*MockService) {}, http.StatusBadRequest},
		{"not configured", `{"batch_id":"WO-1","spreadsheet_id":"s-1"}`, func(m *MockService) {
			m.On("PublishSheet", mock.Anything, mock.Anything).Return("", ErrPublishingDisabled)
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setup(service)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/serial_numbers/report/sheets", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			SetupTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			service.AssertExpectations(t)
		})
	}
}
