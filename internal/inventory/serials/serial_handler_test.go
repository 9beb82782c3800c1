package serials

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, input map[string]any) (*models.SerialNumberRecord, error) {
	args := m.Called(input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SerialNumberRecord), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int, input map[string]any) (*models.SerialNumberRecord, error) {
	args := m.Called(id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SerialNumberRecord), args.Error(1)
}

func (m *MockService) Void(ctx context.Context, id int, actor string) (*models.SerialNumberRecord, error) {
	args := m.Called(id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SerialNumberRecord), args.Error(1)
}

func (m *MockService) SoftDelete(ctx context.Context, id int, actor string) error {
	args := m.Called(id, actor)
	return args.Error(0)
}

func (m *MockService) Get(ctx context.Context, id int) (*models.SerialNumberRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SerialNumberRecord), args.Error(1)
}

func (m *MockService) Query(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error) {
	args := m.Called(params)
	return args.Get(0).(models.Page[models.SerialNumberRecord]), args.Error(1)
}

func (m *MockService) QueryFixed(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error) {
	args := m.Called(params)
	return args.Get(0).(models.Page[models.SerialNumberRecord]), args.Error(1)
}

func SetupTestRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewSerialHandler(service, zap.NewNop()).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doRawRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSerialNumber_Success(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	input := map[string]any{"verified_sn": "1234567", "part_id": "P-1"}
	service.On("Create", input).Return(&models.SerialNumberRecord{ID: 1, VerifiedSN: "1234567", PartID: "P-1", OcrStatus: "pending"}, nil)

	w := doRequest(router, http.MethodPost, "/serial_number", input)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Message string                    `json:"message"`
		Data    models.SerialNumberRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Serial number record created", body.Message)
	assert.Equal(t, 1, body.Data.ID)
	service.AssertExpectations(t)
}

func TestCreateSerialNumber_ValidationError(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	input := map[string]any{"part_id": "P-1"}
	service.On("Create", input).Return(nil, custom_error.FieldError("verified_sn", "Missing data for required field."))

	w := doRequest(router, http.MethodPost, "/serial_number", input)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":{"verified_sn":"Missing data for required field."}}`, w.Body.String())
}

func TestCreateSerialNumber_EmptyBody(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	w := doRequest(router, http.MethodPost, "/serial_number", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdateSerialNumber_NotFound(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	input := map[string]any{"testing_notes": "x"}
	service.On("Update", 9, input).Return(nil, custom_error.NotFound("serial number record", 9))

	w := doRequest(router, http.MethodPut, "/serial_number/9", input)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "serial number record 9 not found")
}

func TestVoidSerialNumber(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		actor  string
		err    error
		status int
	}{
		{"voided", `{"voided_user":"alice"}`, "alice", nil, http.StatusOK},
		{"no body", "", "", nil, http.StatusOK},
		{"already voided", `{"voided_user":"bob"}`, "bob", &custom_error.AlreadyVoidedError{ID: 3}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := SetupTestRouter(service)
			if tt.err != nil {
				service.On("Void", 3, tt.actor).Return(nil, tt.err)
			} else {
				service.On("Void", 3, tt.actor).Return(&models.SerialNumberRecord{ID: 3, Voided: true}, nil)
			}

			w := doRawRequest(router, http.MethodPatch, "/serial_number/3/void", tt.body)

			assert.Equal(t, tt.status, w.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestVoidSerialNumber_MalformedBody(t *testing.T) {
	for _, body := range []string{`{"voided_user":123}`, `{bad json`, `["alice"]`} {
		t.Run(body, func(t *testing.T) {
			service := new(MockService)
			router := SetupTestRouter(service)

			w := doRawRequest(router, http.MethodPatch, "/serial_number/3/void", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "voided_user")
			service.AssertNotCalled(t, "Void", mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteSerialNumber(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)
	service.On("SoftDelete", 5, "carol").Return(nil)

	w := doRequest(router, http.MethodDelete, "/serial_number/5?user=carol", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Serial number record soft deleted","id":5}`, w.Body.String())
}

func TestGetSerialNumber_InvalidID(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	for _, path := range []string{"/serial_number/abc", "/serial_number/0"} {
		w := doRequest(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	service.AssertNotCalled(t, "Get", mock.Anything)
}

func TestQuerySerialNumbersV2_PassesFlatParams(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	params := map[string]string{"uploaded_by": "ali", "batch_quantity": "10", "page": "2"}
	service.On("Query", params).Return(models.Page[models.SerialNumberRecord]{
		Total: 21, Pages: 2, CurrentPage: 2, PerPage: 20, Data: []models.SerialNumberRecord{{ID: 21}},
	}, nil)

	w := doRequest(router, http.MethodGet, "/serial_numbers/query_v2?uploaded_by=ali&batch_quantity=10&page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var page models.Page[models.SerialNumberRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 2, page.CurrentPage)
	service.AssertExpectations(t)
}

func TestQuerySerialNumbers_BadBoolean(t *testing.T) {
	service := new(MockService)
	router := SetupTestRouter(service)

	params := map[string]string{"voided": "maybe"}
	service.On("QueryFixed", params).Return(models.Page[models.SerialNumberRecord]{}, custom_error.FieldError("voided", "must be true or false"))

	w := doRequest(router, http.MethodGet, "/serial_numbers/query?voided=maybe", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "voided")
}
