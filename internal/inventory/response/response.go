// Package response maps domain errors to HTTP responses.
package response

import (
	"errors"
	"net/http"

	custom_error "sntrack/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the status and body for err and aborts the request.
// Internal details are logged, never returned to the client.
func Error(c *gin.Context, log *zap.Logger, err error) {
	var (
		validationErr *custom_error.ValidationError
		notFoundErr   *custom_error.NotFoundError
		integrityErr  *custom_error.IntegrityError
	)

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": validationErr.Fields})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":   "Resource not found",
			"details": notFoundErr.Error(),
		})
	case errors.Is(err, custom_error.ErrAlreadyVoided):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Record is already voided"})
	case errors.As(err, &integrityErr):
		status := http.StatusBadRequest
		if integrityErr.Violation == custom_error.UniqueViolation {
			status = http.StatusConflict
		}
		c.AbortWithStatusJSON(status, gin.H{
			"error":   "Database integrity error",
			"details": string(integrityErr.Violation),
		})
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
	}
}

// BindObject decodes a JSON object body into an untyped map for the
// validation layer.
func BindObject(c *gin.Context) (map[string]any, bool) {
	var input map[string]any
	if err := c.ShouldBindJSON(&input); err != nil || len(input) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No input data provided"})
		return nil, false
	}
	return input, true
}

// QueryParams flattens the URL query, keeping the first value of each key.
func QueryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	params := make(map[string]string, len(values))
	for key, v := range values {
		if len(v) > 0 {
			params[key] = v[0]
		}
	}
	return params
}
