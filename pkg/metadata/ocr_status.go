package metadata

import (
	"fmt"
	"strings"
)

type OcrStatus string

const (
	OcrStatusPending   OcrStatus = "pending"
	OcrStatusConfirmed OcrStatus = "confirmed"
	OcrStatusFailed    OcrStatus = "failed"
)

var OcrStatuses = []OcrStatus{OcrStatusPending, OcrStatusConfirmed, OcrStatusFailed}

func NewOcrStatus(value string) (OcrStatus, error) {
	status := OcrStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("must be one of: %s", joinValues(OcrStatuses))
	}
	return status, nil
}

func (s OcrStatus) IsValid() bool {
	switch s {
	case OcrStatusPending, OcrStatusConfirmed, OcrStatusFailed:
		return true
	default:
		return false
	}
}

func (s OcrStatus) String() string {
	return string(s)
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
