package metadata

import (
	"fmt"
	"strings"
)

type BatchType string

const (
	BatchTypePurchase    BatchType = "purchase"
	BatchTypeSale        BatchType = "sale"
	BatchTypeDestruction BatchType = "destruction"
	BatchTypeProduction  BatchType = "production"
	BatchTypeTransfer    BatchType = "transfer"
	BatchTypeReturn      BatchType = "return"
	BatchTypeOther       BatchType = "other"
)

var BatchTypes = []BatchType{
	BatchTypePurchase, BatchTypeSale, BatchTypeDestruction, BatchTypeProduction,
	BatchTypeTransfer, BatchTypeReturn, BatchTypeOther,
}

// NewBatchType accepts any casing ("Purchase", "SALE") and stores the lowercase form.
func NewBatchType(value string) (BatchType, error) {
	batchType := BatchType(strings.ToLower(strings.TrimSpace(value)))
	if !batchType.IsValid() {
		return "", fmt.Errorf("must be one of: %s", joinValues(BatchTypes))
	}
	return batchType, nil
}

func (b BatchType) IsValid() bool {
	switch b {
	case BatchTypePurchase, BatchTypeSale, BatchTypeDestruction, BatchTypeProduction,
		BatchTypeTransfer, BatchTypeReturn, BatchTypeOther:
		return true
	default:
		return false
	}
}

func (b BatchType) String() string {
	return string(b)
}
