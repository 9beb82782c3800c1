package models

const (
	BatchTable          = "batch_info"
	BatchReferenceTable = "batch_references"
)

type Batch struct {
	ID                int     `json:"id" db:"id"`
	BatchNumber       string  `json:"batch_number" db:"batch_number"`
	NumberOfItems     int     `json:"number_of_items" db:"number_of_items"`
	PartNumber        string  `json:"part_number" db:"part_number"`
	BatchDescription  *string `json:"batch_description" db:"batch_description"`
	BatchType         string  `json:"batch_type" db:"batch_type"`
	LastScannedItem   *string `json:"last_scanned_item" db:"last_scanned_item"`
	CurrentItemNumber *int    `json:"current_item_number" db:"current_item_number"`
}

func (b *Batch) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "batch",
	}
}

type BatchReference struct {
	ID              int     `json:"id" db:"id"`
	FileName        string  `json:"file_name" db:"file_name"`
	FileDescription *string `json:"file_description" db:"file_description"`
	StorageKey      *string `json:"storage_key,omitempty" db:"storage_key"`
	BatchInfoID     int     `json:"batch_info_id" db:"batch_info_id"`
}

func (r *BatchReference) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "batch_reference",
	}
}

// BatchSummary is a batch's declared attributes joined with its live,
// non-deleted records. TotalRecords is never reconciled with BatchQuantity.
type BatchSummary struct {
	BatchID           int                  `json:"batch_id"`
	BatchNumber       string               `json:"batch_number"`
	PartNumber        string               `json:"part_number"`
	BatchQuantity     int                  `json:"batch_quantity"`
	TotalRecords      int                  `json:"total_records"`
	LastScannedItem   *string              `json:"last_scanned_item"`
	CurrentItemNumber *int                 `json:"current_item_number"`
	BatchType         string               `json:"batch_type"`
	BatchDescription  *string              `json:"batch_description"`
	Records           []SerialNumberRecord `json:"records"`
}

// BatchDetail is the by-id view: the batch, its records and its references.
type BatchDetail struct {
	Batch
	SerialNumberRecords []SerialNumberRecord `json:"serial_number_records"`
	References          []BatchReference     `json:"references"`
}

func NewBatchSummary(batch Batch, records []SerialNumberRecord) BatchSummary {
	if records == nil {
		records = []SerialNumberRecord{}
	}
	return BatchSummary{
		BatchID:           batch.ID,
		BatchNumber:       batch.BatchNumber,
		PartNumber:        batch.PartNumber,
		BatchQuantity:     batch.NumberOfItems,
		TotalRecords:      len(records),
		LastScannedItem:   batch.LastScannedItem,
		CurrentItemNumber: batch.CurrentItemNumber,
		BatchType:         batch.BatchType,
		BatchDescription:  batch.BatchDescription,
		Records:           records,
	}
}
