package models

import "time"

const SerialNumberTable = "serial_number_records"

// SerialNumberRecord is one scanned unit and its full audit trail.
type SerialNumberRecord struct {
	ID int `json:"id" db:"id"`

	// OCR capture
	OcrDetectedText       *string    `json:"ocr_detected_text" db:"ocr_detected_text"`
	ImageFileName         *string    `json:"image_file_name" db:"image_file_name"`
	ImageChannels         *int       `json:"image_channels" db:"image_channels"`
	ImageFormat           *string    `json:"image_format" db:"image_format"`
	ImageHeight           *int       `json:"image_height" db:"image_height"`
	ImageSizeBytes        *int64     `json:"image_size_bytes" db:"image_size_bytes"`
	ImageWidth            *int       `json:"image_width" db:"image_width"`
	OcrLanguage           *string    `json:"ocr_language" db:"ocr_language"`
	SerialNumberExtracted *string    `json:"serial_number_extracted" db:"serial_number_extracted"`
	OcrTimestamp          *time.Time `json:"ocr_timestamp" db:"ocr_timestamp"`
	UploadedBy            *string    `json:"uploaded_by" db:"uploaded_by"`
	OcrStatus             string     `json:"ocr_status" db:"ocr_status"`

	// Verification
	IsOcrCorrected bool   `json:"is_ocr_corrected" db:"is_ocr_corrected"`
	VerifiedSN     string `json:"verified_sn" db:"verified_sn"`
	IsVerified     bool   `json:"is_verified" db:"is_verified"`
	SnStatus       string `json:"sn_status" db:"sn_status"`

	// Batch association
	BatchID          *string `json:"batch_id" db:"batch_id"`
	BatchInfoID      *int    `json:"batch_info_id" db:"batch_info_id"`
	BatchQuantity    *int    `json:"batch_quantity" db:"batch_quantity"`
	BatchItemNo      *int    `json:"batch_item_no" db:"batch_item_no"`
	PartID           string  `json:"part_id" db:"part_id"`
	BatchType        *string `json:"batch_type" db:"batch_type"`
	BatchDescription *string `json:"batch_description" db:"batch_description"`

	// Testing
	TestingSelected  bool       `json:"testing_selected" db:"testing_selected"`
	TestingPassed    *bool      `json:"testing_passed" db:"testing_passed"`
	TestingNotes     *string    `json:"testing_notes" db:"testing_notes"`
	TestingUser      *string    `json:"testing_user" db:"testing_user"`
	TestingTimestamp *time.Time `json:"testing_timestamp" db:"testing_timestamp"`

	// Recording
	RecordedSN          bool       `json:"recorded_sn" db:"recorded_sn"`
	RecordedSNTimestamp *time.Time `json:"recorded_sn_timestamp" db:"recorded_sn_timestamp"`
	RecordedSNUser      *string    `json:"recorded_sn_user" db:"recorded_sn_user"`

	// Voiding
	Voided          bool       `json:"voided" db:"voided"`
	VoidedTimestamp *time.Time `json:"voided_timestamp" db:"voided_timestamp"`
	VoidedUser      *string    `json:"voided_user" db:"voided_user"`

	IsDeleted bool `json:"is_deleted" db:"is_deleted"`
}

func (r *SerialNumberRecord) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "serial_number",
	}
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Data        []T   `json:"data"`
}
