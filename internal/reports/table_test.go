package reports

import (
	"testing"
	"time"

	"sntrack/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generated = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func sampleSummary() *models.BatchSummary {
	recordedAt := time.Date(2024, 5, 13, 16, 0, 0, 0, time.UTC)
	batch := models.Batch{ID: 3, BatchNumber: "WO-1001", NumberOfItems: 25, PartNumber: "P-9", BatchType: "purchase"}
	return ptr(models.NewBatchSummary(batch, []models.SerialNumberRecord{
		{
			ID: 1, VerifiedSN: "1234567", PartID: "P-9", SnStatus: "NewScan", OcrStatus: "confirmed",
			SerialNumberExtracted: ptr("1234567"), BatchItemNo: ptr(1),
			IsVerified: true, TestingSelected: true, TestingPassed: ptr(true),
			RecordedSN: true, RecordedSNTimestamp: &recordedAt, RecordedSNUser: ptr("alice"),
		},
		{ID: 2, VerifiedSN: "7654321", PartID: "P-9", SnStatus: "NewScan", OcrStatus: "pending", Voided: true},
	}))
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleSummary(), generated)

	assert.Equal(t, "Batch WO-1001", table.Title)
	assert.Contains(t, table.Summary, []any{"Records", 2})
	assert.Contains(t, table.Summary, []any{"Declared Quantity", 25})
	assert.Contains(t, table.Summary, []any{"Generated", "2024-05-14 09:30:00"})
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	require.Len(t, first, len(table.Headers))
	assert.Equal(t, 1, first[0])
	assert.Equal(t, "Yes", first[7])
	assert.Equal(t, "Passed", first[9])
	assert.Equal(t, "2024-05-13 16:00:00", first[11])
	assert.Equal(t, "alice", first[12])

	second := table.Rows[1]
	assert.Equal(t, "", second[2])
	assert.Equal(t, "", second[4])
	assert.Equal(t, "Not tested", second[9])
	assert.Equal(t, "Yes", second[13])
}

func TestBuildTableEmptyBatch(t *testing.T) {
	summary := models.NewBatchSummary(models.Batch{BatchNumber: "WO-2"}, nil)
	table := BuildTable(&summary, generated)
	assert.Empty(t, table.Rows)
	assert.NotNil(t, table.Rows)
}
