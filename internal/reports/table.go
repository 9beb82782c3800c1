// Package reports renders a batch's live records for people outside the
// service: an XLSX download or a Google Sheet.
package reports

import (
	"context"
	"fmt"
	"time"

	"sntrack/pkg/models"
)

const timestampLayout = "2006-01-02 15:04:05"

// BatchSource resolves a batch number to its summary of non-deleted records.
type BatchSource interface {
	GetBatch(ctx context.Context, batchNumber string) (*models.BatchSummary, error)
}

type Table struct {
	Title   string
	Summary [][]any
	Headers []string
	Rows    [][]any
}

var recordHeaders = []string{
	"ID",
	"Verified SN",
	"Extracted SN",
	"Part ID",
	"Batch Item No",
	"SN Status",
	"OCR Status",
	"Verified",
	"Testing Selected",
	"Testing Passed",
	"Recorded",
	"Recorded At",
	"Recorded By",
	"Voided",
	"Voided At",
	"Voided By",
	"Uploaded By",
	"Captured At",
}

func BuildTable(summary *models.BatchSummary, generated time.Time) Table {
	t := Table{
		Title: fmt.Sprintf("Batch %s", summary.BatchNumber),
		Summary: [][]any{
			{"Part Number", summary.PartNumber},
			{"Batch Type", summary.BatchType},
			{"Declared Quantity", summary.BatchQuantity},
			{"Records", summary.TotalRecords},
			{"Generated", generated.UTC().Format(timestampLayout)},
		},
		Headers: recordHeaders,
		Rows:    make([][]any, 0, len(summary.Records)),
	}

	for _, r := range summary.Records {
		t.Rows = append(t.Rows, []any{
			r.ID,
			r.VerifiedSN,
			str(r.SerialNumberExtracted),
			r.PartID,
			num(r.BatchItemNo),
			r.SnStatus,
			r.OcrStatus,
			yesNo(r.IsVerified),
			yesNo(r.TestingSelected),
			passed(r.TestingPassed),
			yesNo(r.RecordedSN),
			ts(r.RecordedSNTimestamp),
			str(r.RecordedSNUser),
			yesNo(r.Voided),
			ts(r.VoidedTimestamp),
			str(r.VoidedUser),
			str(r.UploadedBy),
			ts(r.OcrTimestamp),
		})
	}
	return t
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}

func ts(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func passed(b *bool) string {
	if b == nil {
		return "Not tested"
	}
	if *b {
		return "Passed"
	}
	return "Failed"
}
