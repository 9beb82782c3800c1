package reports

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"sntrack/internal/metrics"
	custom_error "sntrack/pkg/errors"

	"go.uber.org/zap"
)

// ErrPublishingDisabled is returned when no Google Sheets credentials are configured.
var ErrPublishingDisabled = errors.New("google sheets publishing is not configured")

type ReportService struct {
	batches   BatchSource
	publisher Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewReportService accepts a nil publisher; PublishSheet then fails with
// ErrPublishingDisabled.
func NewReportService(batches BatchSource, publisher Publisher, m *metrics.Metrics, log *zap.Logger) *ReportService {
	return &ReportService{
		batches:   batches,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *ReportService) table(ctx context.Context, batchNumber string) (Table, error) {
	summary, err := s.batches.GetBatch(ctx, batchNumber)
	if err != nil {
		return Table{}, err
	}
	return BuildTable(summary, s.now()), nil
}

func (s *ReportService) RenderXLSX(ctx context.Context, batchNumber string) (buf *bytes.Buffer, err error) {
	defer func() { s.metrics.ObserveOperation("report_xlsx", err) }()

	t, err := s.table(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	buf, err = RenderXLSX(t)
	if err != nil {
		return nil, custom_error.Internal("render report", err)
	}
	return buf, nil
}

func (s *ReportService) PublishSheet(ctx context.Context, req PublishRequest) (updated string, err error) {
	defer func() { s.metrics.ObserveOperation("report_sheets", err) }()

	if s.publisher == nil {
		return "", ErrPublishingDisabled
	}
	if strings.TrimSpace(req.SpreadsheetID) == "" {
		verr := custom_error.NewValidationError()
		verr.Add("spreadsheet_id", "Missing data for required field.")
		return "", verr
	}

	t, err := s.table(ctx, req.BatchID)
	if err != nil {
		return "", err
	}

	updated, err = s.publisher.Publish(ctx, req.SpreadsheetID, req.Sheet, t)
	if err != nil {
		return "", custom_error.Internal("publish report", err)
	}
	s.log.Info("Published batch report",
		zap.String("batch_number", req.BatchID),
		zap.String("spreadsheet_id", req.SpreadsheetID),
		zap.String("range", updated),
	)
	return updated, nil
}
