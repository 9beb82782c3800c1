package batches

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"sntrack/internal/documents"
	"sntrack/internal/inventory/serials"
	"sntrack/internal/metrics"
	"sntrack/internal/repository"
	"sntrack/internal/schema"
	"sntrack/pkg/auditlog"
	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BatchService struct {
	repo      *repository.Repository
	batches   *BatchRepository
	serials   *serials.SerialRepository
	documents documents.Store
	auditLog  *auditlog.Auditlog
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewBatchService(
	repo *repository.Repository,
	batches *BatchRepository,
	serialRepo *serials.SerialRepository,
	store documents.Store,
	auditLog *auditlog.Auditlog,
	m *metrics.Metrics,
	log *zap.Logger,
) *BatchService {
	return &BatchService{
		repo:      repo,
		batches:   batches,
		serials:   serialRepo,
		documents: store,
		auditLog:  auditLog,
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBatch persists a new batch. A duplicate batch_number fails with a
// unique *IntegrityError.
func (s *BatchService) CreateBatch(ctx context.Context, input map[string]any) (batch *models.Batch, err error) {
	defer func() { s.metrics.ObserveOperation("create_batch", err) }()

	fields, err := schema.Batch.Validate(input, schema.ModeCreate, s.now())
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		id, err := s.batches.Insert(ctx, tx, fields)
		if err != nil {
			return err
		}
		batch, err = s.batches.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, custom_error.Internal("create batch", err)
	}

	s.auditLog.Log("create", "", map[string]any{
		"batch_number":    batch.BatchNumber,
		"number_of_items": batch.NumberOfItems,
	}, batch)

	return batch, nil
}

// GetBatch returns the declared attributes of the batch with the live,
// non-deleted records. The count is never reconciled with number_of_items.
func (s *BatchService) GetBatch(ctx context.Context, batchNumber string) (*models.BatchSummary, error) {
	defer s.metrics.ObserveQuery("batch", time.Now())

	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, custom_error.FieldError("batch_number", "batch_number is required")
	}

	db := s.repo.GoquDBWrapper
	batch, err := s.batches.GetByNumber(ctx, db, batchNumber)
	if err != nil {
		return nil, custom_error.Internal("get batch", err)
	}

	records, err := s.serials.FindByBatch(ctx, db, batch.ID)
	if err != nil {
		return nil, custom_error.Internal("get batch records", err)
	}

	summary := models.NewBatchSummary(*batch, records)
	return &summary, nil
}

func (s *BatchService) GetBatchByID(ctx context.Context, id int) (*models.BatchDetail, error) {
	defer s.metrics.ObserveQuery("batch_by_id", time.Now())

	db := s.repo.GoquDBWrapper
	batch, err := s.batches.GetByID(ctx, db, id)
	if err != nil {
		return nil, custom_error.Internal("get batch", err)
	}

	records, err := s.serials.FindByBatch(ctx, db, id)
	if err != nil {
		return nil, custom_error.Internal("get batch records", err)
	}
	refs, err := s.batches.ListReferences(ctx, db, id)
	if err != nil {
		return nil, custom_error.Internal("get batch references", err)
	}

	return &models.BatchDetail{Batch: *batch, SerialNumberRecords: records, References: refs}, nil
}

func (s *BatchService) CreateBatchReference(ctx context.Context, input map[string]any) (ref *models.BatchReference, err error) {
	defer func() { s.metrics.ObserveOperation("create_batch_reference", err) }()

	fields, err := schema.BatchReference.Validate(input, schema.ModeCreate, s.now())
	if err != nil {
		return nil, err
	}

	ref, err = s.insertReference(ctx, fields)
	if err != nil {
		return nil, custom_error.Internal("create batch reference", err)
	}

	s.auditLog.Log("create", "", map[string]any{"file_name": ref.FileName, "batch_info_id": ref.BatchInfoID}, ref)

	return ref, nil
}

func (s *BatchService) ListReferences(ctx context.Context, batchID int) ([]models.BatchReference, error) {
	db := s.repo.GoquDBWrapper
	if _, err := s.batches.GetByID(ctx, db, batchID); err != nil {
		return nil, custom_error.Internal("list batch references", err)
	}

	refs, err := s.batches.ListReferences(ctx, db, batchID)
	if err != nil {
		return nil, custom_error.Internal("list batch references", err)
	}
	return refs, nil
}

// UploadReference stores the document in the blob store and records it as a
// reference of the batch. The blob is removed again if the row cannot be
// written.
func (s *BatchService) UploadReference(ctx context.Context, batchID int, req UploadRequest, body io.Reader) (ref *models.BatchReference, err error) {
	defer func() { s.metrics.ObserveOperation("upload_batch_reference", err) }()

	input := map[string]any{"file_name": req.FileName, "batch_info_id": batchID}
	if req.FileDescription != "" {
		input["file_description"] = req.FileDescription
	}
	fields, err := schema.BatchReference.Validate(input, schema.ModeCreate, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.batches.GetByID(ctx, s.repo.GoquDBWrapper, batchID); err != nil {
		return nil, custom_error.Internal("upload batch reference", err)
	}

	key := documents.ReferenceKey(batchID, uuid.NewString(), req.FileName)
	if _, err := s.documents.Put(ctx, key, body, req.ContentType); err != nil {
		return nil, custom_error.Internal("store batch reference document", err)
	}
	fields["storage_key"] = key

	ref, err = s.insertReference(ctx, fields)
	if err != nil {
		if delErr := s.documents.Delete(ctx, key); delErr != nil {
			s.log.Warn("Unable to remove orphaned reference document", zap.String("key", key), zap.Error(delErr))
		}
		return nil, custom_error.Internal("upload batch reference", err)
	}

	s.auditLog.Log("upload", "", map[string]any{"file_name": ref.FileName, "storage_key": key}, ref)

	return ref, nil
}

// AdvanceProgress persists the scanning resume position of a batch.
func (s *BatchService) AdvanceProgress(ctx context.Context, batchID int, req ProgressRequest) (batch *models.Batch, err error) {
	defer func() { s.metrics.ObserveOperation("advance_progress", err) }()

	fields := goqu.Record{}
	if req.LastScannedItem != nil {
		fields["last_scanned_item"] = *req.LastScannedItem
	}
	if req.CurrentItemNumber != nil {
		if *req.CurrentItemNumber < 0 {
			return nil, custom_error.FieldError("current_item_number", "must not be negative")
		}
		fields["current_item_number"] = *req.CurrentItemNumber
	}
	if len(fields) == 0 {
		return nil, custom_error.FieldError("last_scanned_item", "last_scanned_item or current_item_number is required")
	}

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		affected, err := s.batches.UpdateProgress(ctx, tx, batchID, fields)
		if err != nil {
			return err
		}
		if affected == 0 {
			return custom_error.NotFound("batch", batchID)
		}
		batch, err = s.batches.GetByID(ctx, tx, batchID)
		return err
	})
	if err != nil {
		return nil, custom_error.Internal("advance batch progress", err)
	}

	s.auditLog.Log("progress", "", map[string]any(fields), batch)

	return batch, nil
}

func (s *BatchService) insertReference(ctx context.Context, fields schema.FieldSet) (ref *models.BatchReference, err error) {
	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		id, err := s.batches.InsertReference(ctx, tx, fields)
		if err != nil {
			return err
		}
		ref, err = s.batches.GetReference(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert reference: %w", err)
	}
	return ref, nil
}
