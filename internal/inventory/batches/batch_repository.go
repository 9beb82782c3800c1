package batches

import (
	"context"
	"fmt"

	"sntrack/internal/repository"
	"sntrack/internal/schema"
	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type BatchRepository struct {
	repository *repository.Repository
}

func NewBatchRepository(r *repository.Repository) *BatchRepository {
	return &BatchRepository{repository: r}
}

func (r *BatchRepository) Insert(ctx context.Context, q repository.Querier, fields schema.FieldSet) (int, error) {
	id, err := r.repository.InsertReturningID(ctx, q, models.BatchTable, goqu.Record(fields))
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	return id, nil
}

func (r *BatchRepository) GetByID(ctx context.Context, q repository.Querier, id int) (*models.Batch, error) {
	return r.getBy(ctx, q, goqu.C("id").Eq(id), id)
}

func (r *BatchRepository) GetByNumber(ctx context.Context, q repository.Querier, batchNumber string) (*models.Batch, error) {
	return r.getBy(ctx, q, goqu.C("batch_number").Eq(batchNumber), batchNumber)
}

func (r *BatchRepository) getBy(ctx context.Context, q repository.Querier, cond exp.Expression, key any) (*models.Batch, error) {
	var batch models.Batch

	found, err := q.From(models.BatchTable).Where(cond).ScanStructContext(ctx, &batch)
	if err != nil {
		return nil, fmt.Errorf("get batch %v: %w", key, err)
	}
	if !found {
		return nil, custom_error.NotFound("batch", key)
	}

	return &batch, nil
}

func (r *BatchRepository) UpdateProgress(ctx context.Context, q repository.Querier, id int, fields goqu.Record) (int64, error) {
	result, err := q.Update(models.BatchTable).
		Set(fields).
		Where(goqu.C("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("update progress of batch %d: %w", id, err)
	}
	return result.RowsAffected()
}

func (r *BatchRepository) InsertReference(ctx context.Context, q repository.Querier, fields schema.FieldSet) (int, error) {
	id, err := r.repository.InsertReturningID(ctx, q, models.BatchReferenceTable, goqu.Record(fields))
	if err != nil {
		return 0, fmt.Errorf("insert batch reference: %w", err)
	}
	return id, nil
}

func (r *BatchRepository) GetReference(ctx context.Context, q repository.Querier, id int) (*models.BatchReference, error) {
	var ref models.BatchReference

	found, err := q.From(models.BatchReferenceTable).Where(goqu.C("id").Eq(id)).ScanStructContext(ctx, &ref)
	if err != nil {
		return nil, fmt.Errorf("get batch reference %d: %w", id, err)
	}
	if !found {
		return nil, custom_error.NotFound("batch reference", id)
	}

	return &ref, nil
}

func (r *BatchRepository) ListReferences(ctx context.Context, q repository.Querier, batchID int) ([]models.BatchReference, error) {
	refs := []models.BatchReference{}

	err := q.From(models.BatchReferenceTable).
		Where(goqu.C("batch_info_id").Eq(batchID)).
		Order(goqu.C("id").Asc()).
		ScanStructsContext(ctx, &refs)
	if err != nil {
		return nil, fmt.Errorf("list references of batch %d: %w", batchID, err)
	}

	return refs, nil
}
