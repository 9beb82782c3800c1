package serials

import (
	"context"
	"fmt"
	"time"

	"sntrack/internal/repository"
	"sntrack/internal/schema"
	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type SerialRepository struct {
	repository *repository.Repository
}

func NewSerialRepository(r *repository.Repository) *SerialRepository {
	return &SerialRepository{repository: r}
}

func (r *SerialRepository) Insert(ctx context.Context, q repository.Querier, fields schema.FieldSet) (int, error) {
	id, err := r.repository.InsertReturningID(ctx, q, models.SerialNumberTable, goqu.Record(fields))
	if err != nil {
		return 0, fmt.Errorf("insert serial number record: %w", err)
	}
	return id, nil
}

// GetByID returns the record regardless of its soft-delete flag.
func (r *SerialRepository) GetByID(ctx context.Context, q repository.Querier, id int) (*models.SerialNumberRecord, error) {
	var record models.SerialNumberRecord

	found, err := q.From(models.SerialNumberTable).
		Where(goqu.C("id").Eq(id)).
		ScanStructContext(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("get serial number record %d: %w", id, err)
	}
	if !found {
		return nil, custom_error.NotFound("serial number record", id)
	}

	return &record, nil
}

func (r *SerialRepository) Update(ctx context.Context, q repository.Querier, id int, fields schema.FieldSet) (int64, error) {
	result, err := q.Update(models.SerialNumberTable).
		Set(goqu.Record(fields)).
		Where(goqu.C("id").Eq(id)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("update serial number record %d: %w", id, err)
	}
	return result.RowsAffected()
}

// Void flips voided only while it is still false, so of two concurrent calls
// exactly one affects a row.
func (r *SerialRepository) Void(ctx context.Context, q repository.Querier, id int, actor string, at time.Time) (int64, error) {
	result, err := q.Update(models.SerialNumberTable).
		Set(goqu.Record{
			"voided":           true,
			"voided_timestamp": at,
			"voided_user":      actor,
		}).
		Where(goqu.C("id").Eq(id), goqu.C("voided").IsFalse()).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("void serial number record %d: %w", id, err)
	}
	return result.RowsAffected()
}

func (r *SerialRepository) SoftDelete(ctx context.Context, q repository.Querier, id int) (int64, error) {
	result, err := q.Update(models.SerialNumberTable).
		Set(goqu.Record{"is_deleted": true}).
		Where(goqu.C("id").Eq(id), goqu.C("is_deleted").IsFalse()).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete serial number record %d: %w", id, err)
	}
	return result.RowsAffected()
}

// FindByBatch lists the live records that belong to a batch, in scan order.
func (r *SerialRepository) FindByBatch(ctx context.Context, q repository.Querier, batchInfoID int) ([]models.SerialNumberRecord, error) {
	records := []models.SerialNumberRecord{}

	err := q.From(models.SerialNumberTable).
		Where(
			goqu.C("is_deleted").IsFalse(),
			goqu.C("batch_info_id").Eq(batchInfoID),
		).
		Order(goqu.C("id").Asc()).
		ScanStructsContext(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("find serial number records of batch %d: %w", batchInfoID, err)
	}

	return records, nil
}

func (r *SerialRepository) Select() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.From(models.SerialNumberTable)
}
