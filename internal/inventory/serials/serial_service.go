package serials

import (
	"context"
	"strings"
	"time"

	"sntrack/internal/metrics"
	"sntrack/internal/query"
	"sntrack/internal/repository"
	"sntrack/internal/schema"
	"sntrack/pkg/auditlog"
	custom_error "sntrack/pkg/errors"
	"sntrack/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

const unknownActor = "unknown"

var serialRanges = []query.Range{
	{Column: "serial_number_extracted", Min: "serial_number_min", Max: "serial_number_max"},
	{Column: "ocr_timestamp", Min: "start_date", Max: "end_date", Dates: true},
}

// transitions pairs each lifecycle flag with the timestamp stamped when it
// becomes true.
var transitions = []struct {
	flag      string
	timestamp string
}{
	{"testing_selected", "testing_timestamp"},
	{"recorded_sn", "recorded_sn_timestamp"},
	{"voided", "voided_timestamp"},
}

type SerialService struct {
	repo     *repository.Repository
	serials  *SerialRepository
	auditLog *auditlog.Auditlog
	metrics  *metrics.Metrics
	log      *zap.Logger

	dynamic *query.Engine
	fixed   *query.Engine
	now     func() time.Time
}

func NewSerialService(repo *repository.Repository, serials *SerialRepository, auditLog *auditlog.Auditlog, m *metrics.Metrics, log *zap.Logger) *SerialService {
	return &SerialService{
		repo:     repo,
		serials:  serials,
		auditLog: auditLog,
		metrics:  m,
		log:      log,
		dynamic: query.NewEngine(schema.SerialNumber, query.Config{
			Dynamic: true,
			Ranges:  serialRanges,
		}),
		fixed: query.NewEngine(schema.SerialNumber, query.Config{
			Aliases: map[string]query.Alias{
				"user":        {Column: "uploaded_by", Exact: true},
				"batch_id":    {Column: "batch_id", Exact: true},
				"voided":      {Column: "voided"},
				"recorded_sn": {Column: "recorded_sn"},
			},
			Ranges: serialRanges,
		}),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *SerialService) Create(ctx context.Context, input map[string]any) (record *models.SerialNumberRecord, err error) {
	defer func() { s.metrics.ObserveOperation("create", err) }()

	now := s.now()
	fields, err := schema.SerialNumber.Validate(input, schema.ModeCreate, now)
	if err != nil {
		return nil, err
	}
	stampTransitions(fields, nil, now)

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		id, err := s.serials.Insert(ctx, tx, fields)
		if err != nil {
			return err
		}
		record, err = s.serials.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, custom_error.Internal("create serial number record", err)
	}

	s.auditLog.Log("create", stringField(fields, "uploaded_by"), map[string]any{
		"verified_sn": record.VerifiedSN,
		"part_id":     record.PartID,
	}, record)

	return record, nil
}

// Update applies the supplied fields only. Voided records stay updatable.
func (s *SerialService) Update(ctx context.Context, id int, input map[string]any) (record *models.SerialNumberRecord, err error) {
	defer func() { s.metrics.ObserveOperation("update", err) }()

	now := s.now()
	fields, err := schema.SerialNumber.Validate(input, schema.ModePartial, now)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		existing, err := s.serials.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			record = existing
			return nil
		}

		stampTransitions(fields, existing, now)
		if _, err := s.serials.Update(ctx, tx, id, fields); err != nil {
			return err
		}
		record, err = s.serials.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, custom_error.Internal("update serial number record", err)
	}

	s.auditLog.Log("update", updateActor(fields), changedFields(fields), record)

	return record, nil
}

// Void marks the record voided once. A second call fails with
// *AlreadyVoidedError and leaves the first timestamp untouched.
func (s *SerialService) Void(ctx context.Context, id int, actor string) (record *models.SerialNumberRecord, err error) {
	defer func() { s.metrics.ObserveOperation("void", err) }()

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = unknownActor
	}

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		affected, err := s.serials.Void(ctx, tx, id, actor, s.now())
		if err != nil {
			return err
		}

		record, err = s.serials.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &custom_error.AlreadyVoidedError{ID: id}
		}
		return nil
	})
	if err != nil {
		return nil, custom_error.Internal("void serial number record", err)
	}

	s.auditLog.Log("void", actor, map[string]any{"voided_timestamp": record.VoidedTimestamp}, record)

	return record, nil
}

// SoftDelete hides the record from every listing. Deleting an already
// deleted record reports NotFound. A blank actor is audited as unknown.
func (s *SerialService) SoftDelete(ctx context.Context, id int, actor string) (err error) {
	defer func() { s.metrics.ObserveOperation("delete", err) }()

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = unknownActor
	}

	err = s.repo.WithTransaction(ctx, func(tx *goqu.TxDatabase) error {
		affected, err := s.serials.SoftDelete(ctx, tx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return custom_error.NotFound("serial number record", id)
		}
		return nil
	})
	if err != nil {
		return custom_error.Internal("delete serial number record", err)
	}

	s.auditLog.Log("delete", actor, nil, &models.SerialNumberRecord{ID: id})

	return nil
}

// Get is the direct lookup; soft-deleted records are returned too.
func (s *SerialService) Get(ctx context.Context, id int) (*models.SerialNumberRecord, error) {
	record, err := s.serials.GetByID(ctx, s.repo.GoquDBWrapper, id)
	if err != nil {
		return nil, custom_error.Internal("get serial number record", err)
	}
	return record, nil
}

// Query filters on any filterable attribute.
func (s *SerialService) Query(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error) {
	return s.run(ctx, "query_v2", s.dynamic, params)
}

// QueryFixed accepts only the fixed parameter set: dates, serial range,
// user, batch_id, voided and recorded_sn.
func (s *SerialService) QueryFixed(ctx context.Context, params map[string]string) (models.Page[models.SerialNumberRecord], error) {
	return s.run(ctx, "query", s.fixed, params)
}

func (s *SerialService) run(ctx context.Context, endpoint string, engine *query.Engine, params map[string]string) (models.Page[models.SerialNumberRecord], error) {
	defer s.metrics.ObserveQuery(endpoint, time.Now())

	plan, err := engine.Parse(params)
	if err != nil {
		return models.Page[models.SerialNumberRecord]{}, err
	}

	page, err := query.Run[models.SerialNumberRecord](ctx, s.serials.Select(), plan)
	if err != nil {
		return models.Page[models.SerialNumberRecord]{}, custom_error.Internal("query serial number records", err)
	}
	return page, nil
}

// stampTransitions sets the timestamp of every lifecycle flag that turns
// true in fields, unless the caller supplied one. existing is nil on create.
func stampTransitions(fields schema.FieldSet, existing *models.SerialNumberRecord, now time.Time) {
	for _, t := range transitions {
		on, ok := fields.Bool(t.flag)
		if !ok || !on || fields.Has(t.timestamp) {
			continue
		}
		if existing != nil && flagValue(existing, t.flag) {
			continue
		}
		fields[t.timestamp] = now
	}
}

func flagValue(r *models.SerialNumberRecord, flag string) bool {
	switch flag {
	case "testing_selected":
		return r.TestingSelected
	case "recorded_sn":
		return r.RecordedSN
	case "voided":
		return r.Voided
	}
	return false
}

func changedFields(fields schema.FieldSet) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// updateActor attributes an update to the most specific user field it sets.
func updateActor(fields schema.FieldSet) string {
	for _, name := range []string{"voided_user", "recorded_sn_user", "testing_user", "uploaded_by"} {
		if s := strings.TrimSpace(stringField(fields, name)); s != "" {
			return s
		}
	}
	return unknownActor
}

func stringField(fields schema.FieldSet, name string) string {
	s, _ := fields.String(name)
	return s
}
