package schema

import (
	"time"

	"sntrack/pkg/metadata"
	"sntrack/pkg/models"
)

func constant(v any) func(time.Time) any {
	return func(time.Time) any { return v }
}

func text(name string) Field      { return Field{Name: name, Kind: KindText, Filterable: true} }
func integer(name string) Field   { return Field{Name: name, Kind: KindInteger, Filterable: true} }
func bigint(name string) Field    { return Field{Name: name, Kind: KindBigInt, Filterable: true} }
func timestamp(name string) Field { return Field{Name: name, Kind: KindTimestamp, Filterable: true} }

func flag(name string, def bool) Field {
	return Field{Name: name, Kind: KindBoolean, Filterable: true, Default: constant(def)}
}

func required(f Field) Field {
	f.Required = true
	return f
}

func enum(name string, normalize func(string) (string, error), def string) Field {
	f := Field{Name: name, Kind: KindEnum, Filterable: true, Normalize: normalize}
	if def != "" {
		f.Default = constant(def)
	}
	return f
}

func normalizeOcrStatus(v string) (string, error) {
	s, err := metadata.NewOcrStatus(v)
	return s.String(), err
}

func normalizeBatchType(v string) (string, error) {
	b, err := metadata.NewBatchType(v)
	return b.String(), err
}

func normalizeSnStatus(v string) (string, error) {
	s, err := metadata.NewSnStatus(v)
	return string(s), err
}

var SerialNumber = NewEntity("serial_number", models.SerialNumberTable,
	Field{Name: "id", Kind: KindInteger, ServerOnly: true, Filterable: true},

	text("ocr_detected_text"),
	text("image_file_name"),
	integer("image_channels"),
	text("image_format"),
	integer("image_height"),
	bigint("image_size_bytes"),
	integer("image_width"),
	text("ocr_language"),
	text("serial_number_extracted"),
	Field{Name: "ocr_timestamp", Kind: KindTimestamp, Filterable: true, Default: func(now time.Time) any { return now.UTC() }},
	text("uploaded_by"),
	enum("ocr_status", normalizeOcrStatus, string(metadata.OcrStatusPending)),

	flag("is_ocr_corrected", false),
	required(text("verified_sn")),
	flag("is_verified", false),
	enum("sn_status", normalizeSnStatus, string(metadata.SnStatusNewScan)),

	text("batch_id"),
	integer("batch_info_id"),
	integer("batch_quantity"),
	integer("batch_item_no"),
	required(text("part_id")),
	enum("batch_type", normalizeBatchType, ""),
	text("batch_description"),

	flag("testing_selected", false),
	Field{Name: "testing_passed", Kind: KindBoolean, Filterable: true},
	text("testing_notes"),
	text("testing_user"),
	timestamp("testing_timestamp"),

	flag("recorded_sn", false),
	timestamp("recorded_sn_timestamp"),
	text("recorded_sn_user"),

	flag("voided", false),
	timestamp("voided_timestamp"),
	text("voided_user"),

	Field{Name: "is_deleted", Kind: KindBoolean, ServerOnly: true},
)

var Batch = NewEntity("batch", models.BatchTable,
	Field{Name: "id", Kind: KindInteger, ServerOnly: true, Filterable: true},
	required(text("batch_number")),
	required(integer("number_of_items")),
	required(text("part_number")),
	text("batch_description"),
	enum("batch_type", normalizeBatchType, string(metadata.BatchTypePurchase)),
	text("last_scanned_item"),
	integer("current_item_number"),
)

var BatchReference = NewEntity("batch_reference", models.BatchReferenceTable,
	Field{Name: "id", Kind: KindInteger, ServerOnly: true},
	required(text("file_name")),
	text("file_description"),
	required(integer("batch_info_id")),
	Field{Name: "storage_key", Kind: KindText, ServerOnly: true},
)
