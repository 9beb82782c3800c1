package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sntrack/internal/capture"
	"sntrack/internal/core/config"
	"sntrack/internal/documents"
	"sntrack/internal/inventory/batches"
	"sntrack/internal/inventory/serials"
	"sntrack/internal/metrics"
	"sntrack/internal/middleware"
	"sntrack/internal/rate_limiter"
	"sntrack/internal/reports"
	"sntrack/internal/repository"
	"sntrack/pkg/auditlog"

	"go.uber.org/zap"
)

// Version is reported by the health endpoint; set with -ldflags at build time.
var Version = "dev"

type Container struct {
	Repository    *repository.Repository
	AuditLog      *auditlog.Auditlog
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	Health        *middleware.HealthCheck
	SerialHandler *serials.SerialHandler
	BatchHandler  *batches.BatchHandler
	UploadHandler *capture.Handler
	UploadLimiter *rate_limiter.RateLimiter
	ReportHandler *reports.ReportHandler
}

func NewAppContainer(ctx context.Context, cfg *config.Config, db *sql.DB, dialect string, log *zap.Logger) (*Container, error) {
	repo := repository.NewRepository(db, dialect)
	auditLog := auditlog.NewAuditLog(log)
	m := metrics.New()

	store, err := documents.Open(ctx, cfg.Documents)
	if err != nil {
		return nil, fmt.Errorf("open reference document store: %w", err)
	}

	serialRepo := serials.NewSerialRepository(repo)
	serialService := serials.NewSerialService(repo, serialRepo, auditLog, m, log)

	batchRepo := batches.NewBatchRepository(repo)
	batchService := batches.NewBatchService(repo, batchRepo, serialRepo, store, auditLog, m, log)

	var publisher reports.Publisher
	if cfg.GoogleSheetsCredentialsJSON != "" {
		sheets, err := reports.NewSheetsPublisher(ctx, []byte(cfg.GoogleSheetsCredentialsJSON))
		if err != nil {
			return nil, err
		}
		publisher = sheets
	} else {
		log.Info("GOOGLE_SHEETS_CREDENTIALS_JSON not set, sheet publishing disabled")
	}
	reportService := reports.NewReportService(batchService, publisher, m, log)

	var extractor capture.Extractor
	if cfg.OCRServiceURL != "" {
		extractor = capture.NewHTTPExtractor(cfg.OCRServiceURL, cfg.OCRTimeout)
	}

	c := &Container{
		Repository:    repo,
		AuditLog:      auditLog,
		Metrics:       m,
		Logger:        log,
		Health:        middleware.NewHealthCheck(db, Version),
		SerialHandler: serials.NewSerialHandler(serialService, log),
		BatchHandler:  batches.NewBatchHandler(batchService, log),
		ReportHandler: reports.NewReportHandler(reportService, log),
	}
	if extractor != nil {
		c.UploadHandler = capture.NewHandler(extractor, log)
		if cfg.UploadRateLimit > 0 {
			c.UploadLimiter = rate_limiter.NewRateLimiter(cfg.UploadRateLimit, time.Minute)
			go c.UploadLimiter.Run(ctx)
		}
	} else {
		log.Info("OCR_SERVICE_URL not set, /upload disabled")
	}

	return c, nil
}
