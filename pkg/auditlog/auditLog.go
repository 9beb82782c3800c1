package auditlog

import (
	"sntrack/pkg/models"

	"go.uber.org/zap"
)

type Auditlog struct {
	logger *zap.Logger
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log emits one audit entry for a lifecycle mutation of item.
func (a *Auditlog) Log(action, actor string, data map[string]any, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.Actor = actor
	auditLog.Data = data

	a.logger.Info("audit",
		zap.String("action", auditLog.Action),
		zap.String("resource_type", auditLog.ResourceType),
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("actor", auditLog.Actor),
		zap.Any("data", auditLog.Data),
	)
}

func NewAuditLog(logger *zap.Logger) *Auditlog {
	a := Auditlog{logger: logger.Named("auditlog")}

	return &a
}
