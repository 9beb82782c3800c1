package auditlog

import (
	"testing"

	"sntrack/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEmitsStructuredEntry(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := NewAuditLog(zap.New(core))

	record := &models.SerialNumberRecord{ID: 12}
	a.Log("void", "alice", map[string]any{"voided": true}, record)

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "void", fields["action"])
	assert.Equal(t, "serial_number", fields["resource_type"])
	assert.Equal(t, int64(12), fields["resource_id"])
	assert.Equal(t, "alice", fields["actor"])
	assert.Equal(t, "auditlog", entries[0].LoggerName)
}
