package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewStdoutAuditLogger(zap.New(core))
	l.clock = func() time.Time { return time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC) }

	l.Log(context.Background(), AuditLog{
		Action:  "ROTATION_SCHEDULED",
		Message: "rotation cron registered",
		Meta:    map[string]any{"cron": "0 2 * * *"},
	})

	entries := logs.TakeAll()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "audit", entries[0].LoggerName)
		fields := entries[0].ContextMap()
		assert.Equal(t, "ROTATION_SCHEDULED", fields["action"])
		assert.Equal(t, "2026-01-15T08:30:00Z", fields["timestamp"])
	}
}
