package service

import (
	"context"
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordActionAndQueryByUser(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.audit.RecordAction(context.Background(),
		hrActor.Identifier, "approve", "process", "1", map[string]interface{}{"employee_name": "Sipho Dlamini"}))
	require.NoError(t, env.audit.RecordAction(context.Background(),
		hrActor.Identifier, "close", "process", "1", map[string]interface{}{}))
	require.NoError(t, env.audit.RecordAction(context.Background(),
		userActor.Identifier, "complete", "task", "7", map[string]interface{}{}))

	logs, err := env.audit.RecentByUser(hrActor.Identifier, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	logs, err = env.audit.RecentByUser(hrActor.Identifier, 1)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestResourceHistory(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.audit.RecordAction(context.Background(),
		hrActor.Identifier, "approve", "process", "1", map[string]interface{}{}))
	require.NoError(t, env.audit.RecordAction(context.Background(),
		adminActor.Identifier, "close", "process", "1", map[string]interface{}{}))
	require.NoError(t, env.audit.RecordAction(context.Background(),
		hrActor.Identifier, "approve", "process", "2", map[string]interface{}{}))

	logs, err := env.audit.ResourceHistory("process", "1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "1", entry.ResourceID)
	}
}

func TestSweepPurgesExpiredAuditLogs(t *testing.T) {
	env := newTestEnv(t)

	stale := &model.AuditLogModel{
		ID: uuid.New().String(), UserID: hrActor.Identifier,
		Action: "approve", ResourceType: "process", ResourceID: "1",
		Details: []byte("{}"), CreatedAt: time.Now().AddDate(-3, 0, 0),
	}
	require.NoError(t, env.db.Create(stale).Error)
	require.NoError(t, env.audit.RecordAction(context.Background(),
		hrActor.Identifier, "close", "process", "1", map[string]interface{}{}))

	require.NoError(t, env.reminder.Sweep(context.Background()))

	var count int64
	require.NoError(t, env.db.Model(&model.AuditLogModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
