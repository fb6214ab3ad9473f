package service

import (
	"context"
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepartmentStatsAggregation(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)
	env.createTemplate(t, "Disable accounts", "IT", 0, nil)
	env.createTemplate(t, "Exit interview", "Human Capital", 0, nil)

	process := env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	items := env.itemsFor(t, process.ID)
	for _, item := range items {
		if item.Department == "IT" {
			_, err := env.checklist.Complete(context.Background(), item.ID, item.Version, "", hrActor)
			require.NoError(t, err)
			break
		}
	}

	stats, err := env.query.DepartmentStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byDept := map[string]DepartmentStats{}
	for _, s := range stats {
		byDept[s.Department] = s
	}
	it := byDept["IT"]
	assert.Equal(t, int64(2), it.TotalTasks)
	assert.Equal(t, int64(1), it.CompletedTasks)
	assert.InDelta(t, 50.0, it.CompletionRate, 0.01)

	hc := byDept["Human Capital"]
	assert.Equal(t, int64(1), hc.TotalTasks)
	assert.Zero(t, hc.CompletedTasks)
}

func TestSystemOverviewCounts(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	env.createProcess(t, userActor)
	active := env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), active.ID, active.Version, hrActor)
	require.NoError(t, err)

	overview, err := env.query.SystemOverview()
	require.NoError(t, err)

	assert.Equal(t, int64(2), overview.TotalProcesses)
	assert.Equal(t, int64(1), overview.PendingProcesses)
	assert.Equal(t, int64(1), overview.ActiveProcesses)
	assert.Equal(t, int64(1), overview.TotalTasks)
	assert.Zero(t, overview.CompletedTasks)
	assert.Zero(t, overview.AverageProgress)
}

func TestDashboardScopedByActor(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	mine := env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), mine.ID, mine.Version, hrActor)
	require.NoError(t, err)
	env.createProcess(t, hrActor)

	// 逾期任务
	require.NoError(t, env.db.Model(&model.ChecklistItem{}).
		Where("process_id = ?", mine.ID).
		Update("due_date", time.Now().AddDate(0, 0, -2)).Error)

	counts, err := env.query.Dashboard(userActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.MyProcesses)
	assert.Zero(t, counts.PendingApprovals)
	assert.Equal(t, int64(1), counts.ActiveProcesses)
	assert.Equal(t, int64(1), counts.OverdueTasks)

	hrCounts, err := env.query.Dashboard(hrActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hrCounts.MyProcesses)
	assert.Equal(t, int64(1), hrCounts.PendingApprovals)
	assert.Equal(t, int64(1), hrCounts.ActiveProcesses)
}
