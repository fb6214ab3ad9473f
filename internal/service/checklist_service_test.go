package service

import (
	"context"
	"testing"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// activeProcessWithDependency 准备一个执行中流程,包含 A 和依赖 A 的 B 两个任务
func activeProcessWithDependency(t *testing.T, env *testEnv) (a, b model.ChecklistItem, process *model.OffboardingProcess) {
	t.Helper()

	first := env.createTemplate(t, "Disable accounts", "IT", 0, nil)
	env.createTemplate(t, "Archive mailbox", "IT", 1, &first.ID)

	process = env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	items := env.itemsFor(t, process.ID)
	require.Len(t, items, 2)
	for _, item := range items {
		if item.DependsOnTaskID == nil {
			a = item
		} else {
			b = item
		}
	}
	require.NotZero(t, a.ID)
	require.NotZero(t, b.ID)
	require.Equal(t, a.ID, *b.DependsOnTaskID)
	return a, b, process
}

func TestCompleteBlockedByDependency(t *testing.T) {
	env := newTestEnv(t)
	a, b, _ := activeProcessWithDependency(t, env)

	_, err := env.checklist.Complete(context.Background(), b.ID, b.Version, "", userActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "Disable accounts")

	// 先完成依赖任务,再完成依赖方
	done, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "laptop collected", userActor)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
	assert.Equal(t, userActor.Identifier, done.CompletedBy)

	done, err = env.checklist.Complete(context.Background(), b.ID, b.Version, "", userActor)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
}

func TestCompleteRecordsComment(t *testing.T) {
	env := newTestEnv(t)
	a, _, _ := activeProcessWithDependency(t, env)

	_, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "all assets returned", userActor)
	require.NoError(t, err)

	comments, err := env.checklist.ListComments(a.ID, userActor)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "all assets returned", comments[0].Comment)
	assert.Equal(t, userActor.Identifier, comments[0].CreatedBy)
}

func TestCompleteVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	a, _, _ := activeProcessWithDependency(t, env)

	_, err := env.checklist.Complete(context.Background(), a.ID, a.Version+1, "", userActor)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCompleteAlreadyCompletedBlocked(t *testing.T) {
	env := newTestEnv(t)
	a, _, _ := activeProcessWithDependency(t, env)

	done, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "", userActor)
	require.NoError(t, err)

	_, err = env.checklist.Complete(context.Background(), a.ID, done.Version, "", userActor)
	assert.True(t, IsBlocked(err))
}

func TestCompleteOnlyWhileProcessActive(t *testing.T) {
	env := newTestEnv(t)
	a, b, process := activeProcessWithDependency(t, env)

	_, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "", hrActor)
	require.NoError(t, err)
	done, err := env.checklist.Complete(context.Background(), b.ID, b.Version, "", hrActor)
	require.NoError(t, err)

	var current model.OffboardingProcess
	require.NoError(t, env.db.First(&current, process.ID).Error)
	_, err = env.process.Close(context.Background(), process.ID, current.Version, hrActor)
	require.NoError(t, err)

	_, err = env.checklist.Uncomplete(context.Background(), done.ID, done.Version, hrActor)
	assert.True(t, IsBlocked(err))
}

func TestUncompleteBlockedByCompletedDependent(t *testing.T) {
	env := newTestEnv(t)
	a, b, _ := activeProcessWithDependency(t, env)

	doneA, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "", userActor)
	require.NoError(t, err)
	doneB, err := env.checklist.Complete(context.Background(), b.ID, b.Version, "", userActor)
	require.NoError(t, err)

	_, err = env.checklist.Uncomplete(context.Background(), a.ID, doneA.Version, userActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "Archive mailbox")

	// 先取消依赖方,再取消被依赖任务
	undoneB, err := env.checklist.Uncomplete(context.Background(), b.ID, doneB.Version, userActor)
	require.NoError(t, err)
	assert.False(t, undoneB.IsCompleted)
	assert.Empty(t, undoneB.CompletedBy)

	undoneA, err := env.checklist.Uncomplete(context.Background(), a.ID, doneA.Version, userActor)
	require.NoError(t, err)
	assert.False(t, undoneA.IsCompleted)
}

func TestUncompleteRequiresCompleterOrHR(t *testing.T) {
	env := newTestEnv(t)
	a, _, _ := activeProcessWithDependency(t, env)

	// HR 完成,发起人不是完成人,不能取消
	done, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "", hrActor)
	require.NoError(t, err)

	_, err = env.checklist.Uncomplete(context.Background(), a.ID, done.Version, userActor)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admin 可以代为取消
	_, err = env.checklist.Uncomplete(context.Background(), a.ID, done.Version, adminActor)
	assert.NoError(t, err)
}

func TestUncompleteKeepsCommentHistory(t *testing.T) {
	env := newTestEnv(t)
	a, _, _ := activeProcessWithDependency(t, env)

	done, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "first attempt", userActor)
	require.NoError(t, err)
	_, err = env.checklist.Uncomplete(context.Background(), a.ID, done.Version, userActor)
	require.NoError(t, err)

	comments, err := env.checklist.ListComments(a.ID, userActor)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestBulkCompleteBypassesDependencyGate(t *testing.T) {
	env := newTestEnv(t)
	a, b, _ := activeProcessWithDependency(t, env)

	// 单项路径会被依赖拦截,批量路径不会
	results, err := env.checklist.BulkComplete(context.Background(), &BulkCompleteRequest{
		TaskIDs: []uint{b.ID},
	}, hrActor)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	var item model.ChecklistItem
	require.NoError(t, env.db.First(&item, b.ID).Error)
	assert.True(t, item.IsCompleted)

	var dep model.ChecklistItem
	require.NoError(t, env.db.First(&dep, a.ID).Error)
	assert.False(t, dep.IsCompleted)
}

func TestBulkCompleteSkipsMissingAndCompleted(t *testing.T) {
	env := newTestEnv(t)
	a, b, _ := activeProcessWithDependency(t, env)

	_, err := env.checklist.Complete(context.Background(), a.ID, a.Version, "", hrActor)
	require.NoError(t, err)

	results, err := env.checklist.BulkComplete(context.Background(), &BulkCompleteRequest{
		TaskIDs: []uint{a.ID, b.ID, 9999},
	}, hrActor)
	require.NoError(t, err)

	// 已完成与不存在的 ID 不产生结果行
	require.Len(t, results, 1)
	assert.Equal(t, b.ID, results[0].TaskID)
	assert.True(t, results[0].Success)
}

func TestBulkCompleteScopedToVisibleProcesses(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return badge", "IT", 0, nil)

	process := env.createProcess(t, hrActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)
	items := env.itemsFor(t, process.ID)
	require.Len(t, items, 1)

	// 范围外的任务静默跳过,不产生结果行,调用方无法区分"不存在"与"不可见"
	results, err := env.checklist.BulkComplete(context.Background(), &BulkCompleteRequest{
		TaskIDs: []uint{items[0].ID},
	}, userActor)
	require.NoError(t, err)
	assert.Empty(t, results)

	var item model.ChecklistItem
	require.NoError(t, env.db.First(&item, items[0].ID).Error)
	assert.False(t, item.IsCompleted)
}

func TestCompleteForbiddenForOtherUsersProcess(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return badge", "IT", 0, nil)

	process := env.createProcess(t, hrActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)
	items := env.itemsFor(t, process.ID)

	_, err = env.checklist.Complete(context.Background(), items[0].ID, items[0].Version, "", userActor)
	assert.ErrorIs(t, err, ErrForbidden)
}
