package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProcessStartsPendingApproval(t *testing.T) {
	env := newTestEnv(t)

	process := env.createProcess(t, userActor)

	assert.Equal(t, model.StatusPendingApproval, process.Status)
	assert.Equal(t, 1, process.Version)
	assert.Equal(t, userActor.Identifier, process.InitiatedBy)

	// HR 与 Admin 各收到一条角色通知
	var count int64
	require.NoError(t, env.db.Model(&model.Notification{}).
		Where("recipient_role IN ?", []string{"HR", "Admin"}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreateProcessValidatesDates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.process.Create(context.Background(), &CreateProcessRequest{
		EmployeeName:        "Sipho Dlamini",
		JobTitle:            "Engineer",
		EmploymentStartDate: time.Now(),
		LastWorkingDay:      time.Now().AddDate(-1, 0, 0),
	}, userActor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last working day")
}

func TestApproveGeneratesChecklist(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)
	env.createTemplate(t, "Exit interview", "Human Capital", -1, nil)

	inactive := false
	_, err := env.template.Create(&TemplateRequest{
		TaskName:   "Old task",
		Department: "IT",
		IsActive:   &inactive,
	}, hrActor)
	require.NoError(t, err)

	process := env.createProcess(t, userActor)
	approved, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, approved.Status)
	assert.Equal(t, hrActor.Identifier, approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedOn)

	// 停用的模板不参与生成
	items := env.itemsFor(t, process.ID)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.False(t, item.IsCompleted)
		assert.Equal(t, 1, item.Version)
		require.NotNil(t, item.DueDate)
	}
}

func TestApproveRequiresHROrAdmin(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	_, err := env.process.Approve(context.Background(), process.ID, process.Version, userActor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveVersionConflict(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	_, err := env.process.Approve(context.Background(), process.ID, process.Version+5, hrActor)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApproveOnlyPendingProcesses(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	approved, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	_, err = env.process.Approve(context.Background(), process.ID, approved.Version, hrActor)
	assert.True(t, IsBlocked(err))
}

func TestRejectDefaultsReason(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	rejected, err := env.process.Reject(context.Background(), process.ID, "", process.Version, adminActor)
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "No reason provided", rejected.RejectionReason)
	assert.Equal(t, adminActor.Identifier, rejected.RejectedBy)
}

func TestRejectKeepsProvidedReason(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	rejected, err := env.process.Reject(context.Background(), process.ID, "duplicate request", process.Version, hrActor)
	require.NoError(t, err)
	assert.Equal(t, "duplicate request", rejected.RejectionReason)
}

func TestCloseBlockedByOutstandingTasks(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	process := env.createProcess(t, userActor)
	approved, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	_, err = env.process.Close(context.Background(), process.ID, approved.Version, hrActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "1 task(s) still outstanding")

	// 完成全部任务后可关闭
	items := env.itemsFor(t, process.ID)
	require.Len(t, items, 1)
	_, err = env.checklist.Complete(context.Background(), items[0].ID, items[0].Version, "", hrActor)
	require.NoError(t, err)

	closed, err := env.process.Close(context.Background(), process.ID, approved.Version, hrActor)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, closed.Status)
	assert.True(t, closed.IsClosed)
	assert.NotNil(t, closed.ClosedOn)
}

func TestCloseOnlyActiveProcesses(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	_, err := env.process.Close(context.Background(), process.ID, process.Version, hrActor)
	assert.True(t, IsBlocked(err))
}

func TestDeleteRequiresConfirmationText(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	err := env.process.Delete(context.Background(), process.ID, "delete", hrActor)
	require.True(t, IsBlocked(err))

	err = env.process.Delete(context.Background(), process.ID, DeleteConfirmationText, hrActor)
	require.NoError(t, err)

	_, err = env.process.Get(process.ID, hrActor)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCascadesRelatedData(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	process := env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	items := env.itemsFor(t, process.ID)
	require.Len(t, items, 1)
	_, err = env.checklist.AddComment(items[0].ID, "waiting on courier", userActor)
	require.NoError(t, err)

	err = env.process.Delete(context.Background(), process.ID, DeleteConfirmationText, adminActor)
	require.NoError(t, err)

	var itemCount, commentCount, notifCount int64
	require.NoError(t, env.db.Model(&model.ChecklistItem{}).Where("process_id = ?", process.ID).Count(&itemCount).Error)
	require.NoError(t, env.db.Model(&model.TaskComment{}).Count(&commentCount).Error)
	require.NoError(t, env.db.Model(&model.Notification{}).Where("related_process_id = ?", process.ID).Count(&notifCount).Error)
	assert.Zero(t, itemCount)
	assert.Zero(t, commentCount)
	assert.Zero(t, notifCount)
}

func TestDeleteClosedProcessBlocked(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)
	approved, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)
	_, err = env.process.Close(context.Background(), process.ID, approved.Version, hrActor)
	require.NoError(t, err)

	err = env.process.Delete(context.Background(), process.ID, DeleteConfirmationText, hrActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "record keeping")
}

func TestDeleteActiveWithCompletedTasksBlocked(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	process := env.createProcess(t, userActor)
	_, err := env.process.Approve(context.Background(), process.ID, process.Version, hrActor)
	require.NoError(t, err)

	items := env.itemsFor(t, process.ID)
	_, err = env.checklist.Complete(context.Background(), items[0].ID, items[0].Version, "", hrActor)
	require.NoError(t, err)

	err = env.process.Delete(context.Background(), process.ID, DeleteConfirmationText, hrActor)
	assert.True(t, IsBlocked(err))
}

func TestUpdateOnlyWhileEditable(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, userActor)

	updated, err := env.process.Update(context.Background(), process.ID, &UpdateProcessRequest{
		EmployeeName:        "Sipho Dlamini",
		JobTitle:            "Senior Engineer",
		EmploymentStartDate: process.EmploymentStartDate,
		LastWorkingDay:      process.LastWorkingDay,
		Version:             process.Version,
	}, userActor)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", updated.JobTitle)
	assert.Equal(t, 2, updated.Version)

	_, err = env.process.Approve(context.Background(), process.ID, updated.Version, hrActor)
	require.NoError(t, err)

	_, err = env.process.Update(context.Background(), process.ID, &UpdateProcessRequest{
		EmployeeName:        "Sipho Dlamini",
		JobTitle:            "Principal Engineer",
		EmploymentStartDate: process.EmploymentStartDate,
		LastWorkingDay:      process.LastWorkingDay,
		Version:             3,
	}, userActor)
	assert.True(t, IsBlocked(err))
}

func TestListScopedToInitiator(t *testing.T) {
	env := newTestEnv(t)
	env.createProcess(t, userActor)
	env.createProcess(t, hrActor)

	mine, total, err := env.process.List(nil, userActor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, mine, 1)
	assert.Equal(t, userActor.Identifier, mine[0].InitiatedBy)

	all, total, err := env.process.List(nil, hrActor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestGetForbiddenForOtherInitiator(t *testing.T) {
	env := newTestEnv(t)
	process := env.createProcess(t, hrActor)

	_, err := env.process.Get(process.ID, userActor)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.process.Get(process.ID, adminActor)
	assert.NoError(t, err)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.createProcess(t, userActor)

	data, err := env.process.ExportCSV(&repository.ProcessFilter{}, hrActor)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Employee Name")
	assert.Contains(t, lines[1], "Sipho Dlamini")
}
