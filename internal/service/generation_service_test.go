package service

import (
	"testing"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProcess(t *testing.T, env *testEnv, lastWorkingDay time.Time) *model.OffboardingProcess {
	t.Helper()
	process := &model.OffboardingProcess{
		EmployeeName:        "Lindiwe Mokoena",
		JobTitle:            "Analyst",
		EmploymentStartDate: lastWorkingDay.AddDate(-3, 0, 0),
		LastWorkingDay:      lastWorkingDay,
		StartDate:           time.Now(),
		InitiatedBy:         hrActor.Identifier,
		Status:              model.StatusPendingApproval,
		Version:             1,
	}
	require.NoError(t, env.db.Create(process).Error)
	return process
}

func TestGenerateAppliesDayOffsets(t *testing.T) {
	env := newTestEnv(t)
	genSvc := NewGenerationService(repository.NewTemplateRepository(env.db))

	env.createTemplate(t, "Clear staff advances", "Payroll", -5, nil)
	env.createTemplate(t, "Return laptop", "IT", 0, nil)
	env.createTemplate(t, "Update distribution lists", "IT", 1, nil)

	lastDay := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	process := seedProcess(t, env, lastDay)

	items, err := genSvc.Generate(env.db, process)
	require.NoError(t, err)
	require.Len(t, items, 3)

	dueByName := map[string]time.Time{}
	for _, item := range items {
		require.NotNil(t, item.DueDate)
		dueByName[item.TaskName] = *item.DueDate
	}
	assert.Equal(t, lastDay.AddDate(0, 0, -5), dueByName["Clear staff advances"])
	assert.Equal(t, lastDay, dueByName["Return laptop"])
	assert.Equal(t, lastDay.AddDate(0, 0, 1), dueByName["Update distribution lists"])
}

func TestGenerateEmptyTemplateSet(t *testing.T) {
	env := newTestEnv(t)
	genSvc := NewGenerationService(repository.NewTemplateRepository(env.db))
	process := seedProcess(t, env, time.Now().AddDate(0, 0, 7))

	items, err := genSvc.Generate(env.db, process)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGenerateResolvesTemplateDependencies(t *testing.T) {
	env := newTestEnv(t)
	genSvc := NewGenerationService(repository.NewTemplateRepository(env.db))

	first := env.createTemplate(t, "Disable accounts", "IT", 0, nil)
	env.createTemplate(t, "Archive mailbox", "IT", 1, &first.ID)

	process := seedProcess(t, env, time.Now().AddDate(0, 0, 7))
	items, err := genSvc.Generate(env.db, process)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var dependent *model.ChecklistItem
	var root *model.ChecklistItem
	for i := range items {
		if items[i].DependsOnTaskID != nil {
			dependent = &items[i]
		} else {
			root = &items[i]
		}
	}
	require.NotNil(t, dependent)
	require.NotNil(t, root)
	assert.Equal(t, root.ID, *dependent.DependsOnTaskID)
	assert.Equal(t, "Archive mailbox", dependent.TaskName)
}

func TestGenerateSkipsEdgeToInactiveTemplate(t *testing.T) {
	env := newTestEnv(t)
	genSvc := NewGenerationService(repository.NewTemplateRepository(env.db))

	inactive := false
	first, err := env.template.Create(&TemplateRequest{
		TaskName:   "Disable accounts",
		Department: "IT",
		IsActive:   &inactive,
	}, hrActor)
	require.NoError(t, err)
	env.createTemplate(t, "Archive mailbox", "IT", 1, &first.ID)

	process := seedProcess(t, env, time.Now().AddDate(0, 0, 7))
	items, err := genSvc.Generate(env.db, process)
	require.NoError(t, err)

	// 停用模板不生成任务,指向它的依赖边也不建
	require.Len(t, items, 1)
	assert.Equal(t, "Archive mailbox", items[0].TaskName)
	assert.Nil(t, items[0].DependsOnTaskID)
}

func TestGenerateFreshVersionTokens(t *testing.T) {
	env := newTestEnv(t)
	genSvc := NewGenerationService(repository.NewTemplateRepository(env.db))
	env.createTemplate(t, "Return laptop", "IT", 0, nil)

	process := seedProcess(t, env, time.Now().AddDate(0, 0, 7))
	items, err := genSvc.Generate(env.db, process)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Version)
	assert.False(t, items[0].IsCompleted)
}
