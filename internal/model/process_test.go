package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validProcess() *OffboardingProcess {
	return &OffboardingProcess{
		EmployeeName:        "Sipho Dlamini",
		JobTitle:            "Engineer",
		EmploymentStartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		LastWorkingDay:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		InitiatedBy:         "hr@company.co.za",
		Status:              StatusPendingApproval,
	}
}

func TestProcessValidate(t *testing.T) {
	assert.NoError(t, validProcess().Validate())

	p := validProcess()
	p.EmployeeName = ""
	assert.Error(t, p.Validate())

	p = validProcess()
	p.LastWorkingDay = p.EmploymentStartDate.AddDate(-1, 0, 0)
	assert.ErrorContains(t, p.Validate(), "after employment start date")

	p = validProcess()
	p.LastWorkingDay = p.EmploymentStartDate
	assert.Error(t, p.Validate())
}

func TestProcessStateChecks(t *testing.T) {
	p := validProcess()
	assert.True(t, p.CanBeEdited())
	assert.True(t, p.CanBeApproved())
	assert.False(t, p.IsActive())

	p.Status = StatusActive
	assert.False(t, p.CanBeEdited())
	assert.False(t, p.CanBeApproved())
	assert.True(t, p.IsActive())

	p.IsClosed = true
	assert.False(t, p.IsActive())
}

func TestProcessProgress(t *testing.T) {
	p := validProcess()
	assert.Zero(t, p.Progress())

	p.ChecklistItems = []ChecklistItem{
		{TaskName: "a", IsCompleted: true},
		{TaskName: "b", IsCompleted: true},
		{TaskName: "c"},
		{TaskName: "d"},
	}
	assert.InDelta(t, 50.0, p.Progress(), 0.001)
}

func TestProcessOverdueTaskCount(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	p := validProcess()
	p.ChecklistItems = []ChecklistItem{
		{TaskName: "a", DueDate: &yesterday},
		{TaskName: "b", DueDate: &yesterday, IsCompleted: true},
		{TaskName: "c", DueDate: &tomorrow},
		{TaskName: "d"},
	}
	assert.Equal(t, 1, p.OverdueTaskCount(now))
}

func TestYearsOfService(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p := validProcess()
	p.EmploymentStartDate = time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 5.0, p.YearsOfService(now), 0.01)

	// 已关闭流程按关闭时间计算
	closedOn := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.IsClosed = true
	p.ClosedOn = &closedOn
	assert.InDelta(t, 3.0, p.YearsOfService(now), 0.01)
}
