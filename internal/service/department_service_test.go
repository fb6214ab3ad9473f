package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailForPrefersDirectoryEntry(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.department.Create(&CreateDepartmentRequest{
		Name:         "IT",
		EmailAddress: "servicedesk@company.co.za",
	}, hrActor.Identifier)
	require.NoError(t, err)

	assert.Equal(t, "servicedesk@company.co.za", env.department.EmailFor("IT"))
}

func TestEmailForDirectoryLookupIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.department.Create(&CreateDepartmentRequest{
		Name:         "Payroll",
		EmailAddress: "pay@company.co.za",
	}, hrActor.Identifier)
	require.NoError(t, err)

	assert.Equal(t, "pay@company.co.za", env.department.EmailFor("payroll"))
}

func TestEmailForFallsBackToConfigTable(t *testing.T) {
	env := newTestEnv(t)

	// 目录中没有记录,落到配置兜底表
	assert.Equal(t, "it@company.co.za", env.department.EmailFor("IT"))
	assert.Equal(t, "payroll@company.co.za", env.department.EmailFor(" Payroll "))
}

func TestEmailForUnknownDepartmentUsesDefault(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, "hr@company.co.za", env.department.EmailFor("Facilities"))
}

func TestEmailForIgnoresInactiveDirectoryEntry(t *testing.T) {
	env := newTestEnv(t)

	department, err := env.department.Create(&CreateDepartmentRequest{
		Name:         "IT",
		EmailAddress: "servicedesk@company.co.za",
	}, hrActor.Identifier)
	require.NoError(t, err)

	inactive := false
	_, err = env.department.Update(department.ID, &UpdateDepartmentRequest{
		Name:         department.Name,
		EmailAddress: department.EmailAddress,
		IsActive:     &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "it@company.co.za", env.department.EmailFor("IT"))
}

func TestCreateDuplicateDepartmentBlocked(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.department.Create(&CreateDepartmentRequest{
		Name:         "Finance",
		EmailAddress: "finance@company.co.za",
	}, hrActor.Identifier)
	require.NoError(t, err)

	_, err = env.department.Create(&CreateDepartmentRequest{
		Name:         "finance",
		EmailAddress: "other@company.co.za",
	}, hrActor.Identifier)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestListActiveOnly(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.department.Create(&CreateDepartmentRequest{Name: "IT", EmailAddress: "it@company.co.za"}, hrActor.Identifier)
	require.NoError(t, err)
	department, err := env.department.Create(&CreateDepartmentRequest{Name: "Legacy", EmailAddress: "legacy@company.co.za"}, hrActor.Identifier)
	require.NoError(t, err)

	inactive := false
	_, err = env.department.Update(department.ID, &UpdateDepartmentRequest{
		Name:         department.Name,
		EmailAddress: department.EmailAddress,
		IsActive:     &inactive,
	})
	require.NoError(t, err)

	active, err := env.department.List(true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := env.department.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
