package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemplateDefaults(t *testing.T) {
	env := newTestEnv(t)

	template := env.createTemplate(t, "Return laptop", "IT", -2, nil)
	assert.True(t, template.IsRequired)
	assert.True(t, template.IsActive)
	assert.Equal(t, -2, template.DaysFromLastWorkingDay)
	assert.Equal(t, hrActor.Identifier, template.CreatedBy)
}

func TestCreateTemplateRequiresHROrAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.template.Create(&TemplateRequest{
		TaskName:   "Return laptop",
		Department: "IT",
	}, userActor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTemplateSelfDependencyRejected(t *testing.T) {
	env := newTestEnv(t)
	template := env.createTemplate(t, "Return laptop", "IT", 0, nil)

	_, err := env.template.Update(template.ID, &TemplateRequest{
		TaskName:            template.TaskName,
		Department:          template.Department,
		DependsOnTemplateID: &template.ID,
	}, hrActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "itself")
}

func TestTemplateDependencyCycleRejected(t *testing.T) {
	env := newTestEnv(t)
	a := env.createTemplate(t, "Disable accounts", "IT", 0, nil)
	b := env.createTemplate(t, "Archive mailbox", "IT", 1, &a.ID)
	c := env.createTemplate(t, "Wipe laptop", "IT", 2, &b.ID)

	// a → c 会经 c → b → a 成环
	_, err := env.template.Update(a.ID, &TemplateRequest{
		TaskName:            a.TaskName,
		Department:          a.Department,
		DependsOnTemplateID: &c.ID,
	}, hrActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "cycle")
}

func TestTemplateDependencyTargetMustExist(t *testing.T) {
	env := newTestEnv(t)
	missing := uint(9999)

	_, err := env.template.Create(&TemplateRequest{
		TaskName:            "Archive mailbox",
		Department:          "IT",
		DependsOnTemplateID: &missing,
	}, hrActor)
	assert.True(t, IsBlocked(err))
}

func TestDeleteTemplateWithDependentsBlocked(t *testing.T) {
	env := newTestEnv(t)
	a := env.createTemplate(t, "Disable accounts", "IT", 0, nil)
	b := env.createTemplate(t, "Archive mailbox", "IT", 1, &a.ID)

	err := env.template.Delete(a.ID, hrActor)
	require.True(t, IsBlocked(err))
	assert.Contains(t, err.Error(), "deactivate")

	// 叶子模板可删,随后被依赖方也可删
	require.NoError(t, env.template.Delete(b.ID, hrActor))
	require.NoError(t, env.template.Delete(a.ID, hrActor))
}

func TestImportCSVToleratesBadLines(t *testing.T) {
	env := newTestEnv(t)

	csvData := strings.Join([]string{
		"TaskName,Department,Description,DaysFromLastWorkingDay,IsRequired",
		"Return laptop,IT,Collect hardware,0,true",
		"Exit interview,Human Capital,,-1,false",
		"Missing department",
		"Bad offset,IT,,abc,true",
	}, "\n")

	result, err := env.template.ImportCSV(strings.NewReader(csvData), hrActor)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)

	templates, err := env.template.List()
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}

func TestImportCSVRequiresHROrAdmin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.template.ImportCSV(strings.NewReader("TaskName,Department\nX,IT\n"), userActor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExportCSVRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.createTemplate(t, "Return laptop", "IT", -2, nil)

	data, err := env.template.ExportCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "TaskName")
	assert.Contains(t, lines[1], "Return laptop")
	assert.Contains(t, lines[1], "-2")
}
