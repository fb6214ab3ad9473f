package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/auth"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// TemplateService 任务模板服务接口
type TemplateService interface {
	Create(req *TemplateRequest, actor auth.Actor) (*model.TaskTemplate, error)
	Get(id uint) (*model.TaskTemplate, error)
	List() ([]*model.TaskTemplate, error)
	Update(id uint, req *TemplateRequest, actor auth.Actor) (*model.TaskTemplate, error)
	Delete(id uint, actor auth.Actor) error
	ImportCSV(r io.Reader, actor auth.Actor) (*ImportResult, error)
	ExportCSV() ([]byte, error)
}

// TemplateRequest 模板写入请求
// @Description 创建或更新任务模板的请求参数
type TemplateRequest struct {
	TaskName               string `json:"task_name" example:"Collect laptop" binding:"required,max=200"`   // 任务名称
	Department             string `json:"department" example:"Information Technology" binding:"required,max=100"` // 负责部门
	Description            string `json:"description" example:"Retrieve all issued hardware"`              // 描述
	DaysFromLastWorkingDay int    `json:"days_from_last_working_day" example:"-2"`                         // 相对最后工作日的偏移天数
	IsRequired             *bool  `json:"is_required"`                                                     // 是否必需,默认 true
	IsActive               *bool  `json:"is_active"`                                                       // 是否启用,默认 true
	DependsOnTemplateID    *uint  `json:"depends_on_template_id"`                                          // 依赖的模板 ID
}

// ImportResult CSV 导入结果
// @Description 模板导入的统计结果
type ImportResult struct {
	Imported int      `json:"imported"`         // 成功导入条数
	Skipped  int      `json:"skipped"`          // 跳过条数
	Errors   []string `json:"errors,omitempty"` // 逐行错误
}

// templateService 任务模板服务实现
type templateService struct {
	templateRepo repository.TemplateRepository
}

// NewTemplateService 创建任务模板服务
func NewTemplateService(templateRepo repository.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

// Create 创建模板
func (s *templateService) Create(req *TemplateRequest, actor auth.Actor) (*model.TaskTemplate, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	template := &model.TaskTemplate{
		TaskName:               req.TaskName,
		Department:             req.Department,
		Description:            req.Description,
		DaysFromLastWorkingDay: req.DaysFromLastWorkingDay,
		IsRequired:             true,
		IsActive:               true,
		DependsOnTemplateID:    req.DependsOnTemplateID,
		CreatedOn:              time.Now(),
		CreatedBy:              actor.Identifier,
	}
	if req.IsRequired != nil {
		template.IsRequired = *req.IsRequired
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkDependency(0, req.DependsOnTemplateID); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Get 获取模板详情
func (s *templateService) Get(id uint) (*model.TaskTemplate, error) {
	template, err := s.templateRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return template, nil
}

// List 模板列表
func (s *templateService) List() ([]*model.TaskTemplate, error) {
	return s.templateRepo.FindAll()
}

// Update 更新模板,依赖变更做环检查
func (s *templateService) Update(id uint, req *TemplateRequest, actor auth.Actor) (*model.TaskTemplate, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	template, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDependency(id, req.DependsOnTemplateID); err != nil {
		return nil, err
	}

	template.TaskName = req.TaskName
	template.Department = req.Department
	template.Description = req.Description
	template.DaysFromLastWorkingDay = req.DaysFromLastWorkingDay
	template.DependsOnTemplateID = req.DependsOnTemplateID
	if req.IsRequired != nil {
		template.IsRequired = *req.IsRequired
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(template); err != nil {
		return nil, err
	}
	return template, nil
}

// Delete 删除模板,存在依赖方时拦截
func (s *templateService) Delete(id uint, actor auth.Actor) error {
	if !actor.IsHROrAdmin() {
		return ErrForbidden
	}

	template, err := s.Get(id)
	if err != nil {
		return err
	}

	hasDependents, err := s.templateRepo.HasDependents(id)
	if err != nil {
		return err
	}
	if hasDependents {
		return Blocked("template %q has dependent templates and cannot be deleted, deactivate it instead", template.TaskName)
	}

	return s.templateRepo.Delete(id)
}

// checkDependency 依赖边合法性检查
// 依赖目标须存在,且沿祖先链回溯不得重访自身(防止环)
func (s *templateService) checkDependency(id uint, dependsOn *uint) error {
	if dependsOn == nil {
		return nil
	}
	if id != 0 && *dependsOn == id {
		return Blocked("template cannot depend on itself")
	}

	current, err := s.templateRepo.FindByID(*dependsOn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Blocked("dependency target template %d does not exist", *dependsOn)
		}
		return err
	}

	visited := map[uint]struct{}{}
	for current != nil && current.DependsOnTemplateID != nil {
		next := *current.DependsOnTemplateID
		if id != 0 && next == id {
			return Blocked("dependency on template %d would create a cycle", *dependsOn)
		}
		if _, seen := visited[next]; seen {
			return Blocked("template dependency chain already contains a cycle")
		}
		visited[next] = struct{}{}

		current, err = s.templateRepo.FindByID(next)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
	}
	return nil
}

// ImportCSV 从 CSV 导入模板
// 期望列: TaskName, Department, Description, DaysFromLastWorkingDay, IsRequired
// 首行为表头,逐行容错,错误行跳过并记录
func (s *templateService) ImportCSV(r io.Reader, actor auth.Actor) (*ImportResult, error) {
	if !actor.IsHROrAdmin() {
		return nil, ErrForbidden
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		line++
		if line == 1 {
			// 表头
			continue
		}
		if len(record) < 2 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: expected at least task name and department", line))
			continue
		}

		template := &model.TaskTemplate{
			TaskName:   record[0],
			Department: record[1],
			IsRequired: true,
			IsActive:   true,
			CreatedOn:  time.Now(),
			CreatedBy:  actor.Identifier,
		}
		if len(record) > 2 {
			template.Description = record[2]
		}
		if len(record) > 3 && record[3] != "" {
			days, err := strconv.Atoi(record[3])
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid day offset %q", line, record[3]))
				continue
			}
			template.DaysFromLastWorkingDay = days
		}
		if len(record) > 4 && record[4] != "" {
			required, err := strconv.ParseBool(record[4])
			if err == nil {
				template.IsRequired = required
			}
		}

		if err := template.Validate(); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if err := s.templateRepo.Save(template); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ExportCSV 导出全部模板
func (s *templateService) ExportCSV() ([]byte, error) {
	templates, err := s.templateRepo.FindAll()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"TaskName", "Department", "Description", "DaysFromLastWorkingDay", "IsRequired", "IsActive"}); err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		row := []string{
			tpl.TaskName,
			tpl.Department,
			tpl.Description,
			strconv.Itoa(tpl.DaysFromLastWorkingDay),
			strconv.FormatBool(tpl.IsRequired),
			strconv.FormatBool(tpl.IsActive),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
