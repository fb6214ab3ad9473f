package service

import (
	"fmt"

	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/AyaSox/hr-offboarding-checklist/internal/repository"
	"gorm.io/gorm"
)

// GenerationService 清单生成服务
// 审批通过时按当前启用的模板集生成清单任务,模板集在生成时刻冻结
type GenerationService interface {
	Generate(tx *gorm.DB, process *model.OffboardingProcess) ([]model.ChecklistItem, error)
}

// generationService 清单生成服务实现
type generationService struct {
	templateRepo repository.TemplateRepository
}

// NewGenerationService 创建清单生成服务
func NewGenerationService(templateRepo repository.TemplateRepository) GenerationService {
	return &generationService{templateRepo: templateRepo}
}

// Generate 按启用模板生成清单任务,在调用方事务内执行
//
// 两趟写入: 第一趟插入全部任务,第二趟把模板间依赖解析为任务间依赖。
// 依赖的模板未启用时不建边。模板集为空时返回空清单,不视为错误。
func (s *generationService) Generate(tx *gorm.DB, process *model.OffboardingProcess) ([]model.ChecklistItem, error) {
	templates, err := s.templateRepo.FindActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load active templates: %w", err)
	}
	if len(templates) == 0 {
		return []model.ChecklistItem{}, nil
	}

	// 第一趟: 插入任务,记录模板 ID 到任务的映射
	items := make([]model.ChecklistItem, len(templates))
	itemByTemplate := make(map[uint]*model.ChecklistItem, len(templates))
	for i, tpl := range templates {
		due := process.LastWorkingDay.AddDate(0, 0, tpl.DaysFromLastWorkingDay)
		items[i] = model.ChecklistItem{
			ProcessID:  process.ID,
			TaskName:   tpl.TaskName,
			Department: tpl.Department,
			DueDate:    &due,
			Version:    1,
		}
		if err := tx.Create(&items[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create checklist item: %w", err)
		}
		itemByTemplate[tpl.ID] = &items[i]
	}

	// 第二趟: 解析模板依赖为任务依赖
	for i, tpl := range templates {
		if tpl.DependsOnTemplateID == nil {
			continue
		}
		target, ok := itemByTemplate[*tpl.DependsOnTemplateID]
		if !ok {
			// 依赖目标未启用,不建边
			continue
		}
		items[i].DependsOnTaskID = &target.ID
		if err := tx.Model(&items[i]).Update("depends_on_task_id", target.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to link task dependency: %w", err)
		}
	}

	return items, nil
}
