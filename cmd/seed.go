/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/database"
	"github.com/AyaSox/hr-offboarding-checklist/internal/model"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with initial data",
	Long: `Seed the database with the standard departments and task templates
used for new offboarding processes. Existing rows are left untouched,
the command only inserts when the target table is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer func() {
			sqlDB, _ := db.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}
		}()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		if err := Seed(db); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}

		log.Println("Database seeding completed successfully!")
		return nil
	},
}

// Seed 写入标准部门目录与任务模板,仅在对应表为空时插入
func Seed(db *gorm.DB) error {
	now := time.Now()

	var deptCount int64
	if err := db.Model(&model.Department{}).Count(&deptCount).Error; err != nil {
		return err
	}
	if deptCount == 0 {
		departments := []model.Department{
			{Name: "IT", EmailAddress: "it@company.co.za", Description: "Information Technology Department", IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{Name: "Human Capital", EmailAddress: "hr@company.co.za", Description: "Human Resources Department", IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{Name: "Finance", EmailAddress: "finance@company.co.za", Description: "Finance Department", IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{Name: "Payroll", EmailAddress: "payroll@company.co.za", Description: "Payroll Department", IsActive: true, CreatedOn: now, CreatedBy: "System"},
		}
		if err := db.Create(&departments).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d departments", len(departments))
	}

	var tplCount int64
	if err := db.Model(&model.TaskTemplate{}).Count(&tplCount).Error; err != nil {
		return err
	}
	if tplCount == 0 {
		templates := []model.TaskTemplate{
			{TaskName: "Return laptop and hardware", Department: "IT", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Disable access cards and accounts", Department: "IT", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Update team distribution lists", Department: "IT", DaysFromLastWorkingDay: 1, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Clear staff advances", Department: "Payroll", DaysFromLastWorkingDay: -5, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Process final pay calculation", Department: "Payroll", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Credit card reconciliation", Department: "Finance", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Update termination on SAP & ESS", Department: "Human Capital", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Conduct exit interview", Department: "Human Capital", DaysFromLastWorkingDay: -1, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Collect company property", Department: "Human Capital", DaysFromLastWorkingDay: 0, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
			{TaskName: "Knowledge transfer documentation", Department: "Human Capital", DaysFromLastWorkingDay: -3, IsRequired: true, IsActive: true, CreatedOn: now, CreatedBy: "System"},
		}
		if err := db.Create(&templates).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d task templates", len(templates))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("config", "", "Config file path (default: search in current directory, ./config, or $HOME/.offboarding-gin)")
}
