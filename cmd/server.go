/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AyaSox/hr-offboarding-checklist/internal/api"
	"github.com/AyaSox/hr-offboarding-checklist/internal/config"
	"github.com/AyaSox/hr-offboarding-checklist/internal/container"
	"github.com/AyaSox/hr-offboarding-checklist/internal/metrics"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Offboarding Gin API server.
The server will listen on the configured host and port,
and provide REST API interfaces for offboarding process tracking.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 初始化日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// 3. 配置热更新: 仅动态调整日志级别,其余变更需重启生效
		if configPath != "" {
			watcher := config.NewWatcher(cfg, configPath)
			watcher.OnChange(func(newCfg *config.Config) {
				level, err := logrus.ParseLevel(newCfg.Log.Level)
				if err != nil {
					logger.WithError(err).Warn("invalid log level in reloaded config")
					return
				}
				api.SetLoggerLevel(level)
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("config watcher not started")
			} else {
				defer watcher.Stop()
			}
		}

		// 4. 初始化容器(数据库连接、迁移、仓储与服务)
		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 5. 启动提醒扫描循环
		reminderCtx, cancelReminder := context.WithCancel(context.Background())
		defer cancelReminder()
		if cfg.Reminder.Enabled {
			ctr.ReminderService().Start(reminderCtx)
			logger.WithField("interval_hours", cfg.Reminder.IntervalHours).
				Info("reminder sweep started")
		}

		// 6. 启动指标收集器
		collector := metrics.NewCollector(ctr.DB(), time.Minute)
		collector.Start()
		defer collector.Stop()

		// 7. 设置路由并启动服务器
		router := api.SetupRoutes(ctr.DB(), ctr.TokenValidator(), cfg, ctr.Services())

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("failed to start server")
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server")

		// 先停提醒循环,再优雅关闭 HTTP
		if cfg.Reminder.Enabled {
			ctr.ReminderService().Stop()
		}
		cancelReminder()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Fatal("server forced to shutdown")
		}

		logger.Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}

// LoadConfig 加载配置
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}
